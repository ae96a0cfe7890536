// Command server runs the accounts HTTP API.
//
//	@title			Accounts API
//	@version		1.0
//	@description	User accounts, roles, login sessions and password changes.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/usermanagement/accounts/internal/api"
	"github.com/usermanagement/accounts/internal/api/handler"
	"github.com/usermanagement/accounts/internal/core/domain"
	"github.com/usermanagement/accounts/internal/core/ports"
	"github.com/usermanagement/accounts/internal/core/service"
	"github.com/usermanagement/accounts/internal/infrastructure/config"
	mongodb "github.com/usermanagement/accounts/internal/infrastructure/db/mongo"
	redisdb "github.com/usermanagement/accounts/internal/infrastructure/db/redis"
	"github.com/usermanagement/accounts/internal/infrastructure/http/handlers"
	"github.com/usermanagement/accounts/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Pretty: true}).Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: "accounts",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	roleRepo := mongodb.NewRoleRepository(db)
	userRepo := mongodb.NewUserRepository(db, roleRepo)
	if err := mongodb.EnsureIndexes(ctx, roleRepo, userRepo); err != nil {
		return err
	}

	// --- Services ---
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	identities := service.NewIdentityService(userRepo)
	roleService := service.NewRoleService(roleRepo, log)
	userService := service.NewUserService(userRepo, hasher, log)
	authService := service.NewAuthService(
		identities,
		hasher,
		redisdb.NewSessionStore(rdb),
		cfg.Session.Secret,
		cfg.Session.TTL,
		log,
	)

	if err := roleService.EnsureDefaults(ctx); err != nil {
		return err
	}
	if err := bootstrapAdmin(ctx, cfg.Bootstrap, identities, roleService, userService, log); err != nil {
		return err
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Users: userService,
		Roles: roleService,
		Auth:  authService,
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL,
		},
		Readiness: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// bootstrapAdmin creates the configured administrator when it does not exist.
func bootstrapAdmin(
	ctx context.Context,
	cfg config.BootstrapConfig,
	identities ports.IdentityLoader,
	roles ports.RoleService,
	users ports.UserService,
	log zerolog.Logger,
) error {
	if cfg.AdminUsername == "" {
		return nil
	}

	_, err := identities.LoadPrincipal(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUnknownIdentity) {
		return err
	}

	adminRoles, err := roles.ResolveRoles(ctx, []string{domain.RoleNameAdmin})
	if err != nil {
		return err
	}
	created, err := users.CreateUser(ctx, &domain.User{
		Username:        cfg.AdminUsername,
		Password:        cfg.AdminPassword,
		ConfirmPassword: cfg.AdminPassword,
		Roles:           adminRoles,
	})
	if err != nil {
		return err
	}

	log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("bootstrap administrator created")
	return nil
}
