package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/usermanagement/accounts/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository stores users with role references by id; roles are joined
// back in on every read.
type UserRepository struct {
	col   *mongo.Collection
	seq   *sequence
	roles *RoleRepository
}

func NewUserRepository(db *mongo.Database, roles *RoleRepository) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers), seq: newSequence(db), roles: roles}
}

type userDoc struct {
	ID        int64     `bson:"_id"`
	Username  string    `bson:"username"`
	Password  string    `bson:"password"`
	FirstName string    `bson:"first_name"`
	LastName  string    `bson:"last_name"`
	Email     string    `bson:"email,omitempty"`
	RoleIDs   []int64   `bson:"role_ids"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:        u.ID,
		Username:  u.Username,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		RoleIDs:   u.RoleIDs(),
		CreatedAt: storedTime(u.CreatedAt),
		UpdatedAt: storedTime(u.UpdatedAt),
	}
}

func (d userDoc) toDomain(roles map[int64]domain.Role) *domain.User {
	u := &domain.User{
		ID:        d.ID,
		Username:  d.Username,
		Password:  d.Password,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Roles:     make([]domain.Role, 0, len(d.RoleIDs)),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	for _, id := range d.RoleIDs {
		if role, ok := roles[id]; ok {
			u.Roles = append(u.Roles, role)
		}
	}
	return u
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	var ids []int64
	for _, d := range docs {
		ids = append(ids, d.RoleIDs...)
	}
	roles, err := r.roles.findByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain(roles))
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	roles, err := r.roles.findByIDs(ctx, d.RoleIDs)
	if err != nil {
		return nil, err
	}
	return d.toDomain(roles), nil
}

// Save inserts when ID is zero and replaces the whole document otherwise.
// Concurrent saves of the same user are last-write-wins.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	d := toUserDoc(user)
	if d.ID == 0 {
		id, err := r.seq.next(ctx, collectionUsers)
		if err != nil {
			return nil, err
		}
		d.ID = id
		if _, err := r.col.InsertOne(ctx, d); err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
	} else {
		res, err := r.col.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
		if err != nil {
			return nil, fmt.Errorf("replace user: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrUserNotFound
		}
	}

	saved := *user
	saved.ID = d.ID
	saved.ConfirmPassword = ""
	saved.CreatedAt = d.CreatedAt
	saved.UpdatedAt = d.UpdatedAt
	saved.Roles = append([]domain.Role(nil), user.Roles...)
	return &saved, nil
}

func (r *UserRepository) Delete(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": user.ID})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes indexes usernames for lookup. Uniqueness is checked by the
// service, not by the index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetName("username_lookup"),
	})
	return err
}

// storedTime truncates to the millisecond precision of a BSON datetime.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
