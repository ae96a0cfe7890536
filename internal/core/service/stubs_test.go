package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/usermanagement/accounts/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[int64]*domain.User
	nextID  int64
	saves   int
	deletes int
	findErr error // if set, FindByUsername returns this error
	saveErr error // if set, Save returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

// seed stores u directly, bypassing the save counter.
func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	c := cloneUser(u)
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	}
	r.users[c.ID] = c
	return cloneUser(c)
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneUser(r.users[id]))
	}
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Save(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	r.saves++
	c := cloneUser(u)
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	}
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) Delete(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.deletes++
	delete(r.users, u.ID)
	return nil
}

type stubRoleRepo struct {
	roles  []domain.Role
	saved  int
	errFor map[string]error
}

func newStubRoleRepo(roles ...domain.Role) *stubRoleRepo {
	return &stubRoleRepo{roles: roles, errFor: make(map[string]error)}
}

func (r *stubRoleRepo) FindAll(_ context.Context) ([]domain.Role, error) {
	return append([]domain.Role(nil), r.roles...), nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	if err := r.errFor[name]; err != nil {
		return nil, err
	}
	for _, role := range r.roles {
		if role.Name == name {
			found := role
			return &found, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) Save(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.saved++
	saved := *role
	if saved.ID == 0 {
		saved.ID = int64(len(r.roles) + 1)
	}
	r.roles = append(r.roles, saved)
	return &saved, nil
}

type stubSessionStore struct {
	sessions  map[string]domain.Caller
	ttls      map[string]time.Duration
	createErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{
		sessions: make(map[string]domain.Caller),
		ttls:     make(map[string]time.Duration),
	}
}

func (s *stubSessionStore) Create(_ context.Context, id string, caller domain.Caller, ttl time.Duration) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.sessions[id] = caller
	s.ttls[id] = ttl
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Caller, error) {
	c, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNoActiveSession
	}
	return &c, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

var errBoom = errors.New("boom")

func testHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func mustHash(plain string) string {
	h, err := testHasher().Hash(plain)
	if err != nil {
		panic(err)
	}
	return h
}

var (
	adminRole = domain.Role{ID: 1, Name: domain.RoleNameAdmin, Description: domain.AuthorityAdmin}
	userRole  = domain.Role{ID: 2, Name: domain.RoleNameUser, Description: domain.AuthorityUser}

	adminCaller = &domain.Caller{Username: "admin", Authorities: []string{domain.AuthorityAdmin}}
	plainCaller = &domain.Caller{Username: "imane", Authorities: []string{domain.AuthorityUser}}
)
