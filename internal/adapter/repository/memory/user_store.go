package memory

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	domain "taskmaster-user-service/internal/domain/user"
)

// UserStore keeps user records in process memory, in insertion order.
// Records are copied on the way in and out so callers never share state with the store.
// Each method is atomic on its own; sequences of calls are not.
type UserStore struct {
	mu     sync.RWMutex
	users  []domain.User
	nextID int64
	log    *zap.Logger
}

// NewUserStore creates a store holding the given records.
// The id counter starts one past the largest seeded id.
func NewUserStore(log *zap.Logger, seed ...domain.User) *UserStore {
	s := &UserStore{
		users:  make([]domain.User, 0, len(seed)),
		nextID: 1,
		log:    log,
	}
	for _, u := range seed {
		s.users = append(s.users, u)
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

// NewSeededUserStore creates a store holding the fixture users.
func NewSeededUserStore(log *zap.Logger) *UserStore {
	return NewUserStore(log, domain.SeedUsers()...)
}

// List returns every record in insertion order.
func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, len(s.users))
	copy(users, s.users)
	return users, nil
}

// FindByID returns the record with the given id, or nil when there is none.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	u := s.users[i]
	return &u, nil
}

// FindByEmail returns the record whose email matches exactly, or nil when there is none.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// NextID reserves and returns the next identifier.
func (s *UserStore) NextID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	return id, nil
}

// Insert appends u. The caller supplies the id, normally from NextID.
func (s *UserStore) Insert(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = append(s.users, *u)
	if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}
	s.log.Debug("user inserted", zap.Int64("id", u.ID))
	return nil
}

// Replace overwrites the record with the given id. It is a no-op when the id is absent.
func (s *UserStore) Replace(ctx context.Context, id int64, u *domain.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.log.Debug("replace skipped, user not found", zap.Int64("id", id))
		return nil
	}
	replacement := *u
	replacement.ID = id
	s.users[i] = replacement
	s.log.Debug("user replaced", zap.Int64("id", id))
	return nil
}

// indexOf must be called with mu held.
func (s *UserStore) indexOf(id int64) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}
