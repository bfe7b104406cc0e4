package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Rajangupta9/taskmanager/models"
)

// MemoryStore keeps everything in maps. It backs the tests and the "memory"
// database driver.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[int64]*models.User
	tasks      map[int64]*models.Task
	nextUserID int64
	nextTaskID int64
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]*models.User),
		tasks: make(map[int64]*models.Task),
		now:   time.Now,
	}
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }
func (s *MemoryStore) Ping(context.Context) error    { return nil }
func (s *MemoryStore) Close(context.Context) error   { return nil }

// User methods

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrDuplicate
		}
	}

	s.nextUserID++
	u.ID = s.nextUserID
	now := s.now()
	u.CreatedAt, u.UpdatedAt = now, now

	stored := *u
	s.users[u.ID] = &stored
	return nil
}

func (s *MemoryStore) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *MemoryStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Username == username })
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Email == email })
}

func (s *MemoryStore) findUser(match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateUser(_ context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	for _, other := range s.users {
		if other.ID == id {
			continue
		}
		if (patch.Username != nil && other.Username == *patch.Username) ||
			(patch.Email != nil && other.Email == *patch.Email) {
			return nil, ErrDuplicate
		}
	}

	patch.Apply(u)
	u.UpdatedAt = s.now()
	out := *u
	return &out, nil
}

// Task methods

func (s *MemoryStore) CreateTask(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTaskID++
	t.ID = s.nextTaskID
	now := s.now()
	t.CreatedAt, t.UpdatedAt = now, now

	stored := *t
	s.tasks[t.ID] = &stored
	return nil
}

func (s *MemoryStore) FindTask(_ context.Context, id, ownerID int64) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, ErrNotFound
	}
	out := *t
	return &out, nil
}

func (s *MemoryStore) QueryTasks(_ context.Context, q TaskQuery) ([]models.Task, error) {
	s.mu.RLock()
	out := make([]models.Task, 0)
	for _, t := range s.tasks {
		if q.Matches(t) {
			out = append(out, *t)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.Task) int {
		switch q.Order {
		case OrderAsc:
			if c := cmp.Compare(a.DueDate, b.DueDate); c != 0 {
				return c
			}
		case OrderDesc:
			if c := cmp.Compare(b.DueDate, a.DueDate); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) UpdateOwnedTask(_ context.Context, id, ownerID int64, patch models.TaskPatch) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, ErrNotFound
	}
	patch.Apply(t)
	t.UpdatedAt = s.now()
	out := *t
	return &out, nil
}

func (s *MemoryStore) DeleteOwnedTask(_ context.Context, id, ownerID int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, ErrNotFound
	}
	delete(s.tasks, id)
	return t, nil
}
