package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/models"
)

// MemoryStore keeps users and sweets in process memory. A single mutex
// guards both collections, so every check-then-write runs as one step.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]models.User
	emails map[string]string
	sweets map[string]models.Sweet
	order  []string
	now    func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]models.User),
		emails: make(map[string]string),
		sweets: make(map[string]models.Sweet),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Users returns a UserRepository view of the store.
func (s *MemoryStore) Users() UserRepository {
	return &memoryUserRepository{store: s}
}

// Sweets returns a SweetRepository view of the store.
func (s *MemoryStore) Sweets() SweetRepository {
	return &memorySweetRepository{store: s}
}

type memoryUserRepository struct {
	store *MemoryStore
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, fmt.Errorf("failed to find user by email %s: %w", email, ErrNotFound)
	}
	user := s.users[id]
	return &user, nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("failed to find user by id %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

func (r *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[user.Email]; exists {
		return fmt.Errorf("failed to create user: %w", ErrDuplicate)
	}
	if _, exists := s.users[user.ID]; exists {
		return fmt.Errorf("failed to create user: %w", ErrDuplicate)
	}
	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	s.emails[user.Email] = user.ID
	return nil
}

type memorySweetRepository struct {
	store *MemoryStore
}

func (r *memorySweetRepository) List(ctx context.Context) ([]models.Sweet, error) {
	return r.Search(ctx, models.CatalogQuery{})
}

func (r *memorySweetRepository) Search(ctx context.Context, query models.CatalogQuery) ([]models.Sweet, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	sweets := []models.Sweet{}
	for _, id := range s.order {
		sweet := s.sweets[id]
		if query.Matches(&sweet) {
			sweets = append(sweets, sweet)
		}
	}
	return sweets, nil
}

func (r *memorySweetRepository) FindByID(ctx context.Context, id string) (*models.Sweet, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	sweet, ok := s.sweets[id]
	if !ok {
		return nil, fmt.Errorf("failed to find sweet %s: %w", id, ErrNotFound)
	}
	return &sweet, nil
}

func (r *memorySweetRepository) Create(ctx context.Context, sweet *models.Sweet) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sweets[sweet.ID]; exists {
		return fmt.Errorf("failed to create sweet: %w", ErrDuplicate)
	}
	now := s.now()
	sweet.CreatedAt = now
	sweet.UpdatedAt = now
	s.sweets[sweet.ID] = *sweet
	s.order = append(s.order, sweet.ID)
	return nil
}

func (r *memorySweetRepository) Update(ctx context.Context, id string, patch models.SweetPatch) (*models.Sweet, error) {
	return r.mutate(id, func(sweet *models.Sweet) error {
		patch.Apply(sweet)
		return nil
	})
}

func (r *memorySweetRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sweets[id]; !ok {
		return fmt.Errorf("failed to delete sweet %s: %w", id, ErrNotFound)
	}
	delete(s.sweets, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memorySweetRepository) Decrement(ctx context.Context, id string, quantity int) (*models.Sweet, error) {
	return r.mutate(id, func(sweet *models.Sweet) error {
		if sweet.Quantity < quantity {
			return fmt.Errorf("sweet %s holds %d: %w", id, sweet.Quantity, ErrInsufficientStock)
		}
		sweet.Quantity -= quantity
		return nil
	})
}

func (r *memorySweetRepository) Increment(ctx context.Context, id string, quantity int) (*models.Sweet, error) {
	return r.mutate(id, func(sweet *models.Sweet) error {
		if quantity > models.MaxQuantity-sweet.Quantity {
			return fmt.Errorf("sweet %s holds %d: %w", id, sweet.Quantity, ErrStockLimit)
		}
		sweet.Quantity += quantity
		return nil
	})
}

// mutate applies change to a copy of the record under the write lock and
// stores it only when change succeeds.
func (r *memorySweetRepository) mutate(id string, change func(*models.Sweet) error) (*models.Sweet, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	sweet, ok := s.sweets[id]
	if !ok {
		return nil, fmt.Errorf("failed to find sweet %s: %w", id, ErrNotFound)
	}
	if err := change(&sweet); err != nil {
		return nil, err
	}
	sweet.UpdatedAt = s.now()
	s.sweets[id] = sweet
	return &sweet, nil
}
