package v1_test

import (
	"context"
	"strings"
	"sync"

	"github.com/duynhne/customer-service/internal/core/domain"
)

// In-memory repositories used to drive the real services in tests.

type memCustomerRepo struct {
	mu    sync.Mutex
	seq   int64
	items map[int64]domain.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{items: make(map[int64]domain.Customer)}
}

func (r *memCustomerRepo) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c.ID = r.seq
	r.items[c.ID] = *c
	return c, nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

func (r *memCustomerRepo) GetAll(_ context.Context) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Customer{}
	for i := int64(1); i <= r.seq; i++ {
		if c, ok := r.items[i]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCustomerRepo) GetByPhoneNumber(_ context.Context, phone string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.PhoneNumber == phone {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (r *memCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.Email == email {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func containsFold(s, fragment string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(fragment))
}

func (r *memCustomerRepo) search(match func(domain.Customer) bool) []domain.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Customer{}
	for i := int64(1); i <= r.seq; i++ {
		if c, ok := r.items[i]; ok && match(c) {
			out = append(out, c)
		}
	}
	return out
}

func (r *memCustomerRepo) SearchByFirstName(_ context.Context, fragment string) ([]domain.Customer, error) {
	return r.search(func(c domain.Customer) bool { return containsFold(c.FirstName, fragment) }), nil
}

func (r *memCustomerRepo) SearchByLastName(_ context.Context, fragment string) ([]domain.Customer, error) {
	return r.search(func(c domain.Customer) bool { return containsFold(c.LastName, fragment) }), nil
}

func (r *memCustomerRepo) SearchByFullName(_ context.Context, firstFragment, lastFragment string) ([]domain.Customer, error) {
	return r.search(func(c domain.Customer) bool {
		return containsFold(c.FirstName, firstFragment) && containsFold(c.LastName, lastFragment)
	}), nil
}

func (r *memCustomerRepo) SearchByAddress(_ context.Context, fragment string) ([]domain.Customer, error) {
	return r.search(func(c domain.Customer) bool { return containsFold(c.Address, fragment) }), nil
}

func (r *memCustomerRepo) Update(_ context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	r.items[c.ID] = *c
	return nil
}

func (r *memCustomerRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.items, id)
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]domain.User)}
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	u.ID = r.seq
	r.users[u.Username] = *u
	return u, nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}
