package bazaar

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory Repo used by the tests and for running the
// service without a database.
type MemoryRepo struct {
	mu       sync.Mutex
	products []Product
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) ListBySeller(_ context.Context, sellerID string) []Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Product
	for _, p := range m.products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *MemoryRepo) GetByID(_ context.Context, id string) *Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.products {
		if p.ID == id {
			cp := p
			return &cp
		}
	}
	return nil
}

func (m *MemoryRepo) Add(_ context.Context, p NewProduct) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	product := Product{
		ID:          uuid.NewString(),
		SellerID:    p.SellerID,
		Image:       p.Image,
		Price:       p.Price,
		Description: p.Description,
		CreatedAt:   time.Now(),
	}
	m.products = append(m.products, product)

	cp := product
	return &cp, nil
}
