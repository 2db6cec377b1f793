package services

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
)

// memoryStore is an OrderStore backed by maps. onCreate runs just before the
// conditional insert so tests can inject a competing delivery.
type memoryStore struct {
	mu       sync.Mutex
	nextID   uint
	orders   map[string]*models.Order
	products map[string]*models.Product
	variants map[uint]*models.ProductVariant
	writes   int
	onCreate func()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		orders:   map[string]*models.Order{},
		products: map[string]*models.Product{},
		variants: map[uint]*models.ProductVariant{},
	}
}

func (m *memoryStore) addProduct(p models.Product) *models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.products[p.Slug] = &p
	for i := range p.Variants {
		m.nextID++
		p.Variants[i].ID = m.nextID
		p.Variants[i].ProductID = p.ID
		v := p.Variants[i]
		m.variants[v.ID] = &v
	}
	return &p
}

func (m *memoryStore) FindOrderByExternalID(_ context.Context, externalID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[externalID]
	if !ok {
		return nil, apperr.NotFound("order")
	}
	cp := *o
	return &cp, nil
}

func (m *memoryStore) CreateOrder(_ context.Context, order *models.Order) (bool, error) {
	if m.onCreate != nil {
		hook := m.onCreate
		m.onCreate = nil
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.orders[order.ExternalOrderID]; exists {
		return false, nil
	}
	m.nextID++
	order.ID = m.nextID
	for i := range order.Items {
		m.nextID++
		order.Items[i].ID = m.nextID
		order.Items[i].OrderID = order.ID
	}
	cp := *order
	cp.Items = append([]models.OrderItem(nil), order.Items...)
	m.orders[order.ExternalOrderID] = &cp
	m.writes++
	return true, nil
}

func (m *memoryStore) UpdateOrderStatus(_ context.Context, order *models.Order, status models.OrderStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[order.ExternalOrderID]
	if !ok {
		return apperr.NotFound("order")
	}
	stored.Status = status
	if status == models.StatusPaid && stored.PaidAt == nil {
		stored.PaidAt = &at
	}
	*order = *stored
	m.writes++
	return nil
}

func (m *memoryStore) FindProductBySlug(_ context.Context, slug string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[slug]
	if !ok {
		return nil, apperr.NotFound("product")
	}
	return p, nil
}

func (m *memoryStore) FindVariant(_ context.Context, productID, variantID uint) (*models.ProductVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.variants[variantID]
	if !ok || v.ProductID != productID {
		return nil, apperr.NotFound("variant")
	}
	return v, nil
}

func (m *memoryStore) itemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.orders {
		n += len(o.Items)
	}
	return n
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []OrderEvent
}

func (r *recordingPublisher) FireAsync(_ context.Context, _ string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, payload.(OrderEvent))
}

func (r *recordingPublisher) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}
