package catalog

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("catalog: not found")
	ErrDuplicateSKU = errors.New("catalog: duplicate sku")
)

// Store keeps the catalog in memory.
type Store struct {
	mu         sync.RWMutex
	products   map[uuid.UUID]*Product
	order      []uuid.UUID
	categories []Category
	orders     map[uuid.UUID]*Order
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		products: make(map[uuid.UUID]*Product),
		orders:   make(map[uuid.UUID]*Order),
		now:      time.Now,
		categories: []Category{
			{ID: 1, Name: "Books", Slug: "books", Children: []Category{
				{ID: 2, Name: "Fiction", Slug: "fiction"},
				{ID: 3, Name: "Science", Slug: "science"},
			}},
			{ID: 4, Name: "Music", Slug: "music"},
		},
	}
}

func (s *Store) ListProducts(q ProductQuery) Page[Product] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Product
	for _, id := range s.order {
		p := s.products[id]
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.CategoryID != 0 && p.CategoryID != q.CategoryID {
			continue
		}
		if len(q.Tags) > 0 && !slices.ContainsFunc(p.Tags, func(tag string) bool {
			return slices.Contains(q.Tags, tag)
		}) {
			continue
		}
		matched = append(matched, *p)
	}

	page := Page[Product]{Items: []Product{}, Total: len(matched), Limit: q.Limit, Offset: q.Offset}
	if int(q.Offset) < len(matched) {
		end := min(int(q.Offset)+int(q.Limit), len(matched))
		page.Items = matched[q.Offset:end]
	}
	return page
}

func (s *Store) SearchProducts(text string) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text = strings.ToLower(text)
	found := []Product{}
	for _, id := range s.order {
		p := s.products[id]
		if strings.Contains(strings.ToLower(p.Name), text) || strings.Contains(strings.ToLower(p.Description), text) {
			found = append(found, *p)
		}
	}
	return found
}

func (s *Store) Product(id uuid.UUID) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return *p, nil
}

func (s *Store) ProductBySKU(sku string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.SKU == sku {
			return *p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (s *Store) CreateProduct(in NewProduct) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.skuTaken(in.SKU, uuid.Nil) {
		return Product{}, ErrDuplicateSKU
	}

	p := &Product{ID: uuid.New(), CreatedAt: s.now().UTC()}
	p.apply(in)
	s.products[p.ID] = p
	s.order = append(s.order, p.ID)
	return *p, nil
}

func (s *Store) UpdateProduct(id uuid.UUID, in NewProduct) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	if s.skuTaken(in.SKU, id) {
		return Product{}, ErrDuplicateSKU
	}

	p.apply(in)
	updated := s.now().UTC()
	p.UpdatedAt = &updated
	return *p, nil
}

func (s *Store) DeleteProduct(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	s.order = slices.DeleteFunc(s.order, func(v uuid.UUID) bool { return v == id })
	return nil
}

func (s *Store) skuTaken(sku string, except uuid.UUID) bool {
	for id, p := range s.products {
		if id != except && p.SKU == sku {
			return true
		}
	}
	return false
}

func (p *Product) apply(in NewProduct) {
	p.SKU = in.SKU
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Currency = in.Currency
	p.Status = in.Status
	if p.Status == "" {
		p.Status = StatusDraft
	}
	p.Tags = in.Tags
	p.CategoryID = in.CategoryID
	p.Attributes = in.Attributes
}

func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

func (s *Store) Category(id int64) (Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := findCategory(s.categories, id); ok {
		return c, nil
	}
	return Category{}, ErrNotFound
}

func findCategory(nodes []Category, id int64) (Category, bool) {
	for _, c := range nodes {
		if c.ID == id {
			return c, true
		}
		if found, ok := findCategory(c.Children, id); ok {
			return found, true
		}
	}
	return Category{}, false
}

func (s *Store) PlaceOrder(in NewOrder) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := &Order{
		ID:        uuid.New(),
		Lines:     in.Lines,
		Status:    OrderPending,
		Payment:   in.Payment,
		CreatedAt: s.now().UTC(),
	}
	for _, line := range in.Lines {
		p, ok := s.products[line.ProductID]
		if !ok {
			return Order{}, ErrNotFound
		}
		if o.Currency == "" {
			o.Currency = p.Currency
		}
		o.Total += p.Price * float64(line.Quantity)
	}

	s.orders[o.ID] = o
	return *o, nil
}

func (s *Store) Order(id uuid.UUID) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return *o, nil
}
