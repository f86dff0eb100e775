package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"puravida/internal/domain"
	"puravida/internal/mail"
)

// fakeCMS is an in-memory Content that counts backend calls.
type fakeCMS struct {
	mu       sync.Mutex
	posts    []domain.Post
	authors  []domain.Author
	cats     []domain.Category
	products []domain.Product
	err      error
	calls    int
}

func (f *fakeCMS) hit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeCMS) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeCMS) Posts() ([]domain.Post, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return append([]domain.Post{}, f.posts...), nil
}

func (f *fakeCMS) Post(slug string) (*domain.Post, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	for _, p := range f.posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeCMS) postsWhere(match func(domain.Post) bool) ([]domain.Post, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	out := []domain.Post{}
	for _, p := range f.posts {
		if match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCMS) PostsByCategory(id string) ([]domain.Post, error) {
	return f.postsWhere(func(p domain.Post) bool {
		return p.Metadata != nil && p.Metadata.Category != nil && p.Metadata.Category.ID == id
	})
}

func (f *fakeCMS) PostsByAuthor(id string) ([]domain.Post, error) {
	return f.postsWhere(func(p domain.Post) bool {
		return p.Metadata != nil && p.Metadata.Author != nil && p.Metadata.Author.ID == id
	})
}

func (f *fakeCMS) Authors() ([]domain.Author, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return append([]domain.Author{}, f.authors...), nil
}

func (f *fakeCMS) Author(slug string) (*domain.Author, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	for _, a := range f.authors {
		if a.Slug == slug {
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeCMS) Categories() ([]domain.Category, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return append([]domain.Category{}, f.cats...), nil
}

func (f *fakeCMS) Category(slug string) (*domain.Category, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	for _, c := range f.cats {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCMS) Products() ([]domain.Product, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return append([]domain.Product{}, f.products...), nil
}

func (f *fakeCMS) Product(slug string) (*domain.Product, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	for _, p := range f.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeCMS) ProductsByCategory(key string) ([]domain.Product, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	out := []domain.Product{}
	for _, p := range f.products {
		if p.Metadata != nil && p.Metadata.Category != nil && p.Metadata.Category.Key == key {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCMS) FeaturedProducts() ([]domain.Product, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	out := []domain.Product{}
	for _, p := range f.products {
		if p.Featured() {
			out = append(out, p)
		}
	}
	return out, nil
}

// ---------- builders ----------

func day(n int) time.Time { return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC) }

func mkCategory(id, name string) domain.Category {
	return domain.Category{
		Object:   domain.Object{ID: id, Slug: id, Title: name, Type: domain.TypeCategory},
		Metadata: &domain.CategoryMetadata{Name: name},
	}
}

func mkAuthor(id, name string) domain.Author {
	return domain.Author{
		Object:   domain.Object{ID: id, Slug: id, Title: name, Type: domain.TypeAuthor},
		Metadata: &domain.AuthorMetadata{Name: name},
	}
}

type postOpt func(*domain.Post)

func withExcerpt(s string) postOpt { return func(p *domain.Post) { p.Metadata.Excerpt = s } }
func withContent(s string) postOpt { return func(p *domain.Post) { p.Metadata.Content = s } }
func withTags(s string) postOpt    { return func(p *domain.Post) { p.Metadata.Tags = s } }
func withAuthor(a domain.Author) postOpt {
	return func(p *domain.Post) { p.Metadata.Author = &domain.Ref[domain.Author]{ID: a.ID, Object: &a} }
}
func withCategory(c domain.Category) postOpt {
	return func(p *domain.Post) { p.Metadata.Category = &domain.Ref[domain.Category]{ID: c.ID, Object: &c} }
}

func mkPost(slug, title string, created time.Time, opts ...postOpt) domain.Post {
	p := domain.Post{
		Object:   domain.Object{ID: "id-" + slug, Slug: slug, Title: slug, Type: domain.TypePost, CreatedAt: created},
		Metadata: &domain.PostMetadata{Title: title},
	}
	for _, o := range opts {
		o(&p)
	}
	return p
}

func mkProduct(slug string, price float64, stock string, featured bool) domain.Product {
	p := domain.Product{
		Object: domain.Object{ID: "id-" + slug, Slug: slug, Title: slug, Type: domain.TypeProduct},
		Metadata: &domain.ProductMetadata{
			ProductName: slug,
			Price:       price,
			Featured:    featured,
			Category:    &domain.SelectOption{Key: "apparel", Value: "Apparel"},
		},
	}
	if stock != "" {
		p.Metadata.StockStatus = &domain.SelectOption{Key: stock, Value: stock}
	}
	return p
}

// ---------- mail ----------

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, m mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m)
	return nil
}

var errBackend = errors.New("backend down")
