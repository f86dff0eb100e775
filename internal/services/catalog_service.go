package services

import (
	"puravida/internal/domain"
)

// Content is the read side of the CMS used by the page services.
// *cms.Client satisfies it.
type Content interface {
	Posts() ([]domain.Post, error)
	Post(slug string) (*domain.Post, error)
	PostsByCategory(categoryID string) ([]domain.Post, error)
	PostsByAuthor(authorID string) ([]domain.Post, error)
	Authors() ([]domain.Author, error)
	Author(slug string) (*domain.Author, error)
	Categories() ([]domain.Category, error)
	Category(slug string) (*domain.Category, error)
	Products() ([]domain.Product, error)
	Product(slug string) (*domain.Product, error)
	ProductsByCategory(key string) ([]domain.Product, error)
	FeaturedProducts() ([]domain.Product, error)
}

type CatalogService struct {
	CMS Content
}

func NewCatalogService(cms Content) *CatalogService {
	return &CatalogService{CMS: cms}
}

type HomeView struct {
	Posts      []domain.Post
	Categories []domain.Category
}

// Home lists posts with the category sidebar. The blog index uses it too.
func (s *CatalogService) Home() (HomeView, error) {
	posts, err := s.CMS.Posts()
	if err != nil {
		return HomeView{}, err
	}
	cats, err := s.CMS.Categories()
	if err != nil {
		return HomeView{}, err
	}
	return HomeView{Posts: posts, Categories: cats}, nil
}

type PostView struct {
	Post    *domain.Post
	Related []domain.Post
}

// Post returns nil when the slug does not exist. Related holds up to three
// other posts from the same category.
func (s *CatalogService) Post(slug string) (*PostView, error) {
	p, err := s.CMS.Post(slug)
	if err != nil || p == nil {
		return nil, err
	}
	v := &PostView{Post: p}
	if p.Metadata != nil && p.Metadata.Category != nil && p.Metadata.Category.ID != "" {
		same, err := s.CMS.PostsByCategory(p.Metadata.Category.ID)
		if err != nil {
			return nil, err
		}
		for _, o := range same {
			if o.ID == p.ID {
				continue
			}
			v.Related = append(v.Related, o)
			if len(v.Related) == 3 {
				break
			}
		}
	}
	return v, nil
}

type CategoryView struct {
	Category *domain.Category
	Posts    []domain.Post
}

func (s *CatalogService) Category(slug string) (*CategoryView, error) {
	c, err := s.CMS.Category(slug)
	if err != nil || c == nil {
		return nil, err
	}
	posts, err := s.CMS.PostsByCategory(c.ID)
	if err != nil {
		return nil, err
	}
	return &CategoryView{Category: c, Posts: posts}, nil
}

type AuthorView struct {
	Author *domain.Author
	Posts  []domain.Post
}

func (s *CatalogService) Author(slug string) (*AuthorView, error) {
	a, err := s.CMS.Author(slug)
	if err != nil || a == nil {
		return nil, err
	}
	posts, err := s.CMS.PostsByAuthor(a.ID)
	if err != nil {
		return nil, err
	}
	return &AuthorView{Author: a, Posts: posts}, nil
}

type ProductsView struct {
	Featured []domain.Product
	Regular  []domain.Product
	Category string
	// Categories are the distinct select options seen in the full list.
	Categories []domain.SelectOption
}

// Products splits the catalog into featured and regular items. A non-empty
// categoryKey narrows both lists to that product category.
func (s *CatalogService) Products(categoryKey string) (ProductsView, error) {
	all, err := s.CMS.Products()
	if err != nil {
		return ProductsView{}, err
	}
	v := ProductsView{Category: categoryKey, Categories: productCategories(all)}

	list := all
	if categoryKey != "" {
		if list, err = s.CMS.ProductsByCategory(categoryKey); err != nil {
			return ProductsView{}, err
		}
	}
	for _, p := range list {
		if p.Featured() {
			v.Featured = append(v.Featured, p)
		} else {
			v.Regular = append(v.Regular, p)
		}
	}
	return v, nil
}

func productCategories(ps []domain.Product) []domain.SelectOption {
	var out []domain.SelectOption
	seen := map[string]bool{}
	for _, p := range ps {
		if p.Metadata == nil || p.Metadata.Category == nil || p.Metadata.Category.Key == "" {
			continue
		}
		c := *p.Metadata.Category
		if !seen[c.Key] {
			seen[c.Key] = true
			out = append(out, c)
		}
	}
	return out
}

func (s *CatalogService) Product(slug string) (*domain.Product, error) {
	return s.CMS.Product(slug)
}

// About lists the team shown on the about page.
func (s *CatalogService) About() ([]domain.Author, error) {
	return s.CMS.Authors()
}
