package cms

import "puravida/internal/domain"

func (c *Client) Posts() ([]domain.Post, error) {
	return FindAllByType[domain.Post](c, domain.TypePost)
}

func (c *Client) Post(slug string) (*domain.Post, error) {
	return FindOneBySlug[domain.Post](c, domain.TypePost, slug)
}

func (c *Client) PostsByCategory(categoryID string) ([]domain.Post, error) {
	return FindByRelation[domain.Post](c, domain.TypePost, "category", categoryID)
}

func (c *Client) PostsByAuthor(authorID string) ([]domain.Post, error) {
	return FindByRelation[domain.Post](c, domain.TypePost, "author", authorID)
}

func (c *Client) Authors() ([]domain.Author, error) {
	return FindAllByType[domain.Author](c, domain.TypeAuthor)
}

func (c *Client) Author(slug string) (*domain.Author, error) {
	return FindOneBySlug[domain.Author](c, domain.TypeAuthor, slug)
}

func (c *Client) Categories() ([]domain.Category, error) {
	return FindAllByType[domain.Category](c, domain.TypeCategory)
}

func (c *Client) Category(slug string) (*domain.Category, error) {
	return FindOneBySlug[domain.Category](c, domain.TypeCategory, slug)
}

func (c *Client) Products() ([]domain.Product, error) {
	return FindAllByType[domain.Product](c, domain.TypeProduct)
}

func (c *Client) Product(slug string) (*domain.Product, error) {
	return FindOneBySlug[domain.Product](c, domain.TypeProduct, slug)
}

// ProductsByCategory filters on the product category select key.
func (c *Client) ProductsByCategory(key string) ([]domain.Product, error) {
	return FindWhere[domain.Product](c, domain.TypeProduct, "metadata.category.key", key)
}

func (c *Client) FeaturedProducts() ([]domain.Product, error) {
	return FindWhere[domain.Product](c, domain.TypeProduct, "metadata.featured", true)
}
