package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Type is the CMS object type discriminant.
type Type string

const (
	TypePost     Type = "posts"
	TypeAuthor   Type = "authors"
	TypeCategory Type = "categories"
	TypeProduct  Type = "products"
)

// Stock statuses as configured in the CMS select field.
const (
	StockIn      = "In Stock"
	StockLimited = "Limited Stock"
	StockOut     = "Out of Stock"
)

// Object is the envelope shared by every CMS record.
type Object struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Type        Type      `json:"type"`
	Status      string    `json:"status,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
	PublishedAt time.Time `json:"published_at"`
}

// Record is one variant of the content union: Post, Author, Category or Product.
type Record interface {
	Kind() Type
	Envelope() Object
}

type Image struct {
	URL      string `json:"url"`
	ImgixURL string `json:"imgix_url"`
}

// SelectOption is a CMS select-dropdown value.
type SelectOption struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Ref is a relation field. At depth 0 the CMS sends the related object's id
// as a bare string, at depth >= 1 it inlines the object.
type Ref[T any] struct {
	ID     string
	Object *T
}

func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &r.ID)
	}
	var obj T
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	r.Object = &obj
	var env struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &env); err == nil {
		r.ID = env.ID
	}
	return nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Object != nil {
		return json.Marshal(r.Object)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// Get returns the inlined object, or nil when the relation was not expanded.
func (r *Ref[T]) Get() *T {
	if r == nil {
		return nil
	}
	return r.Object
}

// ---------- Category ----------

type CategoryMetadata struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

type Category struct {
	Object
	Metadata *CategoryMetadata `json:"metadata"`
}

func (c Category) Kind() Type       { return TypeCategory }
func (c Category) Envelope() Object { return c.Object }

// Name returns the display name, falling back to the object title.
func (c Category) Name() string {
	if c.Metadata != nil && c.Metadata.Name != "" {
		return c.Metadata.Name
	}
	return c.Title
}

func (c Category) Description() string {
	if c.Metadata == nil {
		return ""
	}
	return c.Metadata.Description
}

// ---------- Author ----------

type AuthorMetadata struct {
	Name         string `json:"name,omitempty"`
	Bio          string `json:"bio,omitempty"`
	ProfilePhoto *Image `json:"profile_photo,omitempty"`
	Email        string `json:"email,omitempty"`
	Website      string `json:"website,omitempty"`
	Instagram    string `json:"instagram,omitempty"`
	Twitter      string `json:"twitter,omitempty"`
}

type Author struct {
	Object
	Metadata *AuthorMetadata `json:"metadata"`
}

func (a Author) Kind() Type       { return TypeAuthor }
func (a Author) Envelope() Object { return a.Object }

func (a Author) Name() string {
	if a.Metadata != nil && a.Metadata.Name != "" {
		return a.Metadata.Name
	}
	return a.Title
}

func (a Author) Bio() string {
	if a.Metadata == nil {
		return ""
	}
	return a.Metadata.Bio
}

func (a Author) Photo() *Image {
	if a.Metadata == nil {
		return nil
	}
	return a.Metadata.ProfilePhoto
}

// ---------- Post ----------

type PostMetadata struct {
	Title         string         `json:"title,omitempty"`
	Excerpt       string         `json:"excerpt,omitempty"`
	Content       string         `json:"content,omitempty"`
	FeaturedImage *Image         `json:"featured_image,omitempty"`
	Author        *Ref[Author]   `json:"author,omitempty"`
	Category      *Ref[Category] `json:"category,omitempty"`
	Tags          string         `json:"tags,omitempty"`
	ReadTime      int            `json:"read_time,omitempty"`
}

type Post struct {
	Object
	Metadata *PostMetadata `json:"metadata"`
}

func (p Post) Kind() Type       { return TypePost }
func (p Post) Envelope() Object { return p.Object }

// DisplayTitle prefers the metadata title used by the editors.
func (p Post) DisplayTitle() string {
	if p.Metadata != nil && p.Metadata.Title != "" {
		return p.Metadata.Title
	}
	return p.Title
}

func (p Post) Excerpt() string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata.Excerpt
}

func (p Post) Content() string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata.Content
}

func (p Post) Tags() string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata.Tags
}

// TagList splits the comma separated tags field.
func (p Post) TagList() []string {
	var out []string
	for _, t := range strings.Split(p.Tags(), ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (p Post) FeaturedImage() *Image {
	if p.Metadata == nil {
		return nil
	}
	return p.Metadata.FeaturedImage
}

func (p Post) ReadTime() int {
	if p.Metadata == nil {
		return 0
	}
	return p.Metadata.ReadTime
}

func (p Post) Author() *Author {
	if p.Metadata == nil {
		return nil
	}
	return p.Metadata.Author.Get()
}

func (p Post) Category() *Category {
	if p.Metadata == nil {
		return nil
	}
	return p.Metadata.Category.Get()
}

// ---------- Product ----------

type ProductMetadata struct {
	ProductName   string        `json:"product_name,omitempty"`
	Description   string        `json:"description,omitempty"`
	Price         float64       `json:"price"`
	ProductImages []Image       `json:"product_images,omitempty"`
	Category      *SelectOption `json:"category,omitempty"`
	StockStatus   *SelectOption `json:"stock_status,omitempty"`
	Featured      bool          `json:"featured,omitempty"`
	SKU           string        `json:"sku,omitempty"`
}

type Product struct {
	Object
	Metadata *ProductMetadata `json:"metadata"`
}

func (p Product) Kind() Type       { return TypeProduct }
func (p Product) Envelope() Object { return p.Object }

func (p Product) Name() string {
	if p.Metadata != nil && p.Metadata.ProductName != "" {
		return p.Metadata.ProductName
	}
	return p.Title
}

func (p Product) Price() float64 {
	if p.Metadata == nil {
		return 0
	}
	return p.Metadata.Price
}

// Stock returns the stock status label; products without one are in stock.
func (p Product) Stock() string {
	if p.Metadata == nil || p.Metadata.StockStatus == nil || p.Metadata.StockStatus.Value == "" {
		return StockIn
	}
	return p.Metadata.StockStatus.Value
}

func (p Product) InStock() bool { return p.Stock() != StockOut }

func (p Product) CategoryLabel() string {
	if p.Metadata == nil || p.Metadata.Category == nil || p.Metadata.Category.Value == "" {
		return "General"
	}
	return p.Metadata.Category.Value
}

func (p Product) Description() string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata.Description
}

func (p Product) Featured() bool { return p.Metadata != nil && p.Metadata.Featured }

// MainImage returns the first product image, if any.
func (p Product) MainImage() *Image {
	if p.Metadata == nil || len(p.Metadata.ProductImages) == 0 {
		return nil
	}
	return &p.Metadata.ProductImages[0]
}

// ---------- decoding ----------

// DecodeRecord decodes a raw CMS object into the variant selected by its type.
func DecodeRecord(raw []byte) (Record, error) {
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case TypePost:
		var v Post
		err := json.Unmarshal(raw, &v)
		return v, err
	case TypeAuthor:
		var v Author
		err := json.Unmarshal(raw, &v)
		return v, err
	case TypeCategory:
		var v Category
		err := json.Unmarshal(raw, &v)
		return v, err
	case TypeProduct:
		var v Product
		err := json.Unmarshal(raw, &v)
		return v, err
	default:
		return nil, fmt.Errorf("unknown content type %q", head.Type)
	}
}

// HasMetadata reports whether the record carries a metadata block.
func HasMetadata(r Record) bool {
	switch v := r.(type) {
	case Post:
		return v.Metadata != nil
	case Author:
		return v.Metadata != nil
	case Category:
		return v.Metadata != nil
	case Product:
		return v.Metadata != nil
	}
	return false
}
