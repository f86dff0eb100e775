package cms_test

import (
	"bytes"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puravida/internal/cms"
	"puravida/internal/cms/cmstest"
	applog "puravida/internal/log"
)

const (
	authorAna = `{"id":"a1","slug":"ana","title":"Ana","type":"authors","metadata":{"name":"Ana Mora"}}`
	catNature = `{"id":"c1","slug":"nature","title":"Nature","type":"categories","metadata":{"name":"Nature"}}`
	postSloth = `{"id":"p1","slug":"sloths","title":"Sloths","type":"posts","created_at":"2024-01-02T00:00:00Z",
		"metadata":{"title":"Sloth Spotting","author":` + authorAna + `,"category":` + catNature + `}}`
	postBeach = `{"id":"p2","slug":"beaches","title":"Beaches","type":"posts","created_at":"2024-02-02T00:00:00Z",
		"metadata":{"title":"Beach Trip","category":` + catNature + `}}`
	productMug = `{"id":"pr1","slug":"mug","title":"Mug","type":"products",
		"metadata":{"product_name":"Pura Vida Mug","price":18,"featured":true,"category":{"key":"drinkware","value":"Drinkware"}}}`
	productTee = `{"id":"pr2","slug":"tee","title":"Tee","type":"products",
		"metadata":{"price":25,"featured":false,"category":{"key":"apparel","value":"Apparel"}}}`
	bareCategory = `{"id":"c2","slug":"empty","title":"Empty","type":"categories"}`
)

func newClient(srv *cmstest.Server) *cms.Client {
	return cms.NewClient(cms.Config{APIURL: srv.URL, BucketSlug: "costa-rica", ReadKey: "k", Depth: 1})
}

func TestFindAllByType(t *testing.T) {
	srv := cmstest.New(authorAna, catNature, postSloth, postBeach)
	defer srv.Close()
	c := newClient(srv)

	posts, err := c.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Sloth Spotting", posts[0].DisplayTitle())
	require.NotNil(t, posts[0].Author())
	assert.Equal(t, "Ana Mora", posts[0].Author().Name())

	authors, err := c.Authors()
	require.NoError(t, err)
	require.Len(t, authors, 1)
}

func TestNotFoundNormalisesToEmpty(t *testing.T) {
	srv := cmstest.New(authorAna)
	defer srv.Close()
	c := newClient(srv)

	products, err := c.Products()
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	p, err := c.Post("missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestFindOneBySlug(t *testing.T) {
	srv := cmstest.New(postSloth, postBeach, bareCategory)
	defer srv.Close()
	c := newClient(srv)

	p, err := c.Post("beaches")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p2", p.ID)

	// objects without metadata are treated as missing
	cat, err := c.Category("empty")
	require.NoError(t, err)
	assert.Nil(t, cat)
}

func TestFindByRelation(t *testing.T) {
	srv := cmstest.New(postSloth, postBeach)
	defer srv.Close()
	c := newClient(srv)

	byAuthor, err := c.PostsByAuthor("a1")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "sloths", byAuthor[0].Slug)

	byCat, err := c.PostsByCategory("c1")
	require.NoError(t, err)
	assert.Len(t, byCat, 2)
}

func TestProductQueries(t *testing.T) {
	srv := cmstest.New(productMug, productTee)
	defer srv.Close()
	c := newClient(srv)

	featured, err := c.FeaturedProducts()
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Pura Vida Mug", featured[0].Name())

	apparel, err := c.ProductsByCategory("apparel")
	require.NoError(t, err)
	require.Len(t, apparel, 1)
	assert.Equal(t, "tee", apparel[0].Slug)
}

func TestBackendFailure(t *testing.T) {
	srv := cmstest.New(postSloth)
	defer srv.Close()
	srv.FailWith(http.StatusInternalServerError)
	c := newClient(srv)

	_, err := c.Posts()
	require.Error(t, err)
	assert.Equal(t, "failed to fetch posts", err.Error())
	var fe *cms.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusInternalServerError, fe.Status)

	_, err = c.Post("sloths")
	require.EqualError(t, err, "failed to fetch post")
}

func TestTransportFailure(t *testing.T) {
	srv := cmstest.New(postSloth)
	c := newClient(srv)
	srv.Close()

	_, err := c.Categories()
	require.EqualError(t, err, "failed to fetch categories")
}

func TestRequestsAreDebugLogged(t *testing.T) {
	srv := cmstest.New(postSloth)
	defer srv.Close()
	var buf bytes.Buffer
	applog.SetOutput(&buf)
	defer applog.SetOutput(&bytes.Buffer{})

	_, err := newClient(srv).Post("sloths")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"action":"cms.request"`)
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"status":200`)
	assert.NotContains(t, out, "read_key")
}
