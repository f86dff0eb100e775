package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puravida/internal/domain"
	"puravida/internal/services"
)

func slugs(ps []domain.Post) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Slug
	}
	return out
}

func TestSearchTitleMatchFirst(t *testing.T) {
	cms := &fakeCMS{posts: []domain.Post{
		mkPost("monteverde", "Cloud Forest Hikes", day(9), withContent("Great wildlife everywhere")),
		mkPost("wildlife", "Wildlife Watching", day(1)),
		mkPost("coffee", "Coffee Farms", day(5)),
	}}
	svc := services.NewSearchService(cms)

	got, err := svc.Search("wildlife")
	require.NoError(t, err)
	assert.Equal(t, []string{"wildlife", "monteverde"}, slugs(got))
}

func TestSearchTiersAndRecency(t *testing.T) {
	nature := mkCategory("c1", "Nature")
	ana := mkAuthor("a1", "Ana Beach")
	cms := &fakeCMS{posts: []domain.Post{
		mkPost("old-title", "Beach Days", day(1)),
		mkPost("new-title", "Best BEACH towns", day(3)),
		mkPost("excerpt", "Surf", day(2), withExcerpt("A quiet beach")),
		mkPost("tags", "Food", day(8), withTags("beach, food")),
		mkPost("author", "Rain", day(7), withAuthor(ana)),
		mkPost("category", "Birds", day(6), withCategory(nature)),
		mkPost("none", "Volcanoes", day(9)),
	}}
	svc := services.NewSearchService(cms)

	got, err := svc.Search("beach")
	require.NoError(t, err)
	assert.Equal(t, []string{"new-title", "old-title", "excerpt", "tags", "author"}, slugs(got))

	got, err = svc.Search("nature")
	require.NoError(t, err)
	assert.Equal(t, []string{"category"}, slugs(got))
}

func TestSearchEmptyQuerySkipsBackend(t *testing.T) {
	cms := &fakeCMS{posts: []domain.Post{mkPost("a", "A", day(1))}}
	svc := services.NewSearchService(cms)

	for _, q := range []string{"", "   ", "\t\n"} {
		got, err := svc.Search(q)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Equal(t, 0, cms.Calls())
}

func TestSearchNormalization(t *testing.T) {
	assert.Equal(t, services.Normalize(" Beach   Trip "), services.Normalize("beach trip"))
	assert.Equal(t, "beach trip", services.Normalize("\tBEACH \n trip"))

	cms := &fakeCMS{posts: []domain.Post{
		mkPost("trip", "Our  Beach Trip", day(1)),
		mkPost("other", "Mountain trip", day(2)),
	}}
	svc := services.NewSearchService(cms)

	a, err := svc.Search(" Beach   Trip ")
	require.NoError(t, err)
	b, err := svc.Search("beach trip")
	require.NoError(t, err)
	assert.Equal(t, slugs(a), slugs(b))
	assert.Equal(t, []string{"trip"}, slugs(a))
}

func TestSearchBackendFailure(t *testing.T) {
	svc := services.NewSearchService(&fakeCMS{err: errBackend})
	_, err := svc.Search("beach")
	assert.ErrorIs(t, err, errBackend)
}

func TestSuggest(t *testing.T) {
	cms := &fakeCMS{posts: []domain.Post{
		mkPost("a", "Surfing Santa Teresa", day(1), withTags("surf, surfing, sun")),
		mkPost("b", "Surf Camps for Beginners", day(2), withTags("surfcamp")),
	}}
	svc := services.NewSearchService(cms)

	assert.Equal(t, []string{"surfing", "surf", "surfcamp"}, svc.Suggest("SURF"))
	assert.Empty(t, svc.Suggest(" "))
	assert.Empty(t, svc.Suggest("zz"))
}

func TestSuggestCapsAndSwallowsErrors(t *testing.T) {
	cms := &fakeCMS{posts: []domain.Post{
		mkPost("a", "tico tica ticos ticas tico-time tico's", day(1), withTags("ticotours")),
	}}
	svc := services.NewSearchService(cms)
	assert.Len(t, svc.Suggest("tic"), services.MaxSuggestions)

	failing := services.NewSearchService(&fakeCMS{err: errBackend})
	assert.Equal(t, []string{}, failing.Suggest("tic"))
}
