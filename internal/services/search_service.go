package services

import (
	"sort"
	"strings"

	"puravida/internal/domain"
	applog "puravida/internal/log"
)

// PostLister is the slice of the CMS the search needs.
type PostLister interface {
	Posts() ([]domain.Post, error)
}

// SearchService is a linear scan over every post. The CMS offers no
// full-text search, so each query fetches the whole post set.
type SearchService struct {
	Posts PostLister
}

func NewSearchService(posts PostLister) *SearchService {
	return &SearchService{Posts: posts}
}

// MaxSuggestions caps Suggest's result.
const MaxSuggestions = 5

// Normalize lowercases s, trims it and collapses whitespace runs to one space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

type searchDoc struct {
	post    domain.Post
	title   string
	excerpt string
}

// Search returns posts containing the normalized query in their title,
// excerpt, content, tags, author name or category name. Title matches come
// first, then excerpt matches, each tier newest first.
func (s *SearchService) Search(query string) ([]domain.Post, error) {
	q := Normalize(query)
	if q == "" {
		return []domain.Post{}, nil
	}
	posts, err := s.Posts.Posts()
	if err != nil {
		return nil, err
	}

	var hits []searchDoc
	for _, p := range posts {
		d := searchDoc{post: p, title: Normalize(p.DisplayTitle()), excerpt: Normalize(p.Excerpt())}
		if strings.Contains(d.title, q) || strings.Contains(d.excerpt, q) || otherFieldsMatch(p, q) {
			hits = append(hits, d)
		}
	}

	tier := func(d searchDoc) int {
		switch {
		case strings.Contains(d.title, q):
			return 0
		case strings.Contains(d.excerpt, q):
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		ti, tj := tier(hits[i]), tier(hits[j])
		if ti != tj {
			return ti < tj
		}
		return hits[i].post.CreatedAt.After(hits[j].post.CreatedAt)
	})

	out := make([]domain.Post, len(hits))
	for i, d := range hits {
		out[i] = d.post
	}
	return out, nil
}

func otherFieldsMatch(p domain.Post, q string) bool {
	if strings.Contains(Normalize(p.Content()), q) || strings.Contains(Normalize(p.Tags()), q) {
		return true
	}
	if a := p.Author(); a != nil && a.Metadata != nil && strings.Contains(Normalize(a.Metadata.Name), q) {
		return true
	}
	if c := p.Category(); c != nil && c.Metadata != nil && strings.Contains(Normalize(c.Metadata.Name), q) {
		return true
	}
	return false
}

// Suggest returns up to MaxSuggestions distinct completions: title words
// then tags that contain the query and are longer than two characters.
// Backend failures are logged and produce no suggestions.
func (s *SearchService) Suggest(query string) []string {
	q := Normalize(query)
	if q == "" {
		return []string{}
	}
	posts, err := s.Posts.Posts()
	if err != nil {
		applog.Error(nil, "search.suggest", err, map[string]any{"q": q})
		return []string{}
	}

	out := []string{}
	seen := map[string]bool{}
	add := func(w string) {
		if len([]rune(w)) > 2 && strings.Contains(w, q) && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	for _, p := range posts {
		title := ""
		if p.Metadata != nil {
			title = p.Metadata.Title
		}
		for _, w := range strings.Split(Normalize(title), " ") {
			add(w)
		}
		for _, t := range strings.Split(p.Tags(), ",") {
			add(Normalize(t))
		}
	}
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}
