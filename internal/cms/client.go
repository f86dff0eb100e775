// Package cms is the typed accessor for the headless content backend.
//
// Every call is one round trip; there is no caching and no retry. A 404 from
// the backend means "no such records" and is normalised to an empty result.
package cms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"puravida/internal/domain"
	applog "puravida/internal/log"
)

// DefaultProps is the projection used for list queries.
var DefaultProps = []string{"id", "title", "slug", "type", "metadata", "created_at"}

type Config struct {
	APIURL     string
	BucketSlug string
	ReadKey    string
	Depth      int
	Timeout    time.Duration // 0 disables the timeout
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Depth < 0 {
		cfg.Depth = 0
	}
	return &Client{cfg: cfg}
}

// Query describes one find request.
type Query struct {
	Filter map[string]any
	Props  []string
	Depth  *int
	Limit  int
}

type listResponse struct {
	Objects []json.RawMessage `json:"objects"`
	Total   int               `json:"total"`
}

type singleResponse struct {
	Object  json.RawMessage   `json:"object"`
	Objects []json.RawMessage `json:"objects"`
}

func (c *Client) objectsURL(q Query) (string, error) {
	filter, err := json.Marshal(q.Filter)
	if err != nil {
		return "", err
	}
	v := url.Values{}
	v.Set("query", string(filter))
	if len(q.Props) > 0 {
		v.Set("props", strings.Join(q.Props, ","))
	}
	depth := c.cfg.Depth
	if q.Depth != nil {
		depth = *q.Depth
	}
	v.Set("depth", strconv.Itoa(depth))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if c.cfg.ReadKey != "" {
		v.Set("read_key", c.cfg.ReadKey)
	}
	return fmt.Sprintf("%s/buckets/%s/objects?%s", c.cfg.APIURL, url.PathEscape(c.cfg.BucketSlug), v.Encode()), nil
}

// get performs the request and returns the body of a 200 response,
// ErrNotFound for a 404, or an error describing anything else.
func (c *Client) get(q Query) ([]byte, int, error) {
	u, err := c.objectsURL(q)
	if err != nil {
		return nil, 0, err
	}
	a := fiber.Get(u).Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.cfg.Timeout > 0 {
		a = a.Timeout(c.cfg.Timeout)
	}
	start := time.Now()
	code, body, errs := a.Bytes()
	applog.Debug(nil, "cms.request", map[string]any{
		"query":  q.Filter,
		"limit":  q.Limit,
		"status": code,
		"ms":     time.Since(start).Milliseconds(),
	})
	if len(errs) > 0 {
		return nil, code, errors.Join(errs...)
	}
	switch {
	case code == fiber.StatusNotFound:
		return nil, code, ErrNotFound
	case code != fiber.StatusOK:
		return nil, code, fmt.Errorf("unexpected status %d", code)
	}
	return body, code, nil
}

// find runs a list query and decodes each object into T.
func find[T domain.Record](c *Client, what string, q Query) ([]T, error) {
	body, code, err := c.get(q)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, &FetchError{What: what, Status: code, Err: err}
	}
	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &FetchError{What: what, Status: code, Err: err}
	}
	out := make([]T, 0, len(resp.Objects))
	for _, raw := range resp.Objects {
		rec, err := domain.DecodeRecord(raw)
		if err != nil {
			return nil, &FetchError{What: what, Status: code, Err: err}
		}
		v, ok := rec.(T)
		if !ok {
			return nil, &FetchError{What: what, Status: code, Err: fmt.Errorf("unexpected record type %q", rec.Kind())}
		}
		out = append(out, v)
	}
	return out, nil
}

// findOne runs a single-object query. Missing objects and objects without
// metadata yield nil.
func findOne[T domain.Record](c *Client, what string, q Query) (*T, error) {
	q.Limit = 1
	body, code, err := c.get(q)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &FetchError{What: what, Status: code, Err: err}
	}
	var resp singleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &FetchError{What: what, Status: code, Err: err}
	}
	raw := resp.Object
	if len(raw) == 0 || string(raw) == "null" {
		if len(resp.Objects) == 0 {
			return nil, nil
		}
		raw = resp.Objects[0]
	}
	rec, err := domain.DecodeRecord(raw)
	if err != nil {
		return nil, &FetchError{What: what, Status: code, Err: err}
	}
	v, ok := rec.(T)
	if !ok {
		return nil, &FetchError{What: what, Status: code, Err: fmt.Errorf("unexpected record type %q", rec.Kind())}
	}
	if !domain.HasMetadata(v) {
		return nil, nil
	}
	return &v, nil
}

// FindAllByType lists every object of the given type.
func FindAllByType[T domain.Record](c *Client, typ domain.Type) ([]T, error) {
	return find[T](c, string(typ), Query{
		Filter: map[string]any{"type": typ},
		Props:  DefaultProps,
	})
}

// FindOneBySlug returns the object with the given type and slug, or nil.
func FindOneBySlug[T domain.Record](c *Client, typ domain.Type, slug string) (*T, error) {
	return findOne[T](c, singular(typ), Query{
		Filter: map[string]any{"type": typ, "slug": slug},
	})
}

// FindByRelation lists objects whose relation field (e.g. "author")
// points at the given object id.
func FindByRelation[T domain.Record](c *Client, typ domain.Type, field, id string) ([]T, error) {
	return FindWhere[T](c, typ, "metadata."+field, id)
}

// FindWhere lists objects of typ whose field equals value.
func FindWhere[T domain.Record](c *Client, typ domain.Type, field string, value any) ([]T, error) {
	what := fmt.Sprintf("%s by %s", typ, strings.TrimPrefix(field, "metadata."))
	return find[T](c, what, Query{
		Filter: map[string]any{"type": typ, field: value},
		Props:  DefaultProps,
	})
}

func singular(typ domain.Type) string {
	switch typ {
	case domain.TypeCategory:
		return "category"
	default:
		return strings.TrimSuffix(string(typ), "s")
	}
}
