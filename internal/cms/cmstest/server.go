// Package cmstest provides an in-process fake of the content backend for tests.
package cmstest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
)

// Server answers object queries from a fixed set of JSON objects. Like the
// real backend it returns 404 when a query matches nothing.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	objects []map[string]any
	status  int // forced status, 0 = normal behaviour
	hits    atomic.Int64
}

// New starts a server holding the given raw JSON objects.
func New(objects ...string) *Server {
	s := &Server{}
	for _, o := range objects {
		s.Add(o)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Add appends one raw JSON object. It panics on malformed input.
func (s *Server) Add(raw string) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		panic(fmt.Sprintf("cmstest: bad object: %v", err))
	}
	s.mu.Lock()
	s.objects = append(s.objects, m)
	s.mu.Unlock()
}

// FailWith forces every response to the given status. 0 restores normal behaviour.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Hits is the number of requests served.
func (s *Server) Hits() int64 { return s.hits.Load() }

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.hits.Add(1)
	s.mu.Lock()
	status := s.status
	objects := append([]map[string]any(nil), s.objects...)
	s.mu.Unlock()

	if status != 0 {
		http.Error(w, `{"message":"forced"}`, status)
		return
	}
	if !strings.HasSuffix(r.URL.Path, "/objects") {
		http.NotFound(w, r)
		return
	}
	var filter map[string]any
	if err := json.Unmarshal([]byte(r.URL.Query().Get("query")), &filter); err != nil {
		http.Error(w, `{"message":"bad query"}`, http.StatusBadRequest)
		return
	}

	var matched []map[string]any
	for _, o := range objects {
		if matches(o, filter) {
			matched = append(matched, o)
		}
	}
	if len(matched) == 0 {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"No objects found"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("limit") == "1" {
		_ = json.NewEncoder(w).Encode(map[string]any{"object": matched[0]})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"objects": matched, "total": len(matched)})
}

func matches(obj map[string]any, filter map[string]any) bool {
	for path, want := range filter {
		got, ok := lookup(obj, strings.Split(path, "."))
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

// lookup walks a dotted path. An expanded relation object compares by its id.
func lookup(v any, parts []string) (any, bool) {
	for _, p := range parts {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		if v, ok = m[p]; !ok {
			return nil, false
		}
	}
	if m, ok := v.(map[string]any); ok {
		if id, ok := m["id"]; ok {
			return id, true
		}
	}
	return v, true
}
