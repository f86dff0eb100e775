package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"puravida/internal/cart"
	"puravida/internal/cms"
	"puravida/internal/cms/cmstest"
	"puravida/internal/config"
	"puravida/internal/http/handlers"
	"puravida/internal/mail"
)

const (
	authorAna = `{"id":"a1","slug":"ana","title":"Ana","type":"authors","metadata":{"name":"Ana Mora","bio":"Naturalist guide"}}`
	catNature = `{"id":"c1","slug":"nature","title":"Nature","type":"categories","metadata":{"name":"Nature"}}`
	postSloth = `{"id":"p1","slug":"sloth-spotting","title":"Sloths","type":"posts","created_at":"2024-01-02T00:00:00Z",
		"metadata":{"title":"Sloth Spotting in Manuel Antonio","excerpt":"Slow and steady","content":"Look **up**.","tags":"wildlife, sloths","author":` + authorAna + `,"category":` + catNature + `}}`
	postBeach = `{"id":"p2","slug":"best-beaches","title":"Beaches","type":"posts","created_at":"2024-03-02T00:00:00Z",
		"metadata":{"title":"Best Beaches of Guanacaste","excerpt":"Where to spot a sloth near the sand","content":"Sun.","tags":"beaches","category":` + catNature + `}}`
	productMug = `{"id":"pr1","slug":"pura-vida-mug","title":"Mug","type":"products",
		"metadata":{"product_name":"Pura Vida Mug","price":18,"featured":true,"category":{"key":"drinkware","value":"Drinkware"}}}`
	productTee = `{"id":"pr2","slug":"toucan-tee","title":"Tee","type":"products",
		"metadata":{"product_name":"Toucan Tee","price":25,"category":{"key":"apparel","value":"Apparel"},"stock_status":{"key":"out","value":"Out of Stock"}}}`
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, m mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type testApp struct {
	*fiber.App
	CMS    *cmstest.Server
	Mail   *recordingSender
	Carts  *cart.MemoryStorage
	cookie map[string]string
}

// newTestApp builds the full application over a fake content backend.
// Zero limits fall back to values high enough not to interfere.
func newTestApp(t *testing.T, o handlers.AppOptions) *testApp {
	t.Helper()
	srv := cmstest.New(authorAna, catNature, postSloth, postBeach, productMug, productTee)
	t.Cleanup(srv.Close)

	content := cms.NewClient(cms.Config{APIURL: srv.URL, BucketSlug: "costa-rica", ReadKey: "k", Depth: 1})
	storage := cart.NewMemoryStorage()
	sender := &recordingSender{}
	cfg := config.Config{
		SiteName:    "Costa Rica Travel Blog",
		ContactFrom: "site@puravida.test",
		ContactTo:   "owner@puravida.test",
		CartTTL:     time.Hour,
	}

	o.TemplateDir = "../../web/templates"
	o.SiteName = cfg.SiteName
	if o.GlobalLimit.Max == 0 {
		o.GlobalLimit = handlers.Limit{Max: 1000, Window: time.Minute}
	}
	if o.SearchLimit.Max == 0 {
		o.SearchLimit = handlers.Limit{Max: 1000, Window: time.Minute}
	}
	if o.ContactLimit.Max == 0 {
		o.ContactLimit = handlers.Limit{Max: 1000, Window: time.Minute}
	}
	app := handlers.NewApp(o, handlers.NewDeps(content, storage, sender, cfg))
	return &testApp{App: app, CMS: srv, Mail: sender, Carts: storage, cookie: map[string]string{}}
}

// do sends req with the cookies collected so far and records new ones.
func (a *testApp) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	for k, v := range a.cookie {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		a.cookie[c.Name] = c.Value
	}
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (a *testApp) get(t *testing.T, target string) (*http.Response, string) {
	t.Helper()
	return a.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

// post submits a form with the current CSRF token, fetching one first if needed.
func (a *testApp) post(t *testing.T, target string, form url.Values) (*http.Response, string) {
	t.Helper()
	if a.cookie["csrf_"] == "" {
		a.get(t, "/contact")
		require.NotEmpty(t, a.cookie["csrf_"], "csrf cookie not issued")
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", a.cookie["csrf_"])
	return a.do(t, formRequest(target, form))
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
