package handlers

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if n, ok := c.Locals("CartCount").(int); ok {
		data["CartCount"] = n
	}
	if s, ok := c.Locals("SiteName").(string); ok {
		data["SiteName"] = s
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// first visit: the middleware has just set the cookie, fall back to it on later requests
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	data["Path"] = c.Path()
	data["Year"] = time.Now().Year()
	return c.Render(tmpl, data)
}

// notFound renders the standard not-found page.
func notFound(c *fiber.Ctx, msg string) error {
	c.Status(fiber.StatusNotFound)
	return render(c, "notfound", fiber.Map{"Title": "Not Found", "Message": msg})
}

// Markdown without raw HTML passthrough.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Typographer))

func markdown(src string) template.HTML {
	var b strings.Builder
	if err := md.Convert([]byte(src), &b); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(b.String())
}

func money(v any) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return "$" + x.StringFixed(2)
	case float64:
		return "$" + decimal.NewFromFloat(x).StringFixed(2)
	case int:
		return fmt.Sprintf("$%d.00", x)
	default:
		return fmt.Sprint(v)
	}
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

// NewEngine loads templates from dir and registers the view helpers.
func NewEngine(dir string, reload bool) *html.Engine {
	engine := html.New(dir, ".html")
	engine.Reload(reload)
	engine.AddFunc("markdown", markdown)
	engine.AddFunc("money", money)
	engine.AddFunc("date", date)
	engine.AddFunc("join", strings.Join)
	return engine
}
