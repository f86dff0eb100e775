package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "puravida/internal/log"
)

// Limit is one rate limiter window per client IP.
type Limit struct {
	Max    int
	Window time.Duration
}

type AppOptions struct {
	TemplateDir    string
	StaticDir      string
	SiteName       string
	Production     bool
	AccessLog      bool
	GlobalLimit    Limit
	SearchLimit    Limit
	ContactLimit   Limit
	MaxRequestBody int
}

func DefaultLimits(o *AppOptions) {
	if o.GlobalLimit.Max == 0 {
		o.GlobalLimit = Limit{Max: 60, Window: time.Minute}
	}
	if o.SearchLimit.Max == 0 {
		o.SearchLimit = Limit{Max: 20, Window: time.Minute}
	}
	if o.ContactLimit.Max == 0 {
		o.ContactLimit = Limit{Max: 5, Window: 10 * time.Minute}
	}
	if o.MaxRequestBody == 0 {
		o.MaxRequestBody = 1 << 20 // 1 MiB
	}
}

// errorHandler logs the failure and shows a friendly page without internals.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code == fiber.StatusNotFound {
		return notFound(c, "Page not found")
	}
	applog.Error(c, "server.error", err, nil)
	if rerr := c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	}); rerr != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
	}
	return nil
}

// NewApp builds the Fiber application with middleware and every route.
func NewApp(o AppOptions, d *Deps) *fiber.App {
	DefaultLimits(&o)

	app := fiber.New(fiber.Config{
		Views:        NewEngine(o.TemplateDir, !o.Production),
		ErrorHandler: errorHandler,
		BodyLimit:    o.MaxRequestBody,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	if o.AccessLog {
		app.Use(logger.New())
	}
	app.Use(helmet.New(helmet.Config{
		// post bodies embed CMS-hosted images
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	if o.StaticDir != "" {
		app.Static("/static", o.StaticDir)
	}
	app.Use(limiter.New(limiter.Config{
		Max:        o.GlobalLimit.Max,
		Expiration: o.GlobalLimit.Window,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   o.Production,
		ContextKey:     "csrf",
		// JSON API calls cannot be forged by a cross-site form post
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/") && c.Is("json")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
			return c.Status(fiber.StatusForbidden).Render("error", fiber.Map{
				"Title":   "Request Expired",
				"Message": "Security check failed. Please refresh the page and try again.",
			})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		c.Locals("SiteName", o.SiteName)
		return c.Next()
	})
	app.Use(d.CartHandler.Badge)

	Register(app, d, o)

	app.Use(func(c *fiber.Ctx) error {
		return notFound(c, "Page not found")
	})
	return app
}

// Register mounts the page, cart, checkout, contact and API routes.
func Register(app *fiber.App, d *Deps, o AppOptions) {
	searchLimiter := limiter.New(limiter.Config{
		Max:        o.SearchLimit.Max,
		Expiration: o.SearchLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|search"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.search.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many searches, retry soon")
		},
	})
	suggestLimiter := limiter.New(limiter.Config{
		Max:        o.SearchLimit.Max * 3,
		Expiration: o.SearchLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|suggest"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"suggestions": []string{}})
		},
	})
	contactLimiter := limiter.New(limiter.Config{
		Max:        o.ContactLimit.Max,
		Expiration: o.ContactLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|contact"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.contact.hit", nil)
			c.Status(fiber.StatusTooManyRequests)
			return render(c, "contact", fiber.Map{"Err": "Too many messages. Please try again later."})
		},
	})

	// Blog
	app.Get("/", d.PageHandler.Home)
	app.Get("/blog", d.PageHandler.Blog)
	app.Get("/posts/:slug", d.PageHandler.Post)
	app.Get("/categories/:slug", d.PageHandler.Category)
	app.Get("/authors/:slug", d.PageHandler.Author)
	app.Get("/about", d.PageHandler.About)

	// Search
	app.Get("/search", searchLimiter, d.SearchHandler.Page)

	// Store
	app.Get("/products", d.ProductHandler.List)
	app.Get("/products/:slug", d.ProductHandler.Detail)

	// Cart & checkout
	app.Get("/cart", d.CartHandler.View)
	app.Post("/cart", d.CartHandler.Add)
	app.Post("/cart/update", d.CartHandler.Update)
	app.Post("/cart/remove", d.CartHandler.Remove)
	app.Post("/cart/clear", d.CartHandler.Clear)
	app.Get("/checkout", d.CheckoutHandler.Form)
	app.Post("/checkout", d.CheckoutHandler.Submit)

	// Contact
	app.Get("/contact", d.ContactHandler.Form)
	app.Post("/contact", contactLimiter, d.ContactHandler.Submit)

	// API
	api := app.Group("/api")
	api.Get("/search/suggestions", suggestLimiter, d.SearchHandler.Suggestions)
	api.Get("/cart", d.CartHandler.Summary)
	api.Post("/contact", contactLimiter, d.ContactHandler.API)

	app.Get("/healthz", Health)
}
