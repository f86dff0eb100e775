package handlers

import (
	"time"

	"puravida/internal/cart"
	"puravida/internal/config"
	"puravida/internal/mail"
	"puravida/internal/services"
)

type Deps struct {
	PageHandler     *PageHandler
	ProductHandler  *ProductHandler
	SearchHandler   *SearchHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	ContactHandler  *ContactHandler
}

// NewDeps wires services over the content backend, the cart storage and
// the mail sender.
func NewDeps(content services.Content, storage cart.Storage, sender mail.Sender, cfg config.Config) *Deps {
	catalogSvc := services.NewCatalogService(content)
	searchSvc := services.NewSearchService(content)
	cartSvc := services.NewCartService(storage, content)
	checkoutSvc := services.NewCheckoutService(cartSvc, services.SimulatedProcessor{Delay: cfg.CheckoutDelay})
	contactSvc := services.NewContactService(sender, cfg.SiteName, cfg.ContactFrom, cfg.ContactTo)

	cookieAge := cfg.CartTTL
	if cookieAge <= 0 {
		cookieAge = 30 * 24 * time.Hour
	}
	cartH := &CartHandler{Cart: cartSvc, CookieMaxAge: cookieAge, SecureCookie: cfg.IsProduction()}

	return &Deps{
		PageHandler:     &PageHandler{Catalog: catalogSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc, Cart: cartSvc},
		SearchHandler:   &SearchHandler{Search: searchSvc},
		CartHandler:     cartH,
		CheckoutHandler: &CheckoutHandler{Carts: cartH, Checkout: checkoutSvc},
		ContactHandler:  &ContactHandler{Contact: contactSvc},
	}
}
