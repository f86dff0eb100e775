package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"puravida/internal/domain"
	applog "puravida/internal/log"
	"puravida/internal/validate"
)

var ErrEmptyCart = errors.New("cart is empty")

type CheckoutState string

const (
	CheckoutPending   CheckoutState = "pending"
	CheckoutSucceeded CheckoutState = "succeeded"
	CheckoutFailed    CheckoutState = "failed"
)

// Checkout is one order submission. It starts pending and ends either
// succeeded (with an order number) or failed (with Err).
type Checkout struct {
	State       CheckoutState
	OrderNumber string
	Err         error
	Form        domain.CheckoutFormData
	Summary     domain.CartSummary
	CreatedAt   time.Time
}

// Processor takes a pending checkout to completion. A real payment or
// order backend replaces SimulatedProcessor behind this interface.
type Processor interface {
	Process(ctx context.Context, c *Checkout) error
}

// SimulatedProcessor waits Delay and succeeds, unless ctx ends first.
type SimulatedProcessor struct {
	Delay time.Duration
}

func (p SimulatedProcessor) Process(ctx context.Context, _ *Checkout) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FormErrors maps a form field name to a message for the visitor.
type FormErrors map[string]string

func (e FormErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid checkout form: " + strings.Join(fields, ", ")
}

type CheckoutService struct {
	Carts     *CartService
	Processor Processor

	now func() time.Time
}

func NewCheckoutService(carts *CartService, p Processor) *CheckoutService {
	return &CheckoutService{Carts: carts, Processor: p, now: time.Now}
}

// ValidateForm trims every field, defaults the country and checks that all
// fields except the order notes are present.
func ValidateForm(f domain.CheckoutFormData) (domain.CheckoutFormData, FormErrors) {
	trim := strings.TrimSpace
	f = domain.CheckoutFormData{
		FirstName:  trim(f.FirstName),
		LastName:   trim(f.LastName),
		Email:      trim(f.Email),
		Phone:      trim(f.Phone),
		Address:    trim(f.Address),
		City:       trim(f.City),
		State:      trim(f.State),
		ZipCode:    trim(f.ZipCode),
		Country:    trim(f.Country),
		OrderNotes: trim(f.OrderNotes),
	}
	if f.Country == "" {
		f.Country = domain.DefaultCountry
	}

	errs := FormErrors{}
	required := []struct{ field, value, label string }{
		{"firstName", f.FirstName, "First name"},
		{"lastName", f.LastName, "Last name"},
		{"email", f.Email, "Email"},
		{"phone", f.Phone, "Phone"},
		{"address", f.Address, "Address"},
		{"city", f.City, "City"},
		{"state", f.State, "State / Province"},
		{"zipCode", f.ZipCode, "ZIP / Postal code"},
	}
	for _, r := range required {
		if r.value == "" {
			errs[r.field] = r.label + " is required"
		}
	}
	if _, ok := errs["email"]; !ok {
		if _, valid := validate.Email(f.Email); !valid {
			errs["email"] = "Please enter a valid email address"
		}
	}
	if _, ok := errs["phone"]; !ok {
		if _, valid := validate.Phone(f.Phone); !valid {
			errs["phone"] = "Please enter a valid phone number"
		}
	}
	if len(errs) == 0 {
		return f, nil
	}
	return f, errs
}

// OrderNumber derives a display order number from t: "CR" followed by the
// last six digits of its millisecond timestamp.
func OrderNumber(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "CR" + ms
}

// Submit validates the form, snapshots the visitor's cart and runs the
// processor. On success the cart is cleared. Nothing is persisted.
func (s *CheckoutService) Submit(ctx context.Context, sid string, form domain.CheckoutFormData) (*Checkout, error) {
	form, ferr := ValidateForm(form)
	if ferr != nil {
		return nil, ferr
	}
	summary := s.Carts.View(ctx, sid)
	if len(summary.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	c := &Checkout{
		State:     CheckoutPending,
		Form:      form,
		Summary:   summary,
		CreatedAt: s.now(),
	}
	if err := s.Processor.Process(ctx, c); err != nil {
		c.State = CheckoutFailed
		c.Err = err
		applog.Error(nil, "checkout.failed", err, map[string]any{
			"items": summary.TotalItems,
			"total": summary.Total.StringFixed(2),
		})
		return c, fmt.Errorf("checkout: %w", err)
	}

	c.State = CheckoutSucceeded
	c.OrderNumber = OrderNumber(s.now())
	s.Carts.Subtract(ctx, sid, summary.Lines)
	applog.Audit(nil, "checkout.order_placed", map[string]any{
		"order":    c.OrderNumber,
		"items":    summary.TotalItems,
		"subtotal": summary.Subtotal.StringFixed(2),
		"tax":      summary.Tax.StringFixed(2),
		"total":    summary.Total.StringFixed(2),
		"country":  form.Country,
	})
	return c, nil
}
