package domain

// DefaultCountry pre-fills the checkout form.
const DefaultCountry = "Costa Rica"

// CheckoutFormData is the shipping and contact data collected at checkout.
type CheckoutFormData struct {
	FirstName  string `json:"firstName" form:"firstName"`
	LastName   string `json:"lastName" form:"lastName"`
	Email      string `json:"email" form:"email"`
	Phone      string `json:"phone" form:"phone"`
	Address    string `json:"address" form:"address"`
	City       string `json:"city" form:"city"`
	State      string `json:"state" form:"state"`
	ZipCode    string `json:"zipCode" form:"zipCode"`
	Country    string `json:"country" form:"country"`
	OrderNotes string `json:"orderNotes" form:"orderNotes"`
}

// ContactMessage is a contact form submission.
type ContactMessage struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// ContactResult is returned to the contact page instead of an error.
type ContactResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
