package domain

// ============================================================
// Customers / Properties
// ============================================================

// Customer is owned by the customer service.
type Customer struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// CreateCustomerRequest is the write shape for the customer service.
type CreateCustomerRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Property is a service address tied to a customer.
type Property struct {
	ID           string `json:"id"`
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// CreatePropertyRequest is the write shape for the customer service.
type CreatePropertyRequest struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode,omitempty"`
	Notes        string `json:"notes,omitempty"`
	CustomerID   string `json:"customerId"`
}
