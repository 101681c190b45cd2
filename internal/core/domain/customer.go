package domain

// Customer is the single relational entity managed by this service.
// ID is server-assigned and immutable; phone number and email are
// unique across the customer set (enforced both by an application-level
// pre-check and a unique index in the store).
type Customer struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

// CustomerPayload is the request body for create and update. Update
// replaces all mutable fields in place; the identifier in the path wins
// over anything in the body.
type CustomerPayload struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}
