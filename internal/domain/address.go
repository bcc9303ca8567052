package domain

// ShippingAddress is the single shipping record kept per customer.
type ShippingAddress struct {
	FirstName     string `json:"firstName,omitempty" validate:"required"`
	LastName      string `json:"lastName,omitempty" validate:"required"`
	StreetAddress string `json:"streetAddress,omitempty" validate:"required"`
	Apartment     string `json:"apartment,omitempty"`
	City          string `json:"city,omitempty" validate:"required"`
	State         string `json:"state,omitempty" validate:"required"`
	PinCode       string `json:"pinCode,omitempty" validate:"required"`
	Country       string `json:"country,omitempty" validate:"required"`
	Phone         string `json:"phone,omitempty" validate:"required"`
}

// IsZero reports whether no address has been saved yet.
func (a ShippingAddress) IsZero() bool {
	return a == ShippingAddress{}
}
