package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyAddressLine = errors.New("address line is required")
	ErrEmptyCity        = errors.New("city is required")
	ErrEmptyPostalCode  = errors.New("postal code is required")
)

// Identity is the user record the Auth Service returns. Fields the storefront does not
// model are preserved in Attributes so they round-trip untouched.
type Identity struct {
	ID         string
	Name       string
	Email      string
	Verified   bool
	Addresses  []Address
	Attributes map[string]any
}

// Address is a delivery address attached to the identity.
type Address struct {
	Label      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// Normalize trims every field and validates the required ones.
func (a *Address) Normalize() error {
	a.Label = strings.TrimSpace(a.Label)
	a.Line1 = strings.TrimSpace(a.Line1)
	a.Line2 = strings.TrimSpace(a.Line2)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.TrimSpace(a.Country)
	a.Phone = strings.TrimSpace(a.Phone)
	if a.Line1 == "" {
		return ErrEmptyAddressLine
	}
	if a.City == "" {
		return ErrEmptyCity
	}
	if a.PostalCode == "" {
		return ErrEmptyPostalCode
	}
	return nil
}

// Clone deep-copies the identity.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	clone := *i
	if i.Addresses != nil {
		clone.Addresses = append([]Address{}, i.Addresses...)
	}
	if i.Attributes != nil {
		clone.Attributes = make(map[string]any, len(i.Attributes))
		for k, v := range i.Attributes {
			clone.Attributes[k] = v
		}
	}
	return &clone
}
