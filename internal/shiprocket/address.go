// internal/shiprocket/address.go
package shiprocket

import (
	"regexp"
	"strings"

	"dkt-api-server/internal/apperr"
)

// Address is a free-text address split into the fields the courier expects.
type Address struct {
	Street  string
	City    string
	State   string
	Pincode string
}

// AddressParser turns a free-text address into courier fields.
type AddressParser func(string) Address

// ParseAddress splits on commas and reads the parts by position from the end:
// pincode, then state, then city. Whatever precedes those three is the street.
func ParseAddress(raw string) Address {
	if strings.TrimSpace(raw) == "" {
		return Address{}
	}

	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	n := len(parts)

	var a Address
	if n >= 1 {
		a.Pincode = parts[n-1]
	}
	if n >= 2 {
		a.State = parts[n-2]
	}
	if n >= 3 {
		a.City = parts[n-3]
	}
	if n > 3 {
		a.Street = strings.Join(parts[:n-3], ", ")
	}
	return a
}

var pincodePattern = regexp.MustCompile(`\b\d{6}\b`)

// PickupAddressFrom is the stricter variant used when registering pickup
// locations: it needs city, state and a six digit pincode.
func PickupAddressFrom(raw string) (Address, error) {
	if strings.Count(raw, ",") < 2 {
		return Address{}, apperr.Validation("Address does not contain enough components to extract city, state, and pincode.")
	}
	a := ParseAddress(raw)
	pin := pincodePattern.FindString(a.Pincode)
	if pin == "" {
		return Address{}, apperr.Validation("Address must end with a 6 digit pincode.")
	}
	a.Pincode = pin
	if a.Street == "" {
		a.Street = raw
	}
	return a, nil
}
