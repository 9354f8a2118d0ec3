// internal/shiprocket/pickup.go
package shiprocket

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"dkt-api-server/internal/models"

	"github.com/google/uuid"
)

// PickupOwner is the account a pickup location is registered for.
type PickupOwner struct {
	Name  string
	Email string
	Phone string
}

type pickupPayload struct {
	PickupLocation string `json:"pickup_location"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Address2       string `json:"address_2"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
	PinCode        string `json:"pin_code"`
}

type pickupResponse struct {
	Success bool `json:"success"`
	Address struct {
		PickupCode   string `json:"pickup_code"`
		CompanyID    any    `json:"company_id"`
		RTOAddressID any    `json:"rto_address_id"`
	} `json:"address"`
	PickupID any `json:"pickup_id"`
}

// RegisterPickupLocation registers address as a named pickup point and
// returns the code later orders use as pickup_location.
func (c *Client) RegisterPickupLocation(ctx context.Context, owner PickupOwner, address string) (*models.PickupDetails, error) {
	parsed, err := PickupAddressFrom(address)
	if err != nil {
		return nil, err
	}

	payload := pickupPayload{
		PickupLocation: fmt.Sprintf("Pickup-%s", strings.ToUpper(uuid.New().String()[:8])),
		Name:           owner.Name,
		Email:          owner.Email,
		Phone:          owner.Phone,
		Address:        parsed.Street,
		City:           parsed.City,
		State:          parsed.State,
		Country:        "India",
		PinCode:        parsed.Pincode,
	}

	var resp pickupResponse
	if err := c.do(ctx, http.MethodPost, "settings/company/addpickup", payload, &resp); err != nil {
		return nil, err
	}

	code := resp.Address.PickupCode
	if code == "" {
		code = payload.PickupLocation
	}
	return &models.PickupDetails{
		PickupCode:   code,
		CompanyID:    stringify(resp.Address.CompanyID),
		RTOAddressID: stringify(resp.Address.RTOAddressID),
		PickupID:     stringify(resp.PickupID),
	}, nil
}
