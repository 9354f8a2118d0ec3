// internal/workflow/accounts.go
package workflow

import (
	"context"
	"encoding/json"
	"strings"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/identity"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/shiprocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func pickupOwner(acct identity.Account) shiprocket.PickupOwner {
	return shiprocket.PickupOwner{Name: acct.DisplayName(), Email: acct.ContactEmail(), Phone: acct.ContactPhone()}
}

// AddGSTInfo registers the address as a courier pickup location and stores it
// with the GST number on the account.
func (s *Service) AddGSTInfo(ctx context.Context, role models.Role, userID primitive.ObjectID, gstNumber, address string) (*models.AccountAddress, error) {
	gstNumber = strings.ToUpper(strings.TrimSpace(gstNumber))
	address = strings.TrimSpace(address)
	if gstNumber == "" || address == "" {
		return nil, apperr.Validation("gstNumber and address are required")
	}

	acct, book, err := s.addressable(ctx, role, userID)
	if err != nil {
		return nil, err
	}
	if book.HasGST(gstNumber) {
		return nil, apperr.Conflict("GST number %s is already registered", gstNumber)
	}

	pickup, err := s.Courier.RegisterPickupLocation(ctx, pickupOwner(acct), address)
	if err != nil {
		return nil, err
	}
	addr := models.AccountAddress{
		ID:                      primitive.NewObjectID(),
		Address:                 address,
		Verified:                true,
		ShiprocketPickupDetails: pickup,
	}
	if err := s.Accounts.AddGSTAddress(ctx, role, userID, gstNumber, addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

// AddAddress stores an unverified address. An admin verifies it later.
func (s *Service) AddAddress(ctx context.Context, role models.Role, userID primitive.ObjectID, address string) (*models.AccountAddress, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, apperr.Validation("address is required")
	}
	if _, _, err := s.addressable(ctx, role, userID); err != nil {
		return nil, err
	}
	addr := models.AccountAddress{ID: primitive.NewObjectID(), Address: address}
	if err := s.Accounts.AddAddress(ctx, role, userID, addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

// VerifyAddress registers a stored address as a pickup location and marks it verified.
func (s *Service) VerifyAddress(ctx context.Context, role models.Role, userID, addressID string) (*models.AccountAddress, error) {
	uid, err := ParseID("userId", userID)
	if err != nil {
		return nil, err
	}
	aid, err := ParseID("addressId", addressID)
	if err != nil {
		return nil, err
	}

	acct, book, err := s.addressable(ctx, role, uid)
	if err != nil {
		return nil, err
	}
	addr, ok := book.Lookup(aid)
	if !ok {
		return nil, apperr.NotFound("address not found")
	}
	if addr.Verified {
		return nil, apperr.Conflict("address is already verified")
	}

	pickup, err := s.Courier.RegisterPickupLocation(ctx, pickupOwner(acct), addr.Address)
	if err != nil {
		return nil, err
	}
	if err := s.Accounts.VerifyAddress(ctx, role, uid, aid, *pickup); err != nil {
		return nil, err
	}
	addr.Verified = true
	addr.ShiprocketPickupDetails = pickup
	return &addr, nil
}

// TrackOrder proxies the courier tracking lookup.
func (s *Service) TrackOrder(ctx context.Context, orderID, channelID string) (json.RawMessage, error) {
	return s.Courier.Track(ctx, orderID, channelID)
}
