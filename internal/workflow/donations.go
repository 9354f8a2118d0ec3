// internal/workflow/donations.go
package workflow

import (
	"context"
	"log"
	"strings"
	"time"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/identity"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/notify"
	"dkt-api-server/internal/shiprocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var defaultPickupDimensions = models.Dimensions{Length: 10, Breadth: 10, Height: 10, Weight: 1}

// DonorRequestInput is what a donor submits to offer assets for pickup.
type DonorRequestInput struct {
	ProductIDs     []string
	Address        models.PickupAddress
	City           string
	State          string
	Pincode        string
	Phone          string
	AlternatePhone string
	ShippingDate   time.Time
	Description    string
	Dimensions     models.Dimensions
}

// CreateDonorRequest reserves the donor's assets and records the request.
func (s *Service) CreateDonorRequest(ctx context.Context, donorID primitive.ObjectID, in DonorRequestInput) (*models.DonorRequest, error) {
	// 1. Validate before touching the store
	ids, err := ParseIDs("productIds", in.ProductIDs)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Address.FullAddress) == "" {
		return nil, apperr.Validation("pickup address is required")
	}

	now := s.now()
	req := &models.DonorRequest{
		ID:             primitive.NewObjectID(),
		Donor:          donorID,
		Products:       ids,
		Address:        in.Address,
		City:           in.City,
		State:          in.State,
		Pincode:        in.Pincode,
		Phone:          in.Phone,
		AlternatePhone: in.AlternatePhone,
		ShippingDate:   in.ShippingDate,
		Description:    in.Description,
		Dimensions:     in.Dimensions,
		Status:         models.AssetRequested,
		Fulfillment:    models.Fulfillment{State: models.FulfillmentPending, UpdatedAt: now},
		PaymentDetail:  models.PaymentDetail{Status: models.PaymentPending},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// 2. Flip assets and insert atomically
	if err := s.Store.CreateDonorRequest(ctx, req); err != nil {
		return nil, err
	}

	// 3. Side effects
	s.record(ctx, ids, string(models.AssetRequested), "donation request created", donorID.Hex())
	if donor, err := s.Accounts.FindByID(ctx, models.RoleDonor, donorID); err == nil {
		s.notify(ctx, notify.Message{
			To:      donor.ContactEmail(),
			UserID:  donorID.Hex(),
			Kind:    notify.RequestCreated,
			Payload: map[string]any{"name": donor.DisplayName(), "requestId": req.ID.Hex(), "products": len(ids)},
		})
	} else {
		log.Printf("WARN: donor %s not found for requestCreated notification: %v", donorID.Hex(), err)
	}
	return req, nil
}

func (s *Service) ListDonorRequests(ctx context.Context, donorID primitive.ObjectID) ([]models.DonorRequest, error) {
	return s.Store.ListDonorRequests(ctx, donorID)
}

// AcceptDonorRequest lets a partner move a donor request forward.
func (s *Service) AcceptDonorRequest(ctx context.Context, partnerID primitive.ObjectID, requestID string, status models.AssetStatus) (*models.DonorRequest, error) {
	switch status {
	case models.AssetAssigned, models.AssetPickedup, models.AssetDelivered:
	default:
		return nil, apperr.Validation("status must be one of Assigned, Pickedup, Delivered")
	}
	id, err := ParseID("requestId", requestID)
	if err != nil {
		return nil, err
	}

	req, err := s.Store.FindDonorRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Status.CanAdvanceTo(status) {
		return nil, apperr.Conflict("request is already %s and cannot move to %s", req.Status, status)
	}
	if err := s.Store.AdvanceDonorRequest(ctx, id, &partnerID, status, ""); err != nil {
		return nil, err
	}

	s.record(ctx, req.Products, string(status), "accepted by partner", partnerID.Hex())
	s.notifyDonor(ctx, req.Donor, notify.RequestAccepted, map[string]any{"requestId": id.Hex(), "status": string(status)})

	return s.Store.FindDonorRequest(ctx, id)
}

// AssignInput is the admin action that hands a donor request to a partner and books the pickup.
type AssignInput struct {
	RequestID      string
	PartnerID      string
	PartnerAddress string
}

// AssignToPartner assigns the request and its assets, then books the pickup
// with the courier. A courier failure keeps the assignment and is recorded as
// ShipmentFailed so the booking can be retried.
func (s *Service) AssignToPartner(ctx context.Context, adminID primitive.ObjectID, in AssignInput) (*models.DonorRequest, error) {
	id, err := ParseID("requestId", in.RequestID)
	if err != nil {
		return nil, err
	}
	partnerID, err := ParseID("partnerId", in.PartnerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.PartnerAddress) == "" {
		return nil, apperr.Validation("partner address is required")
	}

	req, err := s.Store.FindDonorRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	donor, err := s.Accounts.FindByID(ctx, models.RoleDonor, req.Donor)
	if err != nil {
		return nil, err
	}
	partner, err := s.Accounts.FindByID(ctx, models.RolePartner, partnerID)
	if err != nil {
		return nil, err
	}
	assets, err := s.Store.FindAssets(ctx, req.Products)
	if err != nil {
		return nil, err
	}
	if !req.Status.CanAdvanceTo(models.AssetAssigned) {
		return nil, apperr.Conflict("request is already %s", req.Status)
	}

	if err := s.Store.AdvanceDonorRequest(ctx, id, &partnerID, models.AssetAssigned, in.PartnerAddress); err != nil {
		return nil, err
	}
	s.record(ctx, req.Products, string(models.AssetAssigned), "assigned to "+partner.DisplayName(), adminID.Hex())

	req.Partner = &partnerID
	req.PartnerAddress = in.PartnerAddress
	req.Status = models.AssetAssigned
	if err := s.bookPickup(ctx, req, donor, partner, assets); err != nil {
		return nil, err
	}
	return s.Store.FindDonorRequest(ctx, id)
}

// RetryDonorRequestShipment re-runs the pickup booking of an assigned request.
func (s *Service) RetryDonorRequestShipment(ctx context.Context, requestID string) (*models.DonorRequest, error) {
	id, err := ParseID("requestId", requestID)
	if err != nil {
		return nil, err
	}
	req, err := s.Store.FindDonorRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Partner == nil || req.PartnerAddress == "" {
		return nil, apperr.Conflict("request has not been assigned to a partner")
	}
	if req.Fulfillment.State == models.FulfillmentBooked {
		return nil, apperr.Conflict("pickup is already booked")
	}

	donor, err := s.Accounts.FindByID(ctx, models.RoleDonor, req.Donor)
	if err != nil {
		return nil, err
	}
	partner, err := s.Accounts.FindByID(ctx, models.RolePartner, *req.Partner)
	if err != nil {
		return nil, err
	}
	assets, err := s.Store.FindAssets(ctx, req.Products)
	if err != nil {
		return nil, err
	}
	if err := s.bookPickup(ctx, req, donor, partner, assets); err != nil {
		return nil, err
	}
	return s.Store.FindDonorRequest(ctx, id)
}

func (s *Service) bookPickup(ctx context.Context, req *models.DonorRequest, donor, partner identity.Account, assets []models.Asset) error {
	billing := s.ParseAddress(req.Address.FullAddress)
	fillAddress(&billing, req.City, req.State, req.Pincode)

	order := shiprocket.Order{
		OrderID:        req.ID.Hex(),
		OrderDate:      s.now(),
		PickupLocation: req.Address.PickupCode,
		Billing: shiprocket.Party{
			Name:    donor.DisplayName(),
			Email:   donor.ContactEmail(),
			Phone:   firstNonEmpty(req.Phone, donor.ContactPhone()),
			Address: billing,
		},
		Shipping: shiprocket.Party{
			Name:    partner.DisplayName(),
			Email:   partner.ContactEmail(),
			Phone:   partner.ContactPhone(),
			Address: s.ParseAddress(req.PartnerAddress),
		},
		PaymentMethod: "Prepaid",
		Dimensions:    req.Dimensions.WithDefaults(defaultPickupDimensions),
		Comment:       req.Description,
	}
	for _, a := range assets {
		units := a.Quantity
		if units < 1 {
			units = 1
		}
		order.Items = append(order.Items, shiprocket.Item{
			Name:         a.Name,
			SKU:          a.ID.Hex(),
			Units:        units,
			SellingPrice: a.OriginalPurchaseValue,
		})
		order.SubTotal += a.OriginalPurchaseValue * float64(units)
	}

	details, err := s.Courier.CreateShipmentOrder(ctx, order)
	if err != nil {
		log.Printf("CRITICAL: pickup booking for request %s failed: %v", req.ID.Hex(), err)
		if ferr := s.Store.FailDonorRequestBooking(ctx, req.ID, err.Error()); ferr != nil {
			log.Printf("CRITICAL: could not record failed booking for request %s: %v", req.ID.Hex(), ferr)
		}
		return err
	}
	if err := s.Store.CompleteDonorRequestBooking(ctx, req.ID, *details); err != nil {
		return err
	}

	s.notify(ctx, notify.Message{
		To:     donor.ContactEmail(),
		UserID: req.Donor.Hex(),
		Kind:   notify.PickupScheduled,
		Payload: map[string]any{
			"name":      donor.DisplayName(),
			"requestId": req.ID.Hex(),
			"partner":   partner.DisplayName(),
			"orderId":   details.OrderID,
			"awbCode":   details.AWBCode,
		},
	})
	return nil
}

func (s *Service) notifyDonor(ctx context.Context, donorID primitive.ObjectID, kind notify.Kind, payload map[string]any) {
	donor, err := s.Accounts.FindByID(ctx, models.RoleDonor, donorID)
	if err != nil {
		log.Printf("WARN: donor %s not found for %s notification: %v", donorID.Hex(), kind, err)
		return
	}
	payload["name"] = donor.DisplayName()
	s.notify(ctx, notify.Message{To: donor.ContactEmail(), UserID: donorID.Hex(), Kind: kind, Payload: payload})
}

// fillAddress completes parsed fields the free-text address did not carry.
func fillAddress(a *shiprocket.Address, city, state, pincode string) {
	if a.City == "" {
		a.City = city
	}
	if a.State == "" {
		a.State = state
	}
	if a.Pincode == "" {
		a.Pincode = pincode
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
