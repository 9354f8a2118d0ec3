// internal/workflow/allocations.go
package workflow

import (
	"context"
	"log"
	"regexp"
	"strings"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/identity"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/notify"
	"dkt-api-server/internal/shiprocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)

	deliveryDimensions = models.Dimensions{Length: 30, Breadth: 30, Height: 30, Weight: 5}
)

// BeneficiaryRequestInput is a beneficiary's ask for devices.
type BeneficiaryRequestInput struct {
	FullName         string
	ContactNumber    string
	Email            string
	OrganizationName string
	Role             string
	Address          models.PickupAddress
	City             string
	State            string
	Pincode          string
	DeviceType       models.DeviceType
	Specifications   string
	Urgency          models.Urgency
	Quantity         int
}

func (in BeneficiaryRequestInput) validate() error {
	switch {
	case strings.TrimSpace(in.FullName) == "":
		return apperr.Validation("full name is required")
	case !phonePattern.MatchString(in.ContactNumber):
		return apperr.Validation("contact number must be 10 digits")
	case !pincodePattern.MatchString(in.Pincode):
		return apperr.Validation("pincode must be 6 digits")
	case strings.TrimSpace(in.Address.FullAddress) == "":
		return apperr.Validation("address is required")
	case !in.DeviceType.Valid():
		return apperr.Validation("device type must be one of Laptop, Desktop, Tablet")
	case !in.Urgency.Valid():
		return apperr.Validation("urgency must be one of Low, Medium, High")
	case in.Quantity < 1:
		return apperr.Validation("quantity must be at least 1")
	}
	return nil
}

// SubmitBeneficiaryRequest stores a new request awaiting moderation.
func (s *Service) SubmitBeneficiaryRequest(ctx context.Context, beneficiaryID primitive.ObjectID, in BeneficiaryRequestInput) (*models.BeneficiaryRequest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.now()
	req := &models.BeneficiaryRequest{
		ID:               primitive.NewObjectID(),
		BeneficiaryID:    beneficiaryID,
		FullName:         in.FullName,
		ContactNumber:    in.ContactNumber,
		Email:            in.Email,
		OrganizationName: in.OrganizationName,
		Role:             in.Role,
		Address:          in.Address,
		City:             in.City,
		State:            in.State,
		Pincode:          in.Pincode,
		DeviceType:       in.DeviceType,
		Specifications:   in.Specifications,
		Urgency:          in.Urgency,
		Quantity:         in.Quantity,
		Status:           models.BeneficiaryPending,
		AssignedDetails:  models.AssignedDetails{AssetIDs: []primitive.ObjectID{}, Status: models.BindingPending},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Store.InsertBeneficiaryRequest(ctx, req); err != nil {
		return nil, err
	}

	s.notify(ctx, notify.Message{
		To:      req.Email,
		UserID:  beneficiaryID.Hex(),
		Kind:    notify.AssetRequestSubmitted,
		Payload: map[string]any{"name": req.FullName, "requestId": req.ID.Hex(), "deviceType": string(req.DeviceType), "quantity": req.Quantity},
	})
	return req, nil
}

// ListBeneficiaryRequests returns one beneficiary's requests, or every request when beneficiaryID is nil.
func (s *Service) ListBeneficiaryRequests(ctx context.Context, beneficiaryID *primitive.ObjectID) ([]models.BeneficiaryRequest, error) {
	return s.Store.ListBeneficiaryRequests(ctx, beneficiaryID)
}

// ModerateBeneficiaryRequest approves or rejects a request. It never binds assets.
func (s *Service) ModerateBeneficiaryRequest(ctx context.Context, requestID string, status models.BeneficiaryRequestStatus, comments string) (*models.BeneficiaryRequest, error) {
	if status != models.BeneficiaryApproved && status != models.BeneficiaryRejected {
		return nil, apperr.Validation("status must be Approved or Rejected")
	}
	id, err := ParseID("requestId", requestID)
	if err != nil {
		return nil, err
	}
	if err := s.Store.ModerateBeneficiaryRequest(ctx, id, status, comments); err != nil {
		return nil, err
	}
	req, err := s.Store.FindBeneficiaryRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notify.Message{
		To:      req.Email,
		UserID:  req.BeneficiaryID.Hex(),
		Kind:    notify.AssetRequestStatusChanged,
		Payload: map[string]any{"name": req.FullName, "requestId": id.Hex(), "status": string(status), "comments": comments},
	})
	return req, nil
}

// DeliveryInput is the admin action allocating picked-up assets to a beneficiary request.
type DeliveryInput struct {
	BeneficiaryRequestID string
	AssetIDs             []string
	PartnerID            string
	PartnerAddress       models.PartnerAddress
}

// CreateDelivery allocates assets to a beneficiary request through a partner
// and books the last-mile shipment. Assets are bound to the beneficiary only
// once the courier accepts the order.
func (s *Service) CreateDelivery(ctx context.Context, adminID primitive.ObjectID, in DeliveryInput) (*models.AssetDelivery, error) {
	// 1. Validate input
	reqID, err := ParseID("requestId", in.BeneficiaryRequestID)
	if err != nil {
		return nil, err
	}
	assetIDs, err := ParseIDs("assetIds", in.AssetIDs)
	if err != nil {
		return nil, err
	}
	partnerID, err := ParseID("partnerId", in.PartnerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.PartnerAddress.PickupCode) == "" || strings.TrimSpace(in.PartnerAddress.Address) == "" {
		return nil, apperr.Validation("partner address and pickup code are required")
	}

	// 2. Check the assets
	assets, err := s.Store.FindAssets(ctx, assetIDs)
	if err != nil {
		return nil, err
	}
	var bound []primitive.ObjectID
	for _, a := range assets {
		if a.Bound() {
			bound = append(bound, a.ID)
		}
	}
	if len(bound) > 0 {
		return nil, apperr.Conflict("Assigned assets: %s", hexList(bound))
	}
	if len(assets) != len(assetIDs) {
		return nil, apperr.NotFound("some assets do not exist")
	}
	for _, a := range assets {
		if a.Status != models.AssetPickedup {
			return nil, apperr.Validation("asset %s is %s; only Pickedup assets can be allocated", a.ID.Hex(), a.Status)
		}
	}

	req, err := s.Store.FindBeneficiaryRequest(ctx, reqID)
	if err != nil {
		return nil, err
	}
	partner, err := s.Accounts.FindByID(ctx, models.RolePartner, partnerID)
	if err != nil {
		return nil, err
	}

	// 3. Persist the assignment
	now := s.now()
	d := &models.AssetDelivery{
		ID:                   primitive.NewObjectID(),
		BeneficiaryRequestID: reqID,
		BeneficiaryID:        req.BeneficiaryID,
		AssetIDs:             assetIDs,
		PartnerID:            partnerID,
		PartnerAddress:       in.PartnerAddress,
		Status:               models.DeliveryAssigned,
		Active:               true,
		Fulfillment:          models.Fulfillment{State: models.FulfillmentPending, UpdatedAt: now},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.Store.CreateDelivery(ctx, d); err != nil {
		return nil, err
	}
	s.record(ctx, assetIDs, string(models.BindingAssigned), "allocated to beneficiary request "+reqID.Hex(), adminID.Hex())

	// 4. Book the shipment
	if err := s.bookDelivery(ctx, d, req, partner, assets); err != nil {
		return nil, err
	}
	return s.Store.FindDelivery(ctx, d.ID)
}

// RetryDeliveryShipment re-runs the courier booking of an assignment whose shipment failed.
func (s *Service) RetryDeliveryShipment(ctx context.Context, deliveryID string) (*models.AssetDelivery, error) {
	id, err := ParseID("deliveryId", deliveryID)
	if err != nil {
		return nil, err
	}
	d, err := s.Store.FindDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Fulfillment.State == models.FulfillmentBooked {
		return nil, apperr.Conflict("shipment is already booked")
	}
	if !d.Active {
		return nil, apperr.Conflict("delivery is no longer active")
	}

	req, err := s.Store.FindBeneficiaryRequest(ctx, d.BeneficiaryRequestID)
	if err != nil {
		return nil, err
	}
	partner, err := s.Accounts.FindByID(ctx, models.RolePartner, d.PartnerID)
	if err != nil {
		return nil, err
	}
	assets, err := s.Store.FindAssets(ctx, d.AssetIDs)
	if err != nil {
		return nil, err
	}
	if err := s.bookDelivery(ctx, d, req, partner, assets); err != nil {
		return nil, err
	}
	return s.Store.FindDelivery(ctx, id)
}

func (s *Service) bookDelivery(ctx context.Context, d *models.AssetDelivery, req *models.BeneficiaryRequest, partner identity.Account, assets []models.Asset) error {
	shipping := s.ParseAddress(req.Address.FullAddress)
	fillAddress(&shipping, req.City, req.State, req.Pincode)

	order := shiprocket.Order{
		OrderID:        d.ID.Hex(),
		OrderDate:      s.now(),
		PickupLocation: d.PartnerAddress.PickupCode,
		Billing: shiprocket.Party{
			Name:    partner.DisplayName(),
			Email:   partner.ContactEmail(),
			Phone:   partner.ContactPhone(),
			Address: s.ParseAddress(d.PartnerAddress.Address),
		},
		Shipping: shiprocket.Party{
			Name:    req.FullName,
			Email:   req.Email,
			Phone:   req.ContactNumber,
			Address: shipping,
		},
		PaymentMethod: "Prepaid",
		Dimensions:    deliveryDimensions,
	}
	for _, a := range assets {
		units := a.Quantity
		if units < 1 {
			units = 1
		}
		order.Items = append(order.Items, shiprocket.Item{Name: a.Name, SKU: a.ID.Hex(), Units: units})
	}

	details, err := s.Courier.CreateShipmentOrder(ctx, order)
	if err != nil {
		log.Printf("CRITICAL: delivery booking for %s failed: %v", d.ID.Hex(), err)
		if ferr := s.Store.FailDeliveryBooking(ctx, d.ID, err.Error()); ferr != nil {
			log.Printf("CRITICAL: could not record failed booking for delivery %s: %v", d.ID.Hex(), ferr)
		}
		return err
	}
	if err := s.Store.CompleteDeliveryBooking(ctx, d, *details); err != nil {
		return err
	}

	s.record(ctx, d.AssetIDs, string(models.BindingAssigned), "shipment booked with "+details.CourierName, d.PartnerID.Hex())
	s.notify(ctx, notify.Message{
		To:     req.Email,
		UserID: req.BeneficiaryID.Hex(),
		Kind:   notify.AssetAllocated,
		Payload: map[string]any{
			"name":      req.FullName,
			"requestId": req.ID.Hex(),
			"assets":    len(d.AssetIDs),
			"orderId":   details.OrderID,
			"awbCode":   details.AWBCode,
		},
	})
	return nil
}

// UpdateDeliveryStatus is the partner accept, reject and progress action.
// Requested hands the assignment back to the admin queue.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, partnerID primitive.ObjectID, deliveryID string, status models.DeliveryStatus) (*models.AssetDelivery, error) {
	if !status.Valid() {
		return nil, apperr.Validation("status must be one of Requested, Assigned, In-progress, Delivered")
	}
	id, err := ParseID("deliveryId", deliveryID)
	if err != nil {
		return nil, err
	}
	d, err := s.Store.FindDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status == models.DeliveryDelivered {
		return nil, apperr.Conflict("delivery is already Delivered")
	}
	if status.NeedsShipment() && d.Fulfillment.State != models.FulfillmentBooked {
		return nil, apperr.Conflict("delivery cannot move to %s before its shipment is booked", status)
	}
	if err := s.Store.UpdateDeliveryStatus(ctx, d, partnerID, status); err != nil {
		return nil, err
	}

	if status == models.DeliveryDelivered {
		s.record(ctx, d.AssetIDs, string(models.AssetDelivered), "delivered to beneficiary", partnerID.Hex())
	} else {
		s.record(ctx, d.AssetIDs, string(models.BindingInProgress), "partner set delivery "+string(status), partnerID.Hex())
	}

	req, err := s.Store.FindBeneficiaryRequest(ctx, d.BeneficiaryRequestID)
	if err != nil {
		log.Printf("WARN: beneficiary request %s missing for delivery %s: %v", d.BeneficiaryRequestID.Hex(), id.Hex(), err)
	} else {
		partnerName := ""
		if partner, err := s.Accounts.FindByID(ctx, models.RolePartner, partnerID); err == nil {
			partnerName = partner.DisplayName()
		}
		s.notify(ctx, notify.Message{
			To:      req.Email,
			UserID:  req.BeneficiaryID.Hex(),
			Kind:    notify.DeliveryPartnerAssigned,
			Payload: map[string]any{"name": req.FullName, "partner": partnerName, "status": string(status), "deliveryId": id.Hex()},
		})
	}
	return s.Store.FindDelivery(ctx, id)
}

func (s *Service) ListDeliveries(ctx context.Context, partnerID primitive.ObjectID) ([]models.AssetDelivery, error) {
	return s.Store.ListDeliveries(ctx, partnerID)
}
