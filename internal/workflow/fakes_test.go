package workflow

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"dkt-api-server/internal/apperr"
	"dkt-api-server/internal/identity"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/notify"
	"dkt-api-server/internal/payment"
	"dkt-api-server/internal/shiprocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore mirrors the conditional writes of the Mongo store under one mutex.
type memStore struct {
	mu         sync.Mutex
	assets     map[primitive.ObjectID]models.Asset
	uploads    map[primitive.ObjectID]models.ProductUpload
	donorReqs  map[primitive.ObjectID]models.DonorRequest
	benReqs    map[primitive.ObjectID]models.BeneficiaryRequest
	deliveries map[primitive.ObjectID]models.AssetDelivery
	plans      map[primitive.ObjectID]models.PricingPlan
	invoices   map[primitive.ObjectID]models.Invoice
	reports    []models.Report
	subs       map[primitive.ObjectID]models.Subscription
}

func newMemStore() *memStore {
	return &memStore{
		assets:     map[primitive.ObjectID]models.Asset{},
		uploads:    map[primitive.ObjectID]models.ProductUpload{},
		donorReqs:  map[primitive.ObjectID]models.DonorRequest{},
		benReqs:    map[primitive.ObjectID]models.BeneficiaryRequest{},
		deliveries: map[primitive.ObjectID]models.AssetDelivery{},
		plans:      map[primitive.ObjectID]models.PricingPlan{},
		invoices:   map[primitive.ObjectID]models.Invoice{},
		subs:       map[primitive.ObjectID]models.Subscription{},
	}
}

func (m *memStore) putAsset(a models.Asset) models.Asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	m.assets[a.ID] = a
	return a
}

func (m *memStore) asset(id primitive.ObjectID) models.Asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assets[id]
}

func (m *memStore) InsertUpload(_ context.Context, upload *models.ProductUpload, assets []models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads[upload.ID] = *upload
	for _, a := range assets {
		m.assets[a.ID] = a
	}
	return nil
}

func (m *memStore) ReviewUpload(_ context.Context, id primitive.ObjectID, approval models.Approval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.uploads[id]
	if !ok {
		return apperr.NotFound("upload not found")
	}
	u.AdminApproval = approval
	m.uploads[id] = u
	for _, pid := range u.Products {
		a := m.assets[pid]
		a.AdminApproval = approval
		m.assets[pid] = a
	}
	return nil
}

func (m *memStore) ListUploads(_ context.Context, donorID primitive.ObjectID) ([]models.ProductUpload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ProductUpload
	for _, u := range m.uploads {
		if u.DonorID == donorID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memStore) FindAssets(_ context.Context, ids []primitive.ObjectID) ([]models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Asset
	for _, id := range ids {
		if a, ok := m.assets[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) ListAssets(_ context.Context, donorID primitive.ObjectID) ([]models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Asset
	for _, a := range m.assets {
		if a.DonorID == donorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) UpdateAssetCondition(_ context.Context, id primitive.ObjectID, c models.AssetCondition, r models.Repair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok {
		return apperr.NotFound("product not found")
	}
	a.Condition = c
	a.Repair = r
	m.assets[id] = a
	return nil
}

func (m *memStore) CreateDonorRequest(_ context.Context, req *models.DonorRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range req.Products {
		if a, ok := m.assets[id]; !ok || a.DonorID != req.Donor || a.Status != models.AssetAvailable {
			return apperr.Validation("Some products are not available or do not exist")
		}
	}
	for _, id := range req.Products {
		a := m.assets[id]
		a.Status = models.AssetRequested
		m.assets[id] = a
	}
	m.donorReqs[req.ID] = *req
	return nil
}

func (m *memStore) FindDonorRequest(_ context.Context, id primitive.ObjectID) (*models.DonorRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.donorReqs[id]
	if !ok {
		return nil, apperr.NotFound("request not found")
	}
	return &r, nil
}

func (m *memStore) ListDonorRequests(_ context.Context, donorID primitive.ObjectID) ([]models.DonorRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DonorRequest
	for _, r := range m.donorReqs {
		if r.Donor == donorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) AdvanceDonorRequest(_ context.Context, id primitive.ObjectID, partnerID *primitive.ObjectID, status models.AssetStatus, partnerAddress string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.donorReqs[id]
	if !ok {
		return apperr.NotFound("request not found")
	}
	if !r.Status.CanAdvanceTo(status) {
		return apperr.Conflict("request is already %s", r.Status)
	}
	r.Status = status
	r.Partner = partnerID
	if partnerAddress != "" {
		r.PartnerAddress = partnerAddress
	}
	m.donorReqs[id] = r
	for _, pid := range r.Products {
		a := m.assets[pid]
		a.Status = status
		m.assets[pid] = a
	}
	return nil
}

func (m *memStore) CompleteDonorRequestBooking(_ context.Context, id primitive.ObjectID, d models.ShippingDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.donorReqs[id]
	r.ShippingDetails = &d
	r.Fulfillment.State = models.FulfillmentBooked
	r.Fulfillment.Attempts++
	r.Fulfillment.LastError = ""
	m.donorReqs[id] = r
	return nil
}

func (m *memStore) FailDonorRequestBooking(_ context.Context, id primitive.ObjectID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.donorReqs[id]
	r.Fulfillment.State = models.FulfillmentShipmentFailed
	r.Fulfillment.Attempts++
	r.Fulfillment.LastError = reason
	m.donorReqs[id] = r
	return nil
}

func (m *memStore) InsertBeneficiaryRequest(_ context.Context, req *models.BeneficiaryRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.benReqs[req.ID] = *req
	return nil
}

func (m *memStore) FindBeneficiaryRequest(_ context.Context, id primitive.ObjectID) (*models.BeneficiaryRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.benReqs[id]
	if !ok {
		return nil, apperr.NotFound("beneficiary request not found")
	}
	return &r, nil
}

func (m *memStore) ListBeneficiaryRequests(_ context.Context, beneficiaryID *primitive.ObjectID) ([]models.BeneficiaryRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.BeneficiaryRequest
	for _, r := range m.benReqs {
		if beneficiaryID == nil || r.BeneficiaryID == *beneficiaryID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ModerateBeneficiaryRequest(_ context.Context, id primitive.ObjectID, status models.BeneficiaryRequestStatus, comments string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.benReqs[id]
	if !ok {
		return apperr.NotFound("beneficiary request not found")
	}
	r.Status = status
	r.AdminComments = comments
	m.benReqs[id] = r
	return nil
}

func (m *memStore) CreateDelivery(_ context.Context, d *models.AssetDelivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.deliveries {
		if !existing.Active {
			continue
		}
		for _, a := range existing.AssetIDs {
			for _, b := range d.AssetIDs {
				if a == b {
					return apperr.Conflict("asset %s already has an active delivery", a.Hex())
				}
			}
		}
	}
	r, ok := m.benReqs[d.BeneficiaryRequestID]
	if !ok {
		return apperr.NotFound("beneficiary request not found")
	}
	now := d.CreatedAt
	r.Status = models.BeneficiaryApproved
	r.AssignedDetails = models.AssignedDetails{AssetIDs: d.AssetIDs, Status: models.BindingAssigned, Date: &now}
	m.benReqs[r.ID] = r
	m.deliveries[d.ID] = *d
	return nil
}

func (m *memStore) FindDelivery(_ context.Context, id primitive.ObjectID) (*models.AssetDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deliveries[id]
	if !ok {
		return nil, apperr.NotFound("delivery not found")
	}
	return &d, nil
}

func (m *memStore) ListDeliveries(_ context.Context, partnerID primitive.ObjectID) ([]models.AssetDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AssetDelivery
	for _, d := range m.deliveries {
		if d.PartnerID == partnerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) CompleteDeliveryBooking(_ context.Context, d *models.AssetDelivery, details models.ShippingDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range d.AssetIDs {
		if m.assets[id].Bound() {
			return apperr.Conflict("Assigned assets: %s", id.Hex())
		}
	}
	now := details.BookedAt
	for _, id := range d.AssetIDs {
		a := m.assets[id]
		bid := d.BeneficiaryID
		a.AssignedToBeneficiary = models.BeneficiaryBinding{BeneficiaryID: &bid, Status: models.BindingAssigned, Date: &now}
		m.assets[id] = a
	}
	stored := m.deliveries[d.ID]
	stored.ShippingDetails = &details
	stored.Fulfillment.State = models.FulfillmentBooked
	stored.Fulfillment.Attempts++
	m.deliveries[d.ID] = stored
	r := m.benReqs[d.BeneficiaryRequestID]
	r.ShippingDetails = &details
	m.benReqs[r.ID] = r
	return nil
}

func (m *memStore) FailDeliveryBooking(_ context.Context, id primitive.ObjectID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.deliveries[id]
	d.Fulfillment.State = models.FulfillmentShipmentFailed
	d.Fulfillment.Attempts++
	d.Fulfillment.LastError = reason
	m.deliveries[id] = d
	return nil
}

func (m *memStore) UpdateDeliveryStatus(_ context.Context, d *models.AssetDelivery, partnerID primitive.ObjectID, status models.DeliveryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.deliveries[d.ID]
	if !ok {
		return apperr.NotFound("delivery not found")
	}
	if stored.Status == models.DeliveryDelivered {
		return apperr.Conflict("delivery is already Delivered")
	}
	if status.NeedsShipment() && stored.Fulfillment.State != models.FulfillmentBooked {
		return apperr.Conflict("shipment is not booked")
	}
	stored.Status = status
	stored.PartnerID = partnerID
	r := m.benReqs[stored.BeneficiaryRequestID]
	r.AssignedDetails.Status = models.BindingInProgress
	if status == models.DeliveryDelivered {
		r.AssignedDetails.Status = models.BindingDelivered
		stored.Active = false
		for _, id := range stored.AssetIDs {
			a := m.assets[id]
			a.Status = models.AssetDelivered
			a.AssignedToBeneficiary.Status = models.BindingDelivered
			m.assets[id] = a
		}
	}
	m.benReqs[r.ID] = r
	m.deliveries[d.ID] = stored
	return nil
}

func (m *memStore) FindPlan(_ context.Context, id primitive.ObjectID) (*models.PricingPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, apperr.NotFound("plan not found")
	}
	return &p, nil
}

func (m *memStore) ListPlans(context.Context) ([]models.PricingPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PricingPlan
	for _, p := range m.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) InsertPlan(_ context.Context, p *models.PricingPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID] = *p
	return nil
}

func (m *memStore) UpdatePlan(_ context.Context, p *models.PricingPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[p.ID]; !ok {
		return apperr.NotFound("plan not found")
	}
	m.plans[p.ID] = *p
	return nil
}

func (m *memStore) DeletePlan(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return apperr.NotFound("plan not found")
	}
	delete(m.plans, id)
	return nil
}

func (m *memStore) CreateInvoice(_ context.Context, inv *models.Invoice, sub *models.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.invoices {
		if existing.RequestID == inv.RequestID && existing.InvoiceType == inv.InvoiceType {
			return apperr.Conflict("a %s invoice already exists for this request", inv.InvoiceType)
		}
	}
	m.invoices[inv.ID] = *inv
	r := m.donorReqs[inv.RequestID]
	r.InvoiceGenerated = true
	m.donorReqs[r.ID] = r
	if sub != nil {
		m.subs[inv.DonorID] = *sub
	}
	return nil
}

func (m *memStore) FindInvoice(_ context.Context, id primitive.ObjectID) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, apperr.NotFound("invoice not found")
	}
	return &inv, nil
}

func (m *memStore) FindInvoiceByOrder(_ context.Context, orderID string) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if inv.PaymentDetail.OrderID == orderID {
			return &inv, nil
		}
	}
	return nil, apperr.NotFound("invoice not found")
}

func (m *memStore) AttachPaymentOrder(_ context.Context, id primitive.ObjectID, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv := m.invoices[id]
	inv.PaymentDetail.OrderID = orderID
	m.invoices[id] = inv
	return nil
}

func (m *memStore) SettleInvoice(_ context.Context, inv *models.Invoice, txn string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.invoices[inv.ID]
	stored.PaymentDetail = models.PaymentDetail{Status: models.PaymentSuccess, Paid: true, TransactionID: txn, OrderID: stored.PaymentDetail.OrderID}
	m.invoices[inv.ID] = stored
	r := m.donorReqs[inv.RequestID]
	r.PaymentDetail = models.PaymentDetail{Status: models.PaymentActive, Paid: true, TransactionID: txn}
	m.donorReqs[r.ID] = r
	if inv.Subscription != nil {
		sub := m.subs[inv.DonorID]
		sub.Status = models.PaymentActive
		sub.Paid = true
		sub.TransactionID = txn
		sub.StartedAt = &at
		sub.ExpiresAt = at.AddDate(1, 0, 0)
		m.subs[inv.DonorID] = sub
	}
	return nil
}

func (m *memStore) InsertReport(_ context.Context, r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, *r)
	return nil
}

func (m *memStore) ListReports(context.Context) ([]models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Report(nil), m.reports...), nil
}

// memDirectory is an in-memory identity.Directory.
type memDirectory struct {
	mu       sync.Mutex
	accounts map[primitive.ObjectID]identity.Account
}

func newMemDirectory() *memDirectory {
	return &memDirectory{accounts: map[primitive.ObjectID]identity.Account{}}
}

func (d *memDirectory) add(acct identity.Account) identity.Account {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts[acct.AccountID()] = acct
	return acct
}

func (d *memDirectory) FindByEmail(_ context.Context, role models.Role, email string) (identity.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, a := range d.accounts {
		if a.Role() == role && a.ContactEmail() == email {
			return a, nil
		}
	}
	return nil, apperr.NotFound("account not found")
}

func (d *memDirectory) FindByID(_ context.Context, role models.Role, id primitive.ObjectID) (identity.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.accounts[id]
	if !ok || a.Role() != role {
		return nil, apperr.NotFound("%s not found", role)
	}
	return a, nil
}

func (d *memDirectory) Insert(_ context.Context, acct identity.Account) error {
	d.add(acct)
	return nil
}

func (d *memDirectory) SetApproval(context.Context, models.Role, primitive.ObjectID, models.Approval) error {
	return nil
}

func (d *memDirectory) ListByRole(_ context.Context, role models.Role) ([]identity.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []identity.Account
	for _, a := range d.accounts {
		if a.Role() == role {
			out = append(out, a)
		}
	}
	return out, nil
}

func (d *memDirectory) updateBook(id primitive.ObjectID, fn func(*models.AddressBook)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch a := d.accounts[id].(type) {
	case models.Donor:
		fn(&a.AddressBook)
		d.accounts[id] = a
	case models.Partner:
		fn(&a.AddressBook)
		d.accounts[id] = a
	case models.Beneficiary:
		fn(&a.AddressBook)
		d.accounts[id] = a
	default:
		return apperr.NotFound("account not found")
	}
	return nil
}

func (d *memDirectory) AddGSTAddress(_ context.Context, _ models.Role, id primitive.ObjectID, gst string, addr models.AccountAddress) error {
	return d.updateBook(id, func(b *models.AddressBook) {
		b.GSTIn = append(b.GSTIn, gst)
		b.Addresses = append(b.Addresses, addr)
	})
}

func (d *memDirectory) AddAddress(_ context.Context, _ models.Role, id primitive.ObjectID, addr models.AccountAddress) error {
	return d.updateBook(id, func(b *models.AddressBook) { b.Addresses = append(b.Addresses, addr) })
}

func (d *memDirectory) VerifyAddress(_ context.Context, _ models.Role, id, addressID primitive.ObjectID, pickup models.PickupDetails) error {
	return d.updateBook(id, func(b *models.AddressBook) {
		for i := range b.Addresses {
			if b.Addresses[i].ID == addressID {
				b.Addresses[i].Verified = true
				b.Addresses[i].ShiprocketPickupDetails = &pickup
			}
		}
	})
}

// stubCourier records orders and fails while failWith is set.
type stubCourier struct {
	mu       sync.Mutex
	orders   []shiprocket.Order
	failWith error
	pickups  int
}

func (c *stubCourier) CreateShipmentOrder(_ context.Context, o shiprocket.Order) (*models.ShippingDetails, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = append(c.orders, o)
	if c.failWith != nil {
		return nil, c.failWith
	}
	return &models.ShippingDetails{
		OrderID:     "SR-" + o.OrderID,
		ShipmentID:  "SHP-1",
		Status:      "NEW",
		StatusCode:  "1",
		AWBCode:     "AWB123",
		CourierName: "Delhivery",
		BookedAt:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}, nil
}

func (c *stubCourier) RegisterPickupLocation(_ context.Context, _ shiprocket.PickupOwner, address string) (*models.PickupDetails, error) {
	if _, err := shiprocket.PickupAddressFrom(address); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pickups++
	return &models.PickupDetails{PickupCode: "Pickup-TEST0001", CompanyID: "42", PickupID: "7"}, nil
}

func (c *stubCourier) Track(_ context.Context, orderID, channelID string) (json.RawMessage, error) {
	if orderID == "" || channelID == "" {
		return nil, apperr.Validation("order_id and channel_id are required")
	}
	return json.RawMessage(`{"tracking_data":{"shipment_status":7}}`), nil
}

func (c *stubCourier) lastOrder() shiprocket.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orders[len(c.orders)-1]
}

func (c *stubCourier) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failWith = err
}

type stubGateway struct {
	secret  string
	created []int64
}

func (g *stubGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (*payment.Order, error) {
	g.created = append(g.created, amountMinor)
	return &payment.Order{ID: "order_" + receipt, Amount: amountMinor, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func (g *stubGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.VerifySignature(g.secret, orderID, paymentID, signature)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (n *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) kinds() []notify.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Kind, len(n.sent))
	for i, m := range n.sent {
		out[i] = m.Kind
	}
	return out
}

type recordingTrail struct {
	mu     sync.Mutex
	events []models.TrackingEvent
}

func (r *recordingTrail) Record(_ context.Context, events []models.TrackingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *recordingTrail) History(_ context.Context, assetID primitive.ObjectID) ([]models.TrackingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.TrackingEvent{}
	for _, e := range r.events {
		if e.AssetID == assetID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memImages struct{ keys []string }

func (m *memImages) UploadFile(_ context.Context, file io.Reader, key, _ string) (string, error) {
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	m.keys = append(m.keys, key)
	return "https://cdn.test/" + key, nil
}

type harness struct {
	svc      *Service
	store    *memStore
	dir      *memDirectory
	courier  *stubCourier
	gateway  *stubGateway
	notifier *recordingNotifier
	trail    *recordingTrail
	images   *memImages

	donor       models.Donor
	partner     models.Partner
	beneficiary models.Beneficiary
	admin       models.Admin
}

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newHarness() *harness {
	h := &harness{
		store:    newMemStore(),
		dir:      newMemDirectory(),
		courier:  &stubCourier{},
		gateway:  &stubGateway{secret: "rzp_secret"},
		notifier: &recordingNotifier{},
		trail:    &recordingTrail{},
		images:   &memImages{},
	}
	h.svc = New(h.store, h.dir, h.courier, h.gateway, h.images, h.notifier, h.trail)
	h.svc.Now = func() time.Time { return fixedNow }
	h.svc.History = h.trail

	base := func(email, phone string) models.AccountBase {
		return models.AccountBase{ID: primitive.NewObjectID(), Email: email, Phone: phone, Verify: models.ApprovalApproved}
	}
	h.donor = models.Donor{AccountBase: base("donor@acme.test", "9000000001"), Name: "Asha", CompanyName: "Acme Corp"}
	h.partner = models.Partner{AccountBase: base("ops@recyclers.test", "9000000002"), PartnerName: "Green Recyclers"}
	h.beneficiary = models.Beneficiary{AccountBase: base("school@ngo.test", "9000000003"), Name: "Sunrise School"}
	h.admin = models.Admin{AccountBase: base("admin@dkt.test", ""), Name: "Admin"}
	for _, a := range []identity.Account{h.donor, h.partner, h.beneficiary, h.admin} {
		h.dir.add(a)
	}
	return h
}

func (h *harness) availableAsset(name string) models.Asset {
	return h.store.putAsset(models.Asset{
		DonorID:               h.donor.ID,
		Name:                  name,
		Model:                 "T480",
		Quantity:              1,
		OriginalPurchaseValue: 45000,
		Condition:             models.ConditionUnclassified,
		Status:                models.AssetAvailable,
		AssignedToBeneficiary: models.BeneficiaryBinding{Status: models.BindingPending},
	})
}

func (h *harness) pickedUpAsset(name string) models.Asset {
	a := h.availableAsset(name)
	a.Status = models.AssetPickedup
	return h.store.putAsset(a)
}

func (h *harness) pendingBeneficiaryRequest() *models.BeneficiaryRequest {
	req, err := h.svc.SubmitBeneficiaryRequest(context.Background(), h.beneficiary.ID, BeneficiaryRequestInput{
		FullName:      "Sunrise School",
		ContactNumber: "9876543210",
		Email:         "school@ngo.test",
		Address:       models.PickupAddress{FullAddress: "7 Lake Rd, Pune, Maharashtra, 411001"},
		City:          "Pune",
		State:         "Maharashtra",
		Pincode:       "411001",
		DeviceType:    models.DeviceLaptop,
		Urgency:       models.UrgencyHigh,
		Quantity:      2,
	})
	if err != nil {
		panic(err)
	}
	return req
}

var errCourierDown = apperr.Integration(http.StatusServiceUnavailable, `{"message":"service unavailable"}`)

func ids(assets ...models.Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.ID.Hex()
	}
	return out
}
