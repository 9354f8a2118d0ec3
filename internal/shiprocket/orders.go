// internal/shiprocket/orders.go
package shiprocket

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dkt-api-server/internal/models"
)

// Party is one side of a shipment.
type Party struct {
	Name    string
	Email   string
	Phone   string
	Address Address
}

type Item struct {
	Name         string
	SKU          string
	Units        int
	SellingPrice float64
}

// Order is what callers hand to CreateShipmentOrder.
type Order struct {
	OrderID        string
	OrderDate      time.Time
	PickupLocation string
	Billing        Party
	Shipping       Party
	Items          []Item
	PaymentMethod  string
	SubTotal       float64
	Dimensions     models.Dimensions
	Comment        string
}

type orderItemPayload struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
	Discount     float64 `json:"discount"`
	Tax          float64 `json:"tax"`
	HSN          string  `json:"hsn"`
}

type orderPayload struct {
	OrderID              string             `json:"order_id"`
	OrderDate            string             `json:"order_date"`
	PickupLocation       string             `json:"pickup_location"`
	Comment              string             `json:"comment,omitempty"`
	BillingCustomerName  string             `json:"billing_customer_name"`
	BillingLastName      string             `json:"billing_last_name"`
	BillingAddress       string             `json:"billing_address"`
	BillingCity          string             `json:"billing_city"`
	BillingPincode       string             `json:"billing_pincode"`
	BillingState         string             `json:"billing_state"`
	BillingCountry       string             `json:"billing_country"`
	BillingEmail         string             `json:"billing_email"`
	BillingPhone         string             `json:"billing_phone"`
	ShippingIsBilling    bool               `json:"shipping_is_billing"`
	ShippingCustomerName string             `json:"shipping_customer_name"`
	ShippingLastName     string             `json:"shipping_last_name"`
	ShippingAddress      string             `json:"shipping_address"`
	ShippingCity         string             `json:"shipping_city"`
	ShippingPincode      string             `json:"shipping_pincode"`
	ShippingCountry      string             `json:"shipping_country"`
	ShippingState        string             `json:"shipping_state"`
	ShippingEmail        string             `json:"shipping_email"`
	ShippingPhone        string             `json:"shipping_phone"`
	OrderItems           []orderItemPayload `json:"order_items"`
	PaymentMethod        string             `json:"payment_method"`
	ShippingCharges      float64            `json:"shipping_charges"`
	GiftwrapCharges      float64            `json:"giftwrap_charges"`
	TransactionCharges   float64            `json:"transaction_charges"`
	TotalDiscount        float64            `json:"total_discount"`
	SubTotal             float64            `json:"sub_total"`
	Length               float64            `json:"length"`
	Breadth              float64            `json:"breadth"`
	Height               float64            `json:"height"`
	Weight               float64            `json:"weight"`
}

// The courier mixes numbers and strings across these fields.
type orderResponse struct {
	OrderID          any    `json:"order_id"`
	ChannelOrderID   any    `json:"channel_order_id"`
	ShipmentID       any    `json:"shipment_id"`
	Status           string `json:"status"`
	StatusCode       any    `json:"status_code"`
	AWBCode          any    `json:"awb_code"`
	CourierCompanyID any    `json:"courier_company_id"`
	CourierName      any    `json:"courier_name"`
}

func (o Order) payload() orderPayload {
	method := o.PaymentMethod
	if method == "" {
		method = "Prepaid"
	}
	date := o.OrderDate
	if date.IsZero() {
		date = time.Now()
	}

	items := make([]orderItemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		units := it.Units
		if units <= 0 {
			units = 1
		}
		items = append(items, orderItemPayload{Name: it.Name, SKU: it.SKU, Units: units, SellingPrice: it.SellingPrice})
	}

	return orderPayload{
		OrderID:              o.OrderID,
		OrderDate:            date.Format("2006-01-02 15:04"),
		PickupLocation:       o.PickupLocation,
		Comment:              o.Comment,
		BillingCustomerName:  o.Billing.Name,
		BillingAddress:       o.Billing.Address.Street,
		BillingCity:          o.Billing.Address.City,
		BillingPincode:       o.Billing.Address.Pincode,
		BillingState:         o.Billing.Address.State,
		BillingCountry:       "India",
		BillingEmail:         o.Billing.Email,
		BillingPhone:         o.Billing.Phone,
		ShippingIsBilling:    false,
		ShippingCustomerName: o.Shipping.Name,
		ShippingAddress:      o.Shipping.Address.Street,
		ShippingCity:         o.Shipping.Address.City,
		ShippingPincode:      o.Shipping.Address.Pincode,
		ShippingCountry:      "India",
		ShippingState:        o.Shipping.Address.State,
		ShippingEmail:        o.Shipping.Email,
		ShippingPhone:        o.Shipping.Phone,
		OrderItems:           items,
		PaymentMethod:        method,
		SubTotal:             o.SubTotal,
		Length:               o.Dimensions.Length,
		Breadth:              o.Dimensions.Breadth,
		Height:               o.Dimensions.Height,
		Weight:               o.Dimensions.Weight,
	}
}

// CreateShipmentOrder books an adhoc order and returns the shipment snapshot.
// Any non-200 answer comes back as an integration error carrying the upstream status and body.
func (c *Client) CreateShipmentOrder(ctx context.Context, order Order) (*models.ShippingDetails, error) {
	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "orders/create/adhoc", order.payload(), &resp); err != nil {
		return nil, err
	}

	return &models.ShippingDetails{
		OrderID:          stringify(resp.OrderID),
		ChannelOrderID:   stringify(resp.ChannelOrderID),
		ShipmentID:       stringify(resp.ShipmentID),
		Status:           resp.Status,
		StatusCode:       stringify(resp.StatusCode),
		AWBCode:          stringify(resp.AWBCode),
		CourierCompanyID: stringify(resp.CourierCompanyID),
		CourierName:      stringify(resp.CourierName),
		BookedAt:         c.now(),
	}, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return fmt.Sprint(t)
	}
}
