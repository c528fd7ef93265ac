package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the order-level fulfillment status. Cancelled is reachable
// from any state; no forward-only transition rule is enforced.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	default:
		return false
	}
}

// ItemStatus is the per-line-item fulfillment status. It is more granular
// than OrderStatus and is not kept in lockstep with it.
type ItemStatus string

const (
	ItemPending      ItemStatus = "pending"
	ItemConfirmed    ItemStatus = "confirmed"
	ItemInProduction ItemStatus = "in_production"
	ItemReadyToShip  ItemStatus = "ready_to_ship"
	ItemShipped      ItemStatus = "shipped"
	ItemDelivered    ItemStatus = "delivered"
	ItemCancelled    ItemStatus = "cancelled"
)

// IsValid checks if the ItemStatus is a valid value.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemPending, ItemConfirmed, ItemInProduction, ItemReadyToShip, ItemShipped, ItemDelivered, ItemCancelled:
		return true
	default:
		return false
	}
}

// PaymentMethod is the recognized set of payment options at checkout.
type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "card"
	PaymentUPI            PaymentMethod = "upi"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// IsValid checks if the PaymentMethod is a valid value.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCard, PaymentUPI, PaymentCashOnDelivery:
		return true
	default:
		return false
	}
}

// OrderItem is a line item with the price snapshotted at order time.
type OrderItem struct {
	ProductID uuid.UUID  `json:"productId"`
	ArtisanID uuid.UUID  `json:"artisanId"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	UnitPrice float64    `json:"unitPrice"`
	Status    ItemStatus `json:"status"`
}

// OrderPricing holds the computed totals for an order.
type OrderPricing struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Address is a shipping or billing address.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// TimelineEntry records a status change in the order's monotonically
// appended history.
type TimelineEntry struct {
	Status OrderStatus `json:"status"`
	Note   string      `json:"note,omitempty"`
	At     time.Time   `json:"at"`
}

// Order is a buyer's purchase of one or more products.
type Order struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	BuyerID     uuid.UUID `json:"buyerId"`

	Items   []OrderItem  `json:"items"`
	Pricing OrderPricing `json:"pricing"`

	ShippingAddress Address       `json:"shippingAddress"`
	BillingAddress  Address       `json:"billingAddress"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`

	Status   OrderStatus     `json:"status"`
	Timeline []TimelineEntry `json:"timeline"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppendStatus appends a timeline entry and overwrites the top-level status.
func (o *Order) AppendStatus(status OrderStatus, note string, at time.Time) {
	o.Status = status
	o.Timeline = append(o.Timeline, TimelineEntry{Status: status, Note: note, At: at})
}
