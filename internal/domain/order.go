package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// OrderStatus is the fulfilment state reported by the API.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Label capitalises the status for display.
func (s OrderStatus) Label() string {
	r, size := utf8.DecodeRuneInString(string(s))
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r)) + string(s)[size:]
}

// Tone picks the badge colour family for the status.
func (s OrderStatus) Tone() string {
	switch OrderStatus(strings.ToLower(string(s))) {
	case OrderDelivered:
		return "success"
	case OrderCancelled:
		return "danger"
	default:
		return "warning"
	}
}

// OrderItem is one line of an order.
type OrderItem struct {
	Product string  `json:"product,omitempty"`
	Name    string  `json:"name"`
	Qty     int     `json:"qty"`
	Price   float64 `json:"price"`
	Image   string  `json:"image,omitempty"`
}

// Order is read-only from the dashboard's point of view.
type Order struct {
	ID         string      `json:"_id"`
	CreatedAt  time.Time   `json:"createdAt"`
	Status     OrderStatus `json:"status"`
	TotalPrice float64     `json:"totalPrice"`
	Items      []OrderItem `json:"orderItems,omitempty"`
}

// ShortID is the trailing eight characters shown as the order number.
func (o Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[len(o.ID)-8:]
}
