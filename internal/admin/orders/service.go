// Package orders implements the admin order lifecycle workflow: the list
// store with staged filters, status transition handling and manual order
// composition. All order data lives in the storefront backend; this package
// only reads and mutates it through the backend REST API.
package orders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fulfilment lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
	StatusReturned   Status = "RETURNED"
)

// AllStatuses lists every order status in display order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusConfirmed,
		StatusProcessing,
		StatusShipped,
		StatusDelivered,
		StatusCancelled,
		StatusReturned,
	}
}

// Valid reports whether s is a known order status.
func (s Status) Valid() bool {
	for _, known := range AllStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentStatus is the payment state of an order, independent of Status.
// A SHIPPED order can still be payment PENDING (cash on delivery).
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// AllPaymentStatuses lists every payment status in display order.
func AllPaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded}
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	for _, known := range AllPaymentStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentMethod identifies how the customer pays. The backend historically
// used two overlapping vocabularies; this is the unified set accepted by the
// manual order endpoint.
type PaymentMethod string

const (
	MethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	MethodCard           PaymentMethod = "CARD"
	MethodMobileBanking  PaymentMethod = "MOBILE_BANKING"
	MethodBkash          PaymentMethod = "BKASH"
)

// AllPaymentMethods lists every payment method in display order.
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{MethodCashOnDelivery, MethodCard, MethodMobileBanking, MethodBkash}
}

// CreationMethod records how an order entered the system. Set once at
// creation, immutable afterwards.
type CreationMethod string

const (
	CreatedByCustomer CreationMethod = "CUSTOMER"
	CreatedByAdmin    CreationMethod = "ADMIN"
)

// ErrOrderNotFound is returned when an order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// Order is the central entity. Customer fields and item prices are snapshots
// captured at order time; they must never be re-derived from live records.
type Order struct {
	ID          string `json:"id"`
	OrderNumber string `json:"orderNumber"`

	CustomerName    string `json:"customerName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shippingAddress"`
	BillingAddress  string `json:"billingAddress"`

	TotalAmount    decimal.Decimal `json:"totalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	ShippingFee    decimal.Decimal `json:"shippingFee"`

	OrderStatus    Status         `json:"orderStatus"`
	PaymentStatus  PaymentStatus  `json:"paymentStatus"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod"`
	CreationMethod CreationMethod `json:"creationMethod"`

	// Items is empty when the listing endpoint did not embed item detail.
	// ItemCount stays authoritative in that case.
	Items     []OrderItem `json:"items,omitempty"`
	ItemCount int         `json:"itemCount"`
	Count     *CountInfo  `json:"_count,omitempty"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CountInfo mirrors the backend's relation-count object.
type CountInfo struct {
	Items int `json:"items"`
}

// LineItemCount resolves the number of line items regardless of whether the
// response embedded them.
func (o Order) LineItemCount() int {
	if len(o.Items) > 0 {
		return len(o.Items)
	}
	if o.ItemCount > 0 {
		return o.ItemCount
	}
	if o.Count != nil {
		return o.Count.Items
	}
	return 0
}

// OrderItem is a line item snapshot. Prices are frozen at purchase time.
type OrderItem struct {
	ID                 string          `json:"id"`
	ProductName        string          `json:"productName"`
	VariationName      string          `json:"variationName"`
	PriceAtPurchase    decimal.Decimal `json:"priceAtPurchase"`
	OriginalPrice      decimal.Decimal `json:"originalPrice"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Quantity           int             `json:"quantity"`
	ProductVariationID string          `json:"productVariationId"`
}

// Pagination is the server-computed envelope. Every field is taken verbatim
// from the backend; the client never derives HasNext/HasPrev itself.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Query carries list parameters. Zero values mean "no constraint" and are
// omitted from the request entirely.
type Query struct {
	Page          int
	Limit         int
	OrderStatus   string
	PaymentStatus string
	PaymentMethod string
	Search        string
	DateFrom      string
	DateTo        string
	IncludeItems  bool
}

// ListResult is a single page of orders plus its pagination envelope.
type ListResult struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// StatusUpdate is the body of an order-status transition request.
type StatusUpdate struct {
	Status Status `json:"orderStatus"`
	Notes  string `json:"notes,omitempty"`
}

// PaymentStatusUpdate is the body of a payment-status transition request.
type PaymentStatusUpdate struct {
	Status PaymentStatus `json:"paymentStatus"`
	Notes  string        `json:"notes,omitempty"`
}

// Invoice references an invoice generated as a side effect of manual order
// creation.
type Invoice struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoiceNumber"`
	PDFURL        string `json:"pdfUrl,omitempty"`
}

// ManualResult is the backend's response to manual order creation.
type ManualResult struct {
	Order   Order    `json:"order"`
	Invoice *Invoice `json:"invoice,omitempty"`
}

// Service is the backend order API surface used by the admin workflow.
// The backend is the sole authority on legal status transitions, derived
// monetary fields and manual-order validation.
type Service interface {
	// List returns one page of orders matching the query.
	List(ctx context.Context, token string, query Query) (ListResult, error)

	// UpdateStatus transitions an order's fulfilment status.
	UpdateStatus(ctx context.Context, token, orderID string, update StatusUpdate) (Order, error)

	// UpdatePaymentStatus transitions an order's payment status.
	UpdatePaymentStatus(ctx context.Context, token, orderID string, update PaymentStatusUpdate) (Order, error)

	// CreateManualOrder submits an admin-composed order as one atomic request.
	CreateManualOrder(ctx context.Context, token string, draft ManualDraft, idempotencyKey string) (ManualResult, error)
}
