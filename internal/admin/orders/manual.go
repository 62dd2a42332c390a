package orders

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trendora/storefront-admin/internal/admin/api"
	"github.com/trendora/storefront-admin/internal/admin/products"
)

// ManualItem is one line of a manual order draft. Custom price and discount
// fields override the catalog values when set; how they interact with
// order-level overrides is entirely the backend's concern.
type ManualItem struct {
	ProductVariationID string           `json:"productVariationId" validate:"required"`
	ProductName        string           `json:"-"`
	VariationName      string           `json:"-"`
	Quantity           int              `json:"quantity" validate:"gt=0"`
	CustomPrice        *decimal.Decimal `json:"customPrice,omitempty"`
	CustomDiscountAmt  *decimal.Decimal `json:"customDiscountAmount,omitempty"`
	CustomDiscountPct  *decimal.Decimal `json:"customDiscountPercentage,omitempty"`
}

// ManualDraft is the full admin-entered order. It is ephemeral: discarded on
// successful submission, preserved verbatim when the backend rejects it so
// the operator can correct and resubmit.
type ManualDraft struct {
	CustomerName    string `json:"customerName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone,omitempty"`
	ShippingAddress string `json:"shippingAddress" validate:"required"`
	BillingAddress  string `json:"billingAddress,omitempty"`

	// min fires on a nil slice too, so an untouched draft reports the
	// at-least-one-item message rather than a bare "required".
	Items []ManualItem `json:"items" validate:"min=1,dive"`

	CustomTotalAmount    *decimal.Decimal `json:"customTotalAmount,omitempty"`
	CustomDiscountAmount *decimal.Decimal `json:"customDiscountAmount,omitempty"`
	CustomShippingFee    *decimal.Decimal `json:"customShippingFee,omitempty"`

	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
	OrderStatus   Status        `json:"orderStatus,omitempty"`

	// Behaviour flags are passed through uninterpreted; their interaction is
	// backend logic.
	GenerateInvoice       bool `json:"generateInvoice"`
	SendEmailNotification bool `json:"sendEmailNotification"`
	SkipStockValidation   bool `json:"skipStockValidation"`
	MarkAsPaid            bool `json:"markAsPaid"`
}

// ValidationError reports local draft validation failures per field.
type ValidationError struct {
	Message     string
	FieldErrors map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e == nil || strings.TrimSpace(e.Message) == "" {
		return "invalid manual order draft"
	}
	return e.Message
}

// ManualComposer stages a manual order draft and submits it as one atomic
// request.
type ManualComposer struct {
	svc      Service
	catalog  products.Service
	validate *validator.Validate
	newKey   func() string

	mu    sync.Mutex
	draft ManualDraft
}

// NewManualComposer constructs a composer with an empty draft.
func NewManualComposer(svc Service, catalog products.Service) *ManualComposer {
	c := &ManualComposer{
		svc:      svc,
		catalog:  catalog,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		newKey:   uuid.NewString,
	}
	c.draft = emptyDraft()
	return c
}

func emptyDraft() ManualDraft {
	return ManualDraft{
		PaymentMethod: MethodCashOnDelivery,
		PaymentStatus: PaymentPending,
		OrderStatus:   StatusPending,
	}
}

// Draft returns a deep copy of the current draft.
func (c *ManualComposer) Draft() ManualDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyDraft(c.draft)
}

// SetCustomer stages the customer identity fields.
func (c *ManualComposer) SetCustomer(name, email, phone, shippingAddress, billingAddress string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.CustomerName = strings.TrimSpace(name)
	c.draft.Email = strings.TrimSpace(email)
	c.draft.Phone = strings.TrimSpace(phone)
	c.draft.ShippingAddress = strings.TrimSpace(shippingAddress)
	c.draft.BillingAddress = strings.TrimSpace(billingAddress)
}

// SetPayment stages payment method plus the status overrides.
func (c *ManualComposer) SetPayment(method PaymentMethod, paymentStatus PaymentStatus, orderStatus Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if method != "" {
		c.draft.PaymentMethod = method
	}
	if paymentStatus != "" {
		c.draft.PaymentStatus = paymentStatus
	}
	if orderStatus != "" {
		c.draft.OrderStatus = orderStatus
	}
}

// SetOverrides stages the order-level monetary overrides. Nil clears a field.
func (c *ManualComposer) SetOverrides(total, discount, shipping *decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.CustomTotalAmount = copyDecimal(total)
	c.draft.CustomDiscountAmount = copyDecimal(discount)
	c.draft.CustomShippingFee = copyDecimal(shipping)
}

// SetFlags stages the behaviour flags.
func (c *ManualComposer) SetFlags(generateInvoice, sendEmail, skipStock, markAsPaid bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.GenerateInvoice = generateInvoice
	c.draft.SendEmailNotification = sendEmail
	c.draft.SkipStockValidation = skipStock
	c.draft.MarkAsPaid = markAsPaid
}

// AddItem appends a line item. Re-adding the same variation merges into the
// existing line by summing quantities.
func (c *ManualComposer) AddItem(item ManualItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range c.draft.Items {
		if c.draft.Items[i].ProductVariationID == item.ProductVariationID {
			c.draft.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.draft.Items = append(c.draft.Items, item)
}

// RemoveItem drops the line item at index. Out-of-range indexes are ignored.
func (c *ManualComposer) RemoveItem(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.draft.Items) {
		return
	}
	c.draft.Items = append(c.draft.Items[:index], c.draft.Items[index+1:]...)
}

// SetItemQuantity updates the quantity of the line item at index. Quantities
// below one are ignored; use RemoveItem to drop a line.
func (c *ManualComposer) SetItemQuantity(index, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.draft.Items) || quantity < 1 {
		return
	}
	c.draft.Items[index].Quantity = quantity
}

// Reset discards the draft and starts a fresh one.
func (c *ManualComposer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = emptyDraft()
}

// SearchProducts fetches candidate variations for the item picker. Zero
// results is a valid outcome.
func (c *ManualComposer) SearchProducts(ctx context.Context, token, term string) ([]products.Variation, error) {
	if c.catalog == nil {
		return nil, nil
	}
	return c.catalog.SearchVariations(ctx, token, term, 0)
}

// Submit validates the draft locally, then sends it as one request. On
// success the created order (with its server-assigned number) is returned and
// the draft is discarded. On any failure the draft is preserved unchanged and
// the backend's message, when present, is returned verbatim.
func (c *ManualComposer) Submit(ctx context.Context, token string) (ManualResult, error) {
	c.mu.Lock()
	draft := copyDraft(c.draft)
	c.mu.Unlock()

	if err := c.validateDraft(draft); err != nil {
		return ManualResult{}, err
	}

	result, err := c.svc.CreateManualOrder(ctx, token, draft, c.newKey())
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
			return ManualResult{}, &ValidationError{Message: apiErr.Message}
		}
		return ManualResult{}, err
	}

	c.Reset()
	return result, nil
}

func (c *ManualComposer) validateDraft(draft ManualDraft) error {
	err := c.validate.Struct(draft)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}

	fields := make(map[string]string, len(invalid))
	for _, fe := range invalid {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{
		Message:     "manual order draft is incomplete",
		FieldErrors: fields,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "needs at least " + fe.Param() + " entry"
	case "gt":
		return "must be greater than " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}

func copyDraft(d ManualDraft) ManualDraft {
	out := d
	out.Items = append([]ManualItem(nil), d.Items...)
	out.CustomTotalAmount = copyDecimal(d.CustomTotalAmount)
	out.CustomDiscountAmount = copyDecimal(d.CustomDiscountAmount)
	out.CustomShippingFee = copyDecimal(d.CustomShippingFee)
	return out
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	copied := *d
	return &copied
}
