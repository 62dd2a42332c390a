// Package orders builds the view models rendered by the order management
// pages: the filterable list, the status transition modals and the manual
// order composer.
package orders

import (
	"strings"

	"github.com/shopspring/decimal"

	adminorders "github.com/trendora/storefront-admin/internal/admin/orders"
	"github.com/trendora/storefront-admin/internal/admin/templates/helpers"
	"github.com/trendora/storefront-admin/internal/admin/templates/partials"
)

// PageData is the payload for the orders index page.
type PageData struct {
	Title         string
	Breadcrumbs   []partials.Breadcrumb
	TableEndpoint string
	StageEndpoint string
	ApplyEndpoint string
	ClearEndpoint string
	Query         QueryState
	Filters       FilterOptions
	Table         TableData
	CSRFToken     string
}

// QueryState echoes the staged filter criteria back into the filter form.
// Staged values may differ from the applied ones until the operator hits
// Apply.
type QueryState struct {
	Search        string
	OrderStatus   string
	PaymentStatus string
	PaymentMethod string
	DateFrom      string
	DateTo        string
	ActiveCount   int
}

// FilterOptions holds the select controls of the filter bar.
type FilterOptions struct {
	StatusOptions        []SelectOption
	PaymentStatusOptions []SelectOption
	PaymentMethodOptions []SelectOption
	HasActive            bool
}

// SelectOption is a single dropdown choice.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
	Disabled bool
}

// TableData is the fragment payload for the orders table.
type TableData struct {
	FragmentPath string
	HxTarget     string
	HxSwap       string
	Rows         []TableRow
	Loading      bool
	Error        string
	EmptyMessage string
	Pagination   PaginationView
}

// PaginationView mirrors the backend pagination envelope plus the page
// numbers the controls link to.
type PaginationView struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
	NextPage   int
	PrevPage   int
}

// TableRow is one rendered order row.
type TableRow struct {
	ID              string
	Number          string
	CreatedLabel    string
	CreatedRelative string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Total           string
	ItemCount       int
	StatusLabel     string
	StatusTone      string
	StatusClass     string
	PaymentLabel    string
	PaymentTone     string
	PaymentClass    string
	MethodLabel     string
	ManualOrder     bool
	DetailURL       string
	StatusModalURL  string
	PaymentModalURL string
}

// DetailData powers the order detail modal, including the line item
// snapshots when the backend embedded them.
type DetailData struct {
	OrderNumber  string
	CreatedLabel string
	CustomerName string
	Email        string
	Phone        string
	Shipping     string
	Billing      string
	StatusLabel  string
	StatusClass  string
	PaymentLabel string
	PaymentClass string
	MethodLabel  string
	ManualOrder  bool
	Items        []DetailItem
	Subtotal     string
	Discount     string
	ShippingFee  string
	Total        string
	Notes        string
}

// DetailItem is one rendered line item row.
type DetailItem struct {
	Name      string
	UnitPrice string
	Quantity  int
	LineTotal string
}

// StatusModalData powers the order-status transition modal.
type StatusModalData struct {
	OrderID      string
	OrderNumber  string
	CurrentLabel string
	ActionURL    string
	CSRFToken    string
	Options      []SelectOption
	Notes        string
}

// PaymentModalData powers the payment-status transition modal.
type PaymentModalData struct {
	OrderID      string
	OrderNumber  string
	CurrentLabel string
	MethodLabel  string
	ActionURL    string
	CSRFToken    string
	Options      []SelectOption
	Notes        string
}

// BuildPageData assembles the orders index payload.
func BuildPageData(basePath string, staged adminorders.Criteria, table TableData, csrfToken string) PageData {
	return PageData{
		Title: "Orders",
		Breadcrumbs: []partials.Breadcrumb{
			{Label: "Dashboard", Href: joinBase(basePath, "/")},
			{Label: "Orders"},
		},
		TableEndpoint: joinBase(basePath, "/orders/table"),
		StageEndpoint: joinBase(basePath, "/orders/filters"),
		ApplyEndpoint: joinBase(basePath, "/orders/filters/apply"),
		ClearEndpoint: joinBase(basePath, "/orders/filters/clear"),
		Query:         toQueryState(staged),
		Filters:       buildFilterOptions(staged),
		Table:         table,
		CSRFToken:     csrfToken,
	}
}

// TablePayload prepares the table fragment data from the current store
// snapshot.
func TablePayload(basePath string, list []adminorders.Order, pagination adminorders.Pagination, loading bool, errMsg string) TableData {
	rows := toTableRows(basePath, list)
	empty := ""
	if errMsg == "" && !loading && len(rows) == 0 {
		empty = "No orders match the current filters."
	}

	return TableData{
		FragmentPath: joinBase(basePath, "/orders/table"),
		HxTarget:     "#orders-table",
		HxSwap:       "outerHTML",
		Rows:         rows,
		Loading:      loading,
		Error:        errMsg,
		EmptyMessage: empty,
		Pagination:   toPaginationView(pagination),
	}
}

func toQueryState(c adminorders.Criteria) QueryState {
	return QueryState{
		Search:        c.Search,
		OrderStatus:   valueOrAll(c.OrderStatus),
		PaymentStatus: valueOrAll(c.PaymentStatus),
		PaymentMethod: valueOrAll(c.PaymentMethod),
		DateFrom:      c.DateFrom,
		DateTo:        c.DateTo,
		ActiveCount:   c.ActiveCount(),
	}
}

func buildFilterOptions(c adminorders.Criteria) FilterOptions {
	status := []SelectOption{{Value: adminorders.FilterAll, Label: "All statuses", Selected: isAllValue(c.OrderStatus)}}
	for _, s := range adminorders.AllStatuses() {
		status = append(status, SelectOption{
			Value:    string(s),
			Label:    helpers.TitleCase(string(s)),
			Selected: c.OrderStatus == string(s),
		})
	}

	payment := []SelectOption{{Value: adminorders.FilterAll, Label: "All payment statuses", Selected: isAllValue(c.PaymentStatus)}}
	for _, s := range adminorders.AllPaymentStatuses() {
		payment = append(payment, SelectOption{
			Value:    string(s),
			Label:    helpers.TitleCase(string(s)),
			Selected: c.PaymentStatus == string(s),
		})
	}

	method := []SelectOption{{Value: adminorders.FilterAll, Label: "All methods", Selected: isAllValue(c.PaymentMethod)}}
	for _, m := range adminorders.AllPaymentMethods() {
		method = append(method, SelectOption{
			Value:    string(m),
			Label:    methodLabel(m),
			Selected: c.PaymentMethod == string(m),
		})
	}

	return FilterOptions{
		StatusOptions:        status,
		PaymentStatusOptions: payment,
		PaymentMethodOptions: method,
		HasActive:            c.ActiveCount() > 0,
	}
}

func toPaginationView(p adminorders.Pagination) PaginationView {
	return PaginationView{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
		NextPage:   p.Page + 1,
		PrevPage:   p.Page - 1,
	}
}

// Rows converts orders to rendered table rows without the surrounding
// fragment chrome. The dashboard's recent-orders card uses this directly.
func Rows(basePath string, list []adminorders.Order) []TableRow {
	return toTableRows(basePath, list)
}

func toTableRows(basePath string, list []adminorders.Order) []TableRow {
	rows := make([]TableRow, 0, len(list))
	for _, order := range list {
		statusTone := StatusTone(order.OrderStatus)
		paymentTone := PaymentTone(order.PaymentStatus)
		rows = append(rows, TableRow{
			ID:              order.ID,
			Number:          order.OrderNumber,
			CreatedLabel:    helpers.Date(order.CreatedAt, ""),
			CreatedRelative: helpers.Relative(order.CreatedAt),
			CustomerName:    order.CustomerName,
			CustomerEmail:   order.Email,
			CustomerPhone:   order.Phone,
			Total:           helpers.Money(order.TotalAmount),
			ItemCount:       order.LineItemCount(),
			StatusLabel:     helpers.TitleCase(string(order.OrderStatus)),
			StatusTone:      statusTone,
			StatusClass:     helpers.BadgeClass(statusTone),
			PaymentLabel:    helpers.TitleCase(string(order.PaymentStatus)),
			PaymentTone:     paymentTone,
			PaymentClass:    helpers.BadgeClass(paymentTone),
			MethodLabel:     methodLabel(order.PaymentMethod),
			ManualOrder:     order.CreationMethod == adminorders.CreatedByAdmin,
			DetailURL:       joinBase(basePath, "/orders/"+order.ID+"/detail"),
			StatusModalURL:  joinBase(basePath, "/orders/"+order.ID+"/status-modal"),
			PaymentModalURL: joinBase(basePath, "/orders/"+order.ID+"/payment-modal"),
		})
	}
	return rows
}

// DetailPayload prepares the order detail modal. Amounts come straight from
// the order snapshot; the subtotal is the only derived figure and exists
// purely for display.
func DetailPayload(order adminorders.Order) DetailData {
	items := make([]DetailItem, 0, len(order.Items))
	subtotal := decimal.Zero
	for _, item := range order.Items {
		line := item.PriceAtPurchase.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
		items = append(items, DetailItem{
			Name:      item.ProductName + " / " + item.VariationName,
			UnitPrice: helpers.Money(item.PriceAtPurchase),
			Quantity:  item.Quantity,
			LineTotal: helpers.Money(line),
		})
	}

	return DetailData{
		OrderNumber:  order.OrderNumber,
		CreatedLabel: helpers.Date(order.CreatedAt, ""),
		CustomerName: order.CustomerName,
		Email:        order.Email,
		Phone:        order.Phone,
		Shipping:     order.ShippingAddress,
		Billing:      order.BillingAddress,
		StatusLabel:  helpers.TitleCase(string(order.OrderStatus)),
		StatusClass:  helpers.BadgeClass(StatusTone(order.OrderStatus)),
		PaymentLabel: helpers.TitleCase(string(order.PaymentStatus)),
		PaymentClass: helpers.BadgeClass(PaymentTone(order.PaymentStatus)),
		MethodLabel:  methodLabel(order.PaymentMethod),
		ManualOrder:  order.CreationMethod == adminorders.CreatedByAdmin,
		Items:        items,
		Subtotal:     helpers.Money(subtotal),
		Discount:     helpers.Money(order.DiscountAmount),
		ShippingFee:  helpers.Money(order.ShippingFee),
		Total:        helpers.Money(order.TotalAmount),
		Notes:        order.Notes,
	}
}

// StatusModalPayload prepares the status transition modal. The option for
// the order's current status renders disabled so the operator cannot submit
// a no-op transition.
func StatusModalPayload(basePath string, order adminorders.Order, csrfToken string) StatusModalData {
	options := make([]SelectOption, 0, len(adminorders.AllStatuses()))
	for _, s := range adminorders.AllStatuses() {
		options = append(options, SelectOption{
			Value:    string(s),
			Label:    helpers.TitleCase(string(s)),
			Selected: s == order.OrderStatus,
			Disabled: s == order.OrderStatus,
		})
	}

	return StatusModalData{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		CurrentLabel: helpers.TitleCase(string(order.OrderStatus)),
		ActionURL:    joinBase(basePath, "/orders/"+order.ID+"/status"),
		CSRFToken:    csrfToken,
		Options:      options,
	}
}

// PaymentModalPayload prepares the payment-status transition modal with the
// same no-op guard as the status modal.
func PaymentModalPayload(basePath string, order adminorders.Order, csrfToken string) PaymentModalData {
	options := make([]SelectOption, 0, len(adminorders.AllPaymentStatuses()))
	for _, s := range adminorders.AllPaymentStatuses() {
		options = append(options, SelectOption{
			Value:    string(s),
			Label:    helpers.TitleCase(string(s)),
			Selected: s == order.PaymentStatus,
			Disabled: s == order.PaymentStatus,
		})
	}

	return PaymentModalData{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		CurrentLabel: helpers.TitleCase(string(order.PaymentStatus)),
		MethodLabel:  methodLabel(order.PaymentMethod),
		ActionURL:    joinBase(basePath, "/orders/"+order.ID+"/payment-status"),
		CSRFToken:    csrfToken,
		Options:      options,
	}
}

// StatusTone maps an order status to a badge tone.
func StatusTone(status adminorders.Status) string {
	switch status {
	case adminorders.StatusPending:
		return "warning"
	case adminorders.StatusConfirmed, adminorders.StatusProcessing, adminorders.StatusShipped:
		return "info"
	case adminorders.StatusDelivered:
		return "success"
	case adminorders.StatusCancelled, adminorders.StatusReturned:
		return "danger"
	default:
		return "muted"
	}
}

// PaymentTone maps a payment status to a badge tone.
func PaymentTone(status adminorders.PaymentStatus) string {
	switch status {
	case adminorders.PaymentPaid:
		return "success"
	case adminorders.PaymentPending:
		return "warning"
	case adminorders.PaymentFailed:
		return "danger"
	case adminorders.PaymentRefunded:
		return "info"
	default:
		return "muted"
	}
}

func methodLabel(method adminorders.PaymentMethod) string {
	if method == adminorders.MethodBkash {
		return "bKash"
	}
	return helpers.TitleCase(string(method))
}

func valueOrAll(value string) string {
	if strings.TrimSpace(value) == "" {
		return adminorders.FilterAll
	}
	return value
}

func isAllValue(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, adminorders.FilterAll)
}

func joinBase(base, path string) string {
	base = strings.TrimRight(base, "/")
	if path == "/" || path == "" {
		if base == "" {
			return "/"
		}
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
