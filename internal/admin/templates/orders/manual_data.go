package orders

import (
	"github.com/shopspring/decimal"

	adminorders "github.com/trendora/storefront-admin/internal/admin/orders"
	"github.com/trendora/storefront-admin/internal/admin/products"
	"github.com/trendora/storefront-admin/internal/admin/templates/helpers"
	"github.com/trendora/storefront-admin/internal/admin/templates/partials"
)

// ManualPageData is the payload for the manual order composer page.
type ManualPageData struct {
	Title           string
	Breadcrumbs     []partials.Breadcrumb
	SubmitEndpoint  string
	UpdateEndpoint  string
	SearchEndpoint  string
	ItemsEndpoint   string
	Draft           ManualDraftView
	ItemsFragment   ManualItemsData
	MethodOptions   []SelectOption
	PaymentOptions  []SelectOption
	StatusOptions   []SelectOption
	Error           string
	FieldErrors     map[string]string
	CSRFToken       string
	CreatedOrder    *ManualSuccessView
}

// ManualDraftView echoes the staged draft back into the form.
type ManualDraftView struct {
	CustomerName    string
	Email           string
	Phone           string
	ShippingAddress string
	BillingAddress  string

	PaymentMethod string
	PaymentStatus string
	OrderStatus   string

	CustomTotalAmount    string
	CustomDiscountAmount string
	CustomShippingFee    string

	GenerateInvoice       bool
	SendEmailNotification bool
	SkipStockValidation   bool
	MarkAsPaid            bool

	Items []ManualItemView
}

// ManualItemView is one staged line item row.
type ManualItemView struct {
	Index              int
	ProductVariationID string
	ProductName        string
	VariationName      string
	Quantity           int
	CustomPrice        string
	RemoveEndpoint     string
	QuantityEndpoint   string
}

// ManualItemsData is the fragment payload for the staged item list.
type ManualItemsData struct {
	Items     []ManualItemView
	CSRFToken string
	Empty     bool
}

// ManualSuccessView summarises the order the backend just created.
type ManualSuccessView struct {
	OrderNumber   string
	Total         string
	ItemCount     int
	InvoiceNumber string
	InvoiceURL    string
}

// ProductResultsData is the fragment payload for variation search results.
type ProductResultsData struct {
	Term      string
	Results   []ProductResultView
	Empty     bool
	CSRFToken string
	AddURL    string
}

// ProductResultView is one searchable variation row, with the matched term
// highlighted.
type ProductResultView struct {
	VariationID   string
	ProductName   string
	VariationName string
	NameSegments  []helpers.HighlightSegment
	SKU           string
	Price         string
	Stock         int
	OutOfStock    bool
}

// ManualPagePayload assembles the composer page from the current draft.
func ManualPagePayload(basePath string, draft adminorders.ManualDraft, csrfToken, errMsg string, fieldErrors map[string]string, created *adminorders.ManualResult) ManualPageData {
	data := ManualPageData{
		Title: "Manual Order",
		Breadcrumbs: []partials.Breadcrumb{
			{Label: "Dashboard", Href: joinBase(basePath, "/")},
			{Label: "Orders", Href: joinBase(basePath, "/orders")},
			{Label: "Manual Order"},
		},
		SubmitEndpoint: joinBase(basePath, "/orders/manual"),
		UpdateEndpoint: joinBase(basePath, "/orders/manual/fields"),
		SearchEndpoint: joinBase(basePath, "/orders/manual/products"),
		ItemsEndpoint:  joinBase(basePath, "/orders/manual/items"),
		Draft:          toManualDraftView(basePath, draft),
		ItemsFragment:  ManualItemsPayload(basePath, draft, csrfToken),
		MethodOptions:  manualMethodOptions(draft.PaymentMethod),
		PaymentOptions: manualPaymentOptions(draft.PaymentStatus),
		StatusOptions:  manualStatusOptions(draft.OrderStatus),
		Error:          errMsg,
		FieldErrors:    fieldErrors,
		CSRFToken:      csrfToken,
	}

	if created != nil {
		success := &ManualSuccessView{
			OrderNumber: created.Order.OrderNumber,
			Total:       helpers.Money(created.Order.TotalAmount),
			ItemCount:   created.Order.LineItemCount(),
		}
		if created.Invoice != nil {
			success.InvoiceNumber = created.Invoice.InvoiceNumber
			success.InvoiceURL = created.Invoice.PDFURL
		}
		data.CreatedOrder = success
	}

	return data
}

// ManualItemsPayload prepares the staged items fragment.
func ManualItemsPayload(basePath string, draft adminorders.ManualDraft, csrfToken string) ManualItemsData {
	view := toManualDraftView(basePath, draft)
	return ManualItemsData{
		Items:     view.Items,
		CSRFToken: csrfToken,
		Empty:     len(view.Items) == 0,
	}
}

// ProductResultsPayload prepares the variation search result fragment.
func ProductResultsPayload(basePath, term string, results []products.Variation, csrfToken string) ProductResultsData {
	views := make([]ProductResultView, 0, len(results))
	for _, v := range results {
		views = append(views, ProductResultView{
			VariationID:   v.ID,
			ProductName:   v.ProductName,
			VariationName: v.VariationName,
			NameSegments:  helpers.HighlightSegments(v.ProductName+" / "+v.VariationName, term),
			SKU:           v.SKU,
			Price:         helpers.Money(v.Price),
			Stock:         v.StockQuantity,
			OutOfStock:    v.StockQuantity <= 0,
		})
	}
	return ProductResultsData{
		Term:      term,
		Results:   views,
		Empty:     len(views) == 0,
		CSRFToken: csrfToken,
		AddURL:    joinBase(basePath, "/orders/manual/items"),
	}
}

func toManualDraftView(basePath string, draft adminorders.ManualDraft) ManualDraftView {
	items := make([]ManualItemView, 0, len(draft.Items))
	for i, item := range draft.Items {
		items = append(items, ManualItemView{
			Index:              i,
			ProductVariationID: item.ProductVariationID,
			ProductName:        item.ProductName,
			VariationName:      item.VariationName,
			Quantity:           item.Quantity,
			CustomPrice:        decimalInput(item.CustomPrice),
			RemoveEndpoint:     joinBase(basePath, "/orders/manual/items/remove"),
			QuantityEndpoint:   joinBase(basePath, "/orders/manual/items/quantity"),
		})
	}

	return ManualDraftView{
		CustomerName:    draft.CustomerName,
		Email:           draft.Email,
		Phone:           draft.Phone,
		ShippingAddress: draft.ShippingAddress,
		BillingAddress:  draft.BillingAddress,

		PaymentMethod: string(draft.PaymentMethod),
		PaymentStatus: string(draft.PaymentStatus),
		OrderStatus:   string(draft.OrderStatus),

		CustomTotalAmount:    decimalInput(draft.CustomTotalAmount),
		CustomDiscountAmount: decimalInput(draft.CustomDiscountAmount),
		CustomShippingFee:    decimalInput(draft.CustomShippingFee),

		GenerateInvoice:       draft.GenerateInvoice,
		SendEmailNotification: draft.SendEmailNotification,
		SkipStockValidation:   draft.SkipStockValidation,
		MarkAsPaid:            draft.MarkAsPaid,

		Items: items,
	}
}

func manualMethodOptions(current adminorders.PaymentMethod) []SelectOption {
	options := make([]SelectOption, 0, len(adminorders.AllPaymentMethods()))
	for _, m := range adminorders.AllPaymentMethods() {
		options = append(options, SelectOption{
			Value:    string(m),
			Label:    methodLabel(m),
			Selected: m == current,
		})
	}
	return options
}

func manualPaymentOptions(current adminorders.PaymentStatus) []SelectOption {
	options := make([]SelectOption, 0, len(adminorders.AllPaymentStatuses()))
	for _, s := range adminorders.AllPaymentStatuses() {
		options = append(options, SelectOption{
			Value:    string(s),
			Label:    helpers.TitleCase(string(s)),
			Selected: s == current,
		})
	}
	return options
}

func manualStatusOptions(current adminorders.Status) []SelectOption {
	options := make([]SelectOption, 0, len(adminorders.AllStatuses()))
	for _, s := range adminorders.AllStatuses() {
		options = append(options, SelectOption{
			Value:    string(s),
			Label:    helpers.TitleCase(string(s)),
			Selected: s == current,
		})
	}
	return options
}

func decimalInput(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
