package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// StaticService provides deterministic order data suitable for local
// development and handler tests. It plays the backend's role: it filters,
// paginates and applies transitions, and its pagination envelope is treated
// as authoritative by the store.
type StaticService struct {
	mu         sync.Mutex
	orders     []Order
	nextNumber int
}

// NewStaticService returns a StaticService populated with representative
// orders.
func NewStaticService() *StaticService {
	now := time.Now().UTC()
	amount := func(v string) decimal.Decimal {
		d, _ := decimal.NewFromString(v)
		return d
	}

	orders := []Order{
		{
			ID:              "ord_1021",
			OrderNumber:     "INV-1021",
			CustomerName:    "Farhana Rahman",
			Email:           "farhana.rahman@example.com",
			Phone:           "+8801711000021",
			ShippingAddress: "House 12, Road 5, Dhanmondi, Dhaka",
			BillingAddress:  "House 12, Road 5, Dhanmondi, Dhaka",
			TotalAmount:     amount("5280.00"),
			DiscountAmount:  amount("320.00"),
			ShippingFee:     amount("120.00"),
			OrderStatus:     StatusProcessing,
			PaymentStatus:   PaymentPaid,
			PaymentMethod:   MethodBkash,
			CreationMethod:  CreatedByCustomer,
			ItemCount:       2,
			Items: []OrderItem{
				{
					ID:                 "itm-1",
					ProductName:        "Classic Panjabi",
					VariationName:      "Navy / M",
					PriceAtPurchase:    amount("2450.00"),
					OriginalPrice:      amount("2610.00"),
					DiscountAmount:     amount("160.00"),
					DiscountPercentage: amount("6.13"),
					Quantity:           2,
					ProductVariationID: "var-101",
				},
			},
			CreatedAt: now.Add(-9 * time.Hour),
			UpdatedAt: now.Add(-40 * time.Minute),
		},
		{
			ID:              "ord_1020",
			OrderNumber:     "INV-1020",
			CustomerName:    "Tanvir Ahmed",
			Email:           "tanvir.ahmed@example.com",
			Phone:           "+8801911000020",
			ShippingAddress: "Flat 4B, Agrabad, Chattogram",
			BillingAddress:  "Flat 4B, Agrabad, Chattogram",
			TotalAmount:     amount("1890.00"),
			DiscountAmount:  amount("0"),
			ShippingFee:     amount("150.00"),
			OrderStatus:     StatusShipped,
			PaymentStatus:   PaymentPending,
			PaymentMethod:   MethodCashOnDelivery,
			CreationMethod:  CreatedByCustomer,
			ItemCount:       1,
			CreatedAt:       now.Add(-30 * time.Hour),
			UpdatedAt:       now.Add(-5 * time.Hour),
		},
		{
			ID:              "ord_1019",
			OrderNumber:     "INV-1019",
			CustomerName:    "Sharmin Akter",
			Email:           "sharmin.akter@example.com",
			Phone:           "+8801811000019",
			ShippingAddress: "Ward 7, Sylhet Sadar, Sylhet",
			BillingAddress:  "Ward 7, Sylhet Sadar, Sylhet",
			TotalAmount:     amount("5600.00"),
			DiscountAmount:  amount("560.00"),
			ShippingFee:     amount("0"),
			OrderStatus:     StatusDelivered,
			PaymentStatus:   PaymentPaid,
			PaymentMethod:   MethodCard,
			CreationMethod:  CreatedByCustomer,
			ItemCount:       1,
			CreatedAt:       now.Add(-4 * 24 * time.Hour),
			UpdatedAt:       now.Add(-2 * 24 * time.Hour),
		},
		{
			ID:              "ord_1018",
			OrderNumber:     "INV-1018",
			CustomerName:    "Mahmudul Hasan",
			Email:           "mahmudul.hasan@example.com",
			Phone:           "+8801511000018",
			ShippingAddress: "Station Road, Rajshahi",
			BillingAddress:  "Station Road, Rajshahi",
			TotalAmount:     amount("3100.00"),
			DiscountAmount:  amount("0"),
			ShippingFee:     amount("100.00"),
			OrderStatus:     StatusPending,
			PaymentStatus:   PaymentFailed,
			PaymentMethod:   MethodMobileBanking,
			CreationMethod:  CreatedByCustomer,
			ItemCount:       3,
			CreatedAt:       now.Add(-2 * time.Hour),
			UpdatedAt:       now.Add(-2 * time.Hour),
		},
		{
			ID:              "ord_1017",
			OrderNumber:     "INV-1017",
			CustomerName:    "Nusrat Jahan",
			Email:           "nusrat.jahan@example.com",
			Phone:           "+8801311000017",
			ShippingAddress: "College Road, Khulna",
			BillingAddress:  "College Road, Khulna",
			TotalAmount:     amount("2450.00"),
			DiscountAmount:  amount("245.00"),
			ShippingFee:     amount("120.00"),
			OrderStatus:     StatusCancelled,
			PaymentStatus:   PaymentRefunded,
			PaymentMethod:   MethodBkash,
			CreationMethod:  CreatedByAdmin,
			ItemCount:       1,
			CreatedAt:       now.Add(-6 * 24 * time.Hour),
			UpdatedAt:       now.Add(-5 * 24 * time.Hour),
		},
	}

	return &StaticService{orders: orders, nextNumber: 1022}
}

// List filters, sorts and paginates the fixture set the way the backend
// would.
func (s *StaticService) List(_ context.Context, _ string, query Query) (ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []Order
	for _, order := range s.orders {
		if !matchesQuery(order, query) {
			continue
		}
		matched = append(matched, order)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}

	total := len(matched)
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	pageOrders := make([]Order, end-start)
	copy(pageOrders, matched[start:end])
	if !query.IncludeItems {
		for i := range pageOrders {
			pageOrders[i].Items = nil
		}
	}

	return ListResult{
		Orders: pageOrders,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

func matchesQuery(order Order, query Query) bool {
	if query.OrderStatus != "" && string(order.OrderStatus) != query.OrderStatus {
		return false
	}
	if query.PaymentStatus != "" && string(order.PaymentStatus) != query.PaymentStatus {
		return false
	}
	if query.PaymentMethod != "" && string(order.PaymentMethod) != query.PaymentMethod {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(query.Search)); search != "" {
		haystack := strings.ToLower(order.OrderNumber + " " + order.CustomerName + " " + order.Email + " " + order.Phone)
		if !strings.Contains(haystack, search) {
			return false
		}
	}
	if query.DateFrom != "" {
		if from, err := time.Parse("2006-01-02", query.DateFrom); err == nil && order.CreatedAt.Before(from) {
			return false
		}
	}
	if query.DateTo != "" {
		if to, err := time.Parse("2006-01-02", query.DateTo); err == nil && order.CreatedAt.After(to.Add(24*time.Hour)) {
			return false
		}
	}
	return true
}

// UpdateStatus applies the transition to the fixture order.
func (s *StaticService) UpdateStatus(_ context.Context, _ string, orderID string, update StatusUpdate) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		s.orders[i].OrderStatus = update.Status
		if strings.TrimSpace(update.Notes) != "" {
			s.orders[i].Notes = update.Notes
		}
		s.orders[i].UpdatedAt = time.Now().UTC()
		return s.orders[i], nil
	}
	return Order{}, ErrOrderNotFound
}

// UpdatePaymentStatus applies the payment transition to the fixture order.
func (s *StaticService) UpdatePaymentStatus(_ context.Context, _ string, orderID string, update PaymentStatusUpdate) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		s.orders[i].PaymentStatus = update.Status
		if strings.TrimSpace(update.Notes) != "" {
			s.orders[i].Notes = update.Notes
		}
		s.orders[i].UpdatedAt = time.Now().UTC()
		return s.orders[i], nil
	}
	return Order{}, ErrOrderNotFound
}

// CreateManualOrder appends a new order built from the draft, mimicking the
// backend's validation and derived fields.
func (s *StaticService) CreateManualOrder(_ context.Context, _ string, draft ManualDraft, _ string) (ManualResult, error) {
	if len(draft.Items) == 0 {
		return ManualResult{}, &ValidationError{Message: "items must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	number := fmt.Sprintf("INV-%d", s.nextNumber)
	s.nextNumber++

	items := make([]OrderItem, 0, len(draft.Items))
	subtotal := decimal.Zero
	for i, di := range draft.Items {
		price := decimal.NewFromInt(1000)
		if di.CustomPrice != nil {
			price = *di.CustomPrice
		}
		line := OrderItem{
			ID:                 fmt.Sprintf("itm-m%d-%d", s.nextNumber, i),
			ProductName:        di.ProductName,
			VariationName:      di.VariationName,
			PriceAtPurchase:    price,
			OriginalPrice:      price,
			Quantity:           di.Quantity,
			ProductVariationID: di.ProductVariationID,
		}
		if di.CustomDiscountAmt != nil {
			line.DiscountAmount = *di.CustomDiscountAmt
		}
		items = append(items, line)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(di.Quantity))))
	}

	total := subtotal
	if draft.CustomTotalAmount != nil {
		total = *draft.CustomTotalAmount
	}
	paymentStatus := draft.PaymentStatus
	if draft.MarkAsPaid {
		paymentStatus = PaymentPaid
	}
	if paymentStatus == "" {
		paymentStatus = PaymentPending
	}
	orderStatus := draft.OrderStatus
	if orderStatus == "" {
		orderStatus = StatusPending
	}

	order := Order{
		ID:              fmt.Sprintf("ord_m%d", s.nextNumber),
		OrderNumber:     number,
		CustomerName:    draft.CustomerName,
		Email:           draft.Email,
		Phone:           draft.Phone,
		ShippingAddress: draft.ShippingAddress,
		BillingAddress:  draft.BillingAddress,
		TotalAmount:     total,
		OrderStatus:     orderStatus,
		PaymentStatus:   paymentStatus,
		PaymentMethod:   draft.PaymentMethod,
		CreationMethod:  CreatedByAdmin,
		Items:           items,
		ItemCount:       len(items),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if draft.CustomDiscountAmount != nil {
		order.DiscountAmount = *draft.CustomDiscountAmount
	}
	if draft.CustomShippingFee != nil {
		order.ShippingFee = *draft.CustomShippingFee
	}

	s.orders = append(s.orders, order)

	result := ManualResult{Order: order}
	if draft.GenerateInvoice {
		result.Invoice = &Invoice{
			ID:            "invc_" + order.ID,
			InvoiceNumber: number,
		}
	}
	return result, nil
}
