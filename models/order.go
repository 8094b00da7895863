package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values stored in orders.status
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

// BusinessDateLayout is the layout of orders.business_date and of settlement dates
const BusinessDateLayout = "2006-01-02"

// Order represents an order row in the database
type Order struct {
	ID           int64           `json:"id"`
	CreatedAt    time.Time       `json:"createdAt"`
	BusinessDate string          `json:"businessDate"`
	Status       string          `json:"status"` // pending, completed
	Total        decimal.Decimal `json:"total"`
	Archived     bool            `json:"archived"`
	BatchRef     *string         `json:"batchRef,omitempty"` // set once the order is claimed by a shift close
}

// IsEditable reports whether the order may still have its lines replaced
func (o Order) IsEditable() bool {
	return o.Status == OrderStatusPending && !o.Archived && o.BatchRef == nil
}

// OrderLine represents a line item of an order.
// Subtotal is frozen when the line is written and never recomputed.
type OrderLine struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderLineView is an order line joined with the catalog.
// ProductName is nil when the referenced product no longer exists.
type OrderLineView struct {
	OrderLine
	ProductName *string `json:"productName"`
}

// IsOrphaned reports whether the referenced product was deleted from the catalog
func (l OrderLineView) IsOrphaned() bool {
	return l.ProductName == nil
}

// NewOrderLine is a priced line ready to be inserted
type NewOrderLine struct {
	ProductID int64
	Quantity  int
	Subtotal  decimal.Decimal
}

// LinesTotal returns the sum of the subtotals of lines
func LinesTotal(lines []NewOrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

// OrderView represents an order with its joined lines and derived flags
// Example response:
// {
//   "id": 3,
//   "createdAt": "2026-10-14T15:04:05Z",
//   "businessDate": "2026-10-14",
//   "status": "pending",
//   "total": "6",
//   "archived": false,
//   "lines": [
//     {"id": 7, "orderId": 3, "productId": 1, "quantity": 3, "subtotal": "6", "productName": "Empanada"}
//   ],
//   "hasOrphanedProducts": false,
//   "hasNoLineItems": false
// }
type OrderView struct {
	Order
	Lines               []OrderLineView `json:"lines"`
	HasOrphanedProducts bool            `json:"hasOrphanedProducts"`
	HasNoLineItems      bool            `json:"hasNoLineItems"`
}

// NewOrderView builds an OrderView and computes its derived flags
func NewOrderView(order Order, lines []OrderLineView) OrderView {
	if lines == nil {
		lines = []OrderLineView{}
	}
	view := OrderView{
		Order:          order,
		Lines:          lines,
		HasNoLineItems: len(lines) == 0,
	}
	for _, l := range lines {
		if l.IsOrphaned() {
			view.HasOrphanedProducts = true
			break
		}
	}
	return view
}

// Selections maps a product id to the requested quantity
type Selections map[int64]int

// SelectionsRequest represents the request body for placing or editing an order
// Example: {"selections": {"1": 3, "4": 1}}
type SelectionsRequest struct {
	Selections Selections `json:"selections"`
}

// OrderEditForm holds what is needed to show the edit form of an order:
// the current catalog and the quantities reconstructed from the existing lines
type OrderEditForm struct {
	Order               OrderView  `json:"order"`
	Products            []Product  `json:"products"`
	Quantities          Selections `json:"quantities"`
	HasOrphanedProducts bool       `json:"hasOrphanedProducts"`
}

// OrderListResponse represents the response for listing orders
type OrderListResponse struct {
	Orders []OrderView `json:"orders"`
}

// OrderNewForm represents the data needed to show the new order form
type OrderNewForm struct {
	Products []Product `json:"products"`
}
