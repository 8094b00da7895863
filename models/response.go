package models

// ErrorResponse is the body of every failed request
// Example response:
// {
//   "error": "the catalog is empty, add products first",
//   "reason": "NoProducts",
//   "redirect": "/products"
// }
type ErrorResponse struct {
	Error    string `json:"error"`
	Reason   string `json:"reason,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// OrderActionResponse is returned after placing, editing or completing an order
// Example response:
// {
//   "order": {"id": 3, "status": "completed", "total": "6", ...},
//   "notice": "Order #3 marked completed."
// }
type OrderActionResponse struct {
	Order  *OrderView `json:"order,omitempty"`
	Notice string     `json:"notice"`
}

// ProductActionResponse is returned after a catalog change
type ProductActionResponse struct {
	Product *Product `json:"product,omitempty"`
	Notice  string   `json:"notice"`
}

// ShiftCloseResponse is returned after a confirmed shift close
// Example response:
// {
//   "token": "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0",
//   "date": "2026-10-14",
//   "orderCount": 2,
//   "total": "15.5",
//   "purgedPending": 1,
//   "reportUrl": "/shift/close/report",
//   "summaryUrl": "/shift/close/summary",
//   "notice": "Shift closed: 2 orders, total $15.50."
// }
type ShiftCloseResponse struct {
	Token         string `json:"token"`
	Date          string `json:"date"`
	OrderCount    int    `json:"orderCount"`
	Total         string `json:"total"`
	PurgedPending int64  `json:"purgedPending"`
	ReportURL     string `json:"reportUrl"`
	SummaryURL    string `json:"summaryUrl"`
	Notice        string `json:"notice"`
}
