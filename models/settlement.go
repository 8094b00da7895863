package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementBatch is the snapshot of the orders claimed by one shift close.
// It lives only in the caller's session until the report is downloaded.
type SettlementBatch struct {
	Token    string      `json:"token"`
	Date     string      `json:"date"`
	ClosedAt time.Time   `json:"closedAt"`
	Orders   []OrderView `json:"orders"`
}

// Total returns the sum of the order totals, each order counted once
func (b *SettlementBatch) Total() decimal.Decimal {
	total := decimal.Zero
	for _, o := range b.Orders {
		total = total.Add(o.Total)
	}
	return total
}

// ShortToken returns the first 8 characters of the batch token
func (b *SettlementBatch) ShortToken() string {
	if len(b.Token) <= 8 {
		return b.Token
	}
	return b.Token[:8]
}

// SettlementOutcome is the result of a confirmed shift close
type SettlementOutcome struct {
	Batch         *SettlementBatch `json:"batch"`
	PurgedPending int64            `json:"purgedPending"` // pending orders deleted by the close
}

// ClosePreview lists the orders a shift close would settle right now
// Example response:
// {
//   "date": "2026-10-14",
//   "orders": [{"id": 3, "status": "completed", "total": "6", ...}],
//   "total": "6"
// }
type ClosePreview struct {
	Date   string          `json:"date"`
	Orders []Order         `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}
