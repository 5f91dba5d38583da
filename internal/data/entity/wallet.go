package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a driver's earnings. PendingDeduction is commission owed to the
// platform, settled once ActualBalance covers it.
type Wallet struct {
	BaseNoDelete
	DriverID         uuid.UUID       `db:"driver_id"`
	TotalBalance     decimal.Decimal `db:"total_balance"`
	ActualBalance    decimal.Decimal `db:"actual_balance"`
	PendingDeduction decimal.Decimal `db:"a_deduct"`
	IsActive         bool            `db:"is_active"`
}

// ApplyPendingDeduction settles the outstanding deduction when the balance allows it.
// It reports whether anything changed.
func (w *Wallet) ApplyPendingDeduction() bool {
	if !w.PendingDeduction.IsPositive() || w.ActualBalance.LessThan(w.PendingDeduction) {
		return false
	}
	w.ActualBalance = w.ActualBalance.Sub(w.PendingDeduction)
	w.PendingDeduction = decimal.Zero
	return true
}
