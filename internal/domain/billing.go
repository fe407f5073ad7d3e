package domain

import "time"

// BillingStatus is the closed set of invoice states shown on the finance
// pages.
type BillingStatus string

const (
	BillingPaid      BillingStatus = "paid"
	BillingPending   BillingStatus = "pending"
	BillingOverdue   BillingStatus = "overdue"
	BillingCancelled BillingStatus = "cancelled"
)

// Label returns the display form of the status.
func (s BillingStatus) Label() string {
	switch s {
	case BillingPaid:
		return "Paid"
	case BillingPending:
		return "Pending"
	case BillingOverdue:
		return "Overdue"
	case BillingCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// BillingRecord is a locally seeded display record; it has no lifecycle
// beyond process memory.
type BillingRecord struct {
	ID       int64         `json:"id"`
	Customer string        `json:"customer"`
	Invoice  string        `json:"invoice"`
	Date     time.Time     `json:"date"`
	Status   BillingStatus `json:"status"`
	Amount   float64       `json:"amount"`
	Method   string        `json:"method"`
}
