// Package seed holds the locally seeded display records (billing, devices)
// and the deterministic demo-data generator used by the stub platform API
// and tests.
package seed

import (
	"time"

	"github.com/zivahealth/admin-console/internal/domain"
)

// BillingRecords returns the seeded invoice list shown on the finance pages.
func BillingRecords() []domain.BillingRecord {
	return []domain.BillingRecord{
		{ID: 1, Customer: "User 5", Invoice: "INV-20250506-4781", Date: date(2025, 5, 6), Status: domain.BillingPaid, Amount: 29.99, Method: "card"},
		{ID: 2, Customer: "User 8", Invoice: "INV-20250506-3208", Date: date(2025, 5, 6), Status: domain.BillingPaid, Amount: 29.99, Method: "card"},
		{ID: 3, Customer: "User 18", Invoice: "INV-20250506-3741", Date: date(2025, 5, 6), Status: domain.BillingCancelled, Amount: 29.99, Method: "paypal"},
		{ID: 4, Customer: "User 10", Invoice: "INV-20250503-9614", Date: date(2025, 5, 3), Status: domain.BillingOverdue, Amount: 29.99, Method: "paypal"},
		{ID: 5, Customer: "User 1", Invoice: "INV-20250502-2299", Date: date(2025, 5, 2), Status: domain.BillingPaid, Amount: 19.99, Method: "paypal"},
		{ID: 6, Customer: "User 16", Invoice: "INV-20250501-2164", Date: date(2025, 5, 1), Status: domain.BillingPending, Amount: 29.99, Method: "paypal"},
		{ID: 7, Customer: "User 6", Invoice: "INV-20250429-4582", Date: date(2025, 4, 29), Status: domain.BillingOverdue, Amount: 19.99, Method: "card"},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
