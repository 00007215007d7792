package domain

import "github.com/shopspring/decimal"

// StatusSummary counts LPOs per approval status. All three keys are always
// present, zero-filled when a status has no LPOs.
type StatusSummary struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// PaymentSummary buckets LPOs by payment status. Partial LPOs contribute
// their recorded payments to TotalPaid and the remainder to TotalUnpaid.
type PaymentSummary struct {
	Paid        int             `json:"paid"`
	Unpaid      int             `json:"unpaid"`
	Partial     int             `json:"partial"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	TotalUnpaid decimal.Decimal `json:"total_unpaid"`
}

// MonthlySpend is one calendar month's spend. PaidAmount is the subset from
// LPOs whose paid portion is attributable to that month.
type MonthlySpend struct {
	Month      string          `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

// VendorSpend ranks one vendor by total LPO spend.
type VendorSpend struct {
	VendorID   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	TotalSpend decimal.Decimal `json:"total_spend"`
}

// DashboardSummary aggregates the dashboard data derived from the current
// LPO collection. It holds no state of its own; every change to the
// collection triggers a full recomputation.
type DashboardSummary struct {
	StatusSummary  StatusSummary  `json:"status_summary"`
	PaymentSummary PaymentSummary `json:"payment_summary"`
	MonthlySpend   []MonthlySpend `json:"monthly_spend"`
	TopVendors     []VendorSpend  `json:"top_vendors"`
}
