// Package dashboard derives display summaries from the current LPO
// collection. Aggregation is a stateless full recompute: callers re-run it
// after any insert, update or delete. Volumes are small enough that an
// incremental aggregator is not worth its complexity.
package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/procurehq/lpoflow/internal/domain"
)

const topVendorLimit = 5

// Aggregate computes all dashboard summaries from the given LPO collection.
func Aggregate(lpos []domain.Lpo) *domain.DashboardSummary {
	return &domain.DashboardSummary{
		StatusSummary:  statusSummary(lpos),
		PaymentSummary: paymentSummary(lpos),
		MonthlySpend:   monthlySpend(lpos),
		TopVendors:     topVendors(lpos),
	}
}

func statusSummary(lpos []domain.Lpo) domain.StatusSummary {
	var s domain.StatusSummary
	for _, lpo := range lpos {
		switch lpo.Status {
		case domain.StatusPending:
			s.Pending++
		case domain.StatusApproved:
			s.Approved++
		case domain.StatusRejected:
			s.Rejected++
		}
	}
	return s
}

// paidPortion returns how much of an LPO's total counts as paid. Paid LPOs
// contribute their full snapshot total; Partial LPOs contribute their
// recorded payments, capped at the total.
func paidPortion(lpo *domain.Lpo) decimal.Decimal {
	switch lpo.PaymentStatus {
	case domain.PaymentPaid:
		return lpo.TotalAmount
	case domain.PaymentPartial:
		paid := lpo.PaidAmount()
		if paid.GreaterThan(lpo.TotalAmount) {
			return lpo.TotalAmount
		}
		return paid
	default:
		return decimal.Zero
	}
}

func paymentSummary(lpos []domain.Lpo) domain.PaymentSummary {
	s := domain.PaymentSummary{
		TotalPaid:   decimal.Zero,
		TotalUnpaid: decimal.Zero,
	}
	for i := range lpos {
		lpo := &lpos[i]
		switch lpo.PaymentStatus {
		case domain.PaymentPaid:
			s.Paid++
		case domain.PaymentPartial:
			s.Partial++
		default:
			s.Unpaid++
		}
		paid := paidPortion(lpo)
		s.TotalPaid = s.TotalPaid.Add(paid)
		s.TotalUnpaid = s.TotalUnpaid.Add(lpo.TotalAmount.Sub(paid))
	}
	return s
}

// monthlySpend groups LPOs by creation month. One entry per distinct month
// present in the data, ordered chronologically by the underlying dates; no
// zero-filling of skipped months.
func monthlySpend(lpos []domain.Lpo) []domain.MonthlySpend {
	type bucket struct {
		spend domain.MonthlySpend
		first int // chronological anchor: year*12 + month
	}
	buckets := make(map[string]*bucket)
	var order []string

	for i := range lpos {
		lpo := &lpos[i]
		label := lpo.DateCreated.Format("Jan")
		b, ok := buckets[label]
		if !ok {
			b = &bucket{
				spend: domain.MonthlySpend{
					Month:      label,
					Amount:     decimal.Zero,
					PaidAmount: decimal.Zero,
				},
				first: lpo.DateCreated.Year()*12 + int(lpo.DateCreated.Month()),
			}
			buckets[label] = b
			order = append(order, label)
		}
		anchor := lpo.DateCreated.Year()*12 + int(lpo.DateCreated.Month())
		if anchor < b.first {
			b.first = anchor
		}
		b.spend.Amount = b.spend.Amount.Add(lpo.TotalAmount)
		b.spend.PaidAmount = b.spend.PaidAmount.Add(paidPortion(lpo))
	}

	sort.SliceStable(order, func(i, j int) bool {
		return buckets[order[i]].first < buckets[order[j]].first
	})

	result := make([]domain.MonthlySpend, 0, len(order))
	for _, label := range order {
		result = append(result, buckets[label].spend)
	}
	return result
}

// topVendors ranks vendors by total spend, descending, truncated to five.
// Ties keep first-seen input order.
func topVendors(lpos []domain.Lpo) []domain.VendorSpend {
	totals := make(map[string]*domain.VendorSpend)
	var order []string

	for i := range lpos {
		lpo := &lpos[i]
		if lpo.VendorID == "" {
			continue
		}
		v, ok := totals[lpo.VendorID]
		if !ok {
			v = &domain.VendorSpend{
				VendorID:   lpo.VendorID,
				VendorName: lpo.VendorName,
				TotalSpend: decimal.Zero,
			}
			totals[lpo.VendorID] = v
			order = append(order, lpo.VendorID)
		}
		v.TotalSpend = v.TotalSpend.Add(lpo.TotalAmount)
	}

	ranked := make([]domain.VendorSpend, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, *totals[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSpend.GreaterThan(ranked[j].TotalSpend)
	})

	if len(ranked) > topVendorLimit {
		ranked = ranked[:topVendorLimit]
	}
	return ranked
}
