package ledger

import (
	"time"

	"github.com/homefin/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NetFlowsByDay sums entry amounts per normalized date. Amounts must already
// be in a single currency; the caller normalizes cross-currency entries first.
func NetFlowsByDay(entries []domain.Entry, amounts []decimal.Decimal) map[time.Time]decimal.Decimal {
	flows := make(map[time.Time]decimal.Decimal, len(entries))
	for i := range entries {
		day := NormalizeDate(entries[i].EntryDate)
		flows[day] = flows[day].Add(amounts[i])
	}
	return flows
}

// CombineBalance applies one day's net flows to the prior balance using the
// account's flows factor: balance = prior + factor * net.
func CombineBalance(prior decimal.Decimal, net decimal.Decimal, flowsFactor int) decimal.Decimal {
	if flowsFactor < 0 {
		return prior.Sub(net)
	}
	return prior.Add(net)
}
