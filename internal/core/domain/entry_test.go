package domain_test

import (
	"testing"

	"github.com/homefin/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidEntryKind(t *testing.T) {
	assert.True(t, domain.ValidEntryKind(domain.KindTransaction))
	assert.True(t, domain.ValidEntryKind(domain.KindValuation))
	assert.True(t, domain.ValidEntryKind(domain.KindTrade))
	assert.False(t, domain.ValidEntryKind(domain.EntryKind("WITHDRAWAL")))
	assert.False(t, domain.ValidEntryKind(domain.EntryKind("")))
}

func TestEntry_FlowDirection(t *testing.T) {
	tests := []struct {
		name        string
		amount      decimal.Decimal
		wantInflow  bool
		wantOutflow bool
	}{
		{
			name:        "positive amount is an inflow",
			amount:      decimal.NewFromInt(100),
			wantInflow:  true,
			wantOutflow: false,
		},
		{
			name:        "negative amount is an outflow",
			amount:      decimal.NewFromInt(-100),
			wantInflow:  false,
			wantOutflow: true,
		},
		{
			name:        "zero amount is neither",
			amount:      decimal.Zero,
			wantInflow:  false,
			wantOutflow: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := domain.Entry{Amount: tt.amount}
			assert.Equal(t, tt.wantInflow, e.IsInflow())
			assert.Equal(t, tt.wantOutflow, e.IsOutflow())
		})
	}
}

func TestEntry_IsCompensating(t *testing.T) {
	assert.False(t, domain.Entry{}.IsCompensating())
	assert.True(t, domain.Entry{OriginalEntryID: "entry-1"}.IsCompensating())
}
