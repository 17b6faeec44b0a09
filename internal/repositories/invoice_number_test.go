package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextInvoiceNumber(t *testing.T) {
	tests := []struct {
		name string
		year int
		last string
		want string
	}{
		{"first invoice of the year", 2026, "", "INV-2026-001"},
		{"increments the suffix", 2026, "INV-2026-001", "INV-2026-002"},
		{"sequential within a year", 2026, "INV-2026-041", "INV-2026-042"},
		{"previous year resets the sequence", 2026, "INV-2025-977", "INV-2026-001"},
		{"grows past three digits", 2026, "INV-2026-999", "INV-2026-1000"},
		{"garbage suffix starts over", 2026, "INV-2026-abc", "INV-2026-001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextInvoiceNumber(tt.year, tt.last))
		})
	}
}

func TestNextInvoiceNumber_Sequencing(t *testing.T) {
	last := ""
	for i := 1; i <= 5; i++ {
		last = NextInvoiceNumber(2026, last)
	}
	assert.Equal(t, "INV-2026-005", last)
}
