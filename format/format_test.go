package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spektr-org/panels/engine"
)

var (
	plain   = engine.Column{Name: "units", NativeType: engine.TypeNumber}
	money   = engine.Column{Name: "amount", NativeType: engine.TypeNumber, Meta: map[string]any{"decimals": 2, "currency": "$"}}
	fixed   = engine.Column{Name: "rate", NativeType: engine.TypeNumber, Meta: map[string]any{"decimals": float64(2)}}
	created = engine.Column{Name: "created", NativeType: engine.TypeTime}
	label   = engine.Column{Name: "label", NativeType: engine.TypeString}
)

func TestNumber(t *testing.T) {
	assert.Equal(t, "1,234,567", Number(1234567, plain))
	assert.Equal(t, "-42", Number(-42, plain))
	assert.Equal(t, "2.5", Number(2.5, plain))
	assert.Equal(t, "1,234.50", Number(1234.5, fixed))
	assert.Equal(t, "$8,500.00", Number(8500, money))
	assert.Equal(t, "-$8,500.00", Number(-8500, money))
	assert.Equal(t, "0.00", Number(-0.001, fixed), "no negative zero")
}

func TestDate(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01", Date(day, created))
	assert.Equal(t, "2024-03-01 10:30", Date(day.Add(10*time.Hour+30*time.Minute), created))

	monthly := engine.Column{NativeType: engine.TypeTime, Meta: map[string]any{"layout": "Jan 2006"}}
	assert.Equal(t, "Mar 2024", Date(day, monthly))
}

func TestCell(t *testing.T) {
	tests := []struct {
		cell engine.Cell
		col  engine.Column
		want string
	}{
		{engine.NumberCell(12000), plain, "12,000"},
		{engine.TextCell("n/a"), plain, "n/a"},
		{engine.TextCell(""), money, ""},
		{engine.TextCell("2024-03-01T10:30:00Z"), created, "2024-03-01 10:30"},
		{engine.TextCell("someday"), created, "someday"},
		{engine.NumberCell(12000), label, "12000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Cell(tt.cell, tt.col))
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, "0", Count(0))
	assert.Equal(t, "10,000", Count(10000))
}
