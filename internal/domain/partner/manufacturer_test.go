package partner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestManufacturer(t *testing.T) *Manufacturer {
	m, err := NewManufacturer("MFR-001", "Acme Prints", "US")
	require.NoError(t, err)
	return m
}

func TestNewManufacturer(t *testing.T) {
	t.Run("new manufacturer is eligible by default", func(t *testing.T) {
		m := createTestManufacturer(t)
		assert.True(t, m.Active)
		assert.True(t, m.AcceptingNewOrders)
		assert.True(t, m.Eligible())
		assert.Equal(t, 1, m.MinOrderQty)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewManufacturer("", "Acme", "US")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewManufacturer("MFR-001", " ", "US")
		assert.Error(t, err)
	})
}

func TestManufacturer_Eligible(t *testing.T) {
	m := createTestManufacturer(t)

	m.Deactivate()
	assert.False(t, m.Eligible())

	m.Activate()
	assert.True(t, m.Eligible())

	m.SetAcceptingNewOrders(false)
	assert.False(t, m.Eligible())

	m.SetAcceptingNewOrders(true)
	assert.True(t, m.Eligible())
}

func TestManufacturer_Supports(t *testing.T) {
	m := createTestManufacturer(t)
	require.NoError(t, m.SetCapabilities([]string{"screen-print", "embroidery"}))

	tests := []struct {
		name     string
		required []string
		supports bool
	}{
		{"single supported tag", []string{"screen-print"}, true},
		{"all supported tags", []string{"screen-print", "embroidery"}, true},
		{"case insensitive", []string{"Screen-Print"}, true},
		{"unsupported tag", []string{"DTF"}, false},
		{"mixed supported and unsupported", []string{"embroidery", "DTF"}, false},
		{"no required tags", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.supports, m.Supports(tt.required))
		})
	}
}

func TestManufacturer_SetOrderTerms(t *testing.T) {
	m := createTestManufacturer(t)

	require.NoError(t, m.SetOrderTerms(25, 7))
	assert.Equal(t, 25, m.MinOrderQty)
	assert.Equal(t, 7, m.LeadTimeDays)

	assert.Error(t, m.SetOrderTerms(0, 7))
	assert.Error(t, m.SetOrderTerms(10, -1))
}

func TestManufacturer_SetCapabilities(t *testing.T) {
	m := createTestManufacturer(t)

	assert.Error(t, m.SetCapabilities([]string{"screen-print", " "}))

	require.NoError(t, m.SetCapabilities([]string{" DTF "}))
	assert.Equal(t, []string{"DTF"}, m.Capabilities)
}

func TestManufacturer_SetUnitCostBaseline(t *testing.T) {
	m := createTestManufacturer(t)

	require.NoError(t, m.SetUnitCostBaseline(decimal.NewFromFloat(4.75)))
	assert.True(t, m.UnitCostBaseline.Equal(decimal.NewFromFloat(4.75)))

	assert.Error(t, m.SetUnitCostBaseline(decimal.NewFromInt(-1)))
}
