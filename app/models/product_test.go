package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStockStatus(t *testing.T) {
	tests := []struct {
		quantity int
		want     string
	}{
		{-1, StockStatusOut},
		{0, StockStatusOut},
		{1, StockStatusLow},
		{20, StockStatusLow},
		{21, StockStatusIn},
		{100, StockStatusIn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateStockStatus(tt.quantity), "quantity %d", tt.quantity)
	}
}

func TestProductMarshalJSONIncludesStatus(t *testing.T) {
	product := Product{
		Name:          "Mechanical Keyboard",
		Slug:          "mechanical-keyboard",
		Price:         decimal.NewFromFloat(79.99),
		StockQuantity: 3,
	}

	raw, err := json.Marshal(&product)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, StockStatusLow, decoded["status"])
	assert.Equal(t, "mechanical-keyboard", decoded["slug"])
}
