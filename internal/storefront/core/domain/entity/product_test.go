package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarbonFootprint_Rank(t *testing.T) {
	assert.Less(t, CarbonVeryLow.Rank(), CarbonLow.Rank())
	assert.Less(t, CarbonLow.Rank(), CarbonMedium.Rank())
	assert.Less(t, CarbonMedium.Rank(), CarbonHigh.Rank())
	assert.Equal(t, -1, CarbonFootprint("Extreme").Rank())
	assert.False(t, CarbonFootprint("low").Valid())
}

func TestProduct_DecodesSourcePayload(t *testing.T) {
	payload := `{
		"id": "p-1",
		"name": "Organic Pineapple Juice",
		"price": 4.99,
		"original_price": 5.99,
		"description": "100% organic pineapple juice",
		"image_url": "https://example.com/juice.jpg",
		"category": "Beverages",
		"ethical_badges": [
			{"category": "organic", "score": 95, "description": "USDA Organic certified"}
		],
		"karma_points": 50,
		"sustainability_score": 90,
		"carbon_footprint": "Low",
		"alternatives": [],
		"created_at": "2025-07-14T06:44:30.123456"
	}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(payload), &p))

	assert.Equal(t, "4.99", p.Price.String())
	require.True(t, p.OriginalPrice.Valid)
	assert.Equal(t, "1", p.Discount().String())
	assert.Equal(t, 50, p.KarmaPoints)
	assert.Equal(t, CarbonLow, p.CarbonFootprint)
	require.Len(t, p.EthicalBadges, 1)
	assert.Equal(t, BadgeOrganic, p.EthicalBadges[0].Category)
	assert.Equal(t, time.Date(2025, 7, 14, 6, 44, 30, 123456000, time.UTC), p.CreatedAt.Time)
}

func TestProduct_RejectsUnknownCarbonTier(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"id":"x","price":1,"carbon_footprint":"Extreme"}`), &p)
	assert.ErrorContains(t, err, "unknown carbon footprint")

	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","price":1,"carbon_footprint":""}`), &p))
	assert.Empty(t, p.CarbonFootprint)
}

func TestProduct_CreatedAtRoundTrip(t *testing.T) {
	in := Product{ID: "x", Price: decimal.NewFromInt(1), CreatedAt: Timestamp{time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"created_at":"2024-03-01T09:00:00Z"`)

	var out Product
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt.Time))

	b, err = json.Marshal(Product{ID: "y"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "created_at")
}

func TestProduct_NullOriginalPrice(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","price":3,"original_price":null}`), &p))

	assert.False(t, p.OriginalPrice.Valid)
	assert.True(t, p.Discount().IsZero())
}

func TestProduct_DiscountIgnoresLowerOriginal(t *testing.T) {
	p := Product{
		Price:         decimal.NewFromInt(10),
		OriginalPrice: decimal.NewNullDecimal(decimal.NewFromInt(8)),
	}
	assert.True(t, p.Discount().IsZero())
}
