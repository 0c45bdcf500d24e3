package entity

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// CarbonFootprint is the qualitative carbon tier attached to a product.
// Tiers are ordered from VeryLow to High.
type CarbonFootprint string

const (
	CarbonVeryLow CarbonFootprint = "Very Low"
	CarbonLow     CarbonFootprint = "Low"
	CarbonMedium  CarbonFootprint = "Medium"
	CarbonHigh    CarbonFootprint = "High"
)

var carbonTiers = []CarbonFootprint{CarbonVeryLow, CarbonLow, CarbonMedium, CarbonHigh}

// Rank returns the position of the tier in the ordered set, or -1 when the
// label is not a known tier.
func (c CarbonFootprint) Rank() int {
	for i, t := range carbonTiers {
		if t == c {
			return i
		}
	}
	return -1
}

func (c CarbonFootprint) Valid() bool { return c.Rank() >= 0 }

// UnmarshalText rejects labels outside the known tiers. An empty label
// leaves the tier unset.
func (c *CarbonFootprint) UnmarshalText(b []byte) error {
	tier := CarbonFootprint(b)
	if tier != "" && !tier.Valid() {
		return errors.Errorf("entity: unknown carbon footprint %q", string(b))
	}
	*c = tier
	return nil
}

// BadgeCategory tags a product with an ethical certification. Display only.
type BadgeCategory string

const (
	BadgeOrganic       BadgeCategory = "organic"
	BadgeFairTrade     BadgeCategory = "fair_trade"
	BadgeSustainable   BadgeCategory = "sustainable"
	BadgeEcoFriendly   BadgeCategory = "eco_friendly"
	BadgeCarbonNeutral BadgeCategory = "carbon_neutral"
)

type EthicalBadge struct {
	Category    BadgeCategory `json:"category"`
	Score       int           `json:"score"`
	Description string        `json:"description"`
}

// Product is a read-only catalog record as served by the product source.
type Product struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	Description         string              `json:"description,omitempty"`
	ImageURL            string              `json:"image_url,omitempty"`
	Price               decimal.Decimal     `json:"price"`
	OriginalPrice       decimal.NullDecimal `json:"original_price"`
	Category            string              `json:"category"`
	EthicalBadges       []EthicalBadge      `json:"ethical_badges"`
	KarmaPoints         int                 `json:"karma_points"`
	SustainabilityScore int                 `json:"sustainability_score"`
	CarbonFootprint     CarbonFootprint     `json:"carbon_footprint"`
	Alternatives        []string            `json:"alternatives,omitempty"`
	CreatedAt           Timestamp           `json:"created_at,omitzero"`
}

// Discount returns how much cheaper the product is than its original price.
// Zero when there is no original price or it is not above the current one.
func (p Product) Discount() decimal.Decimal {
	if !p.OriginalPrice.Valid || !p.OriginalPrice.Decimal.GreaterThan(p.Price) {
		return decimal.Zero
	}
	return p.OriginalPrice.Decimal.Sub(p.Price)
}

// timestampNoZone is how the product source writes naive UTC datetimes.
const timestampNoZone = "2006-01-02T15:04:05.999999999"

// Timestamp is a time that also accepts datetimes without a zone, read as UTC.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "entity: timestamp must be a string")
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, timestampNoZone} {
		if v, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = v.UTC()
			return nil
		}
	}
	return errors.Errorf("entity: invalid timestamp %q", s)
}
