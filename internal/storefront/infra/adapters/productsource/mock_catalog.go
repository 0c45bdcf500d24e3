package productsource

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/entity"
)

// catalogNamespace derives stable product IDs from product names so the dev
// catalog keeps its IDs across restarts.
var catalogNamespace = uuid.MustParse("8f0c6f5e-3b7a-4c1e-9d3a-6b2f1e0a7c55")

// MockProductID returns the stable ID the dev catalog assigns to name.
func MockProductID(name string) string {
	return uuid.NewSHA1(catalogNamespace, []byte(name)).String()
}

type mockProduct struct {
	name, description, image, category string
	price, original                    string
	badges                             []entity.EthicalBadge
	karma, sustainability              int
	carbon                             entity.CarbonFootprint
}

var mockProducts = []mockProduct{
	{
		name:        "Organic Pineapple Juice",
		description: "100% organic pineapple juice with no added sugars or preservatives",
		image:       "https://images.unsplash.com/photo-1525904097878-94fb15835963",
		category:    "Beverages",
		price:       "4.99", original: "5.99",
		badges: []entity.EthicalBadge{
			{Category: entity.BadgeOrganic, Score: 95, Description: "USDA Organic certified"},
			{Category: entity.BadgeSustainable, Score: 85, Description: "Sustainable packaging"},
		},
		karma: 50, sustainability: 90, carbon: entity.CarbonLow,
	},
	{
		name:        "Organic Fresh Fruit Mix",
		description: "Fresh organic fruits including apples, oranges, and seasonal selections",
		image:       "https://images.unsplash.com/photo-1490818387583-1baba5e638af",
		category:    "Produce",
		price:       "8.99", original: "12.99",
		badges: []entity.EthicalBadge{
			{Category: entity.BadgeOrganic, Score: 92, Description: "Organic certified produce"},
			{Category: entity.BadgeFairTrade, Score: 78, Description: "Fair trade sourcing"},
		},
		karma: 75, sustainability: 88, carbon: entity.CarbonLow,
	},
	{
		name:        "Sustainable Glass Storage Jars",
		description: "Eco-friendly glass storage jars for zero-waste kitchen organization",
		image:       "https://images.unsplash.com/photo-1592178036182-5400889dfc74",
		category:    "Home & Kitchen",
		price:       "24.99", original: "29.99",
		badges: []entity.EthicalBadge{
			{Category: entity.BadgeSustainable, Score: 96, Description: "Recyclable glass material"},
			{Category: entity.BadgeEcoFriendly, Score: 89, Description: "Reduces plastic waste"},
		},
		karma: 100, sustainability: 95, carbon: entity.CarbonMedium,
	},
	{
		name:        "Fair Trade Coffee Beans",
		description: "Premium fair trade coffee beans directly sourced from small farmers",
		image:       "https://images.unsplash.com/photo-1722962883780-8806c3ab546b",
		category:    "Beverages",
		price:       "14.99", original: "18.99",
		badges: []entity.EthicalBadge{
			{Category: entity.BadgeFairTrade, Score: 98, Description: "Fair Trade certified"},
			{Category: entity.BadgeOrganic, Score: 87, Description: "Organic farming practices"},
		},
		karma: 85, sustainability: 92, carbon: entity.CarbonMedium,
	},
	{
		name:        "Organic Superfood Ingredients",
		description: "Organic superfoods including chia seeds, quinoa, and goji berries",
		image:       "https://images.pexels.com/photos/7796170/pexels-photo-7796170.jpeg",
		category:    "Health & Wellness",
		price:       "19.99", original: "24.99",
		badges: []entity.EthicalBadge{
			{Category: entity.BadgeOrganic, Score: 94, Description: "Certified organic ingredients"},
			{Category: entity.BadgeSustainable, Score: 82, Description: "Sustainable sourcing"},
		},
		karma: 65, sustainability: 87, carbon: entity.CarbonLow,
	},
	{
		name:        "Eco-Friendly Cleaning Products",
		description: "Natural cleaning products with biodegradable ingredients",
		image:       "https://images.pexels.com/photos/3889827/pexels-photo-3889827.jpeg",
		category:    "Home & Garden",
		price:       "16.99", original: "21.99",
		badges: []entity.EthicalBadge{
			{Category: entity.BadgeEcoFriendly, Score: 91, Description: "Biodegradable formula"},
			{Category: entity.BadgeSustainable, Score: 86, Description: "Recyclable packaging"},
		},
		karma: 70, sustainability: 89, carbon: entity.CarbonLow,
	},
	{
		name:        "Sustainable Bamboo Products",
		description: "Bamboo kitchen utensils and accessories - plastic-free alternative",
		image:       "https://images.pexels.com/photos/8297200/pexels-photo-8297200.jpeg",
		category:    "Home & Kitchen",
		price:       "12.99", original: "15.99",
		badges: []entity.EthicalBadge{
			{Category: entity.BadgeSustainable, Score: 97, Description: "Renewable bamboo material"},
			{Category: entity.BadgeCarbonNeutral, Score: 88, Description: "Carbon-neutral production"},
		},
		karma: 80, sustainability: 93, carbon: entity.CarbonVeryLow,
	},
	{
		name:        "Fair Trade Organic Chocolate",
		description: "Premium organic chocolate bar from fair trade certified cocoa farms",
		image:       "https://images.unsplash.com/photo-1722962814429-1a0fc7a50675",
		category:    "Food & Snacks",
		price:       "6.99", original: "8.99",
		badges: []entity.EthicalBadge{
			{Category: entity.BadgeFairTrade, Score: 96, Description: "Fair trade certified cocoa"},
			{Category: entity.BadgeOrganic, Score: 90, Description: "Organic ingredients"},
		},
		karma: 60, sustainability: 91, carbon: entity.CarbonMedium,
	},
}

// NewMockCatalog returns a Memory seeded with the demo storefront catalog.
func NewMockCatalog() *Memory {
	m := NewMemory()
	createdAt := entity.Timestamp{Time: time.Now().UTC()}
	for _, mp := range mockProducts {
		m.Add(entity.Product{
			ID:                  MockProductID(mp.name),
			Name:                mp.name,
			Description:         mp.description,
			ImageURL:            mp.image,
			Price:               decimal.RequireFromString(mp.price),
			OriginalPrice:       decimal.NewNullDecimal(decimal.RequireFromString(mp.original)),
			Category:            mp.category,
			EthicalBadges:       mp.badges,
			KarmaPoints:         mp.karma,
			CreatedAt:           createdAt,
			SustainabilityScore: mp.sustainability,
			CarbonFootprint:     mp.carbon,
		})
	}
	return m
}
