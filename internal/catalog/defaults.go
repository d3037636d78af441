package catalog

// Default returns the built-in pricing catalog. Every call returns fresh
// copies so callers cannot alter each other's tables.
func Default() Catalog {
	return Catalog{
		Currency:             "USD",
		TokenPriceCentsPer1K: 100,
		Tiers: []SubscriptionTier{
			{
				Code:              "starter",
				Name:              "Starter",
				MonthlyPriceCents: 4_900,
				IncludedTokens:    50_000,
				MaxSeats:          1,
				StorageGB:         5,
				Features: map[string]bool{
					"document_generation": true,
					"e_signature":         true,
				},
			},
			{
				Code:              "professional",
				Name:              "Professional",
				MonthlyPriceCents: 19_900,
				IncludedTokens:    250_000,
				MaxSeats:          5,
				StorageGB:         50,
				Features: map[string]bool{
					"document_generation": true,
					"e_signature":         true,
					"contract_review":     true,
					"legal_research":      true,
				},
			},
			{
				Code:              "business",
				Name:              "Business",
				MonthlyPriceCents: 49_900,
				IncludedTokens:    1_000_000,
				MaxSeats:          20,
				StorageGB:         250,
				Features: map[string]bool{
					"document_generation": true,
					"e_signature":         true,
					"contract_review":     true,
					"legal_research":      true,
					"case_analysis":       true,
					"auto_recharge":       true,
				},
			},
			{
				Code:              "enterprise",
				Name:              "Enterprise",
				MonthlyPriceCents: 149_900,
				IncludedTokens:    Unlimited,
				MaxSeats:          Unlimited,
				StorageGB:         Unlimited,
				Features: map[string]bool{
					"document_generation": true,
					"e_signature":         true,
					"contract_review":     true,
					"legal_research":      true,
					"case_analysis":       true,
					"auto_recharge":       true,
					"sso":                 true,
					"dedicated_support":   true,
				},
			},
		},
		Packages: []TokenPackage{
			{ID: "tokens_10k", Tokens: 10_000, PriceCents: 1_000},
			{ID: "tokens_50k", Tokens: 50_000, PriceCents: 4_500},
			{ID: "tokens_100k", Tokens: 100_000, PriceCents: 8_000, BonusTokens: 5_000},
			{ID: "tokens_500k", Tokens: 500_000, PriceCents: 35_000, BonusTokens: 50_000},
		},
		ActionCosts: map[string]int64{
			"document_generation": 500,
			"document_summary":    300,
			"contract_review":     1_200,
			"clause_extraction":   200,
			"legal_research":      800,
			"case_analysis":       1_500,
			"translation":         400,
			"e_signature":         50,
		},
		Discounts: []VolumeDiscount{
			{MinTokens: 100_000, Discount: 0.05},
			{MinTokens: 500_000, Discount: 0.10},
			{MinTokens: 1_000_000, Discount: 0.15},
		},
	}
}
