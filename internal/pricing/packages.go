package pricing

// PackageTier is one of the fixed service levels.
type PackageTier struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Tagline         string   `json:"tagline"`
	Features        []string `json:"features"`
	PriceMultiplier float64  `json:"priceMultiplier"`
}

// PackagePrediction is a tier priced for a specific move.
type PackagePrediction struct {
	PackageTier
	PredictedPrice int  `json:"predictedPrice"`
	Savings        int  `json:"savings"`
	Recommended    bool `json:"recommended"`
}

// DefaultTiers returns economy, standard and premium in that order.
func DefaultTiers() []PackageTier {
	return []PackageTier{
		{
			ID:      "economy",
			Name:    "Economy",
			Tagline: "No frills, maximum savings",
			Features: []string{
				"Shared truck (batched with others)",
				"Basic packing materials",
				"Self-load / self-unload",
				"Standard insurance (₹10k cover)",
			},
			PriceMultiplier: 0.75,
		},
		{
			ID:      "standard",
			Name:    "Standard",
			Tagline: "Best balance of price and care",
			Features: []string{
				"Dedicated mini-truck",
				"2 trained movers",
				"Bubble wrap + carton boxes",
				"Real-time GPS tracking",
				"Insurance (₹50k cover)",
			},
			PriceMultiplier: 1.0,
		},
		{
			ID:      "premium",
			Name:    "Premium",
			Tagline: "White-glove service, zero stress",
			Features: []string{
				"Dedicated Bolero / Tata Ace",
				"4 movers + 1 supervisor",
				"Full packing & unpacking",
				"Fragile-item specialist handling",
				"Climate-controlled storage option",
				"Priority insurance (₹2L cover)",
				"Post-move cleaning at new place",
			},
			PriceMultiplier: 1.55,
		},
	}
}

// pricePackages prices every tier and flags the one with the lowest price
// per feature. Ties go to the earlier tier.
func (e *Estimator) pricePackages(basePrice int) []PackagePrediction {
	alaCarte := int(roundHalfUp(float64(basePrice) * e.weights.AlaCarteMarkup))

	packages := make([]PackagePrediction, len(e.tiers))
	best := 0
	for i, tier := range e.tiers {
		tier.Features = append([]string(nil), tier.Features...)
		predicted := int(roundHalfUp(float64(basePrice) * tier.PriceMultiplier))
		packages[i] = PackagePrediction{
			PackageTier:    tier,
			PredictedPrice: predicted,
			Savings:        max(alaCarte-predicted, 0),
		}
		if valueDensity(packages[i]) < valueDensity(packages[best]) {
			best = i
		}
	}
	if len(packages) > 0 {
		packages[best].Recommended = true
	}

	return packages
}

func valueDensity(p PackagePrediction) float64 {
	if len(p.Features) == 0 {
		return float64(p.PredictedPrice)
	}
	return float64(p.PredictedPrice) / float64(len(p.Features))
}
