// Package insights serves the static market and scheme catalogues and the
// keyword-routed assistant replies.
package insights

import "time"

type MarketPrice struct {
	Commodity          string    `json:"commodity"`
	Market             string    `json:"market"`
	PriceINRPerQuintal float64   `json:"price_inr_per_quintal"`
	Trend              string    `json:"trend"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Scheme struct {
	Title        string `json:"title"`
	Eligibility  string `json:"eligibility"`
	Benefits     string `json:"benefits"`
	HowToApply   string `json:"how_to_apply"`
	OfficialLink string `json:"official_link,omitempty"`
}

// MarketPrices returns sample mandi prices stamped with now.
func MarketPrices(now time.Time) []MarketPrice {
	now = now.UTC()
	return []MarketPrice{
		{Commodity: "Wheat", Market: "Delhi", PriceINRPerQuintal: 2550, Trend: "up", UpdatedAt: now},
		{Commodity: "Rice", Market: "Kolkata", PriceINRPerQuintal: 2850, Trend: "flat", UpdatedAt: now},
		{Commodity: "Maize", Market: "Hyderabad", PriceINRPerQuintal: 2150, Trend: "down", UpdatedAt: now},
		{Commodity: "Onion", Market: "Nashik", PriceINRPerQuintal: 1750, Trend: "up", UpdatedAt: now},
	}
}

func Schemes() []Scheme {
	return []Scheme{
		{
			Title:        "PM-KISAN (Income Support)",
			Eligibility:  "Small and marginal farmer families (as per scheme rules).",
			Benefits:     "₹6,000/year income support in 3 installments.",
			HowToApply:   "Register/verify details via official portal; link Aadhaar and bank account.",
			OfficialLink: "https://pmkisan.gov.in/",
		},
		{
			Title:        "Pradhan Mantri Fasal Bima Yojana (PMFBY)",
			Eligibility:  "Farmers growing notified crops in notified areas.",
			Benefits:     "Crop insurance against yield loss due to natural calamities/pests/diseases.",
			HowToApply:   "Apply through banks/insurance portal before the cut-off date.",
			OfficialLink: "https://pmfby.gov.in/",
		},
		{
			Title:        "Soil Health Card Scheme",
			Eligibility:  "All farmers.",
			Benefits:     "Soil test-based nutrient recommendations and soil health reports.",
			HowToApply:   "Contact local agriculture office/soil testing lab; request a soil test.",
			OfficialLink: "https://soilhealth.dac.gov.in/",
		},
	}
}
