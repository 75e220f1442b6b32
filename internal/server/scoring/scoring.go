// Package scoring holds the heuristic crop recommendation and crop risk
// models. Every function is pure and safe for concurrent use.
package scoring

import (
	"math"
	"sort"
	"strings"
)

// FarmContext is the subset of a farm profile the models look at.
// Nil fields mean the farmer has not provided the value.
type FarmContext struct {
	SoilType       *string
	PH             *float64
	N              *float64
	P              *float64
	K              *float64
	Season         *string
	IrrigationType *string
}

type CropRecommendation struct {
	Crop       string  `json:"crop"`
	Confidence float64 `json:"confidence"`
	Why        string  `json:"why"`
}

type RiskPrediction struct {
	Score      float64  `json:"risk_score"`
	Level      string   `json:"risk_level"`
	TopRisks   []string `json:"top_risks"`
	Mitigation []string `json:"mitigation"`
}

const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"

	maxRecommendations = 6
	maxTopRisks        = 3
	maxMitigations     = 4
	confidenceCap      = 0.95

	acidicPH   = 5.5
	alkalinePH = 8.0

	defaultRationale = "Recommendations are based on the provided season and soil indicators."
)

type crop struct {
	name   string
	base   float64
	weight float64
	why    string
}

var catalogue = []struct {
	season string
	note   string
	crops  []crop
}{
	{"kharif", "Season includes Kharif.", []crop{
		{"Rice", 0.55, 0.25, "Common Kharif staple; performs well with reliable water."},
		{"Maize", 0.50, 0.30, "Good Kharif crop; adaptable to many soils."},
		{"Cotton", 0.45, 0.25, "Suitable for warm regions; benefits from balanced NPK."},
	}},
	{"rabi", "Season includes Rabi.", []crop{
		{"Wheat", 0.55, 0.25, "Common Rabi crop; prefers neutral pH and balanced nutrients."},
		{"Mustard", 0.50, 0.25, "Rabi oilseed; tolerates varied soils."},
		{"Chickpea", 0.48, 0.22, "Legume improving soil health; good for rotations."},
	}},
	{"zaid", "Season includes Zaid.", []crop{
		{"Watermelon", 0.50, 0.20, "Zaid crop; benefits from irrigation and warm weather."},
		{"Cucumber", 0.48, 0.20, "Zaid vegetable; responsive to balanced nutrition."},
	}},
}

// SoilBalance scores how evenly the provided NPK values are spread, in
// [0.4, 1]. With no values at all it returns a neutral 0.5.
func SoilBalance(n, p, k *float64) float64 {
	var vals []float64
	for _, v := range []*float64{n, p, k} {
		if v != nil {
			vals = append(vals, *v)
		}
	}
	if len(vals) == 0 {
		return 0.5
	}

	sum, lo, hi := 0.0, vals[0], vals[0]
	for _, v := range vals {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	avg := sum / float64(len(vals))
	imbalance := math.Min(1, (hi-lo)/math.Max(1, avg))
	return 1 - 0.6*imbalance
}

// RecommendCrops ranks catalogue crops for the season (all seasons when unset)
// and returns at most six of them with a human-readable rationale.
func RecommendCrops(fc FarmContext) ([]CropRecommendation, string) {
	balance := SoilBalance(fc.N, fc.P, fc.K)
	season := "all"
	if fc.Season != nil && *fc.Season != "" {
		season = strings.ToLower(*fc.Season)
	}

	var recs []CropRecommendation
	var rationale []string
	for _, group := range catalogue {
		if season != "all" && season != group.season {
			continue
		}
		for _, c := range group.crops {
			recs = append(recs, CropRecommendation{
				Crop:       c.name,
				Confidence: c.base + c.weight*balance,
				Why:        c.why,
			})
		}
		rationale = append(rationale, group.note)
	}

	if fc.PH != nil {
		switch ph := *fc.PH; {
		case ph < acidicPH:
			rationale = append(rationale, "Soil seems acidic; consider liming and acid-tolerant crops.")
			boost(recs, 0.05, "Rice")
		case ph > alkalinePH:
			rationale = append(rationale, "Soil seems alkaline; consider gypsum and salt-tolerant varieties.")
			boost(recs, 0.04, "Cotton", "Mustard")
		default:
			rationale = append(rationale, "Soil pH looks near-neutral.")
		}
	}

	if fc.IrrigationType != nil {
		switch strings.ToLower(*fc.IrrigationType) {
		case "drip", "sprinkler":
			rationale = append(rationale, "Efficient irrigation can improve yield stability.")
		}
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Confidence > recs[j].Confidence })
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}

	if len(rationale) == 0 {
		return recs, defaultRationale
	}
	return recs, strings.Join(rationale, " ")
}

func boost(recs []CropRecommendation, by float64, crops ...string) {
	for i := range recs {
		for _, name := range crops {
			if recs[i].Crop == name {
				recs[i].Confidence = math.Min(confidenceCap, recs[i].Confidence+by)
			}
		}
	}
}

// PredictRisk returns a heuristic crop risk score in [0, 1]. Latitude is a
// rough frost proxy for Rabi crops; longitude is accepted but unused.
func PredictRisk(fc FarmContext, latitude, _ *float64) RiskPrediction {
	score := 0.35
	var top, mitigation []string

	if fc.PH != nil && (*fc.PH < acidicPH || *fc.PH > alkalinePH) {
		score += 0.18
		top = append(top, "Soil pH stress")
		mitigation = append(mitigation, "Test pH and apply lime/gypsum as recommended by local soil lab.")
	}

	if SoilBalance(fc.N, fc.P, fc.K) < 0.55 {
		score += 0.15
		top = append(top, "NPK imbalance")
		mitigation = append(mitigation, "Use soil-test-based fertilization and split applications to reduce losses.")
	}

	if fc.IrrigationType == nil || strings.TrimSpace(*fc.IrrigationType) == "" {
		score += 0.10
		top = append(top, "Irrigation uncertainty")
		mitigation = append(mitigation, "Plan irrigation schedule; adopt mulching and water-saving practices.")
	}

	if latitude != nil && *latitude > 25 && fc.Season != nil && strings.ToLower(*fc.Season) == "rabi" {
		score += 0.08
		top = append(top, "Cold spell / frost")
		mitigation = append(mitigation, "Use frost-tolerant varieties and avoid late sowing; consider windbreaks.")
	}

	score = math.Max(0, math.Min(1, score))

	if len(top) == 0 {
		top = []string{"General weather variability", "Pest/disease pressure"}
		mitigation = []string{"Monitor IMD weather alerts and use IPM practices; scout fields weekly."}
	}
	if len(top) > maxTopRisks {
		top = top[:maxTopRisks]
	}
	if len(mitigation) > maxMitigations {
		mitigation = mitigation[:maxMitigations]
	}

	return RiskPrediction{
		Score:      score,
		Level:      riskLevel(score),
		TopRisks:   top,
		Mitigation: mitigation,
	}
}

func riskLevel(score float64) string {
	switch {
	case score < 0.45:
		return RiskLow
	case score < 0.7:
		return RiskMedium
	default:
		return RiskHigh
	}
}
