package insights

import "strings"

const (
	IntentMarketPrice = "market_price"
	IntentGovScheme   = "gov_scheme"
	IntentSoilAdvice  = "soil_advice"
	IntentRisk        = "risk"
	IntentGeneral     = "general"

	MaxChatMessageLength = 2000
)

// routes are checked in order; the first matching keyword wins.
var routes = []struct {
	intent   string
	keywords []string
	reply    string
}{
	{
		IntentMarketPrice,
		[]string{"price", "market", "mandi"},
		"For market prices, check the Market Price Insights tab. Tell me your commodity and nearest market for more targeted guidance.",
	},
	{
		IntentGovScheme,
		[]string{"scheme", "subsidy", "pm-kisan", "pmfby", "insurance"},
		"You can explore Government Schemes in the Schemes section. If you share your state and landholding category, I can help shortlist eligibility.",
	},
	{
		IntentSoilAdvice,
		[]string{"soil", "ph", "npk", "fertilizer"},
		"Soil health is key. If you share pH and NPK values, I can suggest a nutrient-balancing plan and suitable crops.",
	},
	{
		IntentRisk,
		[]string{"risk", "disease", "pest", "weather"},
		"For risk prediction, complete your soil/farm profile then open Crop Risk Prediction. Meanwhile, scout weekly and follow IPM practices.",
	},
}

const generalReply = "Hi! I’m the KrishiRakshak AI assistant. I can help with crop selection, soil inputs, market prices, schemes, and risk mitigation. What are you growing and where?"

// ChatReply picks a canned reply by substring keyword match.
func ChatReply(message string) (string, []string) {
	m := strings.ToLower(strings.TrimSpace(message))
	for _, r := range routes {
		for _, kw := range r.keywords {
			if strings.Contains(m, kw) {
				return r.reply, []string{r.intent}
			}
		}
	}
	return generalReply, []string{IntentGeneral}
}
