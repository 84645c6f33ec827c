package config

// Categories group commands in /help, lowest weight first.
const (
	CategoryInformation = "🕯️ Information"
	CategoryWarfare     = "⚔️ Warfare"
	CategoryArmies      = "🛡️ Armies & Traders"
)

var CategoryWeights = map[string]int{
	CategoryInformation: 0,
	CategoryWarfare:     10,
	CategoryArmies:      20,
}

// CategoryWeight returns the sort weight of a category; unknown ones sort last.
func CategoryWeight(category string) int {
	if w, ok := CategoryWeights[category]; ok {
		return w
	}
	return 1000
}
