package taxonomy

// Scenario is a recognizable business situation with its trigger keywords.
// Detected scenario names are matched against candidate text during ranking.
type Scenario struct {
	Name     string
	Keywords []string
}

var scenarios = []Scenario{
	{
		Name:     "pricing pressure",
		Keywords: []string{"pricing pressure", "price war", "discounting", "undercutting", "raise prices"},
	},
	{
		Name:     "churn spike",
		Keywords: []string{"churn spike", "customers leaving", "cancellations", "losing customers"},
	},
	{
		Name:     "fundraising",
		Keywords: []string{"fundraising", "raise a round", "investor deck", "term sheet", "valuation"},
	},
	{
		Name:     "product launch",
		Keywords: []string{"product launch", "launching", "go to market", "go-to-market", "gtm"},
	},
	{
		Name:     "cash flow crunch",
		Keywords: []string{"cash flow", "runway", "out of cash", "burn too high"},
	},
	{
		Name:     "hiring",
		Keywords: []string{"hiring", "first sales hire", "recruit", "headcount"},
	},
	{
		Name:     "competitor threat",
		Keywords: []string{"competitor", "competition", "losing deals to", "market share"},
	},
}

// Scenarios returns every known scenario.
func Scenarios() []Scenario { return scenarios }
