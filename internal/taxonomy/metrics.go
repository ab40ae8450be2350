package taxonomy

// Metric categories.
const (
	CategoryUnitEconomics = "unit economics"
	CategoryRevenue       = "revenue"
	CategoryRetention     = "retention"
	CategoryEfficiency    = "efficiency"
)

// Metric is a known financial metric with its spelling variants and the
// vocabulary used to expand calculation/benchmarking queries.
type Metric struct {
	Name           string   // canonical name
	Category       string
	Variants       []string // lowercased spellings matched as substrings
	CalcTerms      []string // calculation vocabulary
	BenchmarkTerms []string // benchmarking vocabulary
}

var metrics = []Metric{
	{
		Name:     "LTV/CAC Ratio",
		Category: CategoryUnitEconomics,
		Variants: []string{
			"ltv/cac", "ltv to cac", "ltv:cac", "ltv cac ratio", "cac to ltv",
			"lifetime value to acquisition cost",
		},
		CalcTerms:      []string{"ltv cac ratio formula", "unit economics", "payback period"},
		BenchmarkTerms: []string{"3:1 ratio benchmark", "saas unit economics benchmark"},
	},
	{
		Name:     "Customer Lifetime Value",
		Category: CategoryUnitEconomics,
		Variants: []string{
			"lifetime value", "ltv", "clv", "customer lifetime value",
		},
		CalcTerms:      []string{"average revenue per account", "gross margin", "churn rate"},
		BenchmarkTerms: []string{"ltv benchmark", "lifetime value by industry"},
	},
	{
		Name:     "Customer Acquisition Cost",
		Category: CategoryUnitEconomics,
		Variants: []string{
			"customer acquisition cost", "acquisition cost", "cac",
		},
		CalcTerms:      []string{"blended cac", "paid cac", "sales and marketing spend"},
		BenchmarkTerms: []string{"cac benchmark", "cac payback benchmark"},
	},
	{
		Name:     "Monthly Recurring Revenue",
		Category: CategoryRevenue,
		Variants: []string{
			"monthly recurring revenue", "mrr",
		},
		CalcTerms:      []string{"new mrr", "expansion mrr", "contraction mrr"},
		BenchmarkTerms: []string{"mrr growth rate benchmark", "t2d3 growth"},
	},
	{
		Name:     "Annual Recurring Revenue",
		Category: CategoryRevenue,
		Variants: []string{
			"annual recurring revenue", "arr",
		},
		CalcTerms:      []string{"arr run rate", "committed arr"},
		BenchmarkTerms: []string{"arr per employee benchmark", "rule of 40"},
	},
	{
		Name:     "Churn Rate",
		Category: CategoryRetention,
		Variants: []string{
			"churn rate", "churn", "customer attrition", "logo churn",
		},
		CalcTerms:      []string{"gross churn", "revenue churn", "cohort retention"},
		BenchmarkTerms: []string{"acceptable churn benchmark", "churn by segment"},
	},
	{
		Name:     "Net Revenue Retention",
		Category: CategoryRetention,
		Variants: []string{
			"net revenue retention", "nrr", "net dollar retention", "ndr",
		},
		CalcTerms:      []string{"expansion revenue", "downgrade revenue"},
		BenchmarkTerms: []string{"nrr benchmark", "best in class retention"},
	},
	{
		Name:     "CAC Payback Period",
		Category: CategoryEfficiency,
		Variants: []string{
			"payback period", "cac payback", "months to recover cac",
		},
		CalcTerms:      []string{"gross margin adjusted payback", "months to recover"},
		BenchmarkTerms: []string{"12 month payback benchmark"},
	},
	{
		Name:     "Average Revenue Per User",
		Category: CategoryRevenue,
		Variants: []string{
			"average revenue per user", "arpu", "average revenue per account", "arpa",
		},
		CalcTerms:      []string{"revenue per account", "pricing tier mix"},
		BenchmarkTerms: []string{"arpu benchmark by segment"},
	},
	{
		Name:     "Gross Margin",
		Category: CategoryEfficiency,
		Variants: []string{
			"gross margin", "gross profit margin", "cogs",
		},
		CalcTerms:      []string{"cost of goods sold", "hosting costs", "support costs"},
		BenchmarkTerms: []string{"software gross margin benchmark"},
	},
	{
		Name:     "Burn Multiple",
		Category: CategoryEfficiency,
		Variants: []string{
			"burn multiple", "burn rate", "cash burn",
		},
		CalcTerms:      []string{"net burn", "net new arr", "runway"},
		BenchmarkTerms: []string{"efficient growth benchmark"},
	},
}

// Metrics returns every known financial metric.
func Metrics() []Metric { return metrics }

// MetricByName returns a metric by canonical name.
func MetricByName(name string) (Metric, bool) {
	for _, m := range metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}
