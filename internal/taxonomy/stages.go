package taxonomy

// Lifecycle stage names. Passages tagged "all" match every stage.
const (
	StageIdea     = "idea"
	StageStartup  = "startup"
	StageGrowth   = "growth"
	StageScale    = "scale"
	StageMaturity = "maturity"
	StageAll      = "all"
)

// Stage is a business lifecycle stage with its detection signals.
// MaxMonthlyRevenue is the upper bound (exclusive, USD/month) used when the
// caller supplies revenue context; 0 means unbounded.
type Stage struct {
	Name              string
	Signals           []string
	MaxMonthlyRevenue float64
}

var stages = []Stage{
	{
		Name: StageIdea,
		Signals: []string{
			"pre-revenue", "idea stage", "before launch", "validate my idea",
			"no customers yet",
		},
		MaxMonthlyRevenue: 0, // revenue bands start at startup
	},
	{
		Name: StageStartup,
		Signals: []string{
			"startup", "first customers", "just launched", "early stage",
			"founding team", "pre-seed", "seed stage",
		},
		MaxMonthlyRevenue: 10_000,
	},
	{
		Name: StageGrowth,
		Signals: []string{
			"growth stage", "scaling up", "series a", "growing team",
			"product market fit",
		},
		MaxMonthlyRevenue: 100_000,
	},
	{
		Name: StageScale,
		Signals: []string{
			"scale stage", "series b", "expansion", "multiple teams",
			"new markets",
		},
		MaxMonthlyRevenue: 1_000_000,
	},
	{
		Name: StageMaturity,
		Signals: []string{
			"mature business", "enterprise", "market leader", "public company",
		},
		MaxMonthlyRevenue: 0,
	},
}

// Stages returns every lifecycle stage in ascending order.
func Stages() []Stage { return stages }

// StageForRevenue maps monthly revenue (USD) to a lifecycle stage.
// Returns "" for non-positive revenue (unknown).
func StageForRevenue(monthly float64) string {
	if monthly <= 0 {
		return ""
	}
	for _, s := range stages {
		if s.MaxMonthlyRevenue > 0 && monthly < s.MaxMonthlyRevenue {
			return s.Name
		}
	}
	return StageMaturity
}
