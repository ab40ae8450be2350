package taxonomy

// Framework is a named business methodology the corpus is organized around.
// Components and Indicators drive detection; Vocabulary drives expansion.
type Framework struct {
	Name       string   // canonical name, also used as a passage tag
	Components []string // key components: each match adds to relevance
	Indicators []string // contextual indicators: weaker relevance evidence
	Vocabulary []string // expansion terms, strongest first
}

var frameworks = []Framework{
	{
		Name: "Value Ladder",
		Components: []string{
			"lead magnet", "tripwire", "core offer", "upsell", "continuity",
		},
		Indicators: []string{
			"ascension", "offer sequence", "customer journey", "price point",
		},
		Vocabulary: []string{
			"offer stack", "ascension path", "price anchoring",
			"order bump", "front-end offer",
		},
	},
	{
		Name: "Pirate Metrics",
		Components: []string{
			"acquisition", "activation", "retention", "referral", "revenue",
		},
		Indicators: []string{
			"aarrr", "funnel metrics", "growth loop", "conversion funnel",
		},
		Vocabulary: []string{
			"funnel conversion", "cohort analysis", "growth accounting",
			"activation rate", "referral loop",
		},
	},
	{
		Name: "Jobs to be Done",
		Components: []string{
			"functional job", "emotional job", "hiring criteria", "switching forces",
		},
		Indicators: []string{
			"jtbd", "customer motivation", "progress", "struggling moment",
		},
		Vocabulary: []string{
			"job statement", "outcome expectations", "demand generation",
			"customer interview", "forces of progress",
		},
	},
	{
		Name: "Product-Led Growth",
		Components: []string{
			"freemium", "self-serve onboarding", "activation milestone", "expansion revenue",
		},
		Indicators: []string{
			"plg", "free trial", "viral loop", "self service",
		},
		Vocabulary: []string{
			"time to value", "product qualified lead", "usage-based pricing",
			"onboarding funnel", "expansion motion",
		},
	},
	{
		Name: "Sales Velocity",
		Components: []string{
			"opportunity count", "average deal size", "win rate", "sales cycle length",
		},
		Indicators: []string{
			"pipeline review", "quota", "sales process", "closing",
		},
		Vocabulary: []string{
			"pipeline coverage", "deal slippage", "forecast accuracy",
			"sales cycle", "win rate",
		},
	},
	{
		Name: "Lean Canvas",
		Components: []string{
			"unique value proposition", "unfair advantage", "problem statement", "customer segment",
		},
		Indicators: []string{
			"business model", "mvp", "product market fit", "early adopters",
		},
		Vocabulary: []string{
			"riskiest assumption", "problem interview", "validated learning",
			"minimum viable product", "value proposition",
		},
	},
}

// Frameworks returns every known framework.
func Frameworks() []Framework { return frameworks }

// FrameworkByName returns a framework by canonical name.
func FrameworkByName(name string) (Framework, bool) {
	for _, f := range frameworks {
		if f.Name == name {
			return f, true
		}
	}
	return Framework{}, false
}
