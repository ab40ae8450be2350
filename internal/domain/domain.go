package domain

// KeyPrefix namespaces every Redis key quarry writes.
const KeyPrefix = "quarry:"

// UserContext carries optional caller-supplied business facts that sharpen
// classification (lifecycle-stage detection in particular).
type UserContext struct {
	MonthlyRevenue float64 // USD per month; 0 = unknown
	Industry       string
	TeamSize       int
}
