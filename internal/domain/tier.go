package domain

// Tier is a loyalty label derived from a customer's completed-booking count
type Tier struct {
	Label     string
	VisualKey string
}

var (
	TierNew      = Tier{Label: "New", VisualKey: "novato"}
	TierFrequent = Tier{Label: "Frequent", VisualKey: "frecuente"}
	TierStar     = Tier{Label: "Star", VisualKey: "estrella"}
	TierVIP      = Tier{Label: "VIP", VisualKey: "vip"}
)

// TierFor maps a completed-booking count to its tier.
// Thresholds are inclusive: exactly 5, 10 and 15 belong to the higher tier.
// Negative counts are treated as zero.
func TierFor(completedCount int) Tier {
	switch {
	case completedCount >= VIPThreshold:
		return TierVIP
	case completedCount >= StarThreshold:
		return TierStar
	case completedCount >= FrequentThreshold:
		return TierFrequent
	default:
		return TierNew
	}
}

// NextTier returns the next tier and how many more completed bookings reach it.
// ok is false at the top tier.
func NextTier(completedCount int) (next Tier, remaining int, ok bool) {
	if completedCount < 0 {
		completedCount = 0
	}
	switch {
	case completedCount >= VIPThreshold:
		return Tier{}, 0, false
	case completedCount >= StarThreshold:
		return TierVIP, VIPThreshold - completedCount, true
	case completedCount >= FrequentThreshold:
		return TierStar, StarThreshold - completedCount, true
	default:
		return TierFrequent, FrequentThreshold - completedCount, true
	}
}

// FirstVisitDiscountPercent discount offered on a customer's first haircut
const FirstVisitDiscountPercent = 10

// FirstVisitDiscount returns the discount percent a customer is eligible for.
// Only customers without completed visits qualify; a profile, when present,
// can withdraw eligibility through its first-time flag.
func FirstVisitDiscount(completedCount int, isFirstTime *bool) int {
	if completedCount > 0 {
		return 0
	}
	if isFirstTime != nil && !*isFirstTime {
		return 0
	}
	return FirstVisitDiscountPercent
}

// RankingEntry one customer in the completed-bookings ranking
type RankingEntry struct {
	Position       int
	CustomerEmail  string
	CustomerName   string
	CompletedCount int
	Tier           Tier
}
