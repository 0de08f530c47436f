package entity

// Tier is the subscription level of a tenant.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// Unlimited is the sentinel for limits that are not enforced.
const Unlimited = -1

func (t Tier) Valid() bool {
	return t == TierFree || t == TierPro
}

// PlanLimits holds the resource ceilings of a subscription tier.
// Counting limits use Unlimited (-1) to disable enforcement.
type PlanLimits struct {
	MaxNotes        int
	MaxPrivateNotes int
	MaxTagsPerNote  int
	CanInviteUsers  bool
	APIRateLimit    int // requests per minute
}

var planTable = map[Tier]PlanLimits{
	TierFree: {
		MaxNotes:        50,
		MaxPrivateNotes: 0,
		MaxTagsPerNote:  3,
		CanInviteUsers:  false,
		APIRateLimit:    30,
	},
	TierPro: {
		MaxNotes:        Unlimited,
		MaxPrivateNotes: Unlimited,
		MaxTagsPerNote:  10,
		CanInviteUsers:  true,
		APIRateLimit:    300,
	},
}

// Limits returns the plan table row for the tier.
// Unknown tiers fall back to the free plan.
func (t Tier) Limits() PlanLimits {
	limits, ok := planTable[t]
	if !ok {
		return planTable[TierFree]
	}
	return limits
}

// CheckLimit reports whether one more resource fits under 'limit'.
// A tenant already at the limit may not add another (strictly less-than).
func CheckLimit(limit, current int) bool {
	if limit == Unlimited {
		return true
	}
	return current < limit
}
