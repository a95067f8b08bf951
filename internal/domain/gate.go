package domain

// GateReason explains a blocked gate decision. It only affects user-facing
// messaging, never the boolean outcome.
type GateReason string

const (
	// GateReasonUpsell is used for free-tier accounts that exhausted their
	// allowance and should be pointed at the paid tiers.
	GateReasonUpsell GateReason = "upsell"
	// GateReasonCycleReset is used for paid accounts that must wait for the
	// next billing cycle.
	GateReasonCycleReset GateReason = "cycle_reset"
)

// GateDecision is the allow/deny answer for starting one more generation.
type GateDecision struct {
	Allowed bool
	Reason  GateReason
}

// EvaluateGate decides whether one more design generation may start. Pure
// function: allowed iff designsUsed < designsLimit. The plan only selects the
// denial reason.
func EvaluateGate(designsUsed, designsLimit int, plan Plan) GateDecision {
	if designsUsed < designsLimit {
		return GateDecision{Allowed: true}
	}
	reason := GateReasonCycleReset
	if plan == PlanFree {
		reason = GateReasonUpsell
	}
	return GateDecision{Allowed: false, Reason: reason}
}
