package types

import "fmt"

// IneligibilityReason is a per-rule, non-fatal rejection code reported in the
// resolution result. Reasons are data, never errors: the engine's hot path
// stays exception-free and the UI can explain why a rule did not apply.
type IneligibilityReason string

const (
	ReasonExpired             IneligibilityReason = "expired"
	ReasonNotYetActive        IneligibilityReason = "not-yet-active"
	ReasonInactive            IneligibilityReason = "inactive"
	ReasonCurrencyMismatch    IneligibilityReason = "currency-mismatch"
	ReasonUsageExhausted      IneligibilityReason = "usage-exhausted"
	ReasonCircularRequirement IneligibilityReason = "circular-requirement"
)

func (r IneligibilityReason) String() string {
	return string(r)
}

// ReasonConditionFailed reports the first failing condition kind of a rule
func ReasonConditionFailed(kind ConditionKind) IneligibilityReason {
	return IneligibilityReason(fmt.Sprintf("condition-failed:%s", kind))
}

// ReasonConflictsWith reports the surviving rule of a conflicting pair
func ReasonConflictsWith(ruleID string) IneligibilityReason {
	return IneligibilityReason(fmt.Sprintf("conflicts-with:%s", ruleID))
}

// ReasonRequiredMissing reports a required rule absent from the eligible set
func ReasonRequiredMissing(ruleID string) IneligibilityReason {
	return IneligibilityReason(fmt.Sprintf("required-missing:%s", ruleID))
}

// ReasonOverriddenBy reports the rule whose override relation dropped this one
func ReasonOverriddenBy(ruleID string) IneligibilityReason {
	return IneligibilityReason(fmt.Sprintf("overridden-by:%s", ruleID))
}

// ReasonExcludedBy reports the exclusive rule that locked this one out
func ReasonExcludedBy(ruleID string) IneligibilityReason {
	return IneligibilityReason(fmt.Sprintf("excluded-by:%s", ruleID))
}
