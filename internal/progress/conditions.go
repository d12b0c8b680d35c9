package progress

import "pfmlportal/pkg/domain"

// Condition is a named predicate over the step context. Flow pages refer to
// conditions by name to declare when they are reachable.
type Condition func(Context) bool

// Conditions maps condition names used in flow files to predicates.
type Conditions map[string]Condition

func isTrue(b *bool) bool { return b != nil && *b }

// DefaultConditions returns the predicates available to the claim flow.
func DefaultConditions() Conditions {
	return Conditions{
		"isEmployed":                     func(c Context) bool { return c.Claim.IsEmployed() },
		"isBondingLeave":                 func(c Context) bool { return c.Claim.IsBondingLeave() },
		"isMedicalOrPregnancyLeave":      func(c Context) bool { return c.Claim.IsMedicalOrPregnancyLeave() },
		"isCaringLeave":                  func(c Context) bool { return c.Claim.IsCaringLeave() },
		"hasStateId":                     func(c Context) bool { return isTrue(c.Claim.HasStateID) },
		"hasContinuousLeavePeriods":      func(c Context) bool { return isTrue(c.Claim.HasContinuousLeavePeriods) },
		"hasIntermittentLeavePeriods":    func(c Context) bool { return isTrue(c.Claim.HasIntermittentLeavePeriods) },
		"hasReducedScheduleLeavePeriods": func(c Context) bool { return isTrue(c.Claim.HasReducedScheduleLeavePeriods) },
		"hasEmployerBenefits":            func(c Context) bool { return isTrue(c.Claim.HasEmployerBenefits) },
		"hasOtherIncomes":                func(c Context) bool { return isTrue(c.Claim.HasOtherIncomes) },
		"hasPreviousLeaves":              func(c Context) bool { return isTrue(c.Claim.HasPreviousLeaves) },
		"isDirectDeposit": func(c Context) bool {
			p := c.Claim.PaymentPreference
			return p != nil && p.PaymentMethod == domain.PaymentMethodACH
		},
	}
}

// Holds reports whether the named condition is satisfied. An empty name
// always holds; an unknown name holds too, so a misconfigured page never
// hides its fields.
func (cs Conditions) Holds(name string, ctx Context) bool {
	if name == "" {
		return true
	}
	cond, ok := cs[name]
	if !ok {
		return true
	}
	return cond(ctx)
}
