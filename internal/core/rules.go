package core

import (
	"context"

	"pfmlportal/pkg/domain"
)

// Built-in rule names. Rule-level issues carry these names so that the
// progress model can attribute them to pages through applicable_rules.
const (
	RuleRequiredFields          = "required_fields"
	RuleMinLeavePeriods         = "min_leave_periods"
	RuleLeavePeriodDates        = "leave_period_dates"
	RuleOverlappingLeavePeriods = "disallow_overlapping_leave_periods"
	RuleSubmissionReady         = "submission_ready"
)

// NewRulesEngine constructs an empty engine instance.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewRequiredFieldsRule())
	engine.Register(NewMinLeavePeriodsRule())
	engine.Register(NewLeavePeriodDatesRule())
	engine.Register(NewOverlappingLeavePeriodsRule())
	engine.Register(NewSubmissionReadyRule())
	return engine
}

// claimCheck inspects a single claim and reports the warnings it raises.
type claimCheck interface {
	check(c domain.Claim) []domain.Violation
}

// draftChecks are the checks that apply while part one is being answered.
func draftChecks() []claimCheck {
	return []claimCheck{
		requiredFieldsRule{},
		minLeavePeriodsRule{},
		leavePeriodDatesRule{},
		overlappingLeavePeriodsRule{},
	}
}

// evaluateDrafts runs check against every started claim in the view.
// Submitted and completed claims no longer receive part one warnings.
func evaluateDrafts(_ context.Context, view domain.TransactionView, chk claimCheck) domain.Result {
	var res domain.Result
	for _, c := range view.ListClaims() {
		if c.Status != domain.ClaimStatusStarted {
			continue
		}
		res.Violations = append(res.Violations, chk.check(c)...)
	}
	return res
}

func warning(rule string, c domain.Claim, field, issueType, message string) domain.Violation {
	return domain.Violation{
		Rule:     rule,
		Severity: domain.SeverityWarn,
		Message:  message,
		Entity:   domain.EntityClaim,
		EntityID: c.ApplicationID,
		Field:    field,
		Type:     issueType,
	}
}
