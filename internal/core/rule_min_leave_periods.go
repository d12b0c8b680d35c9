package core

import (
	"context"

	"pfmlportal/pkg/domain"
)

// NewMinLeavePeriodsRule requires at least one leave period of any kind.
func NewMinLeavePeriodsRule() domain.Rule {
	return minLeavePeriodsRule{}
}

type minLeavePeriodsRule struct{}

func (minLeavePeriodsRule) Name() string { return RuleMinLeavePeriods }

func (r minLeavePeriodsRule) Evaluate(ctx context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	return evaluateDrafts(ctx, view, r), nil
}

func (minLeavePeriodsRule) check(c domain.Claim) []domain.Violation {
	if len(leavePeriods(c)) > 0 {
		return nil
	}
	return []domain.Violation{
		warning(RuleMinLeavePeriods, c, "", domain.IssueRequired, "At least one leave period is required"),
	}
}
