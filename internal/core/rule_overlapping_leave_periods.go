package core

import (
	"context"
	"sort"
	"time"

	"pfmlportal/pkg/domain"
)

// NewOverlappingLeavePeriodsRule rejects leave periods whose date ranges overlap.
func NewOverlappingLeavePeriodsRule() domain.Rule {
	return overlappingLeavePeriodsRule{}
}

type overlappingLeavePeriodsRule struct{}

func (overlappingLeavePeriodsRule) Name() string { return RuleOverlappingLeavePeriods }

func (r overlappingLeavePeriodsRule) Evaluate(ctx context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	return evaluateDrafts(ctx, view, r), nil
}

func (overlappingLeavePeriodsRule) check(c domain.Claim) []domain.Violation {
	type span struct{ start, end time.Time }
	var spans []span
	for _, p := range leavePeriods(c) {
		if start, end, ok := p.dates(); ok && !end.Before(start) {
			spans = append(spans, span{start, end})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })
	for i := 1; i < len(spans); i++ {
		if !spans[i].start.After(spans[i-1].end) {
			return []domain.Violation{
				warning(RuleOverlappingLeavePeriods, c, "", domain.IssueConflicting, "Leave periods cannot overlap"),
			}
		}
	}
	return nil
}
