package core

import (
	"context"
	"fmt"
	"time"

	"pfmlportal/pkg/domain"
)

// NewLeavePeriodDatesRule checks that every leave period has valid ISO start
// and end dates and does not end before it starts.
func NewLeavePeriodDatesRule() domain.Rule {
	return leavePeriodDatesRule{}
}

type leavePeriodDatesRule struct{}

func (leavePeriodDatesRule) Name() string { return RuleLeavePeriodDates }

func (r leavePeriodDatesRule) Evaluate(ctx context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	return evaluateDrafts(ctx, view, r), nil
}

func (leavePeriodDatesRule) check(c domain.Claim) []domain.Violation {
	var out []domain.Violation
	dateOK := func(field, value string) bool {
		if value == "" {
			out = append(out, warning(RuleLeavePeriodDates, c, field, domain.IssueRequired, fmt.Sprintf("%s is required", field)))
			return false
		}
		if _, err := time.Parse(isoDate, value); err != nil {
			out = append(out, warning(RuleLeavePeriodDates, c, field, domain.IssueInvalidDate, fmt.Sprintf("%s must be a valid date", field)))
			return false
		}
		return true
	}
	for _, p := range leavePeriods(c) {
		startOK := dateOK(p.path+".start_date", p.start)
		endOK := dateOK(p.path+".end_date", p.end)
		if !startOK || !endOK {
			continue
		}
		if start, end, ok := p.dates(); ok && end.Before(start) {
			out = append(out, warning(RuleLeavePeriodDates, c, p.path+".end_date", domain.IssueMinimum,
				"end_date must be on or after start_date"))
		}
	}
	return out
}
