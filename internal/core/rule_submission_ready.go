package core

import (
	"context"
	"fmt"
	"strings"

	"pfmlportal/pkg/domain"
)

// NewSubmissionReadyRule blocks status transitions of claims that are not
// ready for them. Moving to Submitted requires a part one free of warnings;
// moving to Completed additionally requires the payment and tax answers of
// part two and the identity and certification documents of part three.
func NewSubmissionReadyRule() domain.Rule {
	return submissionReadyRule{}
}

type submissionReadyRule struct{}

func (submissionReadyRule) Name() string { return RuleSubmissionReady }

func (submissionReadyRule) Evaluate(_ context.Context, view domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	var res domain.Result
	seen := make(map[string]struct{})
	for _, change := range changes {
		if change.Entity != domain.EntityClaim || change.Action == domain.ActionDelete {
			continue
		}
		after, ok := change.After.(domain.Claim)
		if !ok {
			continue
		}
		before, _ := change.Before.(domain.Claim)
		if after.Status == before.Status || after.Status == domain.ClaimStatusStarted {
			continue
		}
		// Only the final state of a claim in the view matters.
		current, ok := view.FindClaim(after.ApplicationID)
		if !ok || current.Status != after.Status {
			continue
		}
		if _, dup := seen[current.ApplicationID]; dup {
			continue
		}
		seen[current.ApplicationID] = struct{}{}
		if missing := submissionGaps(current, view.DocumentsForClaim(current.ApplicationID)); len(missing) > 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     RuleSubmissionReady,
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("claim %s cannot move to %s: %s", current.ApplicationID, current.Status, strings.Join(missing, "; ")),
				Entity:   domain.EntityClaim,
				EntityID: current.ApplicationID,
			})
		}
	}
	return res, nil
}

func submissionGaps(c domain.Claim, docs []domain.Document) []string {
	var gaps []string
	warnings := 0
	for _, chk := range draftChecks() {
		warnings += len(chk.check(c))
	}
	if warnings > 0 {
		gaps = append(gaps, fmt.Sprintf("%d outstanding issues", warnings))
	}
	if c.Status != domain.ClaimStatusCompleted {
		return gaps
	}
	if !c.HasSubmittedPaymentPreference {
		gaps = append(gaps, "payment preference not submitted")
	}
	if c.IsWithholdingTax == nil {
		gaps = append(gaps, "tax withholding not answered")
	}
	collection := domain.NewDocumentCollection(docs...)
	if collection.IdentityProofs().IsEmpty() {
		gaps = append(gaps, "identity proof missing")
	}
	if collection.Certifications().IsEmpty() {
		gaps = append(gaps, "certification missing")
	}
	return gaps
}
