package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfmlportal/pkg/domain"
)

type staticView struct {
	claims []domain.Claim
	docs   []domain.Document
}

func (v staticView) ListClaims() []domain.Claim { return v.claims }

func (v staticView) FindClaim(id string) (domain.Claim, bool) {
	for _, c := range v.claims {
		if c.ApplicationID == id {
			return c, true
		}
	}
	return domain.Claim{}, false
}

func (v staticView) ListDocuments() []domain.Document { return v.docs }

func (v staticView) DocumentsForClaim(id string) []domain.Document {
	var out []domain.Document
	for _, d := range v.docs {
		if d.ApplicationID == id {
			out = append(out, d)
		}
	}
	return out
}

func ptr[T any](v T) *T { return &v }

// readyClaim returns a started claim whose part one raises no warnings.
func readyClaim(id string) domain.Claim {
	c := domain.NewClaim(id)
	c.FirstName = "Jo"
	c.LastName = "Doe"
	c.ResidentialAddress = &domain.Address{Line1: "1 Main St", City: "Boston", State: "MA", Zip: "02110"}
	c.DateOfBirth = "1990-01-01"
	c.HasStateID = ptr(false)
	c.TaxIdentifier = "***-**-1234"
	c.EmploymentStatus = domain.EmploymentStatusEmployed
	c.EmployerFEIN = "12-3456789"
	c.LeaveDetails.EmployerNotified = ptr(false)
	c.HoursWorkedPerWeek = ptr(40.0)
	c.LeaveDetails.Reason = ptr(domain.LeaveReasonMedical)
	c.LeaveDetails.PregnantOrRecentBirth = ptr(false)
	c.HasContinuousLeavePeriods = ptr(true)
	c.HasReducedScheduleLeavePeriods = ptr(false)
	c.HasIntermittentLeavePeriods = ptr(false)
	c.LeaveDetails.ContinuousLeavePeriods = []domain.ContinuousLeavePeriod{
		{LeavePeriodID: "p1", StartDate: "2026-01-05", EndDate: "2026-02-05"},
	}
	c.HasPreviousLeaves = ptr(false)
	c.HasEmployerBenefits = ptr(false)
	c.HasOtherIncomes = ptr(false)
	return c
}

func evaluate(t *testing.T, rule domain.Rule, view domain.TransactionView, changes ...domain.Change) domain.Result {
	t.Helper()
	res, err := rule.Evaluate(context.Background(), view, changes)
	require.NoError(t, err)
	return res
}

func fields(res domain.Result) []string {
	out := make([]string, 0, len(res.Violations))
	for _, v := range res.Violations {
		out = append(out, v.Field)
	}
	return out
}

func TestDefaultRulesEngineOrder(t *testing.T) {
	engine := NewDefaultRulesEngine()
	assert.Equal(t, []string{
		RuleRequiredFields,
		RuleMinLeavePeriods,
		RuleLeavePeriodDates,
		RuleOverlappingLeavePeriods,
		RuleSubmissionReady,
	}, engine.Rules())
	assert.Empty(t, NewRulesEngine().Rules())
}

func TestReadyClaimHasNoWarnings(t *testing.T) {
	view := staticView{claims: []domain.Claim{readyClaim("app-1")}}
	res, err := NewDefaultRulesEngine().Evaluate(context.Background(), view, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Violations)
}

func TestRequiredFieldsFreshClaim(t *testing.T) {
	view := staticView{claims: []domain.Claim{domain.NewClaim("app-1")}}
	res := evaluate(t, NewRequiredFieldsRule(), view)

	got := fields(res)
	assert.Contains(t, got, "first_name")
	assert.Contains(t, got, "residential_address")
	assert.Contains(t, got, "tax_identifier")
	assert.Contains(t, got, "leave_details.reason")
	assert.Contains(t, got, "has_other_incomes")
	assert.NotContains(t, got, "employer_fein", "employer questions follow employment status")
	assert.NotContains(t, got, "mass_id")
	for _, v := range res.Violations {
		assert.Equal(t, domain.SeverityWarn, v.Severity)
		assert.Equal(t, domain.IssueRequired, v.Type)
		assert.Equal(t, "app-1", v.EntityID)
		assert.Empty(t, v.Issue().Rule, "field issues do not carry the rule name")
	}
}

func TestRequiredFieldsFollowUps(t *testing.T) {
	c := readyClaim("app-1")
	c.HasStateID = ptr(true)
	c.LeaveDetails.EmployerNotified = ptr(true)
	c.LeaveDetails.Reason = ptr(domain.LeaveReasonBonding)
	c.LeaveDetails.ReasonQualifier = ptr(domain.ReasonQualifierAdoption)
	c.LeaveDetails.IntermittentLeavePeriods = []domain.IntermittentLeavePeriod{{StartDate: "2026-03-01", EndDate: "2026-03-31"}}
	c.ResidentialAddress.Zip = " "

	res := evaluate(t, NewRequiredFieldsRule(), staticView{claims: []domain.Claim{c}})
	assert.Equal(t, []string{
		"residential_address.zip",
		"mass_id",
		"leave_details.employer_notification_date",
		"leave_details.child_placement_date",
		"leave_details.intermittent_leave_periods[0].frequency",
		"leave_details.intermittent_leave_periods[0].frequency_interval_basis",
		"leave_details.intermittent_leave_periods[0].duration",
		"leave_details.intermittent_leave_periods[0].duration_basis",
	}, fields(res))
}

func TestRequiredFieldsSkipsSubmittedClaims(t *testing.T) {
	c := domain.NewClaim("app-1")
	c.Status = domain.ClaimStatusSubmitted
	res := evaluate(t, NewRequiredFieldsRule(), staticView{claims: []domain.Claim{c}})
	assert.Empty(t, res.Violations)
}

func TestMinLeavePeriods(t *testing.T) {
	c := readyClaim("app-1")
	c.LeaveDetails.ContinuousLeavePeriods = nil
	res := evaluate(t, NewMinLeavePeriodsRule(), staticView{claims: []domain.Claim{c}})
	require.Len(t, res.Violations, 1)
	issue := res.Violations[0].Issue()
	assert.Equal(t, RuleMinLeavePeriods, issue.Rule)
	assert.Empty(t, issue.Field)

	res = evaluate(t, NewMinLeavePeriodsRule(), staticView{claims: []domain.Claim{readyClaim("app-2")}})
	assert.Empty(t, res.Violations)
}

func TestLeavePeriodDates(t *testing.T) {
	c := readyClaim("app-1")
	c.LeaveDetails.ContinuousLeavePeriods = []domain.ContinuousLeavePeriod{
		{StartDate: "2026-01-05", EndDate: ""},
		{StartDate: "2026-13-01", EndDate: "2026-01-01"},
		{StartDate: "2026-02-10", EndDate: "2026-02-01"},
	}
	res := evaluate(t, NewLeavePeriodDatesRule(), staticView{claims: []domain.Claim{c}})

	byField := make(map[string]string)
	for _, v := range res.Violations {
		byField[v.Field] = v.Type
	}
	assert.Equal(t, map[string]string{
		"leave_details.continuous_leave_periods[0].end_date":   domain.IssueRequired,
		"leave_details.continuous_leave_periods[1].start_date": domain.IssueInvalidDate,
		"leave_details.continuous_leave_periods[2].end_date":   domain.IssueMinimum,
	}, byField)
}

func TestOverlappingLeavePeriods(t *testing.T) {
	c := readyClaim("app-1")
	c.LeaveDetails.ReducedScheduleLeavePeriods = []domain.ReducedScheduleLeavePeriod{
		{StartDate: "2026-02-05", EndDate: "2026-02-20"},
	}
	res := evaluate(t, NewOverlappingLeavePeriodsRule(), staticView{claims: []domain.Claim{c}})
	require.Len(t, res.Violations, 1)
	assert.Equal(t, domain.IssueConflicting, res.Violations[0].Type)
	assert.Equal(t, RuleOverlappingLeavePeriods, res.Violations[0].Issue().Rule)

	c.LeaveDetails.ReducedScheduleLeavePeriods[0].StartDate = "2026-02-06"
	res = evaluate(t, NewOverlappingLeavePeriodsRule(), staticView{claims: []domain.Claim{c}})
	assert.Empty(t, res.Violations)
}

func submitChange(before, after domain.Claim) domain.Change {
	return domain.Change{Entity: domain.EntityClaim, Action: domain.ActionUpdate, Before: before, After: after}
}

func TestSubmissionReadyBlocksIncompleteSubmission(t *testing.T) {
	before := domain.NewClaim("app-1")
	after := before.Clone()
	after.Status = domain.ClaimStatusSubmitted
	view := staticView{claims: []domain.Claim{after}}

	res := evaluate(t, NewSubmissionReadyRule(), view, submitChange(before, after), submitChange(before, after))
	require.Len(t, res.Violations, 1)
	assert.True(t, res.HasBlocking())
	assert.Contains(t, res.Violations[0].Message, "outstanding issues")
}

func TestSubmissionReadyAllowsReadyClaim(t *testing.T) {
	before := readyClaim("app-1")
	after := before.Clone()
	after.Status = domain.ClaimStatusSubmitted
	res := evaluate(t, NewSubmissionReadyRule(), staticView{claims: []domain.Claim{after}}, submitChange(before, after))
	assert.Empty(t, res.Violations)

	// no status change, no check
	draft := domain.NewClaim("app-2")
	res = evaluate(t, NewSubmissionReadyRule(), staticView{claims: []domain.Claim{draft}}, submitChange(draft, draft))
	assert.Empty(t, res.Violations)
}

func TestSubmissionReadyCompletion(t *testing.T) {
	before := readyClaim("app-1")
	before.Status = domain.ClaimStatusSubmitted
	after := before.Clone()
	after.Status = domain.ClaimStatusCompleted

	res := evaluate(t, NewSubmissionReadyRule(), staticView{claims: []domain.Claim{after}}, submitChange(before, after))
	require.Len(t, res.Violations, 1)
	msg := res.Violations[0].Message
	assert.Contains(t, msg, "payment preference not submitted")
	assert.Contains(t, msg, "tax withholding not answered")
	assert.Contains(t, msg, "identity proof missing")
	assert.Contains(t, msg, "certification missing")

	after.HasSubmittedPaymentPreference = true
	after.IsWithholdingTax = ptr(false)
	view := staticView{
		claims: []domain.Claim{after},
		docs: []domain.Document{
			domain.NewDocument("d1", "app-1", domain.DocumentTypeIdentityProof),
			domain.NewDocument("d2", "app-1", domain.DocumentTypeOwnSeriousHealthCondition),
		},
	}
	res = evaluate(t, NewSubmissionReadyRule(), view, submitChange(before, after))
	assert.Empty(t, res.Violations)
}
