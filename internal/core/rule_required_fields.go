package core

import (
	"context"
	"fmt"
	"strings"

	"pfmlportal/pkg/domain"
)

// NewRequiredFieldsRule reports unanswered part one questions on started claims.
func NewRequiredFieldsRule() domain.Rule {
	return requiredFieldsRule{}
}

type requiredFieldsRule struct{}

func (requiredFieldsRule) Name() string { return RuleRequiredFields }

func (r requiredFieldsRule) Evaluate(ctx context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	return evaluateDrafts(ctx, view, r), nil
}

func (requiredFieldsRule) check(c domain.Claim) []domain.Violation {
	var out []domain.Violation
	for _, field := range missingFields(c) {
		out = append(out, warning(RuleRequiredFields, c, field, domain.IssueRequired, fmt.Sprintf("%s is required", field)))
	}
	return out
}

// missingFields lists the unanswered questions of part one, in flow order.
// Follow-up questions are only required when the answer that reveals them
// was given.
func missingFields(c domain.Claim) []string {
	var missing []string
	need := func(field string, answered bool) {
		if !answered {
			missing = append(missing, field)
		}
	}
	text := func(s string) bool { return strings.TrimSpace(s) != "" }
	ld := c.LeaveDetails

	need("first_name", text(c.FirstName))
	need("last_name", text(c.LastName))
	if c.ResidentialAddress == nil {
		need("residential_address", false)
	} else {
		need("residential_address.line_1", text(c.ResidentialAddress.Line1))
		need("residential_address.city", text(c.ResidentialAddress.City))
		need("residential_address.state", text(c.ResidentialAddress.State))
		need("residential_address.zip", text(c.ResidentialAddress.Zip))
	}
	need("date_of_birth", text(c.DateOfBirth))
	need("has_state_id", c.HasStateID != nil)
	if c.HasStateID != nil && *c.HasStateID {
		need("mass_id", text(c.MassID))
	}
	need("tax_identifier", text(c.TaxIdentifier))

	need("employment_status", c.EmploymentStatus != "")
	if c.IsEmployed() {
		need("employer_fein", text(c.EmployerFEIN))
		need("leave_details.employer_notified", ld.EmployerNotified != nil)
		if ld.EmployerNotified != nil && *ld.EmployerNotified {
			need("leave_details.employer_notification_date", text(ld.EmployerNotificationDate))
		}
		need("hours_worked_per_week", c.HoursWorkedPerWeek != nil)
	}

	need("leave_details.reason", ld.Reason != nil)
	if c.IsBondingLeave() {
		need("leave_details.reason_qualifier", ld.ReasonQualifier != nil)
		if ld.ReasonQualifier != nil {
			if *ld.ReasonQualifier == domain.ReasonQualifierNewborn {
				need("leave_details.child_birth_date", text(ld.ChildBirthDate))
			} else {
				need("leave_details.child_placement_date", text(ld.ChildPlacementDate))
			}
		}
	}
	if c.IsMedicalOrPregnancyLeave() {
		need("leave_details.pregnant_or_recent_birth", ld.PregnantOrRecentBirth != nil)
	}
	need("has_continuous_leave_periods", c.HasContinuousLeavePeriods != nil)
	need("has_reduced_schedule_leave_periods", c.HasReducedScheduleLeavePeriods != nil)
	need("has_intermittent_leave_periods", c.HasIntermittentLeavePeriods != nil)
	for i, p := range ld.IntermittentLeavePeriods {
		prefix := fmt.Sprintf("leave_details.intermittent_leave_periods[%d].", i)
		need(prefix+"frequency", p.Frequency != nil)
		need(prefix+"frequency_interval_basis", text(p.FrequencyIntervalBasis))
		need(prefix+"duration", p.Duration != nil)
		need(prefix+"duration_basis", text(p.DurationBasis))
	}

	need("has_previous_leaves", c.HasPreviousLeaves != nil)
	need("has_employer_benefits", c.HasEmployerBenefits != nil)
	need("has_other_incomes", c.HasOtherIncomes != nil)
	return missing
}
