package domain

// ClaimStatus enumerates the lifecycle states of a benefits application.
type ClaimStatus string

// Canonical claim statuses reported by the benefits API.
const (
	ClaimStatusStarted   ClaimStatus = "Started"
	ClaimStatusSubmitted ClaimStatus = "Submitted"
	ClaimStatusCompleted ClaimStatus = "Completed"
)

// LeaveReason is the top-level reason a claimant is requesting leave.
type LeaveReason string

// Leave reasons accepted by the benefits API.
const (
	LeaveReasonMedical   LeaveReason = "Serious Health Condition - Employee"
	LeaveReasonPregnancy LeaveReason = "Pregnancy/Maternity"
	LeaveReasonBonding   LeaveReason = "Child Bonding"
	LeaveReasonCare      LeaveReason = "Care for a Family Member"
)

// ReasonQualifier narrows a bonding leave reason.
type ReasonQualifier string

// Bonding leave qualifiers.
const (
	ReasonQualifierNewborn    ReasonQualifier = "Newborn"
	ReasonQualifierAdoption   ReasonQualifier = "Adoption"
	ReasonQualifierFosterCare ReasonQualifier = "Foster Care"
)

// EmploymentStatus describes the claimant's employment at application time.
type EmploymentStatus string

// Employment statuses.
const (
	EmploymentStatusEmployed     EmploymentStatus = "Employed"
	EmploymentStatusUnemployed   EmploymentStatus = "Unemployed"
	EmploymentStatusSelfEmployed EmploymentStatus = "Self-Employed"
)

// Address is a postal address.
type Address struct {
	Line1 string `json:"line_1"`
	Line2 string `json:"line_2"`
	City  string `json:"city"`
	State string `json:"state"`
	Zip   string `json:"zip"`
}

// ContinuousLeavePeriod is a block of consecutive days off work.
type ContinuousLeavePeriod struct {
	LeavePeriodID string `json:"leave_period_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

// IntermittentLeavePeriod is leave taken in separate episodes.
type IntermittentLeavePeriod struct {
	LeavePeriodID          string `json:"leave_period_id"`
	StartDate              string `json:"start_date"`
	EndDate                string `json:"end_date"`
	Frequency              *int   `json:"frequency"`
	FrequencyIntervalBasis string `json:"frequency_interval_basis"`
	Duration               *int   `json:"duration"`
	DurationBasis          string `json:"duration_basis"`
}

// ReducedScheduleLeavePeriod is leave taken as fewer hours per week.
type ReducedScheduleLeavePeriod struct {
	LeavePeriodID       string `json:"leave_period_id"`
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
	SundayOffMinutes    *int   `json:"sunday_off_minutes"`
	MondayOffMinutes    *int   `json:"monday_off_minutes"`
	TuesdayOffMinutes   *int   `json:"tuesday_off_minutes"`
	WednesdayOffMinutes *int   `json:"wednesday_off_minutes"`
	ThursdayOffMinutes  *int   `json:"thursday_off_minutes"`
	FridayOffMinutes    *int   `json:"friday_off_minutes"`
	SaturdayOffMinutes  *int   `json:"saturday_off_minutes"`
}

// LeaveDetails groups the answers of the leave details section.
type LeaveDetails struct {
	Reason                      *LeaveReason                 `json:"reason"`
	ReasonQualifier             *ReasonQualifier             `json:"reason_qualifier"`
	ChildBirthDate              string                       `json:"child_birth_date"`
	ChildPlacementDate          string                       `json:"child_placement_date"`
	PregnantOrRecentBirth       *bool                        `json:"pregnant_or_recent_birth"`
	EmployerNotified            *bool                        `json:"employer_notified"`
	EmployerNotificationDate    string                       `json:"employer_notification_date"`
	ContinuousLeavePeriods      []ContinuousLeavePeriod      `json:"continuous_leave_periods"`
	IntermittentLeavePeriods    []IntermittentLeavePeriod    `json:"intermittent_leave_periods"`
	ReducedScheduleLeavePeriods []ReducedScheduleLeavePeriod `json:"reduced_schedule_leave_periods"`
}

// EmployerBenefit is a benefit paid by the employer during leave.
type EmployerBenefit struct {
	EmployerBenefitID      string   `json:"employer_benefit_id"`
	BenefitType            string   `json:"benefit_type"`
	BenefitStartDate       string   `json:"benefit_start_date"`
	BenefitEndDate         string   `json:"benefit_end_date"`
	BenefitAmountDollars   *float64 `json:"benefit_amount_dollars"`
	BenefitAmountFrequency string   `json:"benefit_amount_frequency"`
	IsFullSalaryContinuous *bool    `json:"is_full_salary_continuous"`
}

// OtherIncome is a non-employer income source during leave.
type OtherIncome struct {
	OtherIncomeID         string   `json:"other_income_id"`
	IncomeType            string   `json:"income_type"`
	IncomeStartDate       string   `json:"income_start_date"`
	IncomeEndDate         string   `json:"income_end_date"`
	IncomeAmountDollars   *float64 `json:"income_amount_dollars"`
	IncomeAmountFrequency string   `json:"income_amount_frequency"`
}

// PreviousLeave is leave taken before the current application.
type PreviousLeave struct {
	PreviousLeaveID      string `json:"previous_leave_id"`
	IsForCurrentEmployer *bool  `json:"is_for_current_employer"`
	LeaveReason          string `json:"leave_reason"`
	LeaveStartDate       string `json:"leave_start_date"`
	LeaveEndDate         string `json:"leave_end_date"`
}

// Payment methods accepted in a payment preference.
const (
	PaymentMethodACH   = "Elec Funds Transfer"
	PaymentMethodCheck = "Check"
)

// PaymentPreference captures how the claimant wants to be paid.
type PaymentPreference struct {
	PaymentMethod   string `json:"payment_method"`
	AccountNumber   string `json:"account_number"`
	RoutingNumber   string `json:"routing_number"`
	BankAccountType string `json:"bank_account_type"`
}

// Claim is one claimant's benefits application. Unanswered questions are
// represented by nil pointers or empty strings so that they serialize to
// the same "absent" values the benefits API uses.
type Claim struct {
	ApplicationID string      `json:"application_id"`
	Status        ClaimStatus `json:"status"`
	Timestamps

	FirstName          string   `json:"first_name"`
	MiddleName         string   `json:"middle_name"`
	LastName           string   `json:"last_name"`
	DateOfBirth        string   `json:"date_of_birth"`
	TaxIdentifier      string   `json:"tax_identifier"`
	HasStateID         *bool    `json:"has_state_id"`
	MassID             string   `json:"mass_id"`
	ResidentialAddress *Address `json:"residential_address"`

	EmploymentStatus   EmploymentStatus `json:"employment_status"`
	EmployerFEIN       string           `json:"employer_fein"`
	HoursWorkedPerWeek *float64         `json:"hours_worked_per_week"`

	LeaveDetails                   LeaveDetails `json:"leave_details"`
	HasContinuousLeavePeriods      *bool        `json:"has_continuous_leave_periods"`
	HasIntermittentLeavePeriods    *bool        `json:"has_intermittent_leave_periods"`
	HasReducedScheduleLeavePeriods *bool        `json:"has_reduced_schedule_leave_periods"`

	HasEmployerBenefits *bool             `json:"has_employer_benefits"`
	EmployerBenefits    []EmployerBenefit `json:"employer_benefits"`
	HasOtherIncomes     *bool             `json:"has_other_incomes"`
	OtherIncomes        []OtherIncome     `json:"other_incomes"`
	HasPreviousLeaves   *bool             `json:"has_previous_leaves"`
	PreviousLeaves      []PreviousLeave   `json:"previous_leaves"`

	PaymentPreference             *PaymentPreference `json:"payment_preference"`
	HasSubmittedPaymentPreference bool               `json:"has_submitted_payment_preference"`
	IsWithholdingTax              *bool              `json:"is_withholding_tax"`
}

// NewClaim returns a started application with every collection initialized.
func NewClaim(applicationID string) Claim {
	return Claim{
		ApplicationID: applicationID,
		Status:        ClaimStatusStarted,
		LeaveDetails: LeaveDetails{
			ContinuousLeavePeriods:      []ContinuousLeavePeriod{},
			IntermittentLeavePeriods:    []IntermittentLeavePeriod{},
			ReducedScheduleLeavePeriods: []ReducedScheduleLeavePeriod{},
		},
		EmployerBenefits: []EmployerBenefit{},
		OtherIncomes:     []OtherIncome{},
		PreviousLeaves:   []PreviousLeave{},
	}
}

// ClaimID returns the id key of a claim.
func ClaimID(c Claim) string { return c.ApplicationID }

// RecordID implements Identified.
func (c Claim) RecordID() string { return c.ApplicationID }

func (c Claim) hasReason(reasons ...LeaveReason) bool {
	if c.LeaveDetails.Reason == nil {
		return false
	}
	for _, r := range reasons {
		if *c.LeaveDetails.Reason == r {
			return true
		}
	}
	return false
}

// IsBondingLeave reports whether the claim is for bonding with a child.
func (c Claim) IsBondingLeave() bool { return c.hasReason(LeaveReasonBonding) }

// IsMedicalOrPregnancyLeave reports whether the claim covers the claimant's own health.
func (c Claim) IsMedicalOrPregnancyLeave() bool {
	return c.hasReason(LeaveReasonMedical, LeaveReasonPregnancy)
}

// IsCaringLeave reports whether the claim is to care for a family member.
func (c Claim) IsCaringLeave() bool { return c.hasReason(LeaveReasonCare) }

// IsContinuous reports whether at least one continuous period was entered.
func (c Claim) IsContinuous() bool { return len(c.LeaveDetails.ContinuousLeavePeriods) > 0 }

// IsIntermittent reports whether at least one intermittent period was entered.
func (c Claim) IsIntermittent() bool { return len(c.LeaveDetails.IntermittentLeavePeriods) > 0 }

// IsReducedSchedule reports whether at least one reduced schedule period was entered.
func (c Claim) IsReducedSchedule() bool {
	return len(c.LeaveDetails.ReducedScheduleLeavePeriods) > 0
}

// IsEmployed reports whether the claimant is applying through an employer.
func (c Claim) IsEmployed() bool { return c.EmploymentStatus == EmploymentStatusEmployed }

// IsSubmitted reports whether part one has been submitted but the claim is not complete.
func (c Claim) IsSubmitted() bool { return c.Status == ClaimStatusSubmitted }

// IsCompleted reports whether every part of the application was finished.
func (c Claim) IsCompleted() bool { return c.Status == ClaimStatusCompleted }

// LeavePeriodDates returns the start and end dates of every entered period.
func (c Claim) LeavePeriodDates() (starts, ends []string) {
	for _, p := range c.LeaveDetails.ContinuousLeavePeriods {
		starts, ends = append(starts, p.StartDate), append(ends, p.EndDate)
	}
	for _, p := range c.LeaveDetails.IntermittentLeavePeriods {
		starts, ends = append(starts, p.StartDate), append(ends, p.EndDate)
	}
	for _, p := range c.LeaveDetails.ReducedScheduleLeavePeriods {
		starts, ends = append(starts, p.StartDate), append(ends, p.EndDate)
	}
	return starts, ends
}

// LeaveStartDate returns the earliest ISO start date across all periods, or "".
func (c Claim) LeaveStartDate() string {
	starts, _ := c.LeavePeriodDates()
	return extremeDate(starts, func(a, b string) bool { return a < b })
}

// LeaveEndDate returns the latest ISO end date across all periods, or "".
func (c Claim) LeaveEndDate() string {
	_, ends := c.LeavePeriodDates()
	return extremeDate(ends, func(a, b string) bool { return a > b })
}

// ISO-8601 dates order lexically.
func extremeDate(dates []string, better func(a, b string) bool) string {
	out := ""
	for _, d := range dates {
		if d == "" {
			continue
		}
		if out == "" || better(d, out) {
			out = d
		}
	}
	return out
}

func cloneClaim(c Claim) Claim {
	cp := c
	cp.LeaveDetails.ContinuousLeavePeriods = append([]ContinuousLeavePeriod(nil), c.LeaveDetails.ContinuousLeavePeriods...)
	cp.LeaveDetails.IntermittentLeavePeriods = append([]IntermittentLeavePeriod(nil), c.LeaveDetails.IntermittentLeavePeriods...)
	cp.LeaveDetails.ReducedScheduleLeavePeriods = append([]ReducedScheduleLeavePeriod(nil), c.LeaveDetails.ReducedScheduleLeavePeriods...)
	cp.EmployerBenefits = append([]EmployerBenefit(nil), c.EmployerBenefits...)
	cp.OtherIncomes = append([]OtherIncome(nil), c.OtherIncomes...)
	cp.PreviousLeaves = append([]PreviousLeave(nil), c.PreviousLeaves...)
	if c.ResidentialAddress != nil {
		addr := *c.ResidentialAddress
		cp.ResidentialAddress = &addr
	}
	if c.PaymentPreference != nil {
		pref := *c.PaymentPreference
		cp.PaymentPreference = &pref
	}
	return cp
}

// Clone returns a deep copy of the claim's slices and nested records.
func (c Claim) Clone() Claim { return cloneClaim(c) }
