package progress

import "pfmlportal/pkg/domain"

// Step names of the benefits application flow.
const (
	StepVerifyID            = "verifyId"
	StepEmployerInformation = "employerInformation"
	StepLeaveDetails        = "leaveDetails"
	StepOtherLeave          = "otherLeave"
	StepReviewAndConfirm    = "reviewAndConfirm"
	StepPayment             = "payment"
	StepTaxWithholding      = "taxWithholding"
	StepUploadID            = "uploadId"
	StepUploadCertification = "uploadCertification"
)

// ClaimSteps is the step graph of one benefits application.
type ClaimSteps struct {
	VerifyID            *Step
	EmployerInformation *Step
	LeaveDetails        *Step
	OtherLeave          *Step
	ReviewAndConfirm    *Step
	Payment             *Step
	TaxWithholding      *Step
	UploadID            *Step
	UploadCertification *Step
}

// NewClaimSteps builds a fresh step graph for the claim in ctx. Callers
// rebuild it whenever the claim, documents or warnings change; the same
// inputs always produce an equivalent graph.
func NewClaimSteps(flow Flow, ctx Context, warnings []domain.Issue) ClaimSteps {
	conds := DefaultConditions()
	submitted := ctx.Claim.IsSubmitted() || ctx.Claim.IsCompleted()
	completed := ctx.Claim.IsCompleted()

	build := func(name string, group int, readOnly bool, deps []*Step, complete Condition) *Step {
		return NewStep(StepOptions{
			Name:         name,
			Pages:        flow.PagesFor(name),
			DependsOn:    deps,
			Group:        group,
			CompleteCond: complete,
			ReadOnly:     readOnly,
			Context:      ctx,
			Warnings:     warnings,
			Conditions:   conds,
		})
	}

	var s ClaimSteps
	s.VerifyID = build(StepVerifyID, 1, submitted, nil, nil)
	s.EmployerInformation = build(StepEmployerInformation, 1, submitted, []*Step{s.VerifyID}, nil)
	// each part one step lists every step before it, locks do not chain
	s.LeaveDetails = build(StepLeaveDetails, 1, submitted,
		[]*Step{s.VerifyID, s.EmployerInformation}, nil)
	s.OtherLeave = build(StepOtherLeave, 1, submitted,
		[]*Step{s.VerifyID, s.EmployerInformation, s.LeaveDetails}, nil)
	s.ReviewAndConfirm = build(StepReviewAndConfirm, 1, submitted,
		[]*Step{s.VerifyID, s.EmployerInformation, s.LeaveDetails, s.OtherLeave},
		func(c Context) bool { return c.Claim.IsSubmitted() || c.Claim.IsCompleted() })

	afterReview := []*Step{s.ReviewAndConfirm}
	s.Payment = build(StepPayment, 2, completed, afterReview,
		func(c Context) bool { return c.Claim.HasSubmittedPaymentPreference })
	s.TaxWithholding = build(StepTaxWithholding, 2, completed, afterReview,
		func(c Context) bool { return c.Claim.IsWithholdingTax != nil })
	s.UploadID = build(StepUploadID, 3, completed, afterReview,
		func(c Context) bool { return !claimDocuments(c).IdentityProofs().IsEmpty() })
	s.UploadCertification = build(StepUploadCertification, 3, completed, afterReview,
		func(c Context) bool { return !claimDocuments(c).Certifications().IsEmpty() })
	return s
}

func claimDocuments(c Context) domain.DocumentCollection {
	return c.Documents.ForApplication(c.Claim.ApplicationID)
}

// All returns every step in flow order.
func (s ClaimSteps) All() []*Step {
	return []*Step{
		s.VerifyID, s.EmployerInformation, s.LeaveDetails, s.OtherLeave, s.ReviewAndConfirm,
		s.Payment, s.TaxWithholding,
		s.UploadID, s.UploadCertification,
	}
}

// Get returns the step with the given name.
func (s ClaimSteps) Get(name string) (*Step, bool) {
	for _, step := range s.All() {
		if step.Name == name {
			return step, true
		}
	}
	return nil, false
}

// Groups returns the numbered parts of the application.
func (s ClaimSteps) Groups() []StepGroup {
	groups := []StepGroup{{Number: 1}, {Number: 2}, {Number: 3}}
	for _, step := range s.All() {
		groups[step.Group-1].Steps = append(groups[step.Group-1].Steps, step)
	}
	return groups
}

// NextIncomplete returns the first enabled step that is neither complete
// nor not applicable, or nil when nothing remains.
func (s ClaimSteps) NextIncomplete() *Step {
	for _, step := range s.All() {
		switch step.Status() {
		case StatusInProgress, StatusNotStarted:
			return step
		}
	}
	return nil
}
