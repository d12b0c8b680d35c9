package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pfmlportal/pkg/domain"
)

func TestGJSONPath(t *testing.T) {
	cases := map[string]string{
		"claim.first_name": "claim.first_name",
		"claim.leave_details.continuous_leave_periods[0].start_date": "claim.leave_details.continuous_leave_periods.0.start_date",
		"claim.previous_leaves[*].leave_reason":                      "claim.previous_leaves.#.leave_reason",
		"claim.weird*name":                                           `claim.weird\*name`,
		"claim.unclosed[0":                                           `claim.unclosed[0`,
	}
	for in, want := range cases {
		assert.Equal(t, want, gjsonPath(in), in)
	}
}

func TestContextLookupNestedValues(t *testing.T) {
	ctx := claimContext(func(c *domain.Claim) {
		c.LeaveDetails.ContinuousLeavePeriods = []domain.ContinuousLeavePeriod{{StartDate: "2026-01-05"}}
		c.ResidentialAddress = &domain.Address{City: "Boston"}
	})
	ctx.Query = map[string]string{"claim_id": "app-1"}

	assert.Equal(t, "2026-01-05", ctx.Lookup("claim.leave_details.continuous_leave_periods[0].start_date").String())
	assert.True(t, ctx.HasValue("claim.residential_address.city"))
	assert.False(t, ctx.HasValue("claim.residential_address.zip"))
	assert.False(t, ctx.HasValue("claim.leave_details.continuous_leave_periods[1].start_date"))
	assert.True(t, ctx.HasValue("query.claim_id"))
	assert.False(t, ctx.HasValue("no.such.path"))
	assert.False(t, ctx.HasValue(""))
}

func TestContextHasValueWildcard(t *testing.T) {
	ctx := claimContext(func(c *domain.Claim) {
		c.PreviousLeaves = []domain.PreviousLeave{{}, {LeaveReason: "Pregnancy"}}
	})
	assert.True(t, ctx.HasValue("claim.previous_leaves[*].leave_reason"))
	assert.False(t, ctx.HasValue("claim.previous_leaves[*].leave_start_date"))
	assert.True(t, ctx.HasValue("claim.previous_leaves"))
}

func TestContextDocumentsAreVisible(t *testing.T) {
	ctx := claimContext(nil)
	ctx.Documents = domain.NewDocumentCollection(domain.NewDocument("d1", "app-1", domain.DocumentTypeIdentityProof))
	assert.True(t, ctx.HasValue("documents"))
	assert.Equal(t, "d1", ctx.Lookup("documents[0].fineos_document_id").String())
}
