package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownField(t *testing.T) {
	for _, path := range []string{
		"claim.first_name",
		"claim.residential_address.zip",
		"claim.leave_details.continuous_leave_periods[0].start_date",
		"claim.leave_details.intermittent_leave_periods[*].frequency",
		"claim.created_at",
		"documents[0].document_type",
		"query.claim_id",
	} {
		assert.True(t, KnownField(path), path)
	}
	for _, path := range []string{
		"",
		"claim.nickname",
		"claim.first_name.extra",
		"claim.leave_details[0].reason",
		"claim.leave_details.continuous_leave_periods.start_date",
		"claim.leave_details.continuous_leave_periods[0.start_date",
		"documents.document_type",
	} {
		assert.False(t, KnownField(path), path)
	}
}

func TestDefaultFlowLintsClean(t *testing.T) {
	assert.Empty(t, DefaultClaimFlow().Lint(StepNames()))
}

func TestFlowLintReportsProblems(t *testing.T) {
	f := Flow{Pages: []Page{
		{Route: "/a", Step: "verifyId", Fields: []string{"claim.first_name", "claim.nickname"}},
		{Route: "/b", Step: "mystery"},
	}}
	assert.Equal(t, []string{
		"/a: unknown field claim.nickname",
		`/b: unknown step "mystery"`,
	}, f.Lint(StepNames()))
}
