package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reasonPtr(r LeaveReason) *LeaveReason { return &r }

func TestNewClaimDefaults(t *testing.T) {
	c := NewClaim("app-1")

	assert.Equal(t, "app-1", ClaimID(c))
	assert.Equal(t, ClaimStatusStarted, c.Status)
	assert.NotNil(t, c.LeaveDetails.ContinuousLeavePeriods)
	assert.NotNil(t, c.EmployerBenefits)
	assert.False(t, c.IsSubmitted())
	assert.False(t, c.IsCompleted())
	assert.False(t, c.IsContinuous())
}

func TestClaimLeaveReasonPredicates(t *testing.T) {
	cases := []struct {
		reason  LeaveReason
		bonding bool
		medical bool
		caring  bool
	}{
		{LeaveReasonBonding, true, false, false},
		{LeaveReasonMedical, false, true, false},
		{LeaveReasonPregnancy, false, true, false},
		{LeaveReasonCare, false, false, true},
	}
	for _, tc := range cases {
		c := NewClaim("app")
		c.LeaveDetails.Reason = reasonPtr(tc.reason)
		assert.Equal(t, tc.bonding, c.IsBondingLeave(), tc.reason)
		assert.Equal(t, tc.medical, c.IsMedicalOrPregnancyLeave(), tc.reason)
		assert.Equal(t, tc.caring, c.IsCaringLeave(), tc.reason)
	}

	unanswered := NewClaim("app")
	assert.False(t, unanswered.IsBondingLeave())
}

func TestClaimLeaveDatesSpanAllPeriods(t *testing.T) {
	c := NewClaim("app")
	c.LeaveDetails.ContinuousLeavePeriods = []ContinuousLeavePeriod{{StartDate: "2026-03-01", EndDate: "2026-03-20"}}
	c.LeaveDetails.IntermittentLeavePeriods = []IntermittentLeavePeriod{{StartDate: "2026-02-10", EndDate: "2026-04-01"}}
	c.LeaveDetails.ReducedScheduleLeavePeriods = []ReducedScheduleLeavePeriod{{StartDate: "", EndDate: ""}}

	assert.Equal(t, "2026-02-10", c.LeaveStartDate())
	assert.Equal(t, "2026-04-01", c.LeaveEndDate())
	assert.True(t, c.IsContinuous())
	assert.True(t, c.IsIntermittent())
	assert.True(t, c.IsReducedSchedule())

	assert.Equal(t, "", NewClaim("empty").LeaveStartDate())
}

func TestClaimCloneIsolatesSlices(t *testing.T) {
	c := NewClaim("app")
	c.LeaveDetails.ContinuousLeavePeriods = []ContinuousLeavePeriod{{LeavePeriodID: "p1"}}
	c.PaymentPreference = &PaymentPreference{PaymentMethod: "ACH"}

	cp := c.Clone()
	cp.LeaveDetails.ContinuousLeavePeriods[0].LeavePeriodID = "changed"
	cp.PaymentPreference.PaymentMethod = "Check"

	assert.Equal(t, "p1", c.LeaveDetails.ContinuousLeavePeriods[0].LeavePeriodID)
	assert.Equal(t, "ACH", c.PaymentPreference.PaymentMethod)
}

func TestClaimJSONUsesAPIFieldNames(t *testing.T) {
	c := NewClaim("app")
	c.FirstName = "Jo"
	c.LeaveDetails.Reason = reasonPtr(LeaveReasonCare)

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Jo", decoded["first_name"])
	assert.Nil(t, decoded["has_state_id"])
	details, ok := decoded["leave_details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(LeaveReasonCare), details["reason"])
}

func TestUserHelpers(t *testing.T) {
	u := User{UserID: "u1", ConsentedToDataSharing: true, Roles: []string{"Employer"}}
	assert.True(t, u.HasConsented())
	assert.True(t, u.HasRole("Employer"))
	assert.False(t, u.HasRole("Admin"))
	assert.Equal(t, "u1", UserID(u))
}
