package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfmlportal/pkg/domain"
)

func TestDefaultClaimFlowIsValid(t *testing.T) {
	f := DefaultClaimFlow()
	require.Equal(t, "claim", f.Name)
	require.NoError(t, f.Validate(DefaultConditions()))
	assert.Equal(t, "/applications/checklist", f.Pages[0].Route)
	assert.Equal(t, "/applications/success", f.Pages[len(f.Pages)-1].Route)

	for _, name := range []string{
		StepVerifyID, StepEmployerInformation, StepLeaveDetails, StepOtherLeave, StepReviewAndConfirm,
		StepPayment, StepTaxWithholding, StepUploadID, StepUploadCertification,
	} {
		assert.NotEmpty(t, f.PagesFor(name), name)
	}
}

func TestFlowNextSkipsUnreachablePages(t *testing.T) {
	f := DefaultClaimFlow()

	next, ok := f.Next("/applications/name", claimContext(nil), nil)
	require.True(t, ok)
	assert.Equal(t, "/applications/address", next)

	care := claimContext(func(c *domain.Claim) {
		r := domain.LeaveReasonCare
		c.LeaveDetails.Reason = &r
	})
	next, ok = f.Next("/applications/leave-reason", care, nil)
	require.True(t, ok)
	assert.Equal(t, "/applications/leave-period-continuous", next)

	bonding := claimContext(func(c *domain.Claim) {
		r := domain.LeaveReasonBonding
		c.LeaveDetails.Reason = &r
	})
	next, ok = f.Next("/applications/leave-reason", bonding, nil)
	require.True(t, ok)
	assert.Equal(t, "/applications/date-of-child", next)

	_, ok = f.Next("/applications/success", claimContext(nil), nil)
	assert.False(t, ok)
	_, ok = f.Next("/nowhere", claimContext(nil), nil)
	assert.False(t, ok)
}

func TestFlowPageLookup(t *testing.T) {
	f := DefaultClaimFlow()
	p, ok := f.Page("/applications/ssn")
	require.True(t, ok)
	assert.Equal(t, StepVerifyID, p.Step)
	assert.Equal(t, []string{"claim.tax_identifier"}, p.Fields)

	_, ok = f.Page("/missing")
	assert.False(t, ok)
}

func TestParseFlowRejectsInvalidDefinitions(t *testing.T) {
	cases := map[string]string{
		"empty":             "name: x\npages: []\n",
		"missing route":     "name: x\npages:\n  - step: a\n",
		"duplicate route":   "name: x\npages:\n  - route: /a\n  - route: /a\n",
		"unknown condition": "name: x\npages:\n  - route: /a\n    condition: isMartian\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFlow([]byte(doc))
			require.ErrorIs(t, err, ErrInvalidFlow)
		})
	}

	_, err := ParseFlow([]byte("pages: [unterminated"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidFlow)
}

func TestLoadFlow(t *testing.T) {
	f, err := LoadFlow("")
	require.NoError(t, err)
	assert.Equal(t, DefaultClaimFlow(), f)

	path := filepath.Join(t.TempDir(), "flow.yaml")
	doc := "name: short\npages:\n  - route: /start\n  - route: /id\n    step: verifyId\n    fields: [claim.first_name]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	f, err = LoadFlow(path)
	require.NoError(t, err)
	assert.Equal(t, "short", f.Name)
	assert.Len(t, f.PagesFor(StepVerifyID), 1)

	_, err = LoadFlow(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
