package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRule struct {
	name string
	res  Result
	err  error
}

func (r staticRule) Name() string { return r.name }

func (r staticRule) Evaluate(context.Context, TransactionView, []Change) (Result, error) {
	return r.res, r.err
}

func TestResultMergeAndBlocking(t *testing.T) {
	var res Result
	res.Merge(Result{})
	assert.False(t, res.HasBlocking())

	res.Merge(Result{Violations: []Violation{{Rule: "warn", Severity: SeverityWarn, EntityID: "a"}}})
	assert.False(t, res.HasBlocking())

	res.Merge(Result{Violations: []Violation{{Rule: "block", Severity: SeverityBlock, EntityID: "b"}}})
	assert.True(t, res.HasBlocking())
	assert.Len(t, res.ForEntity("a").Violations, 1)
	assert.Empty(t, res.ForEntity("missing").Violations)
}

func TestViolationIssueCarriesRuleOnlyWithoutField(t *testing.T) {
	fieldLevel := Violation{Rule: "required_fields", Field: "first_name", Type: IssueRequired, Message: "m"}
	ruleLevel := Violation{Rule: "min_leave_periods", Type: IssueMinimum, Message: "m"}

	assert.Equal(t, Issue{Field: "first_name", Type: IssueRequired, Message: "m"}, fieldLevel.Issue())
	assert.Equal(t, Issue{Type: IssueMinimum, Message: "m", Rule: "min_leave_periods"}, ruleLevel.Issue())

	res := Result{Violations: []Violation{fieldLevel, ruleLevel}}
	assert.Len(t, res.Issues(), 2)
}

func TestRulesEngineAggregatesAndStopsOnError(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(staticRule{name: "one", res: Result{Violations: []Violation{{Rule: "one"}}}})
	engine.Register(staticRule{name: "two", res: Result{Violations: []Violation{{Rule: "two"}}}})

	res, err := engine.Evaluate(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, res.Violations, 2)
	assert.Equal(t, []string{"one", "two"}, engine.Rules())

	boom := errors.New("boom")
	engine.Register(staticRule{name: "bad", err: boom})
	_, err = engine.Evaluate(context.Background(), nil, nil)
	require.ErrorIs(t, err, boom)
}

func TestRuleViolationErrorMessage(t *testing.T) {
	err := RuleViolationError{Result: Result{}}
	assert.Equal(t, "transaction blocked by rules", err.Error())
}
