package domain

import "context"

// Rule defines an evaluation executed within a transaction boundary.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view TransactionView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rule names in evaluation order.
func (e *RulesEngine) Rules() []string {
	out := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		out = append(out, r.Name())
	}
	return out
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view TransactionView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}

// Violation reports a failed rule evaluation. Field and Type locate the
// problem on the claim in the same form the benefits API uses for warnings.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
	Field    string
	Type     string
}

// Issue converts the violation to the warning shape consumed by progress tracking.
func (v Violation) Issue() Issue {
	issue := Issue{Field: v.Field, Type: v.Type, Message: v.Message}
	if v.Field == "" {
		issue.Rule = v.Rule
	}
	return issue
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// ForEntity returns the violations raised against one record.
func (r Result) ForEntity(id string) Result {
	var out Result
	for _, v := range r.Violations {
		if v.EntityID == id {
			out.Violations = append(out.Violations, v)
		}
	}
	return out
}

// Issues converts every violation to an Issue.
func (r Result) Issues() []Issue {
	out := make([]Issue, 0, len(r.Violations))
	for _, v := range r.Violations {
		out = append(out, v.Issue())
	}
	return out
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
