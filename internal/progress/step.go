// Package progress derives the status of each part of the application
// wizard from the claim, its documents, and outstanding validation issues.
// Nothing here is cached: every accessor recomputes from the current inputs.
package progress

import (
	"slices"
	"strings"

	"pfmlportal/pkg/domain"
)

// Status is the single-value classification of a Step.
type Status string

// Step statuses, listed in evaluation precedence.
const (
	StatusDisabled      Status = "disabled"
	StatusNotApplicable Status = "not_applicable"
	StatusCompleted     Status = "completed"
	StatusInProgress    Status = "in_progress"
	StatusNotStarted    Status = "not_started"
)

// Page is one route of the wizard and the claim fields it collects.
type Page struct {
	Route string `yaml:"route" json:"route"`
	// Step names the Step this page belongs to. Pages without a step
	// (checklist, success) take part in navigation only.
	Step            string   `yaml:"step" json:"step,omitempty"`
	Fields          []string `yaml:"fields" json:"fields,omitempty"`
	ApplicableRules []string `yaml:"applicable_rules" json:"applicable_rules,omitempty"`
	// Condition names a predicate in Conditions gating whether the page is reachable.
	Condition string `yaml:"condition" json:"condition,omitempty"`
}

// StepOptions configures NewStep.
type StepOptions struct {
	Name              string
	Pages             []Page
	DependsOn         []*Step
	Group             int
	CompleteCond      Condition
	NotApplicableCond Condition
	// ReadOnly marks the step as no longer editable (steps are editable by default).
	ReadOnly   bool
	Context    Context
	Warnings   []domain.Issue
	Conditions Conditions
}

// Step is one section of the application wizard.
type Step struct {
	Name              string
	Pages             []Page
	DependsOn         []*Step
	Group             int
	CompleteCond      Condition
	NotApplicableCond Condition
	Editable          bool
	Context           Context
	Warnings          []domain.Issue

	conditions Conditions
}

// NewStep builds a Step. Dependencies are fixed at construction.
func NewStep(opts StepOptions) *Step {
	conds := opts.Conditions
	if conds == nil {
		conds = DefaultConditions()
	}
	return &Step{
		Name:              opts.Name,
		Pages:             slices.Clone(opts.Pages),
		DependsOn:         slices.Clone(opts.DependsOn),
		Group:             opts.Group,
		CompleteCond:      opts.CompleteCond,
		NotApplicableCond: opts.NotApplicableCond,
		Editable:          !opts.ReadOnly,
		Context:           opts.Context,
		Warnings:          slices.Clone(opts.Warnings),
		conditions:        conds,
	}
}

// Fields returns every page's fields in page order. Duplicates are kept.
func (s *Step) Fields() []string {
	var out []string
	for _, p := range s.Pages {
		out = append(out, p.Fields...)
	}
	return out
}

// InitialPage returns the route of the step's first page.
func (s *Step) InitialPage() string {
	if len(s.Pages) == 0 {
		return ""
	}
	return s.Pages[0].Route
}

// IsNotApplicable reports whether the step does not apply to this claim.
func (s *Step) IsNotApplicable() bool {
	if s.NotApplicableCond == nil {
		return false
	}
	return s.NotApplicableCond(s.Context)
}

// IsComplete delegates to CompleteCond when set. Otherwise the step is
// complete when no warning is relevant to any of its reachable pages.
func (s *Step) IsComplete() bool {
	if s.CompleteCond != nil {
		return s.CompleteCond(s.Context)
	}
	return len(s.RelevantIssues()) == 0
}

// RelevantIssues returns the warnings that keep the step incomplete.
func (s *Step) RelevantIssues() []domain.Issue {
	var out []domain.Issue
	for _, w := range s.Warnings {
		for _, p := range s.Pages {
			if s.conditions.Holds(p.Condition, s.Context) && pageMatches(p, w) {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

// IsInProgress reports whether any of the step's fields holds a value.
func (s *Step) IsInProgress() bool {
	fields := s.Fields()
	if len(fields) == 0 {
		return false
	}
	doc := s.Context.document()
	for _, f := range fields {
		if hasValue(doc, f) {
			return true
		}
	}
	return false
}

// IsDisabled reports whether any dependency is incomplete. Only completion
// is consulted: a complete dependency that is itself disabled does not lock
// this step. Dependencies form a DAG fixed at construction.
func (s *Step) IsDisabled() bool {
	for _, dep := range s.DependsOn {
		if !dep.IsComplete() {
			return true
		}
	}
	return false
}

// Status classifies the step, first match wins.
func (s *Step) Status() Status {
	switch {
	case s.IsDisabled():
		return StatusDisabled
	case s.IsNotApplicable():
		return StatusNotApplicable
	case s.IsComplete():
		return StatusCompleted
	case s.IsInProgress():
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

func pageMatches(p Page, w domain.Issue) bool {
	if w.Rule != "" && slices.Contains(p.ApplicableRules, w.Rule) {
		return true
	}
	if w.Field == "" {
		return false
	}
	want := canonicalField(w.Field)
	for _, f := range p.Fields {
		if canonicalField(f) == want {
			return true
		}
	}
	return false
}

// canonicalField drops the claim. prefix used by page fields (issues are
// reported relative to the claim) and normalizes array indices.
func canonicalField(path string) string {
	return domain.NormalizeFieldPath(strings.TrimPrefix(strings.TrimSpace(path), "claim."))
}
