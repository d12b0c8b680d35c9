package domain

import (
	"regexp"
	"strings"
)

// Issue types used by the benefits API and the local rules.
const (
	IssueRequired    = "required"
	IssueInvalidDate = "invalid_date"
	IssueConflicting = "conflicting"
	IssuePattern     = "pattern"
	IssueMinimum     = "minimum"
)

// Issue is a validation problem reported for a claim. Field is a dotted
// path relative to the claim (e.g. leave_details.continuous_leave_periods[0].start_date).
// Rule names a cross-field rule for issues that are not tied to one field.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"`
}

// IssueKey identifies an issue within an IssueCollection.
func IssueKey(i Issue) string { return i.Field + "|" + i.Type + "|" + i.Rule }

var arrayIndex = regexp.MustCompile(`\[\d+\]`)

// NormalizeFieldPath replaces concrete array indices with [*] so that an
// issue on any element matches a field declared against the whole list.
func NormalizeFieldPath(path string) string {
	return arrayIndex.ReplaceAllString(strings.TrimSpace(path), "[*]")
}

// IssueCollection is the set of outstanding issues for a claim.
type IssueCollection struct {
	Collection[Issue]
}

// NewIssueCollection builds an issue collection.
func NewIssueCollection(issues ...Issue) IssueCollection {
	return IssueCollection{NewCollection(IssueKey, issues...)}
}

// ForField returns issues whose normalized field equals the normalized path.
func (c IssueCollection) ForField(path string) IssueCollection {
	want := NormalizeFieldPath(path)
	return IssueCollection{c.Filter(func(i Issue) bool {
		return i.Field != "" && NormalizeFieldPath(i.Field) == want
	})}
}

// ForRule returns issues raised by the named rule.
func (c IssueCollection) ForRule(rule string) IssueCollection {
	return IssueCollection{c.Filter(func(i Issue) bool { return i.Rule == rule })}
}
