package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"pfmlportal/internal/progress"
	"pfmlportal/pkg/domain"
)

type styles struct {
	title      lipgloss.Style
	group      lipgloss.Style
	muted      lipgloss.Style
	completed  lipgloss.Style
	inProgress lipgloss.Style
	notStarted lipgloss.Style
	issue      lipgloss.Style
}

// newStyles binds the palette to w so colour is dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		group:      r.NewStyle().Bold(true),
		muted:      r.NewStyle().Faint(true),
		completed:  r.NewStyle().Foreground(lipgloss.Color("42")),
		inProgress: r.NewStyle().Foreground(lipgloss.Color("214")),
		notStarted: r.NewStyle().Foreground(lipgloss.Color("252")),
		issue:      r.NewStyle().Foreground(lipgloss.Color("203")).PaddingLeft(6),
	}
}

func (s styles) status(st progress.Status) lipgloss.Style {
	switch st {
	case progress.StatusCompleted:
		return s.completed
	case progress.StatusInProgress:
		return s.inProgress
	case progress.StatusNotStarted:
		return s.notStarted
	default:
		return s.muted
	}
}

var statusMarks = map[progress.Status]string{
	progress.StatusCompleted:     "✓",
	progress.StatusInProgress:    "…",
	progress.StatusNotStarted:    "○",
	progress.StatusDisabled:      "-",
	progress.StatusNotApplicable: "·",
}

type stepView struct {
	Name        string         `json:"name"`
	Status      string         `json:"status"`
	Editable    bool           `json:"editable"`
	InitialPage string         `json:"initial_page,omitempty"`
	Issues      []domain.Issue `json:"issues,omitempty"`
}

type groupView struct {
	Number   int        `json:"number"`
	Enabled  bool       `json:"enabled"`
	Complete bool       `json:"complete"`
	Steps    []stepView `json:"steps"`
}

type progressView struct {
	ApplicationID string      `json:"application_id"`
	Status        string      `json:"status"`
	UpdatedAt     time.Time   `json:"updated_at"`
	NextStep      string      `json:"next_step,omitempty"`
	Groups        []groupView `json:"groups"`
}

func buildProgressView(claim domain.Claim, steps progress.ClaimSteps) progressView {
	view := progressView{
		ApplicationID: claim.ApplicationID,
		Status:        string(claim.Status),
		UpdatedAt:     claim.UpdatedAt,
	}
	if next := steps.NextIncomplete(); next != nil {
		view.NextStep = next.Name
	}
	for _, g := range steps.Groups() {
		gv := groupView{Number: g.Number, Enabled: g.IsEnabled(), Complete: g.IsComplete()}
		for _, step := range g.Steps {
			gv.Steps = append(gv.Steps, stepView{
				Name:        step.Name,
				Status:      string(step.Status()),
				Editable:    step.Editable,
				InitialPage: step.InitialPage(),
				Issues:      step.RelevantIssues(),
			})
		}
		view.Groups = append(view.Groups, gv)
	}
	return view
}

func renderProgress(w io.Writer, view progressView) {
	st := newStyles(w)
	header := fmt.Sprintf("Application %s (%s)", view.ApplicationID, view.Status)
	fmt.Fprintln(w, st.title.Render(header))
	if !view.UpdatedAt.IsZero() {
		fmt.Fprintln(w, st.muted.Render("updated "+humanize.Time(view.UpdatedAt)))
	}
	for _, g := range view.Groups {
		label := fmt.Sprintf("Part %d", g.Number)
		switch {
		case g.Complete:
			label += " (complete)"
		case !g.Enabled:
			label += " (locked)"
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.group.Render(label))
		for _, step := range g.Steps {
			status := progress.Status(step.Status)
			line := fmt.Sprintf("  %s %-20s %-15s %s", statusMarks[status], step.Name, step.Status, step.InitialPage)
			fmt.Fprintln(w, st.status(status).Render(strings.TrimRight(line, " ")))
			for _, issue := range step.Issues {
				fmt.Fprintln(w, st.issue.Render(describeIssue(issue)))
			}
		}
	}
	if view.NextStep != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Next: %s\n", view.NextStep)
	}
}

func describeIssue(issue domain.Issue) string {
	subject := issue.Field
	if subject == "" {
		subject = issue.Rule
	}
	if issue.Message == "" {
		return fmt.Sprintf("%s: %s", subject, issue.Type)
	}
	return fmt.Sprintf("%s: %s", subject, issue.Message)
}

func renderDocuments(w io.Writer, docs []domain.Document) {
	st := newStyles(w)
	if len(docs) == 0 {
		fmt.Fprintln(w, st.muted.Render("no documents"))
		return
	}
	for _, d := range docs {
		size := "-"
		if d.SizeBytes > 0 {
			size = humanize.Bytes(uint64(d.SizeBytes))
		}
		age := ""
		if !d.CreatedAt.IsZero() {
			age = humanize.Time(d.CreatedAt)
		}
		line := fmt.Sprintf("%-36s %-34s %-24s %8s  %s", d.FineosDocumentID, d.DocumentType, d.Name, size, age)
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
