package progress

// StepGroup is a numbered "Part" of the application. It references steps
// it does not own.
type StepGroup struct {
	Number int
	Steps  []*Step
}

// IsEnabled reports whether at least one step in the group is not disabled.
func (g StepGroup) IsEnabled() bool {
	for _, s := range g.Steps {
		if !s.IsDisabled() {
			return true
		}
	}
	return false
}

// IsComplete reports whether every applicable step in the group is complete.
func (g StepGroup) IsComplete() bool {
	for _, s := range g.Steps {
		if s.IsNotApplicable() {
			continue
		}
		if !s.IsComplete() {
			return false
		}
	}
	return true
}
