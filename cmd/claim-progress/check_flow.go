package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pfmlportal/internal/progress"
)

// newCheckFlowCmd lints a flow file before it is deployed through
// PORTAL_FLOW_FILE. Without an argument it checks the configured flow.
func newCheckFlowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-flow [file]",
		Short: "Validate a flow definition against the claim model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			flow := a.flow
			if len(args) == 1 {
				var err error
				if flow, err = progress.LoadFlow(args[0]); err != nil {
					return err
				}
			}
			problems := flow.Lint(progress.StepNames())
			for _, p := range problems {
				fmt.Fprintln(a.errOut, p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("flow %s: %d problems", flow.Name, len(problems))
			}
			fmt.Fprintf(a.out, "flow %s: %d pages ok\n", flow.Name, len(flow.Pages))
			return nil
		},
	}
}
