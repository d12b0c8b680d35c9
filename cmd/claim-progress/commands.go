package main

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pfmlportal/internal/core"
	"pfmlportal/internal/progress"
	"pfmlportal/pkg/domain"
)

func newStatusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [application-id]",
		Short: "Show the status of each step of an application",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			id, err := a.applicationID(svc, args)
			if err != nil {
				return err
			}
			claim, err := svc.GetClaim(cmd.Context(), id)
			if err != nil {
				return err
			}

			var steps progress.ClaimSteps
			warnings, fromFile, err := a.warnings()
			if err != nil {
				return err
			}
			if fromFile {
				docs, err := svc.Documents(cmd.Context(), id)
				if err != nil {
					return err
				}
				steps = progress.NewClaimSteps(svc.Flow(), progress.Context{Claim: claim, Documents: docs}, warnings)
			} else if steps, err = svc.Progress(cmd.Context(), id); err != nil {
				return err
			}

			view := buildProgressView(claim, steps)
			if a.jsonOut {
				return a.printJSON(view)
			}
			renderProgress(a.out, view)
			return nil
		},
	}
	cmd.Flags().StringVar(&a.warningsFile, "warnings", "", "JSON file with API warnings to use instead of the local rules")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [application-id]",
		Short: "List the outstanding warnings of an application",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			id, err := a.applicationID(svc, args)
			if err != nil {
				return err
			}
			issues, err := svc.Validate(cmd.Context(), id)
			if err != nil {
				return err
			}
			if issues == nil {
				issues = []domain.Issue{}
			}
			return a.printJSON(issues)
		},
	}
}

func newNextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next <route> [application-id]",
		Short: "Print the page that follows route for an application",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			id, err := a.applicationID(svc, args[1:])
			if err != nil {
				return err
			}
			next, ok, err := svc.NextPage(cmd.Context(), id, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no page follows %s", args[0])
			}
			fmt.Fprintln(a.out, next)
			return nil
		},
	}
}

func newDocumentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "documents [application-id]",
		Short: "List the documents attached to an application",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			id, err := a.applicationID(svc, args)
			if err != nil {
				return err
			}
			docs, err := svc.Documents(cmd.Context(), id)
			if err != nil {
				return err
			}
			items := docs.Items()
			if a.jsonOut {
				if items == nil {
					items = []domain.Document{}
				}
				return a.printJSON(items)
			}
			renderDocuments(a.out, items)
			return nil
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Store a new application read from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.claimFile != "" {
				return errors.New("create writes to the configured store; use --file instead of --claim")
			}
			var claim domain.Claim
			if err := readJSON(file, &claim); err != nil {
				return err
			}
			svc, release, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			created, res, err := svc.CreateClaim(cmd.Context(), claim)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created %s (%d warnings)\n", created.ApplicationID, len(res.Violations))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Claim JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newAttachCmd(a *app) *cobra.Command {
	var docType, description string
	cmd := &cobra.Command{
		Use:   "attach <application-id> <file>",
		Short: "Upload a supporting document for an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.claimFile != "" {
				return errors.New("attach requires the configured store")
			}
			svc, release, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			f, err := os.Open(args[1]) // #nosec G304 -- user supplied upload
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			name := filepath.Base(args[1])
			doc, err := svc.AttachDocument(cmd.Context(), args[0], core.DocumentUpload{
				Type:        domain.DocumentType(docType),
				Name:        name,
				ContentType: mime.TypeByExtension(filepath.Ext(name)),
				Description: description,
				Content:     f,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "attached %s (%s)\n", doc.FineosDocumentID, humanize.Bytes(uint64(doc.SizeBytes)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&docType, "type", "t", string(domain.DocumentTypeIdentityProof), "Document type")
	cmd.Flags().StringVar(&description, "description", "", "Document description")
	return cmd
}

func newSubmitCmd(a *app) *cobra.Command {
	var complete bool
	cmd := &cobra.Command{
		Use:   "submit <application-id>",
		Short: "Submit part one of an application, or complete it with --complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.claimFile != "" {
				return errors.New("submit requires the configured store")
			}
			svc, release, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			transition := svc.SubmitClaim
			if complete {
				transition = svc.CompleteClaim
			}
			claim, _, err := transition(cmd.Context(), args[0])
			var blocked domain.RuleViolationError
			if errors.As(err, &blocked) {
				for _, v := range blocked.Result.Violations {
					if v.Severity == domain.SeverityBlock {
						fmt.Fprintln(a.errOut, v.Message)
					}
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s is now %s\n", claim.ApplicationID, claim.Status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&complete, "complete", false, "Mark the application completed")
	return cmd
}
