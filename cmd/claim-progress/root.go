package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pfmlportal/internal/blob"
	"pfmlportal/internal/config"
	"pfmlportal/internal/core"
	"pfmlportal/internal/logging"
	"pfmlportal/internal/progress"
	"pfmlportal/pkg/domain"
)

type app struct {
	out    io.Writer
	errOut io.Writer
	lookup func(string) (string, bool)

	cfg    config.Config
	logger *slog.Logger
	flow   progress.Flow

	debug         bool
	jsonOut       bool
	claimFile     string
	documentsFile string
	warningsFile  string
}

func newRootCmd(out, errOut io.Writer, lookup func(string) (string, bool)) *cobra.Command {
	a := &app{out: out, errOut: errOut, lookup: lookup}
	root := &cobra.Command{
		Use:           "claim-progress",
		Short:         "Inspect the progress of paid leave applications",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&a.jsonOut, "json", false, "Print JSON instead of text")
	flags.StringVar(&a.claimFile, "claim", "", "Read the claim from a JSON file instead of the configured store")
	flags.StringVar(&a.documentsFile, "documents", "", "JSON file with the claim's documents (with --claim)")

	root.AddCommand(
		newStatusCmd(a),
		newValidateCmd(a),
		newNextCmd(a),
		newDocumentsCmd(a),
		newCreateCmd(a),
		newAttachCmd(a),
		newSubmitCmd(a),
		newCheckFlowCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.LoadFrom(a.lookup)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Log.Level = logging.LevelDebug
	}
	logger, err := logging.New(a.errOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	flow, err := progress.LoadFlow(cfg.FlowFile)
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.flow = cfg, logger, flow
	return nil
}

// service opens the claim source: the JSON files named on the command line
// when --claim is set, the configured store and blob store otherwise. The
// returned function releases the source.
func (a *app) service(ctx context.Context) (*core.Service, func(), error) {
	opts := []core.Option{core.WithLogger(a.logger), core.WithFlow(a.flow)}
	if a.claimFile != "" {
		var claim domain.Claim
		if err := readJSON(a.claimFile, &claim); err != nil {
			return nil, nil, err
		}
		if claim.ApplicationID == "" {
			return nil, nil, fmt.Errorf("%s: application_id is required", a.claimFile)
		}
		var docs []domain.Document
		if a.documentsFile != "" {
			if err := readJSON(a.documentsFile, &docs); err != nil {
				return nil, nil, err
			}
		}
		store := core.NewMemoryStoreFrom(core.NewDefaultRulesEngine(), []domain.Claim{claim}, docs)
		return core.NewService(store, opts...), func() {}, nil
	}

	store, err := core.OpenPersistentStore(ctx, a.cfg.Storage, core.NewDefaultRulesEngine())
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if c, ok := store.(io.Closer); ok {
			if err := c.Close(); err != nil {
				a.logger.Warn("close store", slog.String("error", err.Error()))
			}
		}
	}
	blobs, err := blob.Open(ctx, a.cfg.Blob)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	opts = append(opts, core.WithBlobStore(blobs))
	return core.NewService(store, opts...), closeStore, nil
}

// applicationID returns the id given as the first argument. With --claim
// the argument is optional and defaults to the file's claim.
func (a *app) applicationID(svc *core.Service, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.claimFile != "" {
		claims := svc.Store().ListClaims()
		if len(claims) == 1 {
			return claims[0].ApplicationID, nil
		}
	}
	return "", errors.New("application id required")
}

// warnings returns the API warnings file contents, or nil and false when no
// file was given.
func (a *app) warnings() ([]domain.Issue, bool, error) {
	if a.warningsFile == "" {
		return nil, false, nil
	}
	var issues []domain.Issue
	if err := readJSON(a.warningsFile, &issues); err != nil {
		return nil, false, err
	}
	return issues, true, nil
}

func readJSON(path string, dst any) error {
	raw, err := os.ReadFile(path) // #nosec G304 -- user supplied input file
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
