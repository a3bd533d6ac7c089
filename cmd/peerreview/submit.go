package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/peerreview/internal/config"
	"github.com/kingrea/peerreview/internal/journal"
	"github.com/kingrea/peerreview/internal/logbook"
	"github.com/kingrea/peerreview/internal/session"
	"github.com/kingrea/peerreview/internal/submission"
)

type submitFlags struct {
	reviewer  string
	presenter string
	scores    []string
	comments  []string
	dryRun    bool
}

func newSubmitCmd(c *cli) *cobra.Command {
	f := &submitFlags{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Score a presenter and submit without the wizard",
		Long: `Submit a complete review from the command line. Every rubric criterion
needs a --score; comments are optional and default to the configured
placeholder.

  peerreview submit --reviewer Ming --presenter "Group 3" \
    --score c1=4 --score c2=5 --score c3=3 --score c4=4 --score c5=5 \
    --comment c3="sampling needs more detail"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd.Context(), c, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.reviewer, "reviewer", "", "Your name")
	flags.StringVar(&f.presenter, "presenter", "", "Name of the presenter being reviewed")
	flags.StringArrayVar(&f.scores, "score", nil, "Criterion score as id=N (repeat per criterion)")
	flags.StringArrayVar(&f.comments, "comment", nil, "Criterion comment as id=text (may be repeated)")
	flags.BoolVarP(&f.dryRun, "dry-run", "n", false, "Print the form fields instead of posting them")

	return cmd
}

func runSubmit(ctx context.Context, c *cli, f *submitFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return exitError(exitConfig, "%v", err)
	}

	s := session.New(catalog, session.WithPlaceholder(cfg.DefaultComment()))
	if err := s.StartGrading(f.reviewer, f.presenter); err != nil {
		return validationExit(err)
	}
	for _, raw := range f.scores {
		id, value, err := parseAssignment(raw)
		if err != nil {
			return exitError(exitValidation, "--score %s: %v", raw, err)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return exitError(exitValidation, "--score %s: score must be a whole number", raw)
		}
		if err := s.Rate(id, n); err != nil {
			return exitError(exitValidation, "--score %s: %v", raw, err)
		}
	}
	for _, raw := range f.comments {
		id, text, err := parseAssignment(raw)
		if err != nil {
			return exitError(exitValidation, "--comment %s: %v", raw, err)
		}
		if err := s.Comment(id, strings.TrimSpace(text)); err != nil {
			return exitError(exitValidation, "--comment %s: %v", raw, err)
		}
	}

	payload, err := s.Submit()
	if err != nil {
		return validationExit(err)
	}
	settings := cfg.CollectorSettings()

	if f.dryRun {
		c.ui.Info("Dry run: would POST to %s", settings.Endpoint)
		table := c.ui.Table([]string{"Field", "Value"})
		values := payload.Values(settings.Fields)
		for _, field := range []string{settings.Fields.Reviewer, settings.Fields.Presenter, settings.Fields.TotalScore} {
			_ = table.Append([]string{field, values.Get(field)})
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintf(c.ui.Out, "%s:\n%s\n", settings.Fields.Details, payload.Details)
		return nil
	}

	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		c.ui.Warning("Log unavailable: %v", err)
	}
	defer lb.Close()

	var gwOpts []submission.Option
	if lb != nil {
		gwOpts = append(gwOpts, submission.WithLogger(lb))
	}
	gateway := submission.NewFormGateway(settings, gwOpts...)

	c.ui.VerboseLog("Posting review of %s to %s", strings.TrimSpace(payload.Presenter), gateway.Endpoint())
	lb.Info("CLI submit · %s reviewing %s · total %s", strings.TrimSpace(payload.Reviewer), strings.TrimSpace(payload.Presenter), payload.TotalString())

	sendCtx, cancel := context.WithTimeout(ctx, settings.Timeout)
	defer cancel()
	receipt, sendErr := gateway.Submit(sendCtx, payload)
	if err := s.Complete(receipt, sendErr); err != nil {
		return err
	}
	recordAttempt(ctx, c, cfg, payload, s.Attempts(), receipt, sendErr)

	if sendErr != nil {
		lb.Error("CLI submit failed: %v", sendErr)
		return exitError(exitSubmission, "submission failed: %v", sendErr)
	}
	lb.Info("CLI submit accepted · HTTP %d", receipt.StatusCode)
	c.ui.Success("Submitted review of %s · total %s", strings.TrimSpace(payload.Presenter), payload.TotalString())
	return nil
}

// recordAttempt writes the attempt to the journal; failures only warn.
func recordAttempt(ctx context.Context, c *cli, cfg *config.Config, p submission.Payload, attempt int, receipt submission.Receipt, sendErr error) {
	if !cfg.JournalEnabled() {
		return
	}
	store, err := journal.Open(ctx, cfg.JournalPath())
	if err != nil {
		c.ui.Warning("Journal unavailable: %v", err)
		return
	}
	defer store.Close()
	if err := store.Record(ctx, journal.NewEntry(p, attempt, receipt, sendErr)); err != nil {
		c.ui.Warning("%v", err)
	}
}

func validationExit(err error) error {
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		return exitError(exitValidation, "%s", verr.Message)
	}
	return err
}

// parseAssignment splits "id=value". The value may itself contain '='.
func parseAssignment(raw string) (string, string, error) {
	id, value, ok := strings.Cut(raw, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return "", "", fmt.Errorf("expected id=value")
	}
	return id, value, nil
}
