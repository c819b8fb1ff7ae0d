package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/pkg/a11y"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/prompt"
	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/session"
	"github.com/goliatone/go-contactform/pkg/submit"
)

type fillOptions struct {
	dryRun bool
	rounds int
}

// NewFillCommand creates the fill command.
func NewFillCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &fillOptions{}
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill in and submit the form interactively",
		Long: `Ask for every field in turn, validating each answer as it is given, then
submit the form. Fields still failing whole-form validation are asked again.
Before asking again you can clear the form and start over. With --dry-run the
payload is printed and checked against the form's schema instead of being
sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(rootOpts, opts, cmd)
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the payload instead of submitting it")
	cmd.Flags().IntVar(&opts.rounds, "rounds", 3, "submit attempts before giving up on invalid answers")
	return cmd
}

func runFill(rootOpts *RootOptions, opts *fillOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := rootOpts.Logger(cmd)
	printer := Printer{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	form, err := rootOpts.LoadForm()
	if err != nil {
		return err
	}

	var submitter submit.Submitter
	if opts.dryRun {
		submitter = dryRunSubmitter{form: form, printer: printer}
	} else {
		client, err := submit.New(form, submit.WithLogger(logger))
		if err != nil {
			return err
		}
		submitter = client
	}

	var filler *prompt.Filler
	confirm := func(message string) bool {
		return filler != nil && filler.Confirm(message)
	}
	s, err := session.New(form, submitter, session.WithLogger(logger), session.WithConfirmer(confirm))
	if err != nil {
		return err
	}
	driver := rootOpts.NewDriver(cmd.OutOrStdout())
	filler, err = prompt.NewFiller(s, prompt.WithDriver(driver), prompt.WithLogger(logger))
	if err != nil {
		return err
	}

	autosaveCtx, stopAutosave := context.WithCancel(ctx)
	autosaveDone := make(chan error, 1)
	go func() { autosaveDone <- s.Autosave(autosaveCtx) }()
	defer func() {
		stopAutosave()
		if err := <-autosaveDone; err != nil {
			logger.Warn("autosave stopped", "error", err)
		}
	}()

	if err := filler.Fill(ctx); err != nil {
		return err
	}

	rounds := opts.rounds
	if rounds < 1 {
		rounds = 1
	}
	for round := 1; ; round++ {
		out, err := s.Submit(ctx)
		if err != nil {
			if alert := s.View().Alert; alert != "" && !printer.JSON() {
				printer.Line("✗ %s", alert)
			}
			return fmt.Errorf("submit: %w", err)
		}
		if out.Submitted {
			switch {
			case opts.dryRun:
			case printer.JSON():
				return printer.Value(out)
			default:
				printer.Line("✓ Submitted (status %d, id %s)", out.Result.Status, out.Result.ID)
			}
			return nil
		}
		if round >= rounds {
			return ErrInvalid
		}

		failing := out.Report.Errors()
		names := make([]string, 0, len(failing))
		messages := make([]string, 0, len(failing))
		for _, res := range failing {
			names = append(names, res.Field)
			messages = append(messages, res.Message)
		}
		if announcement, ok := a11y.Compose(messages); ok {
			if err := driver.Info(ctx, announcement.Text); err != nil {
				return err
			}
		}
		// Escape: once confirmed the form is cleared and asked from the top.
		if _, err := s.KeyDown(ctx, session.Key{Name: session.KeyEscape}); err != nil {
			return err
		}
		if len(s.View().Values) == 0 {
			logger.Debug("form cleared, starting over")
			names = s.Form().FieldNames()
		}
		if err := filler.FillFields(ctx, names); err != nil {
			return err
		}
	}
}

// DryRunOutput is what fill --dry-run prints instead of submitting.
type DryRunOutput struct {
	Pairs  []submit.Pair  `json:"pairs"`
	Issues []schema.Issue `json:"issues,omitempty"`
}

type dryRunSubmitter struct {
	form    model.Form
	printer Printer
}

func (d dryRunSubmitter) Submit(_ context.Context, data model.Data) (submit.Result, error) {
	out := DryRunOutput{Pairs: submit.Pairs(d.form.Payload, data)}
	issues, err := schema.Check(d.form, out.Pairs)
	if err != nil {
		return submit.Result{}, err
	}
	out.Issues = issues

	if d.printer.JSON() {
		if err := d.printer.Value(out); err != nil {
			return submit.Result{}, err
		}
	} else {
		for _, p := range out.Pairs {
			d.printer.Line("%s: %s", p.Name, p.Value)
		}
		for _, issue := range out.Issues {
			d.printer.Line("! %s: %s", issue.Field, issue.Reason)
		}
	}
	return submit.Result{ID: uuid.NewString()}, nil
}

// discardSubmitter backs sessions that are only validated or rendered.
type discardSubmitter struct{}

func (discardSubmitter) Submit(context.Context, model.Data) (submit.Result, error) {
	return submit.Result{}, nil
}
