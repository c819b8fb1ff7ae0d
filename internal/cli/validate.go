package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/pkg/a11y"
	"github.com/goliatone/go-contactform/pkg/session"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// ErrInvalid is returned when validated values do not pass the form rules.
var ErrInvalid = errors.New("form has validation errors")

// ValidationOutput is the result printed by validate.
type ValidationOutput struct {
	Valid        bool                     `json:"valid"`
	Errors       []validation.FieldResult `json:"errors,omitempty"`
	Notices      []string                 `json:"notices,omitempty"`
	Announcement string                   `json:"announcement,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <values-file>",
		Short: "Check a values file against the form rules",
		Long: `Replay a YAML or JSON values file into the form and run whole-form validation.

Prints every failing field, non-blocking notices and the announcement screen
readers would hear. Exits non-zero when the values are invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, valuesPath string, cmd *cobra.Command) error {
	form, err := opts.LoadForm()
	if err != nil {
		return err
	}
	values, err := LoadValues(valuesPath)
	if err != nil {
		return err
	}
	s, err := session.New(form, discardSubmitter{}, session.WithLogger(opts.Logger(cmd)))
	if err != nil {
		return err
	}
	if err := ApplyValues(s, values); err != nil {
		return err
	}

	report := s.Validate()
	out := ValidationOutput{
		Valid:   report.Valid,
		Errors:  report.Errors(),
		Notices: report.Notices,
	}
	messages := make([]string, 0, len(out.Errors))
	for _, res := range out.Errors {
		messages = append(messages, res.Message)
	}
	if announcement, ok := a11y.Compose(messages); ok {
		out.Announcement = announcement.Text
	}

	printer := Printer{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if printer.JSON() {
		if err := printer.Value(out); err != nil {
			return err
		}
	} else {
		if out.Valid {
			printer.Line("✓ Form is valid")
		}
		for _, res := range out.Errors {
			printer.Line("✗ %s: %s", res.Field, res.Message)
		}
		for _, notice := range out.Notices {
			printer.Line("• %s", notice)
		}
		if out.Announcement != "" {
			printer.Line("Announcement: %s", out.Announcement)
		}
	}

	if !out.Valid {
		return ErrInvalid
	}
	return nil
}
