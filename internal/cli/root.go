package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/pkg/formdef"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/prompt"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	FormPath string
	Endpoint string
	Verbose  bool
	Format   string // "json" | "text"

	// NewDriver builds the terminal driver used by fill.
	NewDriver func(out io.Writer) prompt.Driver
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the contactform CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{NewDriver: prompt.NewSurveyDriver}

	cmd := &cobra.Command{
		Use:           "contactform",
		Short:         "Validate, fill and submit contact forms",
		Long:          "Fill a contact form from the terminal, check values files against its rules, render it as HTML and publish its payload schema.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.FormPath, "form", "f", "", "form definition (.yaml, .json or .toml); the built-in application form when empty")
	cmd.PersistentFlags().StringVar(&opts.Endpoint, "endpoint", "", "override the form's submission endpoint")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewFillCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))

	return cmd
}

// Logger builds the command logger: text to stderr, debug when verbose.
func (o *RootOptions) Logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// LoadForm reads the configured form definition and applies the endpoint
// override.
func (o *RootOptions) LoadForm() (model.Form, error) {
	form := formdef.Default()
	if path := strings.TrimSpace(o.FormPath); path != "" {
		loaded, err := formdef.Load(path)
		if err != nil {
			return model.Form{}, err
		}
		form = loaded
	}
	if endpoint := strings.TrimSpace(o.Endpoint); endpoint != "" {
		form.Endpoint = endpoint
	}
	return form, nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
