package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/session"
)

type renderOptions struct {
	values       string
	output       string
	validate     bool
	templatesDir string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form as HTML",
		Long:  "Render the form as HTML, optionally pre-filled from a values file and showing validation states.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.values, "values", "", "YAML or JSON values file to pre-fill")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "run whole-form validation before rendering")
	cmd.Flags().StringVar(&opts.templatesDir, "templates", "", "directory with form.tpl and field.tpl overrides")
	return cmd
}

func runRender(rootOpts *RootOptions, opts *renderOptions, cmd *cobra.Command) error {
	logger := rootOpts.Logger(cmd)
	form, err := rootOpts.LoadForm()
	if err != nil {
		return err
	}
	s, err := session.New(form, discardSubmitter{}, session.WithLogger(logger))
	if err != nil {
		return err
	}
	if opts.values != "" {
		values, err := LoadValues(opts.values)
		if err != nil {
			return err
		}
		if err := ApplyValues(s, values); err != nil {
			return err
		}
	}
	if opts.validate {
		s.Validate()
	}

	renderer, err := render.New(render.WithTemplatesDir(opts.templatesDir), render.WithLogger(logger))
	if err != nil {
		return err
	}
	html, err := renderer.Render(cmd.Context(), s.View())
	if err != nil {
		return err
	}
	if opts.output != "" {
		if err := os.WriteFile(opts.output, html, 0o644); err != nil {
			return err
		}
		cmd.PrintErrf("Form written to %s\n", opts.output)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(html)
	return err
}
