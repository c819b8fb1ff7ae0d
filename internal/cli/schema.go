package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/pkg/schema"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	var payloadOnly bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the OpenAPI description of the form submission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := rootOpts.LoadForm()
			if err != nil {
				return err
			}
			printer := Printer{Format: "json", Writer: cmd.OutOrStdout()}
			if payloadOnly {
				payload, err := schema.Payload(form)
				if err != nil {
					return err
				}
				return printer.Value(payload)
			}
			doc, err := schema.Document(form)
			if err != nil {
				return err
			}
			if err := doc.Validate(cmd.Context()); err != nil {
				return err
			}
			return printer.Value(doc)
		},
	}
	cmd.Flags().BoolVar(&payloadOnly, "payload", false, "print only the payload schema")
	return cmd
}
