package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nahguam/kafkacli/pkg/registry"
)

func (c *cli) schemasCmd() *cobra.Command {
	var (
		req     registry.Request
		subject string
		version uint32
	)

	schemasCmd := &cobra.Command{
		Use:   "schemas [escaped_schema]",
		Short: "Interact with the Confluent Schema Registry",
		Long: `Interact with the Confluent Schema Registry

Exactly one operation is selected by the flags:

  --list                                  list subjects
  --subject S                             list the versions of S
  --subject S --version V [--schema]      get version V of S
  --subject S --version V --delete        delete version V of S
  --subject S --version V --check [body]  check compatibility against V
  --subject S --delete                    delete S
  --subject S --check [body]              look up body under S
  --subject S --register [body]           register body under S

The body is sent as given. Without the escaped_schema argument it is read
from piped input. Pass --wrap to send {"schema": "<body>"} instead.
The registry response is printed unchanged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			c.bind(cmd, "url")

			url, err := c.required("url")
			if err != nil {
				return err
			}
			req.URL = url

			flags := cmd.Flags()
			req.Subject = nil
			if flags.Changed("subject") {
				req.Subject = &subject
			}
			req.Version = nil
			if flags.Changed("version") {
				req.Version = &version
			}
			req.EscapedSchema = nil
			if len(args) == 1 {
				req.EscapedSchema = &args[0]
			}

			tlsConfig, err := c.registryTLS()
			if err != nil {
				return err
			}

			log := c.logger()
			d := registry.NewDispatcher(registry.NewClient(tlsConfig, log), c.streams.In, c.streams.Out, log)

			ctx, cancel := signalContext()
			defer cancel()

			out, err := d.Dispatch(ctx, req)
			if err != nil {
				return err
			}

			if !out.OK() {
				fmt.Fprintln(c.streams.Err, out.Body)
				return &exitError{code: 1}
			}

			fmt.Fprintln(c.streams.Out, out.Body)
			return nil
		}),
	}

	f := schemasCmd.Flags()
	f.StringP("url", "u", "", "Schema Registry URL")
	f.BoolVarP(&req.List, "list", "l", false, "List subjects")
	f.StringVarP(&subject, "subject", "s", "", "Subject")
	f.Uint32VarP(&version, "version", "v", 0, "Subject version")
	f.BoolVarP(&req.Delete, "delete", "d", false, "Delete a subject or subject version")
	f.BoolVar(&req.Schema, "schema", false, "Return the unescaped schema")
	f.BoolVarP(&req.Register, "register", "r", false, "Register a new schema")
	f.BoolVarP(&req.Check, "check", "c", false, "Check a schema")
	f.BoolVar(&req.Deleted, "deleted", false, "Include soft-deleted subjects when listing")
	f.BoolVar(&req.Permanent, "permanent", false, "Hard delete a soft-deleted subject or version")
	f.BoolVar(&req.Wrap, "wrap", false, "Wrap the body into a registry request document")

	return schemasCmd
}
