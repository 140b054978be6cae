package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"field-mapper/internal/diagnostic"
)

type CheckOptions struct {
	MappingOptions

	Dump bool
}

func DefaultCheckOptions(global *GlobalOptions) *CheckOptions {
	return &CheckOptions{
		MappingOptions: DefaultMappingOptions(global),
		Dump:           false,
	}
}

func NewCmdCheck(global *GlobalOptions) *cobra.Command {
	o := DefaultCheckOptions(global)
	cmd := &cobra.Command{
		Use:   "check -f FILE",
		Short: "Validate a mapping file and build every model it declares.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *CheckOptions) Bind(fs *pflag.FlagSet) {
	o.MappingOptions.Bind(fs)

	fs.BoolVar(&o.Dump, "dump", o.Dump, "Print the field table of every built model.")
}

func (o *CheckOptions) Run(ctx context.Context, out io.Writer) error {
	r, diags, err := o.load()
	if diags != nil {
		printDiagnostics(out, diags)
	}

	if err != nil {
		return err
	}

	dumper := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}

	failed := 0

	for _, name := range r.Models() {
		m, err := r.Build(name)
		if err != nil {
			failed++

			fmt.Fprintf(out, "FAIL %s: %v\n", name, err)

			continue
		}

		fmt.Fprintf(out, "ok   %s (%d fields)\n", name, len(m.Fields()))

		if o.Dump {
			dumper.Fdump(out, m.Fields())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d models failed to build", failed, len(r.Models()))
	}

	return nil
}

func printDiagnostics(out io.Writer, diags *diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		fmt.Fprintf(out, "%-7s %s\n", d.Severity, d)
	}
}
