package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"field-mapper/internal/analyze"
	"field-mapper/mapping"
)

type ExportOptions struct {
	*GlobalOptions

	Naming string
	Dir    string
	Write  string

	naming mapping.Naming
}

func DefaultExportOptions(global *GlobalOptions) *ExportOptions {
	return &ExportOptions{
		GlobalOptions: global,
		Naming:        string(mapping.NamingNone),
		Dir:           "",
		Write:         "",
	}
}

func NewCmdExport(global *GlobalOptions) *cobra.Command {
	o := DefaultExportOptions(global)
	cmd := &cobra.Command{
		Use:   "export PATTERN...",
		Short: "Generate a mapping file from the map tags of Go structs.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd.OutOrStdout(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ExportOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.Naming, "naming", o.Naming, "DTO key naming for fields without a json name. One of: (none, snake, camel, kebab).")
	fs.StringVar(&o.Dir, "dir", o.Dir, "Directory package patterns are resolved from.")
	fs.StringVarP(&o.Write, "write", "w", o.Write, "Write the mapping file to this path instead of stdout.")
}

func (o *ExportOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}

	fromConfig(cmd, "naming", &o.Naming, o.Config.Naming)

	return nil
}

func (o *ExportOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	naming, err := mapping.ParseNaming(o.Naming)
	if err != nil {
		return err
	}

	o.naming = naming

	return nil
}

func (o *ExportOptions) Run(ctx context.Context, out io.Writer, args []string) error {
	mf, err := analyze.ExportPackages(o.naming, args,
		analyze.WithDir(o.Dir),
		analyze.WithLogger(o.Log),
	)
	if err != nil {
		return fmt.Errorf("exporting %v: %w", args, err)
	}

	diags := mapping.Validate(mf, nil)
	for _, w := range diags.Warnings {
		o.Log.WithField("code", w.Code).Warn(w.String())
	}

	if err := diags.Error(); err != nil {
		return fmt.Errorf("exported declarations are invalid: %w", err)
	}

	if o.Write != "" {
		if err := mapping.WriteFile(mf, o.Write); err != nil {
			return err
		}

		o.Log.WithField("file", o.Write).WithField("models", len(mf.Models)).Info("mapping file written")

		return nil
	}

	data, err := mapping.Marshal(mf)
	if err != nil {
		return fmt.Errorf("encoding mapping file: %w", err)
	}

	_, err = out.Write(data)

	return err
}
