package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"field-mapper/internal/diagnostic"
	"field-mapper/mapping"
)

// MappingOptions selects the declaration file shared by check, serialize
// and deserialize.
type MappingOptions struct {
	*GlobalOptions

	File   string
	Strict bool
}

func DefaultMappingOptions(global *GlobalOptions) MappingOptions {
	return MappingOptions{
		GlobalOptions: global,
		File:          "",
		Strict:        false,
	}
}

func (o *MappingOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.File, "file", "f", o.File, "Mapping declaration file (YAML).")
	fs.BoolVar(&o.Strict, "strict", o.Strict, "Treat fields sharing an entity key as errors.")
}

func (o *MappingOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}

	fromConfig(cmd, "file", &o.File, o.Config.Mapping)

	if o.Config.Strict && !cmd.Flags().Changed("strict") {
		o.Strict = true
	}

	return nil
}

func (o *MappingOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	if o.File == "" {
		return fmt.Errorf("a mapping file must be specified with --file or in the config file")
	}

	return nil
}

// load parses and validates the mapping file, then declares its models in
// a new registry. Diagnostics are returned even when err is set.
func (o *MappingOptions) load() (*mapping.Registry, *diagnostic.Diagnostics, error) {
	mf, err := mapping.LoadFile(o.File)
	if err != nil {
		return nil, nil, err
	}

	r := mapping.NewRegistry(mapping.WithLogger(o.Log), mapping.WithStrict(o.Strict))

	diags := mapping.Validate(mf, r.Transforms())
	if err := diags.Error(); err != nil {
		return nil, diags, fmt.Errorf("invalid mapping file %s: %w", o.File, err)
	}

	if err := r.DeclareFile(mf); err != nil {
		return nil, diags, err
	}

	o.Log.WithField("file", o.File).WithField("models", len(mf.Models)).Debug("mapping file loaded")

	return r, diags, nil
}
