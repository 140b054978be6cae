package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"field-mapper/mapper"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"

	serializeDirection   = "serialize"
	deserializeDirection = "deserialize"
)

var legalOutputTypes = []string{jsonFormat, yamlFormat}

type ConvertOptions struct {
	MappingOptions

	Model  string
	Scope  string
	Output string

	direction string
}

func DefaultConvertOptions(global *GlobalOptions, direction string) *ConvertOptions {
	return &ConvertOptions{
		MappingOptions: DefaultMappingOptions(global),
		Model:          "",
		Scope:          string(mapper.NoScope),
		Output:         jsonFormat,
		direction:      direction,
	}
}

func NewCmdSerialize(global *GlobalOptions) *cobra.Command {
	return newConvertCommand(
		DefaultConvertOptions(global, serializeDirection),
		"serialize -f FILE -m MODEL [INPUT]",
		"Convert an entity document into the DTO of a model.",
	)
}

func NewCmdDeserialize(global *GlobalOptions) *cobra.Command {
	return newConvertCommand(
		DefaultConvertOptions(global, deserializeDirection),
		"deserialize -f FILE -m MODEL [INPUT]",
		"Convert a DTO document into the entity of a model.",
	)
}

func newConvertCommand(o *ConvertOptions, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + "\nThe input is read from the INPUT file, or from stdin when INPUT is omitted or \"-\". JSON and YAML are accepted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ConvertOptions) Bind(fs *pflag.FlagSet) {
	o.MappingOptions.Bind(fs)

	fs.StringVarP(&o.Model, "model", "m", o.Model, "Name of the declared model to use.")
	fs.StringVar(&o.Scope, "scope", o.Scope, "Scope presented by the caller. Fields restricted to other scopes are skipped.")
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
}

func (o *ConvertOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.MappingOptions.Complete(cmd, args); err != nil {
		return err
	}

	fromConfig(cmd, "scope", &o.Scope, o.Config.Scope)
	fromConfig(cmd, "output", &o.Output, o.Config.Output)

	return nil
}

func (o *ConvertOptions) Validate(args []string) error {
	if err := o.MappingOptions.Validate(args); err != nil {
		return err
	}

	if o.Model == "" {
		return fmt.Errorf("a model must be specified with --model")
	}

	if !slices.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of (%s)", strings.Join(legalOutputTypes, ", "))
	}

	return nil
}

func (o *ConvertOptions) Run(ctx context.Context, in io.Reader, out io.Writer, args []string) error {
	r, _, err := o.load()
	if err != nil {
		return err
	}

	m, err := r.Build(o.Model)
	if err != nil {
		return err
	}

	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		defer f.Close()

		in = f
	}

	rec, err := readRecord(in)
	if err != nil {
		return err
	}

	scope := mapper.Scope(o.Scope)

	var result mapper.Record
	if o.direction == serializeDirection {
		result, err = m.Serialize(rec, scope)
	} else {
		result, err = m.Deserialize(rec, scope)
	}

	if err != nil {
		return fmt.Errorf("%s %s: %w", o.direction, o.Model, err)
	}

	o.Log.WithField("model", o.Model).WithField("scope", o.Scope).Debugf("%s done", o.direction)

	return writeRecord(out, o.Output, result)
}
