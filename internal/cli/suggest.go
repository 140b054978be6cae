package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"field-mapper/internal/analyze"
	"field-mapper/internal/match"
	"field-mapper/mapping"
)

type SuggestOptions struct {
	*GlobalOptions

	DTO        string
	Entity     string
	Name       string
	Naming     string
	Dir        string
	Write      string
	MinScore   float64
	MinGap     float64
	WithTagged bool

	naming mapping.Naming
}

func DefaultSuggestOptions(global *GlobalOptions) *SuggestOptions {
	defaults := match.DefaultOptions()

	return &SuggestOptions{
		GlobalOptions: global,
		Naming:        string(defaults.Naming),
		MinScore:      defaults.MinScore,
		MinGap:        defaults.MinGap,
	}
}

func NewCmdSuggest(global *GlobalOptions) *cobra.Command {
	o := DefaultSuggestOptions(global)
	cmd := &cobra.Command{
		Use:   "suggest --dto NAME --entity NAME PATTERN...",
		Short: "Suggest a model declaration for an untagged DTO struct by matching it against an entity struct.",
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

func (o *SuggestOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.DTO, "dto", o.DTO, "DTO struct, as a bare name or import/path.Name.")
	fs.StringVar(&o.Entity, "entity", o.Entity, "Entity struct, as a bare name or import/path.Name.")
	fs.StringVar(&o.Name, "name", o.Name, "Model name of the suggestion. Defaults to the DTO struct name.")
	fs.StringVar(&o.Naming, "naming", o.Naming, "DTO key naming for fields without a json name. One of: (none, snake, camel, kebab).")
	fs.StringVar(&o.Dir, "dir", o.Dir, "Directory package patterns are resolved from.")
	fs.StringVarP(&o.Write, "write", "w", o.Write, "Write the mapping file to this path instead of stdout.")
	fs.Float64Var(&o.MinScore, "min-score", o.MinScore, "Lowest match score (0-1) accepted for a field.")
	fs.Float64Var(&o.MinGap, "min-gap", o.MinGap, "Lead the best match needs over the runner-up.")
	fs.BoolVar(&o.WithTagged, "with-tagged", o.WithTagged, "Also export the models declared by map tags in the same packages.")
}

func (o *SuggestOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}

	fromConfig(cmd, "naming", &o.Naming, o.Config.Naming)

	return nil
}

func (o *SuggestOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	if o.DTO == "" || o.Entity == "" {
		return errors.New("both --dto and --entity must be specified")
	}

	if o.MinScore < 0 || o.MinScore > 1 {
		return fmt.Errorf("min-score must be between 0 and 1, got %v", o.MinScore)
	}

	if o.MinGap < 0 || o.MinGap > 1 {
		return fmt.Errorf("min-gap must be between 0 and 1, got %v", o.MinGap)
	}

	naming, err := mapping.ParseNaming(o.Naming)
	if err != nil {
		return err
	}

	o.naming = naming

	return nil
}

func (o *SuggestOptions) Run(ctx context.Context, out io.Writer, args []string) error {
	graph, err := analyze.NewAnalyzer(analyze.WithDir(o.Dir), analyze.WithLogger(o.Log)).LoadPackages(args...)
	if err != nil {
		return fmt.Errorf("loading %v: %w", args, err)
	}

	dto, err := graph.FindStruct(o.DTO)
	if err != nil {
		return err
	}

	entity, err := graph.FindStruct(o.Entity)
	if err != nil {
		return err
	}

	name := o.Name
	if name == "" {
		name = dto.ID.Name
	}

	decl, diags, err := match.Suggest(name, dto, entity, match.Options{
		Naming:   o.naming,
		MinScore: o.MinScore,
		MinGap:   o.MinGap,
	})
	if err != nil {
		return err
	}

	for _, d := range diags.Infos {
		o.Log.WithFields(logrus.Fields{"code": d.Code, "field": d.Field}).Debug(d.Message)
	}

	for _, d := range diags.Warnings {
		o.Log.WithField("code", d.Code).Warn(d.String())
	}

	mf := &mapping.MappingFile{Version: mapping.CurrentVersion}

	if o.WithTagged {
		if mf, err = analyze.Export(graph, o.naming); err != nil {
			return fmt.Errorf("exporting %v: %w", args, err)
		}

		if slices.ContainsFunc(mf.Models, func(m mapping.ModelDecl) bool { return m.Name == name }) {
			return fmt.Errorf("%w: %s, choose another one with --name", mapping.ErrAlreadyDeclared, name)
		}
	}

	mf.Models = append(mf.Models, decl)

	if o.WithTagged {
		if err := mapping.Validate(mf, nil).Error(); err != nil {
			return fmt.Errorf("suggested declarations are invalid: %w", err)
		}
	}

	if o.Write != "" {
		if err := mapping.WriteFile(mf, o.Write); err != nil {
			return err
		}

		o.Log.WithField("file", o.Write).WithField("model", name).Info("suggestion written")

		return nil
	}

	data, err := mapping.Marshal(mf)
	if err != nil {
		return fmt.Errorf("encoding mapping file: %w", err)
	}

	_, err = out.Write(data)

	return err
}
