package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	appName         = "fieldmap"
	defaultLogLevel = "warning"
)

type GlobalOptions struct {
	ConfigFile string
	LogLevel   string

	// Config is loaded from ConfigFile by Complete.
	Config Config
	Log    *logrus.Logger
}

func DefaultGlobalOptions() *GlobalOptions {
	return &GlobalOptions{
		ConfigFile: "",
		LogLevel:   defaultLogLevel,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Read default flag values from this YAML file.")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level (panic, fatal, error, warning, info, debug, trace).")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	if o.ConfigFile != "" {
		cfg, err := LoadConfig(o.ConfigFile)
		if err != nil {
			return err
		}

		o.Config = *cfg
	}

	if !cmd.Flags().Changed("log-level") && o.Config.LogLevel != "" {
		o.LogLevel = o.Config.LogLevel
	}

	level, err := logrus.ParseLevel(o.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log-level: %w", err)
	}

	o.Log = initLogs(cmd)
	o.Log.SetLevel(level)

	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	return nil
}

// fromConfig overwrites *dst with the configured value unless the flag was
// set on the command line.
func fromConfig(cmd *cobra.Command, flag string, dst *string, configured string) {
	if configured != "" && !cmd.Flags().Changed(flag) {
		*dst = configured
	}
}

func initLogs(cmd *cobra.Command) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	return log
}
