package cli

import (
	"github.com/spf13/cobra"
)

func NewCmdRoot() *cobra.Command {
	global := DefaultGlobalOptions()
	cmd := &cobra.Command{
		Use:   appName,
		Short: appName + " converts records between DTO and entity shapes using declared field mappings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
	global.Bind(cmd.PersistentFlags())

	cmd.AddCommand(NewCmdCheck(global))
	cmd.AddCommand(NewCmdSerialize(global))
	cmd.AddCommand(NewCmdDeserialize(global))
	cmd.AddCommand(NewCmdExport(global))
	cmd.AddCommand(NewCmdSuggest(global))
	return cmd
}
