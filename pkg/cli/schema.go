package cli

import (
	"github.com/getmockd/httpstub/pkg/config"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of fixture files",
	Long: `Print the JSON Schema (draft 2020-12) that lint checks fixture files
against. Point an editor's YAML or JSON language server at it for completion.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(config.Schema())
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
