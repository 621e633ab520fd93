package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsynth/internal/render"
)

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the json output format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render.WriteSchema(cmd.OutOrStdout())
		},
	}
}
