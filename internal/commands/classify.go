package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsynth/internal/accounts"
)

func newClassifyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <code> [name...]",
		Short: "Show how an account is classified",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			chart, err := opts.chart(cfg)
			if err != nil {
				return err
			}

			// Without a name the chart's own name drives keyword rules.
			code, name := args[0], strings.Join(args[1:], " ")
			label := name
			if a, ok := chart.Get(code); ok {
				label = a.Name
			} else if a, ok := accounts.Lookup(code); ok {
				label = a.Name
			}
			if name == "" {
				name = label
			}
			got := chart.Classifier().Classify(code, name)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", code, got.Type, got.Subtype, label)
			return nil
		},
	}
}
