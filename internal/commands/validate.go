package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finsynth/internal/accounts"
	"github.com/cleared-dev/finsynth/internal/model"
	"github.com/cleared-dev/finsynth/internal/trialbalance"
)

func newValidateCommand(opts *options) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a trial balance file and list every problem found",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cfg); err != nil {
				return err
			}

			// The period is optional here; only its ordering is checked.
			var start, end time.Time
			if cfg.Period.Start != "" || cfg.Period.End != "" {
				if start, end, err = cfg.Period.Dates(); err != nil {
					return err
				}
			}

			chart, err := opts.chart(cfg)
			if err != nil {
				return err
			}

			path := args[0]
			tb, err := opts.readTrialBalance(chart.Classifier(), path, entityFor(cfg, path), start, end)
			if err != nil {
				var ve *trialbalance.ValidationError
				if errors.As(err, &ve) && len(ve.Issues) > 0 {
					printIssues(cmd.OutOrStdout(), ve.Summary())
					return fmt.Errorf("%s: %d problem(s) found", path, len(ve.Issues))
				}
				return err
			}

			sum := trialbalance.Summarise(tb)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: balanced, %d accounts, debits %s, credits %s\n",
				path, sum.Accounts, sum.TotalDebits.StringFixed(2), sum.TotalCredits.StringFixed(2))
			if unknown := unchartedCodes(chart, tb); len(unknown) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d account(s) not in the chart of accounts: %s\n",
					path, len(unknown), strings.Join(unknown, ", "))
			}
			return nil
		},
	}

	flags.registerPeriod(cmd)

	return cmd
}

func printIssues(w io.Writer, s trialbalance.ValidationSummary) {
	for _, is := range s.Issues {
		fmt.Fprintf(w, "%s\t%s\n", is.Kind, is.Message)
	}
}

// unchartedCodes lists the codes on tb that the chart does not define. They
// were classified by code range or name keywords.
func unchartedCodes(chart *accounts.Service, tb *model.TrialBalance) []string {
	var codes []string
	for _, a := range tb.Accounts {
		if !chart.Exists(a.Code) {
			codes = append(codes, a.Code)
		}
	}
	return codes
}
