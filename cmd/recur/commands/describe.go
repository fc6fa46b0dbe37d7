package commands

import (
	"fmt"

	"github.com/cyp0633/librecur/recurrence"
	"github.com/spf13/cobra"
	"github.com/teambition/rrule-go"
)

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	var (
		verbose bool
		layout  string
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the recurrence in plain English",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.descriptor(cmd)
			if err != nil {
				return err
			}

			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), d.Verbose(layout))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), d.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Include bounds, remaining count and weekend handling")
	cmd.Flags().StringVar(&layout, "layout", recurrence.DefaultDateLayout, "Go time layout for dates in verbose output")
	return cmd
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every field of the descriptor",
		Long:  `Report every out-of-range field at once. Unknown interval units are rejected here even though the engine tolerates them.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.descriptor(cmd)
			if err != nil {
				return err
			}
			if err := d.Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newRRuleCmd(opts *rootOptions) *cobra.Command {
	var dtstart string

	cmd := &cobra.Command{
		Use:   "rrule",
		Short: "Print the equivalent RFC 5545 RRULE",
		Long: `Print the recurrence as an RRULE value. With --dtstart the output is the
two-line DTSTART and RRULE form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.descriptor(cmd)
			if err != nil {
				return err
			}

			opt, err := d.ROption()
			if err != nil {
				return err
			}
			if dtstart == "" {
				fmt.Fprintln(cmd.OutOrStdout(), opt.RRuleString())
				return nil
			}

			start, err := parseDate(dtstart)
			if err != nil {
				return err
			}
			opt.Dtstart = start
			rule, err := rrule.NewRRule(*opt)
			if err != nil {
				return fmt.Errorf("failed to build rule: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rule.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&dtstart, "dtstart", "", "Series start (YYYY-MM-DD)")
	return cmd
}
