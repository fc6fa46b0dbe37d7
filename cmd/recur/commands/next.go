package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNextCmd(opts *rootOptions) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the next occurrence after a date",
		Long: `Print the next date the recurrence is due after --from (default today),
or "none" when the series has ended.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.descriptor(cmd)
			if err != nil {
				return err
			}
			ref, err := parseDate(from)
			if err != nil {
				return err
			}

			engine := opts.engine()
			defer engine.Close()

			next, ok := engine.Next(d, ref).Get()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "none")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), next.Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Reference date (YYYY-MM-DD), default today")
	return cmd
}

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var (
		from  string
		count int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print several upcoming occurrences",
		Long: `Print up to -n dates the recurrence falls on after --from, as a task would
see them if it were completed on each due date in turn.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.descriptor(cmd)
			if err != nil {
				return err
			}
			ref, err := parseDate(from)
			if err != nil {
				return err
			}
			if count < 1 {
				return fmt.Errorf("-n must be at least 1")
			}

			engine := opts.engine()
			defer engine.Close()

			for _, t := range engine.Preview(d, ref, count) {
				fmt.Fprintln(cmd.OutOrStdout(), t.Format(dateLayout))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Reference date (YYYY-MM-DD), default today")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of occurrences")
	return cmd
}
