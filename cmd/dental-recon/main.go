package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:          "dental-recon",
		Short:        "Dental appointment reconciliation and outreach reports",
		SilenceUsage: true,
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&opts.date, "date", "", "event date as YYYYMMDD (prompted when omitted)")
	f.StringVar(&opts.campaign, "campaign", "", "outreach campaign name (overrides CAMPAIGN_NAME)")
	f.StringVar(&opts.location, "location", "", "outreach location filter (overrides OUTREACH_LOCATION_FILTER)")
	f.BoolVar(&opts.digitsOnly, "digits-only", false, "strip non-digits from outreach phone numbers")

	rootCmd.AddCommand(runCmd(opts))
	rootCmd.AddCommand(branchCmd(opts, "reconcile", "Write the MRN comparison workbook", targetsReconcile))
	rootCmd.AddCommand(branchCmd(opts, "bookings", "Write the dental bookings workbook", targetsBookings))
	rootCmd.AddCommand(branchCmd(opts, "outreach", "Write the outreach contact list", targetsOutreach))
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

func runCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every configured output target",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReports(cmd, opts, targetsConfigured)
		},
	}
	cmd.Flags().StringVar(&opts.targets, "targets", "", "comma-separated output targets (overrides OUTPUT_TARGETS)")
	return cmd
}

func branchCmd(opts *options, use, short string, targets targetSelector) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReports(cmd, opts, targets)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the reporting API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd)
		},
	}
}
