package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"banking-ledger/internal/domain/loan"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(amortizeCmd)

	f := amortizeCmd.Flags()
	f.String("principal", "", "Loan principal, e.g. 10000.00")
	f.String("rate", "", "Annual interest rate in percent, e.g. 12.5")
	f.Int("term", 0, "Term in months")
	f.Bool("schedule", false, "Print every installment")
	f.String("start", "", "Start date for installment due dates (YYYY-MM-DD, default today)")
	_ = amortizeCmd.MarkFlagRequired("principal")
	_ = amortizeCmd.MarkFlagRequired("rate")
	_ = amortizeCmd.MarkFlagRequired("term")
}

var amortizeCmd = &cobra.Command{
	Use:   "amortize",
	Short: "Print the fixed monthly payment for a loan without touching the database",
	Args:  cobra.NoArgs,
	RunE:  runAmortize,
}

func runAmortize(cmd *cobra.Command, _ []string) error {
	principalStr, _ := cmd.Flags().GetString("principal")
	rateStr, _ := cmd.Flags().GetString("rate")
	term, _ := cmd.Flags().GetInt("term")
	withRows, _ := cmd.Flags().GetBool("schedule")
	startStr, _ := cmd.Flags().GetString("start")

	principal, err := decimal.NewFromString(principalStr)
	if err != nil {
		return fmt.Errorf("invalid --principal %q", principalStr)
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return fmt.Errorf("invalid --rate %q", rateStr)
	}

	s, err := loan.ComputeSchedule(principal, rate, term)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Monthly payment: %s\n", s.MonthlyPayment.StringFixed(2))
	fmt.Fprintf(out, "Total payment:   %s\n", s.TotalPayment.StringFixed(2))
	fmt.Fprintf(out, "Total interest:  %s\n", s.TotalInterest.StringFixed(2))
	if !withRows {
		return nil
	}

	start := time.Now().UTC()
	if startStr != "" {
		if start, err = time.Parse(time.DateOnly, startStr); err != nil {
			return fmt.Errorf("invalid --start %q", startStr)
		}
	}
	rows, err := loan.BuildInstallments(principal, rate, term, start)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "PERIOD\tDUE\tPAYMENT\tPRINCIPAL\tINTEREST\tBALANCE\t")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t\n", r.Period, r.DueDate.Format(time.DateOnly),
			r.Payment.StringFixed(2), r.Principal.StringFixed(2), r.Interest.StringFixed(2), r.RemainingBalance.StringFixed(2))
	}
	return w.Flush()
}
