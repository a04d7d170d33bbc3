package cli

import (
	"fmt"

	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/core/lifecycle"
	"github.com/SscSPs/erp_finance/internal/utils/accounting"
	"github.com/SscSPs/erp_finance/pkg/money"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Derive the payment status of a document total and its payments",
		Long: `Sum the given payments, derive the balance and payment status, and,
when a document type and current status are given, the status the document
settles into.`,
		Example: `  financectl status --total 210 --paid 100
  financectl status --total 210 --paid 100 --paid 110 --type invoice --from sent`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
	cmd.Flags().String("total", "", "Document total (required)")
	cmd.Flags().StringSlice("paid", nil, "Completed payment amount; repeat for several payments")
	cmd.Flags().String("type", "", "Document type used to settle the document status")
	cmd.Flags().String("from", "", "Current document status; required with --type")
	_ = cmd.MarkFlagRequired("total")
	cmd.MarkFlagsRequiredTogether("type", "from")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	totalFlag, _ := cmd.Flags().GetString("total")
	paidFlags, _ := cmd.Flags().GetStringSlice("paid")
	typeFlag, _ := cmd.Flags().GetString("type")
	fromFlag, _ := cmd.Flags().GetString("from")

	total, err := money.Parse(totalFlag)
	if err != nil {
		return fmt.Errorf("--total: %w", err)
	}
	payments := make([]domain.PaymentRecord, 0, len(paidFlags))
	for _, p := range paidFlags {
		amount, err := money.Parse(p)
		if err != nil {
			return fmt.Errorf("--paid: %w", err)
		}
		if !amount.IsPositive() {
			return fmt.Errorf("--paid: payment %s must be greater than zero", p)
		}
		payments = append(payments, domain.PaymentRecord{Amount: amount, Status: domain.PaymentCompleted})
	}

	paid := accounting.SumCompletedPayments(payments)
	paymentStatus := accounting.DerivePaymentStatus(total, paid)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "amount paid:    %s\n", paid)
	fmt.Fprintf(out, "balance:        %s\n", total.Sub(paid))
	fmt.Fprintf(out, "payment status: %s\n", paymentStatus)

	if typeFlag == "" {
		return nil
	}
	table, err := lifecycle.For(domain.DocumentType(typeFlag))
	if err != nil {
		return err
	}
	from := domain.DocumentStatus(fromFlag)
	if !hasStatus(table, from) {
		return fmt.Errorf("%s has no status %q", table.DocumentType(), fromFlag)
	}
	fmt.Fprintf(out, "document status: %s -> %s\n", from, table.Settle(from, paymentStatus))
	return nil
}
