package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/core/lifecycle"
	"github.com/spf13/cobra"
)

func newTransitionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transitions [document-type]",
		Short: "Print the status transition table of a document type",
		Long: `Print every (status, action) cell of a document type's lifecycle.

Allowed cells may be requested by callers, denied cells carry the reason they
are refused, and derived cells are only ever applied by the payment ledger.`,
		Example: `  financectl transitions invoice
  financectl transitions pos_transaction --status pending`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: documentTypeNames(),
		RunE:      runTransitions,
	}
	cmd.Flags().String("status", "", "Only print the cells of this status")
	return cmd
}

func runTransitions(cmd *cobra.Command, args []string) error {
	table, err := lifecycle.For(domain.DocumentType(args[0]))
	if err != nil {
		return err
	}
	statusFlag, _ := cmd.Flags().GetString("status")

	statuses := table.Statuses()
	if statusFlag != "" {
		statuses = []domain.DocumentStatus{domain.DocumentStatus(statusFlag)}
		if !hasStatus(table, statuses[0]) {
			return fmt.Errorf("%s has no status %q", table.DocumentType(), statusFlag)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (initial status: %s)\n\n", table.DocumentType(), table.Initial())

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FROM\tACTION\tRULE\tTO / REASON")
	for _, status := range statuses {
		for _, cell := range table.Cells(status) {
			target := string(cell.Rule.To)
			if cell.Rule.Kind == lifecycle.Denied {
				target = cell.Rule.Reason
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", status, cell.Action, cell.Rule.Kind, target)
		}
	}
	return w.Flush()
}

func documentTypeNames() []string {
	names := make([]string, len(domain.DocumentTypes))
	for i, t := range domain.DocumentTypes {
		names[i] = string(t)
	}
	return names
}

func hasStatus(table *lifecycle.Table, s domain.DocumentStatus) bool {
	for _, known := range table.Statuses() {
		if known == s {
			return true
		}
	}
	return false
}
