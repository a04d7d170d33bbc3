package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/dto"
	"github.com/SscSPs/erp_finance/internal/utils"
	"github.com/SscSPs/erp_finance/internal/utils/accounting"
	"github.com/spf13/cobra"
)

// totalsInput is the document file read by the totals command.
type totalsInput struct {
	CurrencyCode string              `json:"currencyCode"`
	Items        []dto.LineItemInput `json:"items"`
	Adjustments  domain.Adjustments  `json:"adjustments"`
}

// totalsOutput is the JSON form of a priced document.
type totalsOutput struct {
	CurrencyCode string                `json:"currencyCode,omitempty"`
	Items        []domain.LineItem     `json:"items"`
	Totals       domain.DocumentTotals `json:"totals"`
}

func newTotalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "totals [document.json]",
		Short: "Compute line and document totals for a document file",
		Long: `Read a document (line items and adjustments) as JSON and print the
line totals, line taxes and document totals exactly as the API computes them.

Amounts must be JSON strings such as "15.00". Use "-" to read from stdin.`,
		Example: `  # Price a document file
  financectl totals quote.json

  # Reject documents whose discounts exceed their value
  financectl totals quote.json --policy reject

  # Machine readable output
  cat quote.json | financectl totals - --output json`,
		Args: cobra.ExactArgs(1),
		RunE: runTotals,
	}
	cmd.Flags().String("policy", string(accounting.AllowNegative), "Negative total policy: allow, clamp or reject")
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	cmd.Flags().String("thousands-sep", ",", "Thousands separator for text output")
	return cmd
}

func runTotals(cmd *cobra.Command, args []string) error {
	policyFlag, _ := cmd.Flags().GetString("policy")
	output, _ := cmd.Flags().GetString("output")
	thousandsSep, _ := cmd.Flags().GetString("thousands-sep")

	policy, err := accounting.ParseNegativeTotalPolicy(policyFlag)
	if err != nil {
		return err
	}
	if output != "text" && output != "json" {
		return fmt.Errorf("unknown output format %q", output)
	}

	input, err := readTotalsInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	slog.Debug("Document loaded", slog.String("source", args[0]), slog.Int("items", len(input.Items)))

	items := make([]domain.LineItem, len(input.Items))
	for i, in := range input.Items {
		if items[i], err = in.ToLineItem(i + 1); err != nil {
			return err
		}
	}
	if err := accounting.PriceLines(items); err != nil {
		return err
	}
	totals, err := accounting.ComputeTotals(items, input.Adjustments, policy)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(totalsOutput{CurrencyCode: input.CurrencyCode, Items: items, Totals: totals})
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tDESCRIPTION\tQTY\tPRICE\tDISCOUNT\tTAX %\tLINE TOTAL\tLINE TAX\t")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			item.Position, item.Description,
			item.Quantity.Exact(), item.UnitPrice.Exact(), item.DiscountAmount.Exact(), item.TaxRate.Exact(),
			utils.FormatAmount(item.LineTotal, input.CurrencyCode, thousandsSep),
			utils.FormatAmount(item.LineTax, input.CurrencyCode, thousandsSep))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	rows := []struct {
		label string
		value string
	}{
		{"Subtotal", utils.FormatAmount(totals.Subtotal, input.CurrencyCode, thousandsSep)},
		{"Tax", utils.FormatAmount(totals.TaxAmount, input.CurrencyCode, thousandsSep)},
		{"Shipping", utils.FormatAmount(totals.ShippingAmount, input.CurrencyCode, thousandsSep)},
		{"Discount", utils.FormatAmount(totals.DiscountAmount.Neg(), input.CurrencyCode, thousandsSep)},
		{"Total", utils.FormatAmount(totals.TotalAmount, input.CurrencyCode, thousandsSep)},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t\n", row.label, row.value)
	}
	return w.Flush()
}

func readTotalsInput(stdin io.Reader, path string) (*totalsInput, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open document: %w", err)
		}
		defer f.Close()
		r = f
	}

	var input totalsInput
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", path, err)
	}
	return &input, nil
}
