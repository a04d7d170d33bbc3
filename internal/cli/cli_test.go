package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/cli"
	"github.com/SscSPs/erp_finance/internal/core/lifecycle"
	"github.com/SscSPs/erp_finance/internal/utils/accounting"
	"github.com/SscSPs/erp_finance/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "currencyCode": "USD",
  "items": [
    {"description": "Widget", "quantity": "2", "unitPrice": "15.00", "discountAmount": "0", "taxRate": "10"}
  ],
  "adjustments": {"shippingAmount": "5.00", "discountPercent": "10"}
}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "document.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTotals_Text(t *testing.T) {
	out, err := run(t, "", "totals", writeDocument(t, sampleDocument))
	require.NoError(t, err)

	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "30.00 USD")
	assert.Contains(t, out, "-3.00 USD")
	assert.Regexp(t, `Total\s+35\.00 USD`, out)
}

func TestTotals_JSONFromStdin(t *testing.T) {
	out, err := run(t, sampleDocument, "totals", "-", "--output", "json")
	require.NoError(t, err)

	var got struct {
		Items []struct {
			LineTotal money.Decimal `json:"lineTotal"`
			LineTax   money.Decimal `json:"lineTax"`
		} `json:"items"`
		Totals struct {
			DiscountAmount money.Decimal `json:"discountAmount"`
			TotalAmount    money.Decimal `json:"totalAmount"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "30.00", got.Items[0].LineTotal.String())
	assert.Equal(t, "3.00", got.Items[0].LineTax.String())
	assert.Equal(t, "3.00", got.Totals.DiscountAmount.String())
	assert.Equal(t, "35.00", got.Totals.TotalAmount.String())
}

func TestTotals_Errors(t *testing.T) {
	negative := `{"items": [{"description": "x", "quantity": "1", "unitPrice": "10", "discountAmount": "0", "taxRate": "0"}], "adjustments": {"discountAmount": "20"}}`

	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr error
		wantMsg string
	}{
		{name: "reject policy", args: []string{"totals", "-", "--policy", "reject"}, stdin: negative, wantErr: accounting.ErrNegativeTotal},
		{name: "unknown policy", args: []string{"totals", "-", "--policy", "ignore"}, stdin: negative, wantMsg: "unknown negative total policy"},
		{name: "scientific notation", args: []string{"totals", "-"}, stdin: `{"items": [{"description": "x", "quantity": "1e3"}]}`, wantErr: money.ErrInvalidDecimalLiteral},
		{name: "missing unit price", args: []string{"totals", "-"}, stdin: `{"items": [{"description": "x", "quantity": "1", "discountAmount": "0", "taxRate": "0"}]}`, wantErr: apperrors.ErrValidation, wantMsg: "missing unitPrice"},
		{name: "unknown field", args: []string{"totals", "-"}, stdin: `{"lines": []}`, wantMsg: "unknown field"},
		{name: "bad output", args: []string{"totals", "-", "-o", "xml"}, stdin: negative, wantMsg: "unknown output format"},
		{name: "missing file", args: []string{"totals", filepath.Join(t.TempDir(), "nope.json")}, wantMsg: "open document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestTotals_ClampPolicy(t *testing.T) {
	doc := `{"items": [{"description": "x", "quantity": "1", "unitPrice": "10", "discountAmount": "0", "taxRate": "0"}], "adjustments": {"discountAmount": "20"}}`
	out, err := run(t, doc, "totals", "-", "--policy", "clamp", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalAmount": "0.00"`)
	assert.Contains(t, out, `"discountAmount": "10.00"`)
}

func TestTransitions(t *testing.T) {
	out, err := run(t, "", "transitions", "invoice")
	require.NoError(t, err)
	assert.Contains(t, out, "invoice (initial status: draft)")
	assert.Regexp(t, `draft\s+send\s+allowed\s+sent`, out)
	assert.Regexp(t, `sent\s+mark_paid\s+derived\s+paid`, out)

	out, err = run(t, "", "transitions", "invoice", "--status", "paid")
	require.NoError(t, err)
	assert.Regexp(t, `paid\s+cancel\s+denied\s+paid invoices cannot be cancelled`, out)
	assert.NotContains(t, out, "draft  ")

	_, err = run(t, "", "transitions", "receipt")
	assert.ErrorIs(t, err, lifecycle.ErrUnknownDocumentType)

	_, err = run(t, "", "transitions", "invoice", "--status", "shipped")
	assert.ErrorContains(t, err, `no status "shipped"`)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "partially paid",
			args: []string{"status", "--total", "210", "--paid", "100"},
			want: []string{"balance:        110.00", "payment status: partially_paid"},
		},
		{
			name: "settles invoice",
			args: []string{"status", "--total", "210", "--paid", "100,110", "--type", "invoice", "--from", "partial"},
			want: []string{"balance:        0.00", "payment status: paid", "document status: partial -> paid"},
		},
		{
			name: "order ignores payments",
			args: []string{"status", "--total", "900", "--paid", "900", "--type", "order", "--from", "confirmed"},
			want: []string{"document status: confirmed -> confirmed"},
		},
		{
			name: "overpaid",
			args: []string{"status", "--total", "50", "--paid", "60"},
			want: []string{"balance:        -10.00", "payment status: overpaid"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestStatus_Errors(t *testing.T) {
	_, err := run(t, "", "status")
	assert.ErrorContains(t, err, "total")

	_, err = run(t, "", "status", "--total", "10", "--paid=-5")
	assert.ErrorContains(t, err, "greater than zero")

	_, err = run(t, "", "status", "--total", "10", "--type", "invoice")
	assert.Error(t, err, "--type needs --from")

	_, err = run(t, "", "status", "--total", "1e3")
	assert.ErrorIs(t, err, money.ErrInvalidDecimalLiteral)
}
