package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
)

// Options configures the monthly report exporter. Credentials come from an
// OAuth client plus a previously issued token, either inline or from files.
type Options struct {
	SpreadsheetID string
	SheetName     string

	ClientJSON string
	ClientFile string
	TokenJSON  string
	TokenFile  string
}

// Reporter writes one row per family and month to a Google Sheet.
type Reporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

func New(ctx context.Context, opts Options) (*Reporter, error) {
	if opts.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if opts.SheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	clientBytes, err := readCredential(opts.ClientJSON, opts.ClientFile)
	if err != nil {
		return nil, fmt.Errorf("load OAuth client: %w", err)
	}
	tokenBytes, err := readCredential(opts.TokenJSON, opts.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("load OAuth token: %w", err)
	}

	oauthCfg, err := google.ConfigFromJSON(clientBytes, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenBytes, &token); err != nil {
		return nil, fmt.Errorf("parse OAuth token: %w", err)
	}

	httpClient := oauthCfg.Client(ctx, &token)
	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Reporter{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
	}, nil
}

func readCredential(inline, file string) ([]byte, error) {
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		return b, nil
	default:
		return nil, errors.New("no credential configured")
	}
}

// reportHeader matches the column layout written by ExportMonthlyReport.
var reportHeader = []any{
	"Family", "Month", "Income", "Expenses", "Balance",
	"Paid", "Pending", "Credit card", "Cash", "Top category",
}

// ExportMonthlyReport writes the month's totals for a family. An existing
// row for the same family and month is overwritten so reprocessing a
// change message stays idempotent.
func (r *Reporter) ExportMonthlyReport(ctx context.Context, familyID string, month core.Month, summary core.MonthlySummary) error {
	if r.svc == nil {
		return errors.New("sheets service not initialized")
	}

	row, err := r.findRow(ctx, familyID, month)
	if err != nil {
		return fmt.Errorf("locate report row: %w", err)
	}

	values := []any{
		familyID,
		month.String(),
		summary.TotalIncome.Reais(),
		summary.TotalExpense.Reais(),
		summary.Balance().Reais(),
		summary.TotalPaid.Reais(),
		summary.TotalPending.Reais(),
		summary.TotalCreditCard.Reais(),
		summary.TotalCash.Reais(),
		topCategory(summary.ByCategory),
	}
	rng := fmt.Sprintf("%s!A%d:J%d", r.sheetName, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{values}}
	_, err = r.svc.Spreadsheets.Values.Update(r.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update report row %d in sheet %s: %w", row, r.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported monthly report",
		"family_id", familyID,
		"month", month.String(),
		"row", row)
	return nil
}

// findRow returns the 1-based row for the family and month, writing the
// header on a fresh sheet. Missing rows map to the first empty one.
func (r *Reporter) findRow(ctx context.Context, familyID string, month core.Month) (int, error) {
	rng := fmt.Sprintf("%s!A:B", r.sheetName)
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get sheet rows for %s: %w", r.sheetName, err)
	}

	if len(resp.Values) == 0 {
		headerRange := fmt.Sprintf("%s!A1:J1", r.sheetName)
		vr := &gsheet.ValueRange{Values: [][]any{reportHeader}}
		_, err := r.svc.Spreadsheets.Values.Update(r.spreadsheetID, headerRange, vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
		return 2, nil
	}

	monthKey := month.String()
	for i, cells := range resp.Values {
		if i == 0 {
			continue
		}
		if len(cells) < 2 {
			continue
		}
		fam, _ := cells[0].(string)
		m, _ := cells[1].(string)
		if fam == familyID && m == monthKey {
			return i + 1, nil
		}
	}
	return len(resp.Values) + 1, nil
}

func topCategory(byCategory map[string]core.Money) string {
	top := ""
	var topCents int64
	for name, amount := range byCategory {
		if amount.Cents > topCents || (amount.Cents == topCents && top != "" && name < top) {
			top = name
			topCents = amount.Cents
		}
	}
	if top == "" {
		return "-"
	}
	return top
}
