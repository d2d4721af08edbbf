package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bcnw/spendboard/pkg/models"
	"github.com/bcnw/spendboard/pkg/normalize"
)

// Canonical field names, matching the persisted relation.
const (
	fieldTransDate    = "trans_date"
	fieldValueDate    = "value_date"
	fieldDescription  = "description"
	fieldDebitCredit  = "debit_credit"
	fieldDebit        = "debit"
	fieldCredit       = "credit"
	fieldBalance      = "balance"
	fieldChannel      = "channel"
	fieldReference    = "transaction_reference"
	fieldCounterparty = "counterparty"
)

// fieldAliases maps each canonical field to the normalized header names it
// may appear under, in resolution order. Export versions disagree on
// punctuation ("trans date" vs "trans._date") and on trailing underscores
// left behind by the currency glyph in headers like "Balance (₦)".
var fieldAliases = []struct {
	field   string
	aliases []string
}{
	{fieldTransDate, []string{"trans._date", "trans_date", "transaction_date", "date"}},
	{fieldValueDate, []string{"value_date", "value._date", "val._date"}},
	{fieldDescription, []string{"description", "narration", "details", "remarks"}},
	{fieldDebitCredit, []string{"debit_credit_", "debit_credit", "amount_", "amount"}},
	{fieldDebit, []string{"debit_", "debit"}},
	{fieldCredit, []string{"credit_", "credit"}},
	{fieldBalance, []string{"balance_", "balance", "running_balance"}},
	{fieldChannel, []string{"channel", "transaction_channel"}},
	{fieldReference, []string{"transaction_reference", "reference", "ref_no"}},
	{fieldCounterparty, []string{"counterparty", "counter_party", "beneficiary"}},
}

var headerSymbolRun = regexp.MustCompile(`[\s/₦()]+`)

// normalizeHeader makes column labels stable across export-format drift:
// trimmed, lowercased, with runs of whitespace, slashes, currency glyphs and
// parentheses collapsed to a single underscore.
func normalizeHeader(h string) string {
	return headerSymbolRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "_")
}

// columnIndex maps a canonical field to its cell position in the export.
type columnIndex map[string]int

// resolveColumns matches the header row against the alias lists once, at
// transform start. Placeholder "unnamed" columns generated by the exporter
// are dropped before matching. Fields without a matching column are simply
// absent from the index and default downstream.
func resolveColumns(headers []string) columnIndex {
	byName := make(map[string]int, len(headers))
	for i, h := range headers {
		name := normalizeHeader(h)
		if name == "" || name == "_" || strings.Contains(name, "unnamed") {
			continue
		}
		if _, ok := byName[name]; !ok {
			byName[name] = i
		}
	}

	cols := make(columnIndex)
	for _, fa := range fieldAliases {
		for _, alias := range fa.aliases {
			if i, ok := byName[alias]; ok {
				cols[fa.field] = i
				break
			}
		}
	}
	return cols
}

func (p *Parser) transform(rows [][]string) ([]models.Transaction, error) {
	if len(rows) <= p.skipRows {
		return nil, fmt.Errorf("no header row found after skipping %d rows", p.skipRows)
	}

	cols := resolveColumns(rows[p.skipRows])
	if len(cols) == 0 {
		return nil, fmt.Errorf("no recognizable columns in header row")
	}
	p.logger.Debug("resolved columns", "count", len(cols))

	var transactions []models.Transaction
	for _, row := range rows[p.skipRows+1:] {
		if emptyRow(row) {
			continue
		}
		transactions = append(transactions, p.buildTransaction(cols, row))
	}
	return transactions, nil
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, cols columnIndex, field string) (string, bool) {
	i, ok := cols[field]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

// buildTransaction maps one raw row into the canonical schema. Missing or
// malformed fields never fail the row: amounts become zero, dates nil,
// channel UNKNOWN.
func (p *Parser) buildTransaction(cols columnIndex, row []string) models.Transaction {
	tx := models.Transaction{Channel: models.ChannelUnknown}

	if v, ok := cell(row, cols, fieldTransDate); ok {
		tx.TransDate = normalize.Date(v)
	}
	if v, ok := cell(row, cols, fieldValueDate); ok {
		tx.ValueDate = normalize.Date(v)
	}
	if v, ok := cell(row, cols, fieldDescription); ok {
		tx.Description = strings.TrimSpace(v)
	}
	if v, ok := cell(row, cols, fieldBalance); ok {
		tx.Balance = normalize.Balance(v)
	}
	if v, ok := cell(row, cols, fieldChannel); ok {
		tx.Channel = normalize.Channel(v)
	}
	if v, ok := cell(row, cols, fieldReference); ok {
		tx.Reference = optionalText(v)
	}
	if v, ok := cell(row, cols, fieldCounterparty); ok {
		tx.Counterparty = optionalText(v)
	}

	if v, ok := cell(row, cols, fieldDebitCredit); ok {
		tx.Debit = normalize.ExtractDebit(v)
		tx.Credit = normalize.ExtractCredit(v)
		return tx
	}

	// Separate debit and credit columns, seen in one export version. A row
	// carrying both violates the one-sided invariant; the debit side wins.
	if v, ok := cell(row, cols, fieldDebit); ok {
		tx.Debit = normalize.Amount(v)
	}
	if v, ok := cell(row, cols, fieldCredit); ok {
		tx.Credit = normalize.Amount(v)
	}
	if tx.Debit.IsPositive() && tx.Credit.IsPositive() {
		p.logger.Warn("row has both debit and credit, keeping debit", "description", tx.Description)
		tx.Credit = decimal.Zero
	}
	return tx
}

func optionalText(v string) *string {
	s := strings.TrimSpace(v)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	return &s
}
