package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"github.com/bcnw/spendboard/pkg/models"
	"github.com/bcnw/spendboard/pkg/parser"
)

type fakeStore struct {
	replaced []models.Transaction
	err      error
}

func (f *fakeStore) Replace(_ context.Context, txs []models.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.replaced = txs
	return nil
}

func writeStatement(t *testing.T, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("bad cell coordinates: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("failed to set cell: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "statement.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

func statementRows() [][]string {
	return [][]string{
		{"Account Statement"},
		{"generated", "2025-10-14"},
		{"Trans. Date", "Description", "Debit/Credit (₦)", "Channel"},
		{"2025-10-01", "POS Purchase", "-1,000", "POS"},
		{"2025-10-02", "Salary", "+5,000", "TRANSFER"},
	}
}

func newProcessor(store Store) *Processor {
	logger := log.Default()
	return NewProcessor(parser.New(logger, 2), store, logger)
}

func TestIngest(t *testing.T) {
	store := &fakeStore{}
	path := writeStatement(t, statementRows())

	txs, err := newProcessor(store).Ingest(context.Background(), path)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if len(store.replaced) != 2 {
		t.Fatalf("expected 2 persisted transactions, got %d", len(store.replaced))
	}
	if store.replaced[0].Description != "POS Purchase" {
		t.Errorf("unexpected first persisted row: %+v", store.replaced[0])
	}
}

func TestIngestMissingFile(t *testing.T) {
	_, err := newProcessor(&fakeStore{}).Ingest(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"))
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}

func TestIngestStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	path := writeStatement(t, statementRows())

	if _, err := newProcessor(store).Ingest(context.Background(), path); err == nil {
		t.Fatal("expected error when the store is unreachable")
	}
}
