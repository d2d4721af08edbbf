// Package service orchestrates the ingestion batch: read the export, parse
// and transform it, then replace the persisted dataset.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bcnw/spendboard/pkg/models"
	"github.com/bcnw/spendboard/pkg/parser"
)

// Store is the persistence side of the pipeline.
type Store interface {
	Replace(ctx context.Context, transactions []models.Transaction) error
}

type Processor struct {
	parser *parser.Parser
	store  Store
	logger *log.Logger
}

func NewProcessor(p *parser.Parser, store Store, logger *log.Logger) *Processor {
	return &Processor{
		parser: p,
		store:  store,
		logger: logger,
	}
}

// Ingest runs the batch for one statement file and returns the parsed
// transactions. A missing file or unreachable store aborts the run; a
// malformed cell never does.
func (p *Processor) Ingest(ctx context.Context, path string) ([]models.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading statement file: %w", err)
	}

	transactions, err := p.parser.ProcessBytes(data, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("error parsing statement: %w", err)
	}
	p.logger.Info("statement parsed", "file", path, "rows", len(transactions))

	if err := p.store.Replace(ctx, transactions); err != nil {
		return nil, fmt.Errorf("error loading transactions: %w", err)
	}

	p.logger.Info("ingestion complete", "file", path, "rows", len(transactions))
	return transactions, nil
}
