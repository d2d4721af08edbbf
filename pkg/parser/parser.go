// Package parser reads a bank statement export and transforms its rows into
// canonical transactions. Only the single-source export format is supported;
// minor drift in column naming across export versions is absorbed by the
// alias resolution in transform.go.
package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bcnw/spendboard/pkg/models"
)

type FileType string

const (
	StatementXLSX FileType = "statement_xlsx"
	StatementXLS  FileType = "statement_xls"
)

// DefaultSkipRows is the number of leading non-data rows in current exports.
const DefaultSkipRows = 2

type Parser struct {
	logger   *log.Logger
	skipRows int
}

func New(logger *log.Logger, skipRows int) *Parser {
	if skipRows < 0 {
		skipRows = DefaultSkipRows
	}
	return &Parser{
		logger:   logger,
		skipRows: skipRows,
	}
}

// ProcessBytes parses statement data into canonical transactions, preserving
// the original row order.
func (p *Parser) ProcessBytes(data []byte, filename string) ([]models.Transaction, error) {
	fileType := detectType(filename)
	p.logger.Debug("detected file type", "type", fileType, "filename", filename)

	var (
		rows [][]string
		err  error
	)
	switch fileType {
	case StatementXLSX:
		rows, err = readXLSX(data)
	case StatementXLS:
		rows, err = readXLS(data)
	default:
		return nil, fmt.Errorf("unsupported statement file: %s", filename)
	}
	if err != nil {
		return nil, err
	}

	return p.transform(rows)
}

// ProcessFile reads and parses a statement file from disk.
func (p *Parser) ProcessFile(path string) ([]models.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading statement file: %w", err)
	}
	return p.ProcessBytes(data, filepath.Base(path))
}

func detectType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return StatementXLSX
	case ".xls":
		return StatementXLS
	}
	return ""
}
