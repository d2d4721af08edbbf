// Package store persists canonical transactions in PostgreSQL. Loading is
// replace-all: each ingestion run drops and recreates the relation inside a
// single transaction, so readers never observe a dropped-but-unloaded table.
package store

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bcnw/spendboard/pkg/models"
)

const tableName = "bank_transactions"

const createTableSQL = `
CREATE TABLE bank_transactions (
	id SERIAL PRIMARY KEY,
	trans_date DATE,
	value_date DATE,
	description TEXT,
	debit NUMERIC,
	credit NUMERIC,
	balance NUMERIC,
	channel TEXT,
	transaction_reference TEXT,
	counterparty TEXT
)`

var insertColumns = []string{
	"trans_date", "value_date", "description", "debit", "credit",
	"balance", "channel", "transaction_reference", "counterparty",
}

type Store struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// Open connects to PostgreSQL and verifies the connection. The decimal
// codec is registered on every pooled connection so NUMERIC columns map to
// shopspring decimals.
func Open(ctx context.Context, dsn string, logger *log.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("error parsing postgres config: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}

	return &Store{pool: pool, logger: logger}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Replace performs the replace-all bulk load: drop, recreate and fill the
// relation in one transaction. A failure anywhere rolls the whole load back,
// leaving the previous dataset visible to readers.
func (s *Store) Replace(ctx context.Context, transactions []models.Transaction) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting load transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+tableName); err != nil {
		return fmt.Errorf("error dropping table: %w", err)
	}
	if _, err := tx.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}

	rows := make([][]interface{}, len(transactions))
	for i, t := range transactions {
		rows[i] = []interface{}{
			t.TransDate, t.ValueDate, t.Description, t.Debit, t.Credit,
			t.Balance, t.Channel, t.Reference, t.Counterparty,
		}
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{tableName}, insertColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("error bulk inserting transactions: %w", err)
	}
	if copied != int64(len(transactions)) {
		return fmt.Errorf("bulk insert wrote %d of %d rows", copied, len(transactions))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing load: %w", err)
	}

	s.logger.Info("dataset replaced", "rows", copied)
	return nil
}

// FetchAll returns the full persisted dataset ordered by trans_date, rows
// without a date last.
func (s *Store) FetchAll(ctx context.Context) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT trans_date, value_date, description, debit, credit,
		       balance, channel, transaction_reference, counterparty
		FROM `+tableName+`
		ORDER BY trans_date NULLS LAST, id`)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.TransDate, &t.ValueDate, &t.Description, &t.Debit, &t.Credit,
			&t.Balance, &t.Channel, &t.Reference, &t.Counterparty,
		); err != nil {
			return nil, fmt.Errorf("error scanning transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading transactions: %w", err)
	}
	return transactions, nil
}
