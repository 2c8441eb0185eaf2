// Package sqlstore backs the receipt ledger with SQLite. Receipts are
// document-shaped, so line items live in a JSON column; the unique
// index on receipt_id enforces the at-most-one contract.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/google/uuid"

	"github.com/invoixe/invoixe/internal/ledger"
	"github.com/invoixe/invoixe/pkg/types"
)

type Store struct {
	db *sql.DB
}

func OpenSQLite(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) InsertReceipt(ctx context.Context, rec ledger.Record) error {
	if rec.DocID == "" {
		rec.DocID = uuid.NewString()
	}

	itemsJSON, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO receipts (
		doc_id, receipt_id, customer_name, items_json, date, currency,
		total, user_id, created_at, version, tamper_proof,
		hash, integrity_checksum, locked
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.DocID, rec.ID, rec.CustomerName, string(itemsJSON), rec.Date, rec.Currency,
		rec.Total, rec.UserID, rec.CreatedAt, rec.Version, boolToInt(rec.TamperProof),
		rec.Hash, rec.IntegrityChecksum, boolToInt(rec.Locked),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ledger.ErrDuplicateID
		}
		return err
	}
	return nil
}

func (s *Store) GetReceiptByID(ctx context.Context, id string) (ledger.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		doc_id, receipt_id, customer_name, items_json, date, currency,
		total, user_id, created_at, version, tamper_proof,
		hash, integrity_checksum, locked
	FROM receipts WHERE receipt_id = ?`, id)
	if err != nil {
		return ledger.Record{}, err
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return ledger.Record{}, err
		}
		return ledger.Record{}, ledger.ErrNotFound
	}

	var (
		rec         ledger.Record
		itemsJSON   string
		tamperProof int
		locked      int
	)
	if err := rows.Scan(
		&rec.DocID, &rec.ID, &rec.CustomerName, &itemsJSON, &rec.Date, &rec.Currency,
		&rec.Total, &rec.UserID, &rec.CreatedAt, &rec.Version, &tamperProof,
		&rec.Hash, &rec.IntegrityChecksum, &locked,
	); err != nil {
		return ledger.Record{}, err
	}
	if rows.Next() {
		// The unique index makes this unreachable unless the schema
		// was altered out of band.
		return ledger.Record{}, ledger.ErrAmbiguousID
	}

	var items []types.Item
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return ledger.Record{}, fmt.Errorf("decode items: %w", err)
	}
	rec.Items = items
	rec.TamperProof = tamperProof != 0
	rec.Locked = locked != 0
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
