// Package storage implements the durable ledger store on SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"expensebot/internal/core"

	_ "modernc.org/sqlite"
)

// timeLayout is how created_at is stored; RFC 3339 sorts lexically in
// chronological order, so ORDER BY created_at DESC is correct.
const timeLayout = time.RFC3339Nano

// QueryOpts narrows a transaction query. Zero values mean no restriction.
type QueryOpts struct {
	Since    time.Time // inclusive
	Until    time.Time // exclusive
	Category string
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertTransaction persists a new transaction and returns its id. A zero
// CreatedAt is filled with the current UTC time.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var walletID any
	if t.WalletID != 0 {
		walletID = t.WalletID
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category, amount_cents, created_at, wallet_id)
		 VALUES (?, ?, ?, ?, ?)`,
		t.UserID, t.Category, t.Amount.Cents, createdAt.UTC().Format(timeLayout), walletID)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"tx_id", id,
		"user_id", t.UserID,
		"category", t.Category,
		"amount_cents", t.Amount.Cents,
		"wallet_id", t.WalletID)

	return id, nil
}

// GetTransaction fetches one transaction by id. Returns core.ErrNotFound if
// the row does not exist.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, amount_cents, created_at, wallet_id
		 FROM transactions WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

// UpdateAmount changes only the amount of an existing transaction.
// Returns core.ErrNotFound if the row does not exist.
func (r *SQLiteRepository) UpdateAmount(ctx context.Context, id int64, amount core.Money) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount_cents = ? WHERE id = ?`, amount.Cents, id)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction. Returns core.ErrNotFound if the
// row does not exist. There is no soft delete.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// QueryTransactions returns all transactions visible to a scope, newest
// first, optionally narrowed by time range and category.
func (r *SQLiteRepository) QueryTransactions(ctx context.Context, scope core.Scope, opts QueryOpts) ([]core.Transaction, error) {
	query := `SELECT id, user_id, category, amount_cents, created_at, wallet_id FROM transactions WHERE `
	var args []any

	if scope.Shared() {
		query += `wallet_id = ?`
		args = append(args, scope.WalletID)
	} else {
		query += `user_id = ? AND wallet_id IS NULL`
		args = append(args, scope.UserID)
	}

	if !opts.Since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, opts.Since.UTC().Format(timeLayout))
	}
	if !opts.Until.IsZero() {
		query += ` AND created_at < ?`
		args = append(args, opts.Until.UTC().Format(timeLayout))
	}
	if opts.Category != "" {
		query += ` AND category = ?`
		args = append(args, opts.Category)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// CreateWallet persists a wallet row. The id is chosen by the caller
// (the wallet coordinator owns the id namespace).
func (r *SQLiteRepository) CreateWallet(ctx context.Context, w core.Wallet) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wallets (id, name, owner_id) VALUES (?, ?, ?)`,
		w.ID, w.Name, w.OwnerID)
	if err != nil {
		return fmt.Errorf("create wallet %d: %w", w.ID, err)
	}
	return nil
}

// GetWallet fetches a wallet by id. Returns core.ErrNotFound if absent.
func (r *SQLiteRepository) GetWallet(ctx context.Context, id int64) (core.Wallet, error) {
	var w core.Wallet
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id FROM wallets WHERE id = ?`, id).
		Scan(&w.ID, &w.Name, &w.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Wallet{}, core.ErrNotFound
	}
	if err != nil {
		return core.Wallet{}, fmt.Errorf("get wallet %d: %w", id, err)
	}
	return w, nil
}

// WalletExists reports whether a wallet id is taken.
func (r *SQLiteRepository) WalletExists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM wallets WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("wallet exists %d: %w", id, err)
	}
	return n > 0, nil
}

// AddMember inserts a membership row. Inserting an existing membership is a
// no-op (membership is additive and unique).
func (r *SQLiteRepository) AddMember(ctx context.Context, walletID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO wallet_members (wallet_id, user_id) VALUES (?, ?)`,
		walletID, userID)
	if err != nil {
		return fmt.Errorf("add member %d to wallet %d: %w", userID, walletID, err)
	}
	return nil
}

// IsMember reports whether a user belongs to a wallet.
func (r *SQLiteRepository) IsMember(ctx context.Context, walletID, userID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM wallet_members WHERE wallet_id = ? AND user_id = ?`,
		walletID, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("is member: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		createdAt string
		walletID  sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Category, &t.Amount.Cents, &createdAt, &walletID); err != nil {
		return core.Transaction{}, err
	}
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	t.CreatedAt = ts.UTC()
	if walletID.Valid {
		t.WalletID = walletID.Int64
	}
	return t, nil
}
