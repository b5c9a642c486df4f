package core

import (
	"errors"
	"time"
)

type (
	// Transaction is a single recorded expense. WalletID == 0 means the
	// transaction is personal; otherwise it belongs to exactly one wallet.
	// UserID is always the recording user, even for wallet transactions.
	Transaction struct {
		ID        int64
		UserID    int64
		Category  string
		Amount    Money
		CreatedAt time.Time // UTC
		WalletID  int64
	}

	// Wallet is a shared expense pool. Wallets are never mutated or deleted
	// after creation.
	Wallet struct {
		ID      int64
		Name    string
		OwnerID int64
	}

	// WalletMember records membership of a user in a wallet. Membership is
	// additive: rows are only ever inserted.
	WalletMember struct {
		WalletID int64
		UserID   int64
	}

	// Scope selects the transactions visible to an operation: one user's
	// personal transactions, or one wallet's shared transactions.
	Scope struct {
		UserID   int64
		WalletID int64
	}
)

var (
	ErrBadFormat     = errors.New("unparseable expense text")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrNotFound      = errors.New("not found")
	ErrEmptyCategory = errors.New("empty category")
)

// PersonalScope scopes to a single user's personal transactions.
func PersonalScope(userID int64) Scope {
	return Scope{UserID: userID}
}

// WalletScope scopes to a wallet's shared transactions.
func WalletScope(walletID int64) Scope {
	return Scope{WalletID: walletID}
}

// Shared reports whether the scope targets a wallet.
func (s Scope) Shared() bool {
	return s.WalletID != 0
}

// Personal reports whether the transaction belongs to no wallet.
func (t Transaction) Personal() bool {
	return t.WalletID == 0
}
