// Package wallet manages shared wallets: creation with collision-free short
// ids, membership, and resolution of the acting user's current scope.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"expensebot/internal/core"
	"expensebot/internal/session"
)

// Wallet ids are short numeric codes users type to join; the namespace is
// deliberately small and collision-checked against the store.
const (
	MinWalletID = 10000
	MaxWalletID = 99999
)

// maxIDAttempts bounds the collision retry loop. With a sparse namespace the
// expected number of retries is O(1); hitting the cap means the namespace is
// effectively full.
const maxIDAttempts = 100

// Store is the persistence the coordinator needs.
type Store interface {
	CreateWallet(ctx context.Context, w core.Wallet) error
	GetWallet(ctx context.Context, id int64) (core.Wallet, error)
	WalletExists(ctx context.Context, id int64) (bool, error)
	AddMember(ctx context.Context, walletID, userID int64) error
	IsMember(ctx context.Context, walletID, userID int64) (bool, error)
}

// JoinResult distinguishes a fresh join from an idempotent re-join.
type JoinResult int

const (
	Joined JoinResult = iota
	AlreadyMember
)

type Coordinator struct {
	store    Store
	sessions *session.Store
	newID    func() int64
}

func NewCoordinator(store Store, sessions *session.Store) *Coordinator {
	return &Coordinator{
		store:    store,
		sessions: sessions,
		newID: func() int64 {
			return MinWalletID + rand.Int63n(MaxWalletID-MinWalletID+1)
		},
	}
}

// Create makes a new wallet owned by owner, inserts the owner as its first
// member, and switches the owner's session scope to it.
func (c *Coordinator) Create(ctx context.Context, owner int64) (core.Wallet, error) {
	var id int64
	for attempt := 0; ; attempt++ {
		if attempt >= maxIDAttempts {
			return core.Wallet{}, errors.New("wallet id namespace exhausted")
		}
		id = c.newID()
		exists, err := c.store.WalletExists(ctx, id)
		if err != nil {
			return core.Wallet{}, fmt.Errorf("check wallet id: %w", err)
		}
		if !exists {
			break
		}
	}

	w := core.Wallet{ID: id, Name: fmt.Sprintf("Wallet %d", id), OwnerID: owner}
	if err := c.store.CreateWallet(ctx, w); err != nil {
		return core.Wallet{}, fmt.Errorf("create wallet: %w", err)
	}
	if err := c.store.AddMember(ctx, id, owner); err != nil {
		return core.Wallet{}, fmt.Errorf("add owner membership: %w", err)
	}

	c.sessions.Update(owner, func(sc *session.Context) {
		sc.ActiveWallet = id
	})
	return w, nil
}

// Join adds the user to a wallet. Joining a wallet you are already in is a
// success that inserts nothing. In both success cases the user's session
// scope switches to the wallet. Returns core.ErrNotFound for unknown ids.
func (c *Coordinator) Join(ctx context.Context, userID, walletID int64) (core.Wallet, JoinResult, error) {
	w, err := c.store.GetWallet(ctx, walletID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Wallet{}, 0, core.ErrNotFound
		}
		return core.Wallet{}, 0, fmt.Errorf("get wallet: %w", err)
	}

	member, err := c.store.IsMember(ctx, walletID, userID)
	if err != nil {
		return core.Wallet{}, 0, fmt.Errorf("check membership: %w", err)
	}

	result := AlreadyMember
	if !member {
		if err := c.store.AddMember(ctx, walletID, userID); err != nil {
			return core.Wallet{}, 0, fmt.Errorf("add membership: %w", err)
		}
		result = Joined
	}

	c.sessions.Update(userID, func(sc *session.Context) {
		sc.ActiveWallet = walletID
	})
	return w, result, nil
}

// LeaveScope clears the user's session scope and reports whether there was
// one to clear. The membership row stays: leaving only changes what the
// session points at, and Join is the idempotent way back in.
func (c *Coordinator) LeaveScope(userID int64) bool {
	had := false
	c.sessions.Update(userID, func(sc *session.Context) {
		had = sc.ActiveWallet != 0
		sc.ActiveWallet = 0
	})
	return had
}

// Resolve returns the scope all reads and writes for this user should use:
// the active wallet if one is set, otherwise the user's personal scope.
func (c *Coordinator) Resolve(userID int64) core.Scope {
	if walletID := c.sessions.Get(userID).ActiveWallet; walletID != 0 {
		return core.WalletScope(walletID)
	}
	return core.PersonalScope(userID)
}
