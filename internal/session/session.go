// Package session tracks per-user conversation state across otherwise
// stateless inbound events: active wallet, pending guided flow, and the
// archive view state. State lives for the process lifetime only; a restart
// resets every user to defaults.
package session

import (
	"sync"
	"time"
)

// FlowKind tags the guided flow a user is currently in. The next free-text
// message from the user is consumed by the active flow, whatever its shape.
type FlowKind int

const (
	FlowNone FlowKind = iota
	FlowEditAmount
	FlowJoinWallet
	FlowFilterDate
)

// Flow is the explicit state of one in-progress guided interaction.
type Flow struct {
	Kind          FlowKind
	TransactionID int64 // set for FlowEditAmount
}

// View is the archive presentation mode.
type View string

const (
	ViewList    View = "list"
	ViewMonthly View = "monthly"
)

// ArchiveState is the user's current position in the archive. At most one of
// FilterDay/FilterMonth is set at a time.
type ArchiveState struct {
	View        View
	FilterDay   time.Time // UTC midnight of the filtered day; zero = none
	FilterMonth string    // "YYYY-MM"; empty = none
	Page        int
}

// Snapshot is the fingerprint of the last archive render sent to the user,
// used to suppress no-op re-renders.
type Snapshot struct {
	Text     string
	Controls string
}

// Context is one user's session state.
type Context struct {
	ActiveWallet int64 // 0 = personal scope
	Flow         Flow
	Archive      ArchiveState
	LastArchive  Snapshot
}

// SetView switches the archive view mode. Switching always clears both
// filters and resets the page.
func (c *Context) SetView(v View) {
	c.Archive.View = v
	c.Archive.FilterDay = time.Time{}
	c.Archive.FilterMonth = ""
	c.Archive.Page = 0
}

// SetFilterDay sets a single-day filter. Day and month filters are mutually
// exclusive; setting one clears the other and resets the page.
func (c *Context) SetFilterDay(day time.Time) {
	c.Archive.FilterDay = day
	c.Archive.FilterMonth = ""
	c.Archive.Page = 0
}

// SetFilterMonth sets a calendar-month filter ("YYYY-MM").
func (c *Context) SetFilterMonth(month string) {
	c.Archive.FilterMonth = month
	c.Archive.FilterDay = time.Time{}
	c.Archive.Page = 0
}

// ClearFilters removes any active filter and resets the page.
func (c *Context) ClearFilters() {
	c.Archive.FilterDay = time.Time{}
	c.Archive.FilterMonth = ""
	c.Archive.Page = 0
}

// SetPage moves to a page; never negative. Upper clamping happens against
// the actual page count when the archive is rendered.
func (c *Context) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	c.Archive.Page = page
}

// StartFlow begins a guided flow, replacing any in-progress one.
func (c *Context) StartFlow(f Flow) {
	c.Flow = f
}

// EndFlow terminates the current guided flow.
func (c *Context) EndFlow() {
	c.Flow = Flow{}
}

// InFlow reports whether a guided flow is waiting for the next text message.
func (c *Context) InFlow() bool {
	return c.Flow.Kind != FlowNone
}

func defaultContext() Context {
	return Context{Archive: ArchiveState{View: ViewList}}
}

type entry struct {
	mu  sync.Mutex
	ctx Context
}

// Store holds session contexts keyed by user id. Each user's context has its
// own lock so concurrent events for the same user apply their
// read-modify-write atomically; no operation ever observes another user's
// context.
type Store struct {
	mu    sync.Mutex
	users map[int64]*entry
}

func NewStore() *Store {
	return &Store{users: make(map[int64]*entry)}
}

func (s *Store) entryFor(userID int64) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[userID]
	if !ok {
		e = &entry{ctx: defaultContext()}
		s.users[userID] = e
	}
	return e
}

// Get returns a copy of the user's context, creating defaults on first use.
func (s *Store) Get(userID int64) Context {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx
}

// Update applies fn to the user's context atomically.
func (s *Store) Update(userID int64, fn func(*Context)) {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.ctx)
}
