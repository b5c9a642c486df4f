package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetCreatesDefaults(t *testing.T) {
	s := NewStore()
	ctx := s.Get(42)
	assert.Equal(t, ViewList, ctx.Archive.View)
	assert.Zero(t, ctx.ActiveWallet)
	assert.Zero(t, ctx.Archive.Page)
	assert.False(t, ctx.InFlow())
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore()
	ctx := s.Get(1)
	ctx.ActiveWallet = 10001
	assert.Zero(t, s.Get(1).ActiveWallet)
}

func TestContextsAreIsolatedPerUser(t *testing.T) {
	s := NewStore()
	s.Update(1, func(c *Context) { c.ActiveWallet = 10001 })
	assert.Equal(t, int64(10001), s.Get(1).ActiveWallet)
	assert.Zero(t, s.Get(2).ActiveWallet)
}

func TestSetViewClearsFiltersAndPage(t *testing.T) {
	var c Context
	c.SetFilterMonth("2026-03")
	c.SetPage(3)

	c.SetView(ViewMonthly)
	assert.Equal(t, ViewMonthly, c.Archive.View)
	assert.Empty(t, c.Archive.FilterMonth)
	assert.True(t, c.Archive.FilterDay.IsZero())
	assert.Zero(t, c.Archive.Page)
}

func TestFiltersAreMutuallyExclusive(t *testing.T) {
	var c Context
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	c.SetFilterDay(day)
	assert.Equal(t, day, c.Archive.FilterDay)
	assert.Empty(t, c.Archive.FilterMonth)

	c.SetPage(2)
	c.SetFilterMonth("2026-02")
	assert.True(t, c.Archive.FilterDay.IsZero())
	assert.Equal(t, "2026-02", c.Archive.FilterMonth)
	assert.Zero(t, c.Archive.Page, "setting a filter resets the page")
}

func TestSetPageNeverNegative(t *testing.T) {
	var c Context
	c.SetPage(-4)
	assert.Zero(t, c.Archive.Page)
}

func TestFlowLifecycle(t *testing.T) {
	var c Context
	c.StartFlow(Flow{Kind: FlowEditAmount, TransactionID: 7})
	assert.True(t, c.InFlow())
	assert.Equal(t, int64(7), c.Flow.TransactionID)

	c.EndFlow()
	assert.False(t, c.InFlow())
	assert.Zero(t, c.Flow.TransactionID)
}

func TestConcurrentUpdatesAreAtomic(t *testing.T) {
	s := NewStore()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(1, func(c *Context) { c.Archive.Page++ })
		}()
	}
	wg.Wait()

	assert.Equal(t, n, s.Get(1).Archive.Page)
}
