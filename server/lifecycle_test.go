package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeColumns generates a board layout and assigns ids the way the
// store would.
func makeColumns(t *testing.T, n int) []Column {
	t.Helper()
	cols, err := generateColumns(n, time.Now().UTC())
	require.NoError(t, err)
	for i := range cols {
		cols[i].ID = int64(100 + i)
		cols[i].BoardID = 1
	}
	return cols
}

func makeCard(cols []Column) Card {
	return Card{
		ID:          7,
		ColumnID:    cols[0].ID,
		Title:       "Card A",
		Description: "desc",
		CreatedAt:   time.Now().UTC().Add(-time.Hour),
	}
}

func TestMoveCardForward(t *testing.T) {
	cols := makeColumns(t, 4)
	card := makeCard(cols)
	now := time.Now().UTC()

	require.NoError(t, moveCardForward(&card, cols, now))
	assert.Equal(t, cols[1].ID, card.ColumnID)
	require.NotNil(t, card.LastMovedAt)
	assert.Equal(t, now, *card.LastMovedAt)
}

func TestMoveBlockedCardStaysPut(t *testing.T) {
	cols := makeColumns(t, 4)
	card := makeCard(cols)
	require.NoError(t, blockCard(&card, "waiting", time.Now().UTC()))

	before := card
	err := moveCardForward(&card, cols, time.Now().UTC())
	assert.ErrorIs(t, err, ErrCardBlocked)
	assert.Equal(t, before, card)
}

func TestMovePastLastActiveColumn(t *testing.T) {
	cols := makeColumns(t, 3)
	card := makeCard(cols)
	now := time.Now().UTC()

	// Initial -> Finished is the only legal forward move on a
	// 3-column board
	require.NoError(t, moveCardForward(&card, cols, now))
	assert.Equal(t, cols[1].ID, card.ColumnID)

	before := card
	err := moveCardForward(&card, cols, now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrLastActiveColumn)
	assert.Equal(t, before, card)
}

func TestMoveOutOfCancelledRejected(t *testing.T) {
	cols := makeColumns(t, 4)
	card := makeCard(cols)
	require.NoError(t, cancelCard(&card, cols, time.Now().UTC()))

	before := card
	err := moveCardForward(&card, cols, time.Now().UTC())
	assert.ErrorIs(t, err, ErrLastActiveColumn)
	assert.Equal(t, before, card)
}

func TestCancelCard(t *testing.T) {
	cols := makeColumns(t, 4)
	card := makeCard(cols)
	now := time.Now().UTC()

	require.NoError(t, cancelCard(&card, cols, now))
	assert.Equal(t, cols[3].ID, card.ColumnID)
	require.NotNil(t, card.LastMovedAt)
	assert.Equal(t, now, *card.LastMovedAt)
}

func TestCancelAlreadyCancelled(t *testing.T) {
	cols := makeColumns(t, 4)
	card := makeCard(cols)
	require.NoError(t, cancelCard(&card, cols, time.Now().UTC()))

	before := card
	err := cancelCard(&card, cols, time.Now().UTC())
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, before, card)
}

func TestCancelBlockedCardUnblocks(t *testing.T) {
	cols := makeColumns(t, 4)
	card := makeCard(cols)
	require.NoError(t, blockCard(&card, "stuck", time.Now().UTC()))

	now := time.Now().UTC().Add(time.Second)
	require.NoError(t, cancelCard(&card, cols, now))
	assert.Equal(t, cols[3].ID, card.ColumnID)
	assert.False(t, card.Blocked)
	assert.Nil(t, card.BlockReason)
	assert.Nil(t, card.UnblockReason)
	require.NotNil(t, card.LastUnblockedAt)
	assert.Equal(t, now, *card.LastUnblockedAt)
}

func TestBlockCard(t *testing.T) {
	cols := makeColumns(t, 4)
	card := makeCard(cols)
	now := time.Now().UTC()

	require.NoError(t, blockCard(&card, "waiting", now))
	assert.True(t, card.Blocked)
	require.NotNil(t, card.BlockReason)
	assert.Equal(t, "waiting", *card.BlockReason)
	require.NotNil(t, card.LastBlockedAt)
	assert.Equal(t, now, *card.LastBlockedAt)
	require.NotNil(t, card.UpdatedAt)
	assert.Nil(t, card.UnblockReason)
	assert.Nil(t, card.LastUnblockedAt)
}

func TestBlockTwiceRejected(t *testing.T) {
	cols := makeColumns(t, 4)
	card := makeCard(cols)
	require.NoError(t, blockCard(&card, "first", time.Now().UTC()))

	before := card
	err := blockCard(&card, "second", time.Now().UTC().Add(time.Minute))
	assert.ErrorIs(t, err, ErrAlreadyBlocked)
	assert.Equal(t, before, card)
}

func TestBlockUnblockRoundTrip(t *testing.T) {
	cols := makeColumns(t, 4)
	card := makeCard(cols)
	t0 := time.Now().UTC()

	require.NoError(t, blockCard(&card, "waiting", t0))
	t1 := t0.Add(30 * time.Second)
	require.NoError(t, unblockCard(&card, "resumed", t1))

	assert.False(t, card.Blocked)
	assert.Nil(t, card.BlockReason)
	assert.Nil(t, card.LastBlockedAt)
	require.NotNil(t, card.UnblockReason)
	assert.Equal(t, "resumed", *card.UnblockReason)
	require.NotNil(t, card.LastUnblockedAt)
	assert.Equal(t, t1, *card.LastUnblockedAt)
	require.NotNil(t, card.UpdatedAt)
	assert.Equal(t, t1, *card.UpdatedAt)
}

func TestUnblockNotBlocked(t *testing.T) {
	cols := makeColumns(t, 4)
	card := makeCard(cols)

	before := card
	err := unblockCard(&card, "nothing to do", time.Now().UTC())
	assert.ErrorIs(t, err, ErrNotBlocked)
	assert.Equal(t, before, card)
}

// Full walk across a 4-column board: move, block, rejected move,
// unblock, move to Finished, cancel.
func TestCardLifecycleEndToEnd(t *testing.T) {
	cols := makeColumns(t, 4)
	card := makeCard(cols)
	now := time.Now().UTC()

	require.NoError(t, moveCardForward(&card, cols, now))
	assert.Equal(t, cols[1].ID, card.ColumnID)
	assert.Equal(t, RolePending, roleOf(cols, card.ColumnID))
	firstMove := *card.LastMovedAt

	now = now.Add(time.Minute)
	require.NoError(t, blockCard(&card, "waiting", now))
	assert.True(t, card.Blocked)

	err := moveCardForward(&card, cols, now.Add(time.Second))
	assert.ErrorIs(t, err, ErrCardBlocked)
	assert.Equal(t, cols[1].ID, card.ColumnID)

	now = now.Add(time.Minute)
	require.NoError(t, unblockCard(&card, "resumed", now))
	assert.False(t, card.Blocked)

	now = now.Add(time.Minute)
	require.NoError(t, moveCardForward(&card, cols, now))
	assert.Equal(t, cols[2].ID, card.ColumnID)
	assert.Equal(t, RoleFinished, roleOf(cols, card.ColumnID))
	assert.True(t, card.LastMovedAt.After(firstMove))

	now = now.Add(time.Minute)
	require.NoError(t, cancelCard(&card, cols, now))
	assert.Equal(t, cols[3].ID, card.ColumnID)
	assert.Equal(t, RoleCancelled, roleOf(cols, card.ColumnID))
	assert.Equal(t, now, *card.LastMovedAt)
}
