package main

import (
	"errors"
	"time"
)

// Domain rule violations. Handlers map these to 4xx responses; none of
// them leave the card mutated.
var (
	ErrTooFewColumns    = errors.New("board needs at least 3 columns")
	ErrCardBlocked      = errors.New("card is blocked")
	ErrLastActiveColumn = errors.New("card is on the last active column")
	ErrAlreadyCancelled = errors.New("card already cancelled")
	ErrAlreadyBlocked   = errors.New("card already blocked")
	ErrNotBlocked       = errors.New("card is not blocked")
)

// moveCardForward advances the card one column. Blocked cards stay
// put, and forward movement never reaches the Cancelled column: a card
// sitting in Finished has nowhere left to go.
func moveCardForward(c *Card, cols []Column, now time.Time) error {
	if c.Blocked {
		return ErrCardBlocked
	}
	cur, ok := columnByID(cols, c.ColumnID)
	if !ok {
		return ErrNotFound
	}
	next, ok := columnAtPos(cols, cur.Pos+1)
	if !ok || next.Role == RoleCancelled || cur.Role == RoleCancelled {
		return ErrLastActiveColumn
	}
	c.ColumnID = next.ID
	c.LastMovedAt = &now
	return nil
}

// cancelCard sends the card to the Cancelled column from anywhere.
// A blocked card is unblocked as part of the same operation; no
// transition is permitted out of Cancelled afterwards.
func cancelCard(c *Card, cols []Column, now time.Time) error {
	cur, ok := columnByID(cols, c.ColumnID)
	if !ok {
		return ErrNotFound
	}
	if cur.Role == RoleCancelled {
		return ErrAlreadyCancelled
	}
	cancelled, ok := columnByRole(cols, RoleCancelled)
	if !ok {
		return ErrNotFound
	}
	c.ColumnID = cancelled.ID
	if c.Blocked {
		c.Blocked = false
		c.BlockReason = nil
		c.UnblockReason = nil
		c.LastUnblockedAt = &now
	}
	c.LastMovedAt = &now
	return nil
}

func blockCard(c *Card, reason string, now time.Time) error {
	if c.Blocked {
		return ErrAlreadyBlocked
	}
	c.Blocked = true
	c.BlockReason = &reason
	c.LastBlockedAt = &now
	c.UpdatedAt = &now
	c.UnblockReason = nil
	c.LastUnblockedAt = nil
	return nil
}

func unblockCard(c *Card, reason string, now time.Time) error {
	if !c.Blocked {
		return ErrNotBlocked
	}
	c.Blocked = false
	c.BlockReason = nil
	c.LastBlockedAt = nil
	c.LastUnblockedAt = &now
	c.UpdatedAt = &now
	c.UnblockReason = &reason
	return nil
}
