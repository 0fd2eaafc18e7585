package main

import "time"

// ColumnRole is the semantic category of a column. It is assigned once
// when the board layout is generated and stored on the row; legality
// checks read the tag instead of re-deriving it from positions.
type ColumnRole string

const (
	RoleInitial   ColumnRole = "initial"
	RolePending   ColumnRole = "pending"
	RoleFinished  ColumnRole = "finished"
	RoleCancelled ColumnRole = "cancelled"
)

type Board struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Column struct {
	ID      int64      `json:"id"`
	BoardID int64      `json:"board_id"`
	Name    string     `json:"name"`
	Role    ColumnRole `json:"role"`
	// Pos is the 0-based traversal order within the board
	Pos       int       `json:"pos"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Card struct {
	ID              int64      `json:"id"`
	ColumnID        int64      `json:"column_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Blocked         bool       `json:"blocked"`
	BlockReason     *string    `json:"block_reason,omitempty"`
	UnblockReason   *string    `json:"unblock_reason,omitempty"`
	LastBlockedAt   *time.Time `json:"last_blocked_at,omitempty"`
	LastUnblockedAt *time.Time `json:"last_unblocked_at,omitempty"`
	LastMovedAt     *time.Time `json:"last_moved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
	// Version guards concurrent saves; bumped on every persisted mutation
	Version int64 `json:"-"`
}

// CardDraft is the title/description pair used when seeding a new
// board's initial column.
type CardDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CardSnapshot is an immutable copy of a card's fields taken right
// after a lifecycle mutation. Rows are append-only and keyed by
// (card_id, seq); they outlive the live entities.
type CardSnapshot struct {
	CardID          int64      `json:"card_id"`
	Seq             int64      `json:"seq"`
	BoardID         int64      `json:"board_id"`
	ColumnID        int64      `json:"column_id"`
	ColumnRole      ColumnRole `json:"column_role"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Blocked         bool       `json:"blocked"`
	BlockReason     *string    `json:"block_reason,omitempty"`
	UnblockReason   *string    `json:"unblock_reason,omitempty"`
	LastBlockedAt   *time.Time `json:"last_blocked_at,omitempty"`
	LastUnblockedAt *time.Time `json:"last_unblocked_at,omitempty"`
	LastMovedAt     *time.Time `json:"last_moved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
	TakenAt         time.Time  `json:"taken_at"`
}

// MovementRow reports how long a card sat in the state captured by one
// snapshot before the next recorded change (or "now" if still there).
type MovementRow struct {
	CardID       int64      `json:"card_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ColumnRole   ColumnRole `json:"column_role"`
	BoardID      int64      `json:"board_id"`
	ColumnID     int64      `json:"column_id"`
	ExitTime     *time.Time `json:"exit_time,omitempty"`
	MinutesSpent float64    `json:"minutes_spent"`
}

// BlockedRow reports one completed blocking episode.
type BlockedRow struct {
	CardID          int64      `json:"card_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ColumnRole      ColumnRole `json:"column_role"`
	BoardID         int64      `json:"board_id"`
	ColumnID        int64      `json:"column_id"`
	Blocked         bool       `json:"blocked"`
	BlockReason     *string    `json:"block_reason,omitempty"`
	UnblockReason   *string    `json:"unblock_reason,omitempty"`
	LastBlockedAt   *time.Time `json:"last_blocked_at"`
	LastUnblockedAt *time.Time `json:"last_unblocked_at"`
	SecondsSpent    *int64     `json:"seconds_spent"`
}
