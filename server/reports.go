package main

import (
	"sort"
	"time"
)

// movementReport computes per-column dwell times from a board's card
// history: sort each card's snapshots into event order, then pair each
// snapshot with the next one. The interval start is the snapshot's
// last movement (falling back to creation); the end is the next
// snapshot's capture time, or now for the still-open last interval.
// The now fallback makes repeated runs report growing dwell times for
// open intervals; that is the intended live view.
func movementReport(snaps []CardSnapshot, now time.Time) []MovementRow {
	ordered := make([]CardSnapshot, len(snaps))
	copy(ordered, snaps)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CardID != ordered[j].CardID {
			return ordered[i].CardID < ordered[j].CardID
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	var rows []MovementRow
	for i, s := range ordered {
		if s.LastMovedAt == nil && s.CreatedAt.IsZero() {
			continue
		}
		entered := s.CreatedAt
		if s.LastMovedAt != nil {
			entered = *s.LastMovedAt
		}
		var exit *time.Time
		if i+1 < len(ordered) && ordered[i+1].CardID == s.CardID {
			t := ordered[i+1].TakenAt
			exit = &t
		}
		end := now
		if exit != nil {
			end = *exit
		}
		rows = append(rows, MovementRow{
			CardID:       s.CardID,
			Title:        s.Title,
			Description:  s.Description,
			ColumnRole:   s.ColumnRole,
			BoardID:      s.BoardID,
			ColumnID:     s.ColumnID,
			ExitTime:     exit,
			MinutesSpent: end.Sub(entered).Minutes(),
		})
	}
	return rows
}

// blockedReport lists completed blocking episodes: snapshots carrying
// both a block and an unblock stamp. Rows are ordered by card id, then
// by when the block started.
func blockedReport(snaps []CardSnapshot) []BlockedRow {
	var rows []BlockedRow
	for _, s := range snaps {
		if s.LastBlockedAt == nil || s.LastUnblockedAt == nil {
			continue
		}
		rows = append(rows, BlockedRow{
			CardID:          s.CardID,
			Title:           s.Title,
			Description:     s.Description,
			ColumnRole:      s.ColumnRole,
			BoardID:         s.BoardID,
			ColumnID:        s.ColumnID,
			Blocked:         s.Blocked,
			BlockReason:     s.BlockReason,
			UnblockReason:   s.UnblockReason,
			LastBlockedAt:   s.LastBlockedAt,
			LastUnblockedAt: s.LastUnblockedAt,
			SecondsSpent:    secondsBetween(s.LastBlockedAt, s.LastUnblockedAt),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CardID != rows[j].CardID {
			return rows[i].CardID < rows[j].CardID
		}
		return rows[i].LastBlockedAt.Before(*rows[j].LastBlockedAt)
	})
	return rows
}

// secondsBetween returns whole seconds from from to to, or nil when
// either end is missing.
func secondsBetween(from, to *time.Time) *int64 {
	if from == nil || to == nil {
		return nil
	}
	v := int64(to.Sub(*from) / time.Second)
	return &v
}
