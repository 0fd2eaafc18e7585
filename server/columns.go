package main

import "time"

// minColumns is the smallest legal layout: Initial + Finished + Cancelled.
const minColumns = 3

// generateColumns builds the ordered column layout for a new board.
// Index 0 is Initial, n-2 Finished, n-1 Cancelled, everything in
// between Pending. Positions are dense 0..n-1.
func generateColumns(n int, now time.Time) ([]Column, error) {
	if n < minColumns {
		return nil, ErrTooFewColumns
	}
	cols := make([]Column, 0, n)
	for i := 0; i < n; i++ {
		name, role := "Pending", RolePending
		switch i {
		case 0:
			name, role = "Initial", RoleInitial
		case n - 2:
			name, role = "Finished", RoleFinished
		case n - 1:
			name, role = "Cancelled", RoleCancelled
		}
		cols = append(cols, Column{Name: name, Role: role, Pos: i, CreatedAt: now, UpdatedAt: now})
	}
	return cols, nil
}

func columnByID(cols []Column, id int64) (Column, bool) {
	for _, c := range cols {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

func columnAtPos(cols []Column, pos int) (Column, bool) {
	for _, c := range cols {
		if c.Pos == pos {
			return c, true
		}
	}
	return Column{}, false
}

func columnByRole(cols []Column, role ColumnRole) (Column, bool) {
	for _, c := range cols {
		if c.Role == role {
			return c, true
		}
	}
	return Column{}, false
}

func roleOf(cols []Column, columnID int64) ColumnRole {
	if c, ok := columnByID(cols, columnID); ok {
		return c.Role
	}
	return ""
}
