package main

import (
	"net/http"
	"time"
)

// Report endpoints fetch the board's raw history once and compute the
// rows in-process, keeping the store free of window-function SQL.

func (a *api) handleMovementReport(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, err := a.store.GetBoard(r.Context(), id); err != nil {
		if writeDomainError(w, err) {
			return
		}
		a.log.Error("get board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	snaps, err := a.store.HistoryByBoard(r.Context(), id)
	if err != nil {
		a.log.Error("board history", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	rows := movementReport(snaps, time.Now().UTC())
	writeJSON(w, 200, map[string]any{"board_id": id, "rows": rows})
}

func (a *api) handleBlockedReport(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if _, err := a.store.GetBoard(r.Context(), id); err != nil {
		if writeDomainError(w, err) {
			return
		}
		a.log.Error("get board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	snaps, err := a.store.HistoryByBoard(r.Context(), id)
	if err != nil {
		a.log.Error("board history", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	rows := blockedReport(snaps)
	writeJSON(w, 200, map[string]any{"board_id": id, "rows": rows})
}
