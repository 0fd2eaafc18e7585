package main

import (
	"net/http"
	"strings"
	"time"
)

func (a *api) handleListBoards(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListBoards(r.Context())
	if err != nil {
		a.log.Error("list boards", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string      `json:"name"`
		Columns int         `json:"columns"`
		Cards   []CardDraft `json:"cards"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		if err != nil {
			a.log.Error("decode create board", "err", err)
		}
		writeError(w, 400, "invalid payload")
		return
	}
	for _, d := range req.Cards {
		if strings.TrimSpace(d.Title) == "" {
			writeError(w, 400, "card title cannot be empty")
			return
		}
	}
	cols, err := generateColumns(req.Columns, time.Now().UTC())
	if err != nil {
		if !writeDomainError(w, err) {
			writeError(w, 400, "invalid payload")
		}
		return
	}
	b, err := a.store.CreateBoard(r.Context(), strings.TrimSpace(req.Name), cols, req.Cards)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		a.log.Error("create board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, b)
}

// handleGetBoard resolves {ref} as a numeric id or a
// case-insensitive board name.
func (a *api) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")
	id, _ := parseID(ref)
	b, err := a.store.BoardByRef(r.Context(), id, ref)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		a.log.Error("get board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, b)
}

func (a *api) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if err := a.store.DeleteBoard(r.Context(), id); err != nil {
		if writeDomainError(w, err) {
			return
		}
		a.log.Error("delete board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handleColumnsByBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	items, err := a.store.ColumnsByBoard(r.Context(), id)
	if err != nil {
		a.log.Error("columns by board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleCardsByBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	items, err := a.store.CardsByBoard(r.Context(), id)
	if err != nil {
		a.log.Error("cards by board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleBoardHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	items, err := a.store.HistoryByBoard(r.Context(), id)
	if err != nil {
		a.log.Error("board history", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleBoardEvents(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	a.bus.ServeSSE(w, r, id)
}
