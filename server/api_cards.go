package main

import (
	"net/http"
	"strings"
	"time"
)

func (a *api) handleCardsByColumn(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	items, err := a.store.CardsByColumn(r.Context(), id)
	if err != nil {
		a.log.Error("cards by column", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

// handleCreateCard adds a card to the board's Initial column.
func (a *api) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	var req CardDraft
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		if err != nil {
			a.log.Error("decode create card", "err", err)
		}
		writeError(w, 400, "invalid payload")
		return
	}
	cols, err := a.store.ColumnsByBoard(r.Context(), id)
	if err != nil {
		a.log.Error("columns by board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	initial, ok := columnByRole(cols, RoleInitial)
	if !ok {
		writeError(w, 404, "not found")
		return
	}
	c, err := a.store.CreateCard(r.Context(), initial.ID, req.Title, req.Description)
	if err != nil {
		a.log.Error("create card", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, c)
	a.bus.Publish(Event{Type: evCardCreated, BoardID: id, CardID: &c.ID, Payload: c})
}

// applyLifecycle runs one state machine operation against the stored
// card: load card and board columns, mutate in memory, then persist
// the new state together with its audit snapshot.
func (a *api) applyLifecycle(w http.ResponseWriter, r *http.Request, event string,
	op func(c *Card, cols []Column, now time.Time) error) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	card, boardID, err := a.store.CardByID(r.Context(), id)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		a.log.Error("card by id", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	cols, err := a.store.ColumnsByBoard(r.Context(), boardID)
	if err != nil {
		a.log.Error("columns by board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	now := time.Now().UTC()
	if err := op(&card, cols, now); err != nil {
		if writeDomainError(w, err) {
			return
		}
		a.log.Error("lifecycle", "event", event, "err", err)
		writeError(w, 500, "internal error")
		return
	}
	saved, err := a.store.SaveCardState(r.Context(), boardID, card, roleOf(cols, card.ColumnID), now)
	if err != nil {
		if writeDomainError(w, err) {
			return
		}
		a.log.Error("save card", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, saved)
	a.bus.Publish(Event{Type: event, BoardID: boardID, CardID: &saved.ID, Payload: saved})
}

func (a *api) handleMoveCard(w http.ResponseWriter, r *http.Request) {
	a.applyLifecycle(w, r, evCardMoved, moveCardForward)
}

func (a *api) handleCancelCard(w http.ResponseWriter, r *http.Request) {
	a.applyLifecycle(w, r, evCardCancelled, cancelCard)
}

func (a *api) handleBlockCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Reason) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	a.applyLifecycle(w, r, evCardBlocked, func(c *Card, _ []Column, now time.Time) error {
		return blockCard(c, req.Reason, now)
	})
}

func (a *api) handleUnblockCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Reason) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	a.applyLifecycle(w, r, evCardUnblocked, func(c *Card, _ []Column, now time.Time) error {
		return unblockCard(c, req.Reason, now)
	})
}
