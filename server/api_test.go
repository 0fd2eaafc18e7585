package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAPI() *api {
	return newAPI(NewStore(nil), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHealthEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	testAPI().routes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("abc")
	assert.Error(t, err)
}

func TestWriteDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{ErrNotFound, 404},
		{ErrTooFewColumns, 400},
		{ErrBoardExists, 409},
		{ErrStale, 409},
		{ErrCardBlocked, 409},
		{ErrLastActiveColumn, 409},
		{ErrAlreadyCancelled, 409},
		{ErrAlreadyBlocked, 409},
		{ErrNotBlocked, 409},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		require.True(t, writeDomainError(rec, tc.err), "%v", tc.err)
		assert.Equal(t, tc.status, rec.Code, "%v", tc.err)
		assert.Contains(t, rec.Body.String(), `"ok":false`)
	}

	rec := httptest.NewRecorder()
	assert.False(t, writeDomainError(rec, errors.New("boom")))
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"b","bogus":1}`))
	var dst struct {
		Name string `json:"name"`
	}
	assert.Error(t, readJSON(rec, req, &dst))
}

func TestCreateBoardRejectsBadPayload(t *testing.T) {
	mux := http.NewServeMux()
	testAPI().routes(mux)

	// empty name
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/boards",
		strings.NewReader(`{"name":"  ","columns":4}`)))
	assert.Equal(t, 400, rec.Code)

	// too few columns fails validation before any store call
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/boards",
		strings.NewReader(`{"name":"b1","columns":2}`)))
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "3 columns")

	// blank seed card title
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/boards",
		strings.NewReader(`{"name":"b1","columns":4,"cards":[{"title":"","description":"d"}]}`)))
	assert.Equal(t, 400, rec.Code)
}

func TestLifecycleEndpointsRejectBadInput(t *testing.T) {
	mux := http.NewServeMux()
	testAPI().routes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/cards/abc/move", nil))
	assert.Equal(t, 400, rec.Code)

	// block/unblock validate the reason before touching the card
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/cards/1/block",
		strings.NewReader(`{"reason":""}`)))
	assert.Equal(t, 400, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/cards/1/unblock",
		strings.NewReader(`{}`)))
	assert.Equal(t, 400, rec.Code)
}
