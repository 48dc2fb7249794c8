package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/scores"
)

type fakeRankings struct {
	list  []scores.Entry
	err   error
	limit int
}

func (f *fakeRankings) Rankings(limit int) ([]scores.Entry, error) {
	f.limit = limit
	return f.list, f.err
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIndexListsRankings(t *testing.T) {
	src := &fakeRankings{list: []scores.Entry{
		{Username: "ana", HighScore: 900, Games: 3},
		{Username: "<bob>", HighScore: 40, Games: 1},
	}}
	s := newSite(src, "play.example.com", "2222", 20, log.New(io.Discard))

	rec := get(t, s.routes(), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"ssh -p 2222 play.example.com", "ana", "900", "&lt;bob&gt;"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if src.limit != 20 {
		t.Errorf("asked for %d rankings, want 20", src.limit)
	}
}

func TestIndexEmptyAndErrors(t *testing.T) {
	s := newSite(&fakeRankings{}, "host", "22", 5, log.New(io.Discard))
	if body := get(t, s.routes(), "/").Body.String(); !strings.Contains(body, "No games played yet") {
		t.Error("expected the empty notice")
	}
	if !strings.Contains(s.sshCmd, "ssh host") {
		t.Errorf("default port should be omitted, got %q", s.sshCmd)
	}

	s = newSite(&fakeRankings{err: errors.New("locked")}, "host", "22", 5, log.New(io.Discard))
	if rec := get(t, s.routes(), "/"); rec.Code != http.StatusInternalServerError {
		t.Errorf("status %d, want 500", rec.Code)
	}
	if rec := get(t, s.routes(), "/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
}

func TestQRCode(t *testing.T) {
	s := newSite(&fakeRankings{}, "host", "2222", 5, log.New(io.Discard))
	rec := get(t, s.routes(), "/qr.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("expected a PNG body")
	}
}
