/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenSignVerifyRoundTrip(t *testing.T) {
	tok, err := signToken("s3cret", "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	sub, err := verifyToken("s3cret", tok)
	if err != nil {
		t.Fatalf("verifyToken: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("subject = %q", sub)
	}
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	tok, _ := signToken("s3cret", "alice", time.Now().Add(time.Hour))
	if _, err := verifyToken("other-secret", tok); err == nil {
		t.Fatalf("expected signature failure with wrong secret")
	}
	if _, err := verifyToken("s3cret", tok+"x"); err == nil {
		t.Fatalf("expected failure for mangled token")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	tok, _ := signToken("s3cret", "alice", time.Now().Add(-time.Minute))
	if _, err := verifyToken("s3cret", tok); err == nil {
		t.Fatalf("expected expiry failure")
	}
}

func TestWithAuthGatesHandler(t *testing.T) {
	called := false
	h := withAuth("s3cret", func(w http.ResponseWriter, r *http.Request, sub string) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("missing token must be rejected (code=%d)", rec.Code)
	}
	tok, _ := signToken("s3cret", "bob", time.Now().Add(time.Hour))
	req = httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("valid token must pass (code=%d)", rec.Code)
	}
}

func TestClientListBoards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/boards" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, []Board{{ID: 1, StableID: "b-1", Name: "Roadmap", Version: 3}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	boards, err := c.ListBoards(context.Background())
	if err != nil {
		t.Fatalf("ListBoards: %v", err)
	}
	if len(boards) != 1 || boards[0].Name != "Roadmap" || boards[0].Version != 3 {
		t.Fatalf("unexpected boards: %#v", boards)
	}
}

func TestClientGetBoardSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/boards/7/snapshot" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"board_id":   7,
			"version":    2,
			"created_at": "2025-06-01T00:00:00Z",
			"snapshot":   map[string]any{"name": "Roadmap"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	env, err := c.GetBoardSnapshot(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetBoardSnapshot: %v", err)
	}
	if env.BoardID != 7 || env.Version != 2 {
		t.Fatalf("unexpected envelope: %#v", env)
	}
}

func TestClientSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "tok")
	if _, err := c.ListBoards(context.Background()); err == nil {
		t.Fatalf("expected error for non-2xx status")
	}
}
