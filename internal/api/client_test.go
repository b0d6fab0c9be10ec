// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLoginSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}

		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if creds.Email != "sam@example.com" {
			t.Errorf("unexpected email: %s", creds.Email)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok_abc",
			"user":  map[string]any{"id": 7, "email": "sam@example.com", "name": "Sam"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	resp, err := client.Login(context.Background(), Credentials{Email: "sam@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token != "tok_abc" {
		t.Errorf("unexpected token: %s", resp.Token)
	}
	if resp.User.Email != "sam@example.com" {
		t.Errorf("unexpected user email: %s", resp.User.Email)
	}
}

func TestLoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Login(context.Background(), Credentials{Email: "x", Password: "y"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLoginMissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"email": "x"}})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	if _, err := client.Login(context.Background(), Credentials{}); err == nil {
		t.Error("expected error for response without token")
	}
}

func TestSignupSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/signup" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok_new",
			"user":  map[string]any{"email": "new@example.com"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	resp, err := client.Signup(context.Background(), Credentials{Email: "new@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if resp.Token != "tok_new" {
		t.Errorf("unexpected token: %s", resp.Token)
	}
}

func TestSendMessageCarriesTokenAndConversation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok_live" {
			t.Errorf("unexpected auth header: %q", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req["content"] != "hello" {
			t.Errorf("unexpected content: %v", req["content"])
		}
		if req["conversation_id"] != "conv_1" {
			t.Errorf("unexpected conversation id: %v", req["conversation_id"])
		}

		json.NewEncoder(w).Encode(map[string]string{
			"conversation_id": "conv_1",
			"response":        "hi there",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, func() string { return "tok_live" })
	resp, err := client.SendMessage(context.Background(), "hello", "conv_1", nil)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if resp.Response != "hi there" {
		t.Errorf("unexpected response: %s", resp.Response)
	}
	if resp.ConversationID != "conv_1" {
		t.Errorf("unexpected conversation id: %s", resp.ConversationID)
	}
}

func TestSendMessageOmitsEmptyConversation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if _, present := req["conversation_id"]; present {
			t.Error("empty conversation_id should be omitted")
		}
		json.NewEncoder(w).Encode(map[string]string{
			"conversation_id": "conv_fresh",
			"response":        "ok",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	resp, err := client.SendMessage(context.Background(), "hi", "", nil)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if resp.ConversationID != "conv_fresh" {
		t.Errorf("unexpected conversation id: %s", resp.ConversationID)
	}
}

func TestSendMessageUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil)
	_, err := client.SendMessage(context.Background(), "hello", "", nil)
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

func TestUploadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/upload" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "notes.txt" {
			t.Errorf("unexpected filename: %s", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]string{"file_id": "file_42"})
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("attachment body"), 0600); err != nil {
		t.Fatal(err)
	}

	client := NewClient(server.URL, nil)
	ref, err := client.UploadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if ref.ID != "file_42" {
		t.Errorf("unexpected file id: %s", ref.ID)
	}
	if ref.Name != "notes.txt" {
		t.Errorf("unexpected file name: %s", ref.Name)
	}
}

func TestUploadFileMissing(t *testing.T) {
	client := NewClient("http://example.invalid", nil)
	if _, err := client.UploadFile(context.Background(), "/no/such/file"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestListConversations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"id": "c1", "title": "First chat"},
				{"id": "c2", "title": ""},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	items, err := client.ListConversations(context.Background())
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "First chat" {
		t.Errorf("unexpected title: %s", items[0].Title)
	}
	if items[1].DisplayTitle() != "Untitled" {
		t.Errorf("empty title should display as Untitled, got %s", items[1].DisplayTitle())
	}
}

func TestClearConversations(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.URL.Path != "/conversations/clear" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	if err := client.ClearConversations(context.Background()); err != nil {
		t.Fatalf("ClearConversations failed: %v", err)
	}
	if !called {
		t.Error("server not called")
	}
}

func TestNoAuthHeaderWhenLoggedOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("unexpected auth header: %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, func() string { return "" })
	if _, err := client.ListConversations(context.Background()); err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
}

func TestServerErrorSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "database down"})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.SendMessage(context.Background(), "hi", "", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("unexpected status: %d", apiErr.Status)
	}
	if apiErr.Message != "database down" {
		t.Errorf("unexpected message: %s", apiErr.Message)
	}
}
