// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the flames chat backend.
//
// All remote operations go through a single Client: authentication,
// message exchange, file upload, and conversation management. The client
// attaches the bearer token supplied by a TokenProvider, so session state
// lives with the auth manager rather than in this package.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/flamesai/flames-tui/internal/model"
)

// Configuration constants for the backend API.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// MaxUploadSize is the maximum allowed attachment size.
	MaxUploadSize = 25 * 1024 * 1024 // 25MB limit
)

// sharedHTTPClient is the pooled HTTP client used for all backend requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// Error variables for common backend errors.
var (
	// ErrUnauthorized indicates the token is missing, invalid, or expired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnreachable indicates the backend could not be reached.
	ErrUnreachable = errors.New("backend unreachable")

	// ErrFileTooLarge indicates an attachment exceeds the upload limit.
	ErrFileTooLarge = errors.New("file too large")
)

// APIError represents a structured error response from the backend.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// TokenProvider supplies the current bearer token, or "" when logged out.
type TokenProvider func() string

// =============================================================================
// REQUEST / RESPONSE TYPES
// =============================================================================

// Credentials carries a login or signup request body.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the backend's answer to a successful login or signup.
type AuthResponse struct {
	Token string            `json:"token"`
	User  model.UserProfile `json:"user"`
}

// chatRequest is the body for a chat message exchange.
type chatRequest struct {
	Content        string   `json:"content"`
	ConversationID string   `json:"conversation_id,omitempty"`
	FileIDs        []string `json:"file_ids,omitempty"`
}

// ChatResponse is the backend's reply to a chat message.
type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Response       string `json:"response"`
}

// uploadResponse is the backend's answer to a file upload.
type uploadResponse struct {
	FileID string `json:"file_id"`
}

// conversationsResponse wraps the conversation list.
type conversationsResponse struct {
	Items []model.ConversationSummary `json:"items"`
}

// apiErrorResponse represents an error body from the backend.
type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client communicates with the flames chat backend.
type Client struct {
	baseURL    string
	token      TokenProvider
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient creates a backend client rooted at baseURL. The token provider
// may return "" for unauthenticated requests (login, signup).
func NewClient(baseURL string, token TokenProvider) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
	}
}

// WithTimeout sets the per-request timeout. The connection pool stays shared.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	c.httpClient = &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   timeout,
	}
	return c
}

// WithLogger sets the structured logger for request and response records.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.postJSON(ctx, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "missing token in auth response"}
	}
	return &out, nil
}

// Signup registers a new account and returns a session token.
func (c *Client) Signup(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.postJSON(ctx, "/auth/signup", creds, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "missing token in auth response"}
	}
	return &out, nil
}

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

// SendMessage sends a chat message, with optional conversation continuation
// and file attachments, and returns the assistant's reply.
func (c *Client) SendMessage(ctx context.Context, content, conversationID string, fileIDs []string) (*ChatResponse, error) {
	req := chatRequest{
		Content:        content,
		ConversationID: conversationID,
		FileIDs:        fileIDs,
	}
	var out ChatResponse
	if err := c.postJSON(ctx, "/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListConversations returns the caller's conversation summaries.
func (c *Client) ListConversations(ctx context.Context) ([]model.ConversationSummary, error) {
	var out conversationsResponse
	if err := c.getJSON(ctx, "/conversations", &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// ClearConversations deletes all server-side conversation history.
func (c *Client) ClearConversations(ctx context.Context) error {
	return c.postJSON(ctx, "/conversations/clear", struct{}{}, nil)
}

// =============================================================================
// FILE UPLOAD
// =============================================================================

// UploadFile uploads a local file as a chat attachment and returns its
// server-side reference.
func (c *Client) UploadFile(ctx context.Context, path string) (*model.FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read attachment: %w", err)
	}
	if info.Size() > MaxUploadSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, filepath.Base(path), info.Size())
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read attachment: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/files/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	return &model.FileRef{ID: out.FileID, Name: filepath.Base(path)}, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// newRequest builds a request with auth and standard headers applied.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "flames/1.0")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// postJSON sends a JSON body and decodes a JSON response into out (may be nil).
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// getJSON sends a GET request and decodes a JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// do executes the request, logs it, and decodes the response.
func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	req.Header.Del("Authorization")

	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Duration("duration", duration),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	c.logger.Info("request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration))

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return handleErrorResponse(resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to Go errors.
func handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	msg := ""
	if err := json.Unmarshal(body, &apiErr); err == nil {
		msg = apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
	}

	if statusCode == http.StatusUnauthorized {
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return ErrUnauthorized
	}

	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return &APIError{Status: statusCode, Message: msg}
}
