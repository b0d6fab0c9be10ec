// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// UserProfile is the account payload returned by the backend on login and
// signup. The client treats it as opaque beyond optional-field access.
type UserProfile struct {
	ID    any    `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// FileRef pairs the identifier returned by the upload endpoint with the
// local display name of the uploaded file.
type FileRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ConversationSummary is one entry of the backend's conversation listing.
type ConversationSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// DisplayTitle returns the title or a fallback for untitled conversations.
func (c ConversationSummary) DisplayTitle() string {
	if c.Title == "" {
		return "Untitled"
	}
	return c.Title
}
