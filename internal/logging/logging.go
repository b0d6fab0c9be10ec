// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the application logger. The TUI owns stdout, so
// logs go to a file under the flames config directory instead.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger writing JSON lines to ~/.flames/flames.log.
// Logging must never break the client: on any setup failure a no-op logger
// is returned.
func New() *zap.Logger {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return zap.NewNop()
	}
	return NewWithPath(filepath.Join(homeDir, ".flames", "flames.log"))
}

// NewWithPath creates a file logger at an explicit path.
func NewWithPath(path string) *zap.Logger {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zap.NewNop()
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return zap.NewNop()
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(f)),
		zap.InfoLevel,
	)
	return zap.New(core)
}
