// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import "log/slog"

// Option configures a Session during creation.
//
// Example:
//
//	cfg, _ := sketch.LoadConfig("sketch.toml")
//	s, err := sketch.New(0, 0,
//	    sketch.WithConfig(cfg),
//	    sketch.WithNotifier(notes),
//	)
type Option func(*options)

// options holds optional configuration for Session creation.
type options struct {
	config   *Config
	logger   *slog.Logger
	notifier chan<- Notification
	store    Store
}

// WithConfig replaces DefaultConfig. Non-zero width and height passed to
// New still override the configured canvas size.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = &cfg
	}
}

// WithLogger sets the session logger. Without it the session uses the
// package logger returned by Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithNotifier sets the channel receiving asynchronous notifications such
// as autosave failures. Sends never block; a full channel drops the
// notification.
func WithNotifier(ch chan<- Notification) Option {
	return func(o *options) {
		o.notifier = ch
	}
}

// WithStore sets where autosave writes documents. It enables autosave
// regardless of the configured Autosave.Enabled flag.
func WithStore(s Store) Option {
	return func(o *options) {
		o.store = s
	}
}
