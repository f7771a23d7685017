// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

type CodecOption func(*CodecOptions)

type CodecOptions struct {
	Verbose bool
	LogCb   func(format string, args ...any)
}

func WithVerbose() CodecOption {
	return func(opts *CodecOptions) {
		opts.Verbose = true
	}
}

func WithLogCb(logCb func(format string, args ...any)) CodecOption {
	return func(opts *CodecOptions) {
		opts.LogCb = logCb
	}
}

func (c *Codec) logf(format string, args ...any) {
	if c.options.Verbose && c.options.LogCb != nil {
		c.options.LogCb(format, args...)
	}
}
