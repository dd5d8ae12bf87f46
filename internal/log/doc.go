// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package log wraps apex/log with the single-line format datadiff writes to
// stderr, a trace pseudo-level below debug, and spew dumps of decoded values.
package log
