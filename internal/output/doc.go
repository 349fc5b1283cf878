// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output shapes inventory objects into rows, sorts them and renders
// them as a table, JSON, YAML or the raw objects.
package output
