// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the xoctl command set: ls, parse, browse, pattern
// and completion. Builders receive a meta.Meta and wire flags, config file
// sources and actions.
package command
