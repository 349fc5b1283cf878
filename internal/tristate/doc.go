// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package tristate provides the three-valued filter flag used by the list
// filters and a Dimension type grouping a fixed set of such flags.
//
// A flag is Excluded, Required or Neutral. A dimension with at least one
// Required key is in whitelist mode: only Required keys are admitted and
// Neutral keys reject. Without any Required key, Neutral means "don't care".
// Excluded always rejects.
package tristate
