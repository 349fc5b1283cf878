// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows a list of managed objects (hosts, pools, storage
// repositories and VMs) using the text typed in a search box.
//
// Query Syntax:
//
// The query is split on whitespace. Tokens starting with '*' or '!' are
// flags, everything else is a keyword.
//
//   - "*vm" : only VMs (the types dimension switches to whitelist mode)
//   - "!host" : everything but hosts
//   - "*running" : only running objects; objects without a power state, such
//     as storage repositories, are hidden
//   - "!*halted" : same as "!halted"
//   - "*!halted" : dropped, the option "!halted" names no flag
//   - "web *vm" : VMs having "web" in one of their fields
//
// Recognized flags are host, pool, sr and vm for the types dimension and
// running, halted, disconnected and unpatched for the states dimension. Flag
// names are case-insensitive. Unknown flags are silently dropped and never
// reach the keyword search.
//
// Evaluation:
//
// Each dimension is a tristate.Dimension. Excluded always removes an object;
// a Required flag restricts the dimension to its Required keys; Neutral alone
// means "don't care". See Evaluate for the power state gating rule.
//
// Keyword Search:
//
// The keywords, joined by single spaces, form the search string. FilterDataset
// keeps objects having the search string, ignoring case, in any string or
// number field.
package filters
