// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package smartpattern compiles the smart backup selectors (power state, pool
// membership, tag membership) into the declarative Pattern stored in a backup
// job, and destructures a stored Pattern back into selector values.
//
// Pools compile as-is:
//
//	$pool: {values: [pool-a], notValues: [pool-b]}
//
// Tags are wrapped in one-element groups so that several tags can later be
// required together:
//
//	tags: {values: [[prod]], notValues: [[replicated]]}
//
// An absent sub-pattern puts no constraint on the VMs, which differs from a
// sub-pattern with empty sides. Editor applies partial changes (only values or
// only notValues) without losing the other side.
package smartpattern
