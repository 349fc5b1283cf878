// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package smartpattern

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/apex/log"

	"github.com/tfctl/xoctl/internal/inventory"
)

// DefaultDeltaConstraint is the host version range supporting delta backups.
const DefaultDeltaConstraint = ">=6.0.0"

var defaultDelta = semver.MustParse("6.0.0")

// VersionPredicate reports whether a host version is acceptable.
type VersionPredicate func(version string) bool

// NewVersionPredicate compiles a semver constraint such as ">=7.0, <9".
func NewVersionPredicate(constraint string) (VersionPredicate, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	return func(version string) bool {
		v, err := semver.NewVersion(version)
		if err != nil {
			log.Debugf("unparsable host version: %q", version)
			return false
		}
		return c.Check(v)
	}, nil
}

// CanDeltaBackup reports whether a host running version supports delta
// backups. Empty or unparsable versions do not.
func CanDeltaBackup(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return !v.LessThan(defaultDelta)
}

// PoolPredicate restricts the selectable pools. Outside delta mode every pool
// is offered; in delta mode only pools whose master host passes CanDeltaBackup.
func PoolPredicate(deltaMode bool, hosts map[string]inventory.Host) func(inventory.Pool) bool {
	return PoolPredicateWith(deltaMode, hosts, CanDeltaBackup)
}

// PoolPredicateWith is PoolPredicate with a custom version check.
func PoolPredicateWith(deltaMode bool, hosts map[string]inventory.Host, canDelta VersionPredicate) func(inventory.Pool) bool {
	return func(pool inventory.Pool) bool {
		if !deltaMode {
			return true
		}
		master, ok := hosts[pool.Master]
		if !ok {
			return false
		}
		return canDelta(master.Version)
	}
}

// SelectablePools returns the pools accepted by pred, in order.
func SelectablePools(pools []inventory.Pool, pred func(inventory.Pool) bool) []inventory.Pool {
	var result []inventory.Pool
	for _, p := range pools {
		if pred(p) {
			result = append(result, p)
		}
	}
	return result
}
