// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tfctl/xoctl/internal/output"
	"github.com/tfctl/xoctl/internal/smartpattern"
)

// PowerStates are the values accepted by pattern set --power-state.
var PowerStates = []string{smartpattern.PowerStateAll, "Running", "Halted", "Suspended", "Paused"}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

// PowerStateValidator accepts PowerStates case-insensitively.
func PowerStateValidator(value any) error {
	s, _ := value.(string)
	if _, ok := canonicalPowerState(s); !ok {
		return fmt.Errorf("must be one of %v", PowerStates)
	}
	return nil
}

// canonicalPowerState maps s onto the spelling used in PowerStates.
func canonicalPowerState(s string) (string, bool) {
	for _, p := range PowerStates {
		if strings.EqualFold(p, s) {
			return p, true
		}
	}
	return s, false
}
