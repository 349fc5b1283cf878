// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for xoctl's user
// configuration, a YAML document located in the user's configuration
// directory, typically:
//   - Linux: $XDG_CONFIG_HOME/xoctl.yaml or $HOME/.config/xoctl.yaml
//   - macOS: $HOME/Library/Application Support/xoctl.yaml
//   - Windows: %APPDATA%/xoctl.yaml
//
// XOCTL_CFG_FILE points to another file. Keys are looked up first under the
// current subcommand namespace, then at the top level:
//
//	ls:
//	  output: json
//	  vms: ["*vm *running"]   # xoctl ls @vms
//	backup:
//	  deltaConstraint: ">=7.0.0"
package config
