// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points XOCTL_CFG_FILE at a testdata file and resets the
// global Config for the duration of the test.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err)

	t.Setenv(EnvVar, absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func withConfig(t *testing.T, testFile string, fn func(t *testing.T)) {
	t.Helper()
	setupTestConfig(t, testFile)
	_, _ = Load()
	fn(t)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		wantErr   bool
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "json", cfg.Data["output"])
				assert.Equal(t, "*vm", cfg.Data["query"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				ls, ok := cfg.Data["ls"].(map[string]interface{})
				require.True(t, ok, "ls should be a map")
				assert.Equal(t, "yaml", ls["output"])
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Empty(t, cfg.Data)
			},
		},
		{
			name:     "missing file",
			testFile: "nonexistent.yaml",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_Namespace(t *testing.T) {
	setupTestConfig(t, "nested.yaml")

	cfg, err := Load("ls")
	require.NoError(t, err)
	assert.Equal(t, "ls", cfg.Namespace)
	assert.Equal(t, "ls", Config.Namespace)
}

func TestFile_Directory(t *testing.T) {
	t.Setenv(EnvVar, t.TempDir())
	_, err := File()
	assert.ErrorContains(t, err, "directory")
}

func TestGetString(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		tests := []struct {
			name    string
			key     string
			def     []string
			want    string
			wantErr bool
		}{
			{"top level", "output", nil, "text", false},
			{"nested", "ls.output", nil, "yaml", false},
			{"deep", "ls.colors.title", nil, "#f6be00", false},
			{"semver constraint", "backup.deltaConstraint", nil, ">=7.0.0", false},
			{"missing with default", "nope", []string{"fallback"}, "fallback", false},
			{"missing without default", "nope", nil, "", true},
			{"not a string", "ls.padding", nil, "", true},
			{"map is not a string", "ls", nil, "", true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := GetString(tt.key, tt.def...)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})
}

func TestGetInt(t *testing.T) {
	withConfig(t, "mixed-types.yaml", func(t *testing.T) {
		got, err := GetInt("version")
		require.NoError(t, err)
		assert.Equal(t, 1, got)

		got, err = GetInt("timeout")
		require.NoError(t, err)
		assert.Equal(t, 30, got)

		got, err = GetInt("missing", 5)
		require.NoError(t, err)
		assert.Equal(t, 5, got)

		_, err = GetInt("name")
		assert.Error(t, err)
	})
}

func TestGetBool(t *testing.T) {
	withConfig(t, "mixed-types.yaml", func(t *testing.T) {
		got, err := GetBool("titles")
		require.NoError(t, err)
		assert.True(t, got)

		got, err = GetBool("missing", true)
		require.NoError(t, err)
		assert.True(t, got)

		_, err = GetBool("name")
		assert.Error(t, err)
	})
}

func TestGetStringSlice(t *testing.T) {
	withConfig(t, "mixed-types.yaml", func(t *testing.T) {
		got, err := GetStringSlice("tags")
		require.NoError(t, err)
		assert.Equal(t, []string{"prod", "web"}, got)

		got, err = GetStringSlice("name")
		require.NoError(t, err)
		assert.Equal(t, []string{"lab"}, got)

		got, err = GetStringSlice("missing", []string{"a"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, got)

		_, err = GetStringSlice("mixed")
		assert.Error(t, err)

		_, err = GetStringSlice("version")
		assert.Error(t, err)
	})
}

func TestConfig_GetWithNamespace(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		Config.Namespace = "ls"

		got, err := GetString("output")
		require.NoError(t, err)
		assert.Equal(t, "yaml", got, "namespaced key wins")

		vms, err := GetStringSlice("vms")
		require.NoError(t, err)
		assert.Equal(t, []string{"*vm *running", "--titles"}, vms)

		got, err = GetString("backup.deltaConstraint")
		require.NoError(t, err)
		assert.Equal(t, ">=7.0.0", got, "falls back to the bare key")

		Config.Namespace = "pattern"
		got, err = GetString("output")
		require.NoError(t, err)
		assert.Equal(t, "text", got)
	})
}

func TestLookup_LazyLoad(t *testing.T) {
	setupTestConfig(t, "simple.yaml")
	Config = Type{Namespace: "ls"}

	got, err := GetString("output")
	require.NoError(t, err)
	assert.Equal(t, "json", got)
	assert.Equal(t, "ls", Config.Namespace, "namespace survives the lazy load")
}
