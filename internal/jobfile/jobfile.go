// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package jobfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/xoctl/internal/smartpattern"
)

// PatternKey is the job definition key holding the smart pattern.
const PatternKey = "vms"

// File is a backup job definition. Everything but the smart pattern is kept
// as read, including key order and comments for YAML documents.
type File struct {
	Path string
	JSON bool
	doc  yaml.Node
}

// Load reads the job definition at path. Files ending in .json are written
// back as JSON.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job: %w", err)
	}

	f, err := Parse(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse job %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse decodes a job definition. asJSON selects the output encoding.
func Parse(data []byte, asJSON bool) (*File, error) {
	f := &File{JSON: asJSON}
	if err := yaml.Unmarshal(data, &f.doc); err != nil {
		return nil, err
	}

	// An empty document is an empty job.
	if f.doc.Kind == 0 {
		f.doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}

	if f.root() == nil {
		return nil, errors.New("job definition is not a mapping")
	}
	return f, nil
}

func (f *File) root() *yaml.Node {
	if f.doc.Kind != yaml.DocumentNode || len(f.doc.Content) == 0 {
		return nil
	}
	if n := f.doc.Content[0]; n.Kind == yaml.MappingNode {
		return n
	}
	return nil
}

// valueIndex returns the index of the value node for key in the root
// mapping, or -1.
func (f *File) valueIndex(key string) int {
	root := f.root()
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			return i + 1
		}
	}
	return -1
}

// Pattern returns the smart pattern of the job. A job without one yields the
// zero Pattern.
func (f *File) Pattern() (smartpattern.Pattern, error) {
	var p smartpattern.Pattern

	i := f.valueIndex(PatternKey)
	if i < 0 {
		return p, nil
	}
	if err := f.root().Content[i].Decode(&p); err != nil {
		return p, fmt.Errorf("invalid smart pattern: %w", err)
	}
	return p, nil
}

// SetPattern replaces the smart pattern of the job, appending the key if it
// is missing.
func (f *File) SetPattern(p smartpattern.Pattern) error {
	var node yaml.Node
	if err := node.Encode(p); err != nil {
		return fmt.Errorf("failed to encode smart pattern: %w", err)
	}

	root := f.root()
	if i := f.valueIndex(PatternKey); i >= 0 {
		root.Content[i] = &node
	} else {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: PatternKey},
			&node)
	}

	log.Debugf("job pattern replaced: path=%s", f.Path)
	return nil
}

// Bytes encodes the job definition.
func (f *File) Bytes() ([]byte, error) {
	if f.JSON {
		var v interface{}
		if err := f.doc.Decode(&v); err != nil {
			return nil, err
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&f.doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the job definition back to Path.
func (f *File) Save() error {
	if f.Path == "" {
		return errors.New("job has no path")
	}

	data, err := f.Bytes()
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(f.Path, data, mode)
}

// PatternJSON returns the smart pattern encoded as JSON.
func PatternJSON(p smartpattern.Pattern) ([]byte, error) {
	return json.Marshal(p)
}
