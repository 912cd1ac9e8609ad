package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileError reports a workspace file that exists but cannot be used,
// either because it does not parse or because it fails validation.
type FileError struct {
	// Path is the workspace file location.
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// WorkspaceFile is a validated workspace configuration file.
// Optional fields are nil when the file omits them.
type WorkspaceFile struct {
	Path          string
	Layout        *Layout
	Terminals     []TerminalSpec
	CloseExisting *bool
	LaunchOnStart *bool
	// ModTime is the modification time of the file when loaded.
	ModTime time.Time
}

// Apply builds a configuration from the file, taking layout, closeExisting
// and launchOnStart from fallback when the file omits them. Terminals always
// come from the file, even when the list is empty.
func (wf *WorkspaceFile) Apply(fallback AutorunConfig) AutorunConfig {
	cfg := AutorunConfig{
		Layout:        fallback.Layout,
		Terminals:     cloneTerminals(wf.Terminals),
		CloseExisting: fallback.CloseExisting,
		LaunchOnStart: fallback.LaunchOnStart,
		Source:        SourceWorkspaceFile,
		SourcePath:    wf.Path,
	}
	if wf.Layout != nil {
		cfg.Layout = *wf.Layout
	}
	if wf.CloseExisting != nil {
		cfg.CloseExisting = *wf.CloseExisting
	}
	if wf.LaunchOnStart != nil {
		cfg.LaunchOnStart = *wf.LaunchOnStart
	}
	return cfg
}

// LoadWorkspaceFile reads the workspace file at path.
// Returns nil, nil if the file doesn't exist.
// Returns a *FileError if the file exists but cannot be parsed or validated.
func LoadWorkspaceFile(path string) (*WorkspaceFile, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	wf, err := ParseWorkspaceFile(path, data)
	if err != nil {
		return nil, err
	}
	wf.ModTime = info.ModTime()
	return wf, nil
}

// ParseWorkspaceFile decodes and validates workspace file contents.
// Files ending in .yaml or .yml are decoded as YAML, everything else as JSON.
func ParseWorkspaceFile(path string, data []byte) (*WorkspaceFile, error) {
	doc, err := decodeDocument(path, data)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	if err := Validate(doc); err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return fromDocument(path, doc.(map[string]any)), nil
}

// IsYAMLPath reports whether path names a YAML workspace file.
func IsYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func decodeDocument(path string, data []byte) (any, error) {
	var doc any
	if IsYAMLPath(path) {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return doc, nil
}

// fromDocument converts a validated document. It must only be called after
// Validate has accepted doc.
func fromDocument(path string, obj map[string]any) *WorkspaceFile {
	wf := &WorkspaceFile{Path: path}

	if v, ok := obj["layout"].(string); ok {
		layout := Layout(v)
		wf.Layout = &layout
	}

	list := obj["terminals"].([]any)
	wf.Terminals = make([]TerminalSpec, 0, len(list))
	for _, item := range list {
		t := item.(map[string]any)
		wf.Terminals = append(wf.Terminals, TerminalSpec{
			Name:    t["name"].(string),
			Command: t["command"].(string),
		})
	}

	if v, ok := obj["closeExisting"].(bool); ok {
		wf.CloseExisting = &v
	}
	if v, ok := obj["launchOnStart"].(bool); ok {
		wf.LaunchOnStart = &v
	}
	return wf
}
