package config

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var doc any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("bad test fixture %q: %v", s, err)
	}
	return doc
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string // empty means valid
	}{
		{"minimal", `{"terminals": []}`, ""},
		{"full", `{"layout": "tabs", "terminals": [{"name": "a", "command": "ls"}], "closeExisting": false, "launchOnStart": true}`, ""},
		{"split layout", `{"layout": "split", "terminals": []}`, ""},
		{"empty strings accepted", `{"terminals": [{"name": "", "command": ""}]}`, ""},
		{"extra keys ignored", `{"terminals": [], "configPath": "x", "other": 1}`, ""},
		{"null", `null`, "must be an object"},
		{"array", `[]`, "must be an object"},
		{"string", `"hello"`, "must be an object"},
		{"unknown layout", `{"layout": "grid", "terminals": []}`, `"layout"`},
		{"layout wrong case", `{"layout": "Split", "terminals": []}`, `"layout"`},
		{"layout null", `{"layout": null, "terminals": []}`, `"layout"`},
		{"missing terminals", `{"layout": "split"}`, `"terminals" is required`},
		{"terminals not array", `{"terminals": {"name": "a"}}`, "must be an array"},
		{"terminal not object", `{"terminals": ["ls"]}`, "terminals[0] must be an object"},
		{"terminal null", `{"terminals": [null]}`, "terminals[0] must be an object"},
		{"missing name", `{"terminals": [{"command": "ls"}]}`, "terminals[0].name"},
		{"numeric command", `{"terminals": [{"name": "a", "command": 1}]}`, "terminals[0].command"},
		{"second terminal bad", `{"terminals": [{"name": "a", "command": "b"}, {"name": 2, "command": "c"}]}`, "terminals[1].name"},
		{"closeExisting string", `{"terminals": [], "closeExisting": "true"}`, `"closeExisting"`},
		{"launchOnStart number", `{"terminals": [], "launchOnStart": 0}`, `"launchOnStart"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(decodeJSON(t, tt.doc))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NilMap(t *testing.T) {
	var m map[string]any
	if err := Validate(m); err == nil {
		t.Error("expected nil map to be rejected")
	}
}
