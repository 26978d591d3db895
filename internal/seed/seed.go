// Package seed provides the initial state document: the built-in default
// and loaders for seed files in YAML, JSON or CUE.
package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/contacts/internal/ir"
)

// DefaultImageURL is the portrait used by the default contact.
const DefaultImageURL = "https://en.wikipedia.org/wiki/Albert_Einstein#/media/File:Einstein_1921_by_F_Schmutzer_-_restoration.jpg"

// Default returns the state a fresh store starts with: one contact and
// a next id of 2.
func Default() ir.State {
	return ir.State{
		CurrentContact: nil,
		NextID:         2,
		Contacts: []ir.Contact{
			{
				ID:          1,
				Name:        "Albert Einstein",
				ImageURL:    DefaultImageURL,
				Email:       "aeinstein@example.com",
				PhoneNumber: "15555555555",
			},
		},
	}
}

// Load reads a seed file. The format is chosen by extension:
// .yaml/.yml, .json or .cue.
func Load(path string) (ir.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ir.State{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var s ir.State
	switch ext {
	case ".yaml", ".yml":
		s, err = ParseYAML(data)
	case ".json":
		s, err = ParseJSON(data)
	case ".cue":
		s, err = ParseCUE(path, data)
	default:
		return ir.State{}, fmt.Errorf("unsupported seed format %q: want .yaml, .yml, .json or .cue", ext)
	}
	if err != nil {
		return ir.State{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseYAML decodes a YAML seed document. Unknown fields are rejected.
func ParseYAML(data []byte) (ir.State, error) {
	var s ir.State
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return ir.State{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return finish(s)
}

// ParseJSON decodes a JSON seed document. Unknown fields are rejected.
func ParseJSON(data []byte) (ir.State, error) {
	var s ir.State
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return ir.State{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return finish(s)
}

// ParseCUE evaluates a CUE seed document and decodes the result.
// The file name is used only for error positions.
//
// A CUE seed can use the language's own constraints, for example:
//
//	next_id: len(contacts) + 1
//	contacts: [{id: 1, name: "Ada", ...}]
func ParseCUE(filename string, data []byte) (ir.State, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return ir.State{}, fmt.Errorf("failed to compile CUE: %w", err)
	}
	if err := v.Validate(); err != nil {
		return ir.State{}, fmt.Errorf("invalid CUE: %w", err)
	}

	var s ir.State
	if err := v.Decode(&s); err != nil {
		return ir.State{}, fmt.Errorf("failed to decode CUE: %w", err)
	}
	return finish(s)
}

// finish applies defaults and checks invariants common to every format.
func finish(s ir.State) (ir.State, error) {
	if err := s.Validate(); err != nil {
		return ir.State{}, err
	}
	if s.Contacts == nil {
		s.Contacts = []ir.Contact{}
	}
	return s, nil
}
