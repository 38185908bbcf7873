// Package preset holds the built-in instruction presets for the corrector
// and the translator.
package preset

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yml
var presetsYAML []byte

// Kind selects which instruction a preset (or an instruction edit) targets.
type Kind string

const (
	KindCorrection  Kind = "correction"
	KindTranslation Kind = "translation"
)

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correction", "correct", "corrector":
		return KindCorrection, nil
	case "translation", "translate", "translator":
		return KindTranslation, nil
	default:
		return "", fmt.Errorf("unknown instruction kind %q (use correction or translation)", s)
	}
}

type Preset struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Text  string `yaml:"text"`
}

type Catalog struct {
	Correction  []Preset `yaml:"correction"`
	Translation []Preset `yaml:"translation"`
}

var (
	builtinOnce sync.Once
	builtin     *Catalog
	builtinErr  error
)

// Builtin returns the embedded catalog.
func Builtin() (*Catalog, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = Parse(presetsYAML)
	})
	return builtin, builtinErr
}

// Parse decodes a catalog and rejects duplicate or empty entries.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	for _, kind := range []Kind{KindCorrection, KindTranslation} {
		seen := make(map[string]bool)
		for _, p := range c.List(kind) {
			if p.ID == "" || strings.TrimSpace(p.Text) == "" {
				return nil, fmt.Errorf("%s preset %q is incomplete", kind, p.ID)
			}
			if seen[p.ID] {
				return nil, fmt.Errorf("duplicate %s preset %q", kind, p.ID)
			}
			seen[p.ID] = true
		}
	}
	return &c, nil
}

func (c *Catalog) List(kind Kind) []Preset {
	if c == nil {
		return nil
	}
	switch kind {
	case KindCorrection:
		return c.Correction
	case KindTranslation:
		return c.Translation
	}
	return nil
}

func (c *Catalog) Find(kind Kind, id string) (Preset, bool) {
	for _, p := range c.List(kind) {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}
