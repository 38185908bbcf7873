// Package prompts builds the model prompts for correction and translation
// from YAML templates embedded in the binary.
package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/oukeidos/kozh/internal/llm"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yml
var templatesFS embed.FS

const (
	noPreference    = "No specific preference provided."
	noInstruction   = "None"
	correctionName  = "correction"
	resultName      = "result_translation"
	quickName       = "quick_translation"
	templateField   = "template"
	toneFieldPrefix = "tone_"
)

// Prompts holds the parsed template files, keyed by file name.
type Prompts struct {
	templates map[string]map[string]string
}

var (
	defaultOnce    sync.Once
	defaultPrompts *Prompts
	defaultErr     error
)

// Default returns the embedded prompt set, parsed once.
func Default() (*Prompts, error) {
	defaultOnce.Do(func() {
		defaultPrompts, defaultErr = Load(templatesFS, "templates")
	})
	return defaultPrompts, defaultErr
}

// Load reads every *.yml file in dir. Each file is a flat mapping of
// field name to string.
func Load(fsys fs.FS, dir string) (*Prompts, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("glob prompt dir: %w", err)
	}
	loaded := make(map[string]map[string]string, len(paths))
	for _, filePath := range paths {
		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return nil, fmt.Errorf("read prompt file: %w", err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse prompt yaml %s: %w", filePath, err)
		}
		mapping := make(map[string]string, len(raw))
		for key, value := range raw {
			if value == nil {
				mapping[key] = ""
				continue
			}
			mapping[key] = fmt.Sprint(value)
		}
		name := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
		loaded[name] = mapping
	}
	return &Prompts{templates: loaded}, nil
}

func (p *Prompts) field(name, key string) (string, error) {
	if p == nil || p.templates == nil {
		return "", fmt.Errorf("prompts not initialized")
	}
	data, ok := p.templates[name]
	if !ok {
		return "", fmt.Errorf("prompt not found: %s", name)
	}
	value, ok := data[key]
	if !ok {
		return "", fmt.Errorf("prompt field missing: %s.%s", name, key)
	}
	return value, nil
}

// ToneDirective returns the tone requirement sentence for a tone name
// such as "polite" or "casual".
func (p *Prompts) ToneDirective(tone string) (string, error) {
	return p.field(correctionName, toneFieldPrefix+tone)
}

// Correction builds the editor prompt. The input is embedded as typed.
func (p *Prompts) Correction(input, instruction, tone string) (string, error) {
	directive, err := p.ToneDirective(tone)
	if err != nil {
		return "", err
	}
	tmpl, err := p.field(correctionName, templateField)
	if err != nil {
		return "", err
	}
	out, err := FormatTemplate(tmpl, map[string]string{
		"instruction": orDefault(instruction, noPreference),
		"tone":        directive,
		"input":       input,
	})
	if err != nil {
		return "", fmt.Errorf("format %s: %w", correctionName, err)
	}
	return out, nil
}

// ResultTranslation builds the Korean to Simplified Chinese prompt for a
// corrected text.
func (p *Prompts) ResultTranslation(text string) (string, error) {
	tmpl, err := p.field(resultName, templateField)
	if err != nil {
		return "", err
	}
	out, err := FormatTemplate(tmpl, map[string]string{"input": text})
	if err != nil {
		return "", fmt.Errorf("format %s: %w", resultName, err)
	}
	return out, nil
}

// QuickTranslation builds the free translator prompt. source and target
// are language names as they should appear to the model.
func (p *Prompts) QuickTranslation(text, source, target, instruction string) (string, error) {
	tmpl, err := p.field(quickName, templateField)
	if err != nil {
		return "", err
	}
	out, err := FormatTemplate(tmpl, map[string]string{
		"source":      source,
		"target":      target,
		"instruction": orDefault(instruction, noInstruction),
		"input":       text,
	})
	if err != nil {
		return "", fmt.Errorf("format %s: %w", quickName, err)
	}
	return out, nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// CorrectionSchema describes the {corrected, explanation} answer.
func CorrectionSchema() *llm.Schema {
	return llm.StringObject(
		llm.Field{Name: "corrected", Description: "The corrected full text matching the requested tone"},
		llm.Field{Name: "explanation", Description: "Brief explanation of corrections in Korean"},
	)
}

// TranslationSchema describes the {precise, creative} answer.
func TranslationSchema() *llm.Schema {
	return llm.StringObject(
		llm.Field{Name: "precise", Description: "Natural, native-level translation accurate to the original meaning"},
		llm.Field{Name: "creative", Description: "Social media style translation with emojis and hashtags"},
	)
}
