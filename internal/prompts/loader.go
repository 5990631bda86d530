// Package prompts embeds the LLM prompt templates and exposes them
// through typed per-family accessors, so each role (extraction,
// generation) has exactly one versioned template source and call sites
// cannot drift apart.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var templateFS embed.FS

// File is one embedded prompt template file, a flat key-to-template JSON
// object parsed lazily on first use.
type File struct {
	name    string
	once    sync.Once
	entries map[string]string
	err     error
}

// The two prompt families. Extraction holds the strict fact-extraction
// instructions; Generation holds the style templates and claim rules.
var (
	Extraction = &File{name: "extraction.json"}
	Generation = &File{name: "generation.json"}
)

func (f *File) load() {
	data, err := templateFS.ReadFile(f.name)
	if err != nil {
		f.err = fmt.Errorf("failed to read prompt file %s: %w", f.name, err)
		return
	}
	if err := json.Unmarshal(data, &f.entries); err != nil {
		f.err = fmt.Errorf("failed to parse prompt file %s: %w", f.name, err)
	}
}

// Get returns the template stored under key.
func (f *File) Get(key string) (string, error) {
	f.once.Do(f.load)
	if f.err != nil {
		return "", f.err
	}
	entry, ok := f.entries[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, f.name)
	}
	return entry, nil
}

// MustGet returns the template stored under key, panicking if the file or
// key is missing. Templates are embedded, so a miss is a build defect and
// not a runtime condition worth handling at every call site.
func (f *File) MustGet(key string) string {
	entry, err := f.Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return entry
}

// Keys returns the available template keys in the file.
func (f *File) Keys() ([]string, error) {
	f.once.Do(f.load)
	if f.err != nil {
		return nil, f.err
	}
	keys := make([]string, 0, len(f.entries))
	for key := range f.entries {
		keys = append(keys, key)
	}
	return keys, nil
}

// Format substitutes {{.Key}} placeholders with values from data.
// Placeholders without a matching entry are left intact.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
