package testmode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest maps event names to their item sequences.
//
//	events:
//	  - name: pretest
//	    sequence: pretest.tsv
//	    required: true
type Manifest struct {
	Events []EventDef `yaml:"events"`
}

type EventDef struct {
	Name     string `yaml:"name"`
	Sequence string `yaml:"sequence"`
	Required bool   `yaml:"required"`
	Priority int    `yaml:"priority"`
}

// LoadManifest reads a YAML manifest and every sequence it names. Sequence
// paths are relative to the manifest's directory.
func LoadManifest(path string) (*Manifest, map[string][]Step, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	seqs := make(map[string][]Step, len(m.Events))
	for _, ev := range m.Events {
		name := strings.TrimSpace(ev.Name)
		if name == "" {
			return nil, nil, fmt.Errorf("manifest %s: event without a name", path)
		}
		if _, dup := seqs[name]; dup {
			return nil, nil, fmt.Errorf("manifest %s: duplicate event %q", path, name)
		}
		seqPath := ev.Sequence
		if !filepath.IsAbs(seqPath) {
			seqPath = filepath.Join(base, seqPath)
		}
		f, err := os.Open(seqPath)
		if err != nil {
			return nil, nil, fmt.Errorf("event %q: %w", name, err)
		}
		steps, err := ParseSequence(f)
		f.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("event %q: %w", name, err)
		}
		seqs[name] = steps
	}
	return &m, seqs, nil
}
