package batch

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"werscore/internal/textio"
)

// ErrInvalidManifest reports a manifest that parses but cannot be run.
var ErrInvalidManifest = errors.New("invalid manifest")

// Pair is one reference/hypothesis couple. Each side is either inline text
// or a file path; a side with neither is an empty transcript.
type Pair struct {
	Name           string `yaml:"name" toml:"name" json:"name"`
	Reference      string `yaml:"reference" toml:"reference" json:"reference,omitempty"`
	Hypothesis     string `yaml:"hypothesis" toml:"hypothesis" json:"hypothesis,omitempty"`
	ReferenceFile  string `yaml:"reference_file" toml:"reference_file" json:"reference_file,omitempty"`
	HypothesisFile string `yaml:"hypothesis_file" toml:"hypothesis_file" json:"hypothesis_file,omitempty"`
}

// Manifest lists the pairs of one batch run.
type Manifest struct {
	Name string `yaml:"name" toml:"name"`
	// Encoding overrides the configured transcript encoding for file pairs.
	Encoding string `yaml:"encoding" toml:"encoding"`
	Pairs    []Pair `yaml:"pairs" toml:"pairs"`

	// Path is the manifest location; relative pair files resolve against
	// its directory.
	Path string `yaml:"-" toml:"-"`
}

// LoadManifest reads path and dispatches on its extension.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m *Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		m, err = parseYAML(data)
	case ".toml":
		m, err = parseTOML(data)
	default:
		m, err = parsePipe(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	m.Path = path
	if strings.TrimSpace(m.Name) == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseYAML(data []byte) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func parseTOML(data []byte) (*Manifest, error) {
	var m Manifest
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// parsePipe reads "reference | hypothesis" lines. Blank lines and lines
// starting with '#' are skipped. Only the first '|' separates the sides.
func parsePipe(data []byte) (*Manifest, error) {
	var m Manifest
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ref, hyp, ok := strings.Cut(line, "|")
		if !ok {
			return nil, fmt.Errorf("line %d: missing '|' separator", lineNo)
		}
		m.Pairs = append(m.Pairs, Pair{
			Name:       "line-" + strconv.Itoa(lineNo),
			Reference:  strings.TrimSpace(ref),
			Hypothesis: strings.TrimSpace(hyp),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate names unnamed pairs and rejects ambiguous or duplicate entries.
func (m *Manifest) Validate() error {
	if len(m.Pairs) == 0 {
		return fmt.Errorf("%w: no pairs", ErrInvalidManifest)
	}
	seen := make(map[string]struct{}, len(m.Pairs))
	for i := range m.Pairs {
		p := &m.Pairs[i]
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			p.Name = "pair-" + strconv.Itoa(i+1)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: duplicate pair name %q", ErrInvalidManifest, p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.Reference != "" && p.ReferenceFile != "" {
			return fmt.Errorf("%w: pair %q sets both reference and reference_file", ErrInvalidManifest, p.Name)
		}
		if p.Hypothesis != "" && p.HypothesisFile != "" {
			return fmt.Errorf("%w: pair %q sets both hypothesis and hypothesis_file", ErrInvalidManifest, p.Name)
		}
	}
	return nil
}

// Load returns the reference and hypothesis text of p, reading files
// relative to baseDir.
func (p Pair) Load(baseDir string, opts textio.Options) (ref, hyp string, err error) {
	ref, err = loadSide(p.Reference, p.ReferenceFile, baseDir, opts)
	if err != nil {
		return "", "", fmt.Errorf("reference: %w", err)
	}
	hyp, err = loadSide(p.Hypothesis, p.HypothesisFile, baseDir, opts)
	if err != nil {
		return "", "", fmt.Errorf("hypothesis: %w", err)
	}
	return ref, hyp, nil
}

func loadSide(inline, file, baseDir string, opts textio.Options) (string, error) {
	if file == "" {
		return inline, nil
	}
	if !filepath.IsAbs(file) && baseDir != "" {
		file = filepath.Join(baseDir, file)
	}
	return textio.ReadTranscript(file, opts)
}
