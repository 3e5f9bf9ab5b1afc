package batch_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"werscore/internal/batch"
	"werscore/internal/scoring"
	"werscore/internal/testsupport"
)

func TestLoadManifestYAML(t *testing.T) {
	dir := t.TempDir()
	testsupport.WritePair(t, dir, "clip-02", "hello there\nworld", "hello world")
	path := testsupport.WriteFile(t, dir, "smoke.yaml", `
name: smoke
pairs:
  - name: clip-01
    reference: the cat sat
    hypothesis: the cat sit
  - name: clip-02
    reference_file: ref/clip-02.txt
    hypothesis_file: hyp/clip-02.txt
  - reference: unnamed
    hypothesis: unnamed
`)

	m, err := batch.LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "smoke" || len(m.Pairs) != 3 {
		t.Fatalf("manifest = %+v", m)
	}
	if m.Pairs[2].Name != "pair-3" {
		t.Fatalf("expected generated name, got %q", m.Pairs[2].Name)
	}
	if m.Pairs[1].ReferenceFile != "ref/clip-02.txt" {
		t.Fatalf("reference_file = %q", m.Pairs[1].ReferenceFile)
	}
}

func TestLoadManifestTOML(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteFile(t, dir, "set.toml", `
encoding = "windows-1252"

[[pairs]]
name = "a"
reference = "one two"
hypothesis = "one too"
`)
	m, err := batch.LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "set" {
		t.Fatalf("name should default to file stem, got %q", m.Name)
	}
	if m.Encoding != "windows-1252" || len(m.Pairs) != 1 || m.Pairs[0].Hypothesis != "one too" {
		t.Fatalf("manifest = %+v", m)
	}
}

func TestLoadManifestPipe(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteFile(t, dir, "pairs.txt", "# comment\nthe cat sat | the cat sit\n\n | stray words\nsame|same\n")
	m, err := batch.LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(m.Pairs) != 3 {
		t.Fatalf("pairs = %+v", m.Pairs)
	}
	if m.Pairs[0].Name != "line-2" || m.Pairs[0].Reference != "the cat sat" || m.Pairs[0].Hypothesis != "the cat sit" {
		t.Fatalf("first pair = %+v", m.Pairs[0])
	}
	if m.Pairs[1].Reference != "" || m.Pairs[1].Hypothesis != "stray words" {
		t.Fatalf("second pair = %+v", m.Pairs[1])
	}
}

func TestLoadManifestRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		invalid bool
	}{
		{name: "no pairs", file: "empty.yaml", content: "name: x\npairs: []\n", invalid: true},
		{name: "duplicate names", file: "dup.yaml", content: "pairs:\n  - name: a\n  - name: a\n", invalid: true},
		{name: "both inline and file", file: "both.toml", content: "[[pairs]]\nreference = \"x\"\nreference_file = \"x.txt\"\n", invalid: true},
		{name: "unknown yaml field", file: "typo.yaml", content: "pairs:\n  - refrence: x\n"},
		{name: "missing separator", file: "bad.txt", content: "no separator here\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testsupport.WriteFile(t, t.TempDir(), tt.file, tt.content)
			_, err := batch.LoadManifest(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.invalid && !errors.Is(err, batch.ErrInvalidManifest) {
				t.Fatalf("error = %v, want ErrInvalidManifest", err)
			}
		})
	}
}

func TestRunAggregatesAndCollectsFailures(t *testing.T) {
	dir := t.TempDir()
	testsupport.WritePair(t, dir, "file", "one two three four", "one two three four")
	path := testsupport.WriteFile(t, dir, "run.yaml", `
pairs:
  - name: inline
    reference: the cat sat
    hypothesis: the cat sit
  - name: file
    reference_file: ref/file.txt
    hypothesis_file: hyp/file.txt
  - name: missing
    reference_file: ref/missing.txt
    hypothesis: anything
`)
	m, err := batch.LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	runner := batch.NewRunner(scoring.Options{}, "utf-8", nil)
	res, err := runner.Run(context.Background(), m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Scored != 2 || res.Failed != 1 || len(res.Pairs) != 3 {
		t.Fatalf("result = %+v", res)
	}
	if res.WER.Distance != 1 || res.WER.Denominator != 7 {
		t.Fatalf("corpus WER = %d/%d, want 1/7", res.WER.Distance, res.WER.Denominator)
	}
	if res.Pairs[2].Err == nil || !strings.Contains(res.Pairs[2].Error, "reference") {
		t.Fatalf("missing pair result = %+v", res.Pairs[2])
	}
	if res.Pairs[0].Evaluation == nil || res.Pairs[0].Evaluation.WER.Distance != 1 {
		t.Fatalf("inline pair = %+v", res.Pairs[0])
	}

	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(b), `"failed":1`) || !strings.Contains(string(b), `"name":"missing"`) {
		t.Fatalf("json = %s", b)
	}
}

func TestRunEmptyReferencePairStaysUndefined(t *testing.T) {
	m := &batch.Manifest{Name: "edge", Pairs: []batch.Pair{{Name: "empty", Hypothesis: "words"}}}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	res, err := batch.NewRunner(scoring.Options{}, "", nil).Run(context.Background(), m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.WER.Defined() {
		t.Fatalf("corpus WER should be undefined, got %+v", res.WER)
	}
	if res.Scored != 1 {
		t.Fatalf("scored = %d", res.Scored)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	m := &batch.Manifest{Name: "c", Pairs: []batch.Pair{{Name: "a", Reference: "x", Hypothesis: "x"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := batch.NewRunner(scoring.Options{}, "", nil).Run(ctx, m)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
