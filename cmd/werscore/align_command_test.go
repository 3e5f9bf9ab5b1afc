package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"werscore/internal/testsupport"
)

func TestAlignPairwise(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())

	out, _, err := runCLI(t, []string{"align", "--text", "--format", "pairwise", "the cat sat", "the cat sit"}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	want := "REF: the cat sat\n     |   |   S  \nHYP: the cat sit\n"
	if out != want {
		t.Fatalf("align output =\n%q\nwant\n%q", out, want)
	}
}

func TestAlignUsesConfiguredFormat(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory(), testsupport.WithReportFormat("csv"))

	out, _, err := runCLI(t, []string{"align", "--text", "a b", "a c"}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	requireContains(t, out, "#,Op,Reference,Hypothesis")
	requireContains(t, out, "2,substitution,b,c")
}

func TestAlignCharModeToFile(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	target := filepath.Join(env.baseDir, "out", "align.md")

	out, _, err := runCLI(t, []string{"align", "--text", "--mode", "char", "--format", "md", "--output", target, "flower", "flow"}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	requireContains(t, out, "Wrote markdown alignment")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.Count(string(data), "deletion") != 2 {
		t.Fatalf("expected two deletions in %s", data)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Fatalf("file output must not contain colour codes: %q", data)
	}
}

func TestAlignRejectsBadFlags(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())

	tests := [][]string{
		{"align", "--text", "--format", "xml", "a", "b"},
		{"align", "--text", "--mode", "syllable", "a", "b"},
		{"align", "--text", "--color", "sometimes", "a", "b"},
	}
	for _, args := range tests {
		if _, _, err := runCLI(t, args, env.configPath); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}
