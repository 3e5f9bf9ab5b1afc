package main

import (
	"encoding/json"
	"strings"
	"testing"

	"werscore/internal/testsupport"
)

func TestEvalFromFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	ref, hyp := testsupport.WritePair(t, env.baseDir, "clip", "the cat\nsat", "the cat sit")

	out, _, err := runCLI(t, []string{"eval", ref, hyp, "--label", "smoke"}, env.configPath)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	requireContains(t, out, "WER")
	requireContains(t, out, "0.3333")
	requireContains(t, out, "Run ID:")
}

func TestEvalJSONUndefinedRate(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())

	out, _, err := runCLI(t, []string{"eval", "--text", "", "hello", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	var payload struct {
		RunID string `json:"run_id"`
		WER   struct {
			Distance int      `json:"distance"`
			Rate     *float64 `json:"rate"`
			Defined  bool     `json:"defined"`
		} `json:"wer"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if payload.WER.Defined || payload.WER.Rate != nil || payload.WER.Distance != 1 {
		t.Fatalf("unexpected WER payload: %+v", payload.WER)
	}
	if payload.RunID != "" {
		t.Fatalf("history disabled but run id %q returned", payload.RunID)
	}
}

func TestEvalNormalizationFlags(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())

	out, _, err := runCLI(t, []string{"eval", "--text", "--punct", "--accents", "Está bien.", "este bien", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	requireContains(t, out, `"distance": 0`)
}

func TestEvalCompareTokens(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())

	out, _, err := runCLI(t, []string{"eval", "--text", "--compare-tokens", "flower cat", "flow cat"}, env.configPath)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	requireContains(t, out, "flower")
	requireContains(t, out, "0.3333")
}

func TestEvalMissingFile(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())

	_, _, err := runCLI(t, []string{"eval", "missing-ref.txt", "missing-hyp.txt"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "reference") {
		t.Fatalf("expected reference error, got %v", err)
	}
}
