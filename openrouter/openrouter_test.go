package openrouter

import (
	"strings"
	"testing"

	"fintidy"
	"fintidy/date"
)

func sampleTxs() []fintidy.Transaction {
	a := fintidy.NewTransaction(date.New(2025, 8, 20), "Checking", "TRADER JOES #552", "Groceries", fintidy.MFloat(-42.17, "USD"))
	a.Seal()
	b := fintidy.NewTransaction(date.New(2025, 8, 22), "Venmo", "ELECTRICITY SPLIT", "", fintidy.MFloat(28.50, "USD"))
	b.Seal()
	return []fintidy.Transaction{a, b}
}

func TestParseVerdicts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain", raw: `{"ab123":"spending/shoulds/grocery"}`},
		{name: "fenced", raw: "```json\n{\"ab123\":\"spending/shoulds/grocery\"}\n```"},
		{name: "bare fence", raw: "```\n{\"ab123\":\"spending/shoulds/grocery\"}\n```"},
		{name: "padded", raw: "  {\"ab123\":\"spending/shoulds/grocery\"}  "},
	}
	for _, tc := range tests {
		verdicts, err := parseVerdicts(tc.raw)
		if err != nil {
			t.Errorf("%s: parseVerdicts failed: %v", tc.name, err)
			continue
		}
		if verdicts["ab123"] != "spending/shoulds/grocery" {
			t.Errorf("%s: verdicts = %v", tc.name, verdicts)
		}
	}
}

func TestParseVerdictsRejectsProse(t *testing.T) {
	if _, err := parseVerdicts("Sure! Here are the categories you asked for."); err == nil {
		t.Errorf("a non-JSON reply should fail")
	}
}

func TestFilterVerdicts(t *testing.T) {
	txs := sampleTxs()
	leaves := []string{"spending/shoulds/grocery", "income/uncategorized"}

	verdicts := map[string]string{
		txs[0].ContentKey(): "spending/shoulds/grocery", // good
		txs[1].ContentKey(): "spending/invented",        // outside the tree
		"zzzzz":             "income/uncategorized",     // not asked about
	}
	kept := filterVerdicts(verdicts, txs, leaves)
	if len(kept) != 1 {
		t.Fatalf("kept %d verdicts, want 1", len(kept))
	}
	if kept[txs[0].ContentKey()] != "spending/shoulds/grocery" {
		t.Errorf("kept = %v", kept)
	}
}

func TestBuildPrompt(t *testing.T) {
	txs := sampleTxs()
	prompt := buildPrompt(txs, []string{"spending/shoulds/grocery"})

	for _, want := range []string{
		"ALLOWED CATEGORIES",
		"spending/shoulds/grocery",
		txs[0].ContentKey(),
		"TRADER JOES #552",
		"ELECTRICITY SPLIT",
		"-42.17",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("OPENROUTER_BASE_URL", "")
	t.Setenv("OPENROUTER_MODEL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want the default", cfg.BaseURL)
	}
	if cfg.Model == "" {
		t.Errorf("Model should have a default")
	}
}

func TestLoadConfigNoKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	if _, err := LoadConfig(); err == nil {
		t.Errorf("LoadConfig without a key should fail")
	}
}
