package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestSuggestionFilter(t *testing.T) {
	f := NewSuggestionFilter("Robotics")

	testCases := []struct {
		word     string
		expected bool
	}{
		{"robotics", false},
		{"IoT", true},
		{"iot", false},
		{"IOT", false},
		{"blockchain", true},
	}
	for _, tc := range testCases {
		if got := f.ShouldInclude(tc.word); got != tc.expected {
			t.Errorf("ShouldInclude(%q) = %v, want %v", tc.word, got, tc.expected)
		}
	}
	if f.Seen() != 3 {
		t.Errorf("Seen() = %d, want 3", f.Seen())
	}
}

func TestCreateRankList(t *testing.T) {
	if got := CreateRankList(0); len(got) != 0 {
		t.Errorf("expected empty ranks, got %v", got)
	}

	ranks := CreateRankList(3)
	for i, r := range ranks {
		if int(r) != i+1 {
			t.Errorf("rank %d = %d", i, r)
		}
	}

	big := CreateRankList(math.MaxUint16 + 2)
	if big[len(big)-1] != math.MaxUint16 || big[math.MaxUint16-1] != math.MaxUint16 {
		t.Error("ranks should saturate at MaxUint16")
	}
}

func TestExtractHelpers(t *testing.T) {
	data := map[string]any{
		"n":    int64(7),
		"flag": true,
		"name": "grid",
		"list": []any{"a", 1, "b"},
		"bad":  "seven",
	}

	if v, ok := ExtractInt64(data, "n"); !ok || v != 7 {
		t.Errorf("ExtractInt64 = %d, %v", v, ok)
	}
	if _, ok := ExtractInt64(data, "bad"); ok {
		t.Error("ExtractInt64 should reject strings")
	}
	if v, ok := ExtractBool(data, "flag"); !ok || !v {
		t.Error("ExtractBool failed")
	}
	if v, ok := ExtractString(data, "name"); !ok || v != "grid" {
		t.Errorf("ExtractString = %q", v)
	}
	list, ok := ExtractStringList(data, "list")
	if !ok || len(list) != 2 || list[0] != "a" || list[1] != "b" {
		t.Errorf("ExtractStringList = %v, %v", list, ok)
	}
	if _, ok := ExtractSection(data, "name"); ok {
		t.Error("ExtractSection should reject non-tables")
	}
}

func TestFileHelpers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	status := CheckDirStatus(dir)
	if !status.Exists || !status.Writable {
		t.Errorf("CheckDirStatus = %+v", status)
	}

	path := filepath.Join(dir, "x.toml")
	if FileExists(path) {
		t.Error("file should not exist yet")
	}
	if err := SaveTOMLFile(map[string]any{"k": 1}, path); err != nil {
		t.Fatalf("SaveTOMLFile: %v", err)
	}
	if !FileExists(path) {
		t.Error("file should exist")
	}

	parsed, err := ParseTOMLWithRecovery(path)
	if err != nil || parsed["k"] != int64(1) {
		t.Errorf("ParseTOMLWithRecovery = %v, %v", parsed, err)
	}

	if !filepath.IsAbs(GetAbsolutePath("rel.toml")) {
		t.Error("GetAbsolutePath should return absolute paths")
	}
	if GetAbsolutePath("") != "unknown" {
		t.Error("empty path should be unknown")
	}
}

func TestResolveCatalog(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catalogPath, []byte("items: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	pr := &PathResolver{executableDir: dir, homeDir: dir, configDir: filepath.Join(dir, "cfg")}

	if got := pr.ResolveCatalog("catalog.yaml"); got != catalogPath {
		t.Errorf("ResolveCatalog = %q, want %q", got, catalogPath)
	}
	if got := pr.ResolveCatalog(catalogPath); got != catalogPath {
		t.Errorf("absolute path should be kept, got %q", got)
	}
	if got := pr.ResolveCatalog("missing.yaml"); got != "missing.yaml" {
		t.Errorf("missing catalog should fall back to input, got %q", got)
	}

	candidates := pr.CatalogCandidates("data/catalog.yaml")
	if candidates[len(candidates)-1] != filepath.Join(dir, "cfg", "catalog.yaml") {
		t.Errorf("last candidate = %q", candidates[len(candidates)-1])
	}

	path, err := pr.GetConfigPath("catalogserve.toml")
	if err != nil || path != filepath.Join(dir, "cfg", "catalogserve.toml") {
		t.Errorf("GetConfigPath = %q, %v", path, err)
	}
}
