package testutil

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"
)

// LoadJSON loads a JSON fixture from testdata relative to the repo root.
func LoadJSON(t *testing.T, rel string, v any) {
	t.Helper()
	data := readTestdata(t, rel)
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", rel, err)
	}
}

// LoadHex decodes a hex fixture, ignoring whitespace, into raw bytes.
func LoadHex(t *testing.T, rel string) []byte {
	t.Helper()
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(readTestdata(t, rel)))
	b, err := hex.DecodeString(clean)
	if err != nil {
		t.Fatalf("decode %s: %v", rel, err)
	}
	return b
}

// LoadBytes returns a fixture verbatim.
func LoadBytes(t *testing.T, rel string) []byte {
	t.Helper()
	return readTestdata(t, rel)
}

// Path returns the location of a fixture for code that needs a file name.
func Path(t *testing.T, rel string) string {
	t.Helper()
	for _, path := range candidates(rel) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	t.Fatalf("unable to locate testdata file %s", rel)
	return ""
}

func candidates(rel string) []string {
	return []string{
		filepath.Join("testdata", rel),
		filepath.Join("..", "testdata", rel),
		filepath.Join("..", "..", "testdata", rel),
	}
}

func readTestdata(t *testing.T, rel string) []byte {
	t.Helper()
	for _, path := range candidates(rel) {
		if data, err := os.ReadFile(path); err == nil {
			return data
		}
	}
	t.Fatalf("unable to locate testdata file %s", rel)
	return nil
}
