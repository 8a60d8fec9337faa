package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestSaveLoad(t *testing.T) {
	digest := ScriptDigest([32]byte{1, 2, 3}, []string{"@init", "@block"})
	path := filepath.Join(t.TempDir(), "vars.snap")

	if err := Save(path, New(digest, map[string]float64{"A": 101, "gain": 0.5})); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Vars["a"] != 101 || got.Vars["gain"] != 0.5 {
		t.Errorf("vars = %v", got.Vars)
	}
	if names := got.Names(); len(names) != 2 || names[0] != "a" || names[1] != "gain" {
		t.Errorf("Names() = %v", names)
	}
	if err := got.Check(digest); err != nil {
		t.Errorf("Check(same) = %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the snapshot file, found %d entries", len(entries))
	}
}

func TestCheck(t *testing.T) {
	a := ScriptDigest([32]byte{1}, []string{"@a"})
	b := ScriptDigest([32]byte{1}, []string{"@b"})
	if a == b {
		t.Fatal("declaration set must change the digest")
	}
	s := New(a, nil)
	if err := s.Check(b); !errors.Is(err, ErrMismatch) {
		t.Errorf("Check(other) = %v, want ErrMismatch", err)
	}
	if err := s.Check(Digest{}); err != nil {
		t.Errorf("Check(zero) = %v", err)
	}
	if err := New(Digest{}, nil).Check(b); err != nil {
		t.Errorf("zero snapshot digest should match, got %v", err)
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	if _, err := Unmarshal([]byte{0xc1}); err == nil {
		t.Error("expected decode error for garbage input")
	}
	data, err := msgpack.Marshal(&Snapshot{Version: FormatVersion + 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Unmarshal(data); !errors.Is(err, ErrVersion) {
		t.Errorf("expected ErrVersion, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
