// Package snapshot persists named-variable values between runs.
//
// A snapshot is a msgpack document keyed by lowercased variable name. It
// records a digest of the script it was taken from so a caller can tell
// whether the values still belong to the same program.
package snapshot

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// FormatVersion is bumped whenever the on-disk layout changes.
const FormatVersion = 1

var (
	ErrVersion  = errors.New("unsupported snapshot version")
	ErrMismatch = errors.New("snapshot was taken from a different script")
)

// Digest identifies a script by content and declared sections.
type Digest [32]byte

func (d Digest) String() string { return fmt.Sprintf("%x", d[:8]) }

// IsZero reports whether the digest was never set.
func (d Digest) IsZero() bool { return d == Digest{} }

// ScriptDigest combines the script hash with its declaration set.
func ScriptDigest(content [32]byte, sections []string) Digest {
	h := sha256.New()
	h.Write(content[:])
	for _, s := range sections {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Snapshot is the decoded document.
type Snapshot struct {
	Version int                `msgpack:"v"`
	Script  Digest             `msgpack:"script"`
	Vars    map[string]float64 `msgpack:"vars"`
}

// New captures vars under the given script digest.
func New(script Digest, vars map[string]float64) *Snapshot {
	out := make(map[string]float64, len(vars))
	for name, v := range vars {
		out[strings.ToLower(name)] = v
	}
	return &Snapshot{Version: FormatVersion, Script: script, Vars: out}
}

// Names returns the variable names in sorted order.
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.Vars))
	for name := range s.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check verifies the snapshot belongs to script. A zero digest on either side
// matches anything.
func (s *Snapshot) Check(script Digest) error {
	if s.Script.IsZero() || script.IsZero() || s.Script == script {
		return nil
	}
	return fmt.Errorf("%w (have %s, want %s)", ErrMismatch, s.Script, script)
}

// Marshal encodes the snapshot.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates a snapshot.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}
	if s.Vars == nil {
		s.Vars = map[string]float64{}
	}
	return &s, nil
}

// Save writes the snapshot atomically next to path.
func Save(path string, s *Snapshot) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot from path.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Unmarshal(data)
}
