package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"easel/internal/diag"
	"easel/internal/observ"
)

func writeScript(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) final() map[string]Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Status)
	for _, ev := range s.events {
		out[ev.File] = ev.Status
	}
	return out
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "b.eel"), "")
	writeScript(t, filepath.Join(dir, "a.eel"), "")
	writeScript(t, filepath.Join(dir, "notes.txt"), "")
	writeScript(t, filepath.Join(dir, "sub", "c.eel"), "")
	writeScript(t, filepath.Join(dir, ".hidden", "d.eel"), "")
	explicit := filepath.Join(dir, "notes.txt")

	files, err := CollectFiles(context.Background(), []string{dir, explicit, filepath.Join(dir, "a.eel")})
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.eel"),
		filepath.Join(dir, "b.eel"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "sub", "c.eel"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}

	display := DisplayPaths(files, dir)
	if display[0] != "a.eel" || display[3] != "sub/c.eel" {
		t.Errorf("DisplayPaths() = %v", display)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.eel")
	bad := filepath.Join(dir, "bad.eel")
	missing := filepath.Join(dir, "missing.eel")
	writeScript(t, good, "@init\nx = 1;\n@block\nprintf(\"%d\", x);\n")
	writeScript(t, bad, "@init\nx = ;\n@other\n")

	sink := &recordingSink{}
	timer := observ.NewTimer()
	res, err := Check(context.Background(), CheckRequest{
		Files:    []string{good, bad, missing},
		Sections: []string{"@init", "@block"},
		Jobs:     2,
		Progress: sink,
		Timer:    timer,
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("got %d results", len(res.Files))
	}
	if !res.Files[0].OK() || len(res.Files[0].Entries) != 2 || res.Files[0].Strings != 1 {
		t.Errorf("good result = %+v", res.Files[0])
	}
	if res.Files[1].OK() || res.Files[1].Bag.Len() != 2 {
		t.Errorf("bad result has %d diagnostics", res.Files[1].Bag.Len())
	}
	if items := res.Files[2].Bag.Items(); len(items) != 1 || items[0].Code != diag.LoadFileOpen {
		t.Errorf("missing result = %+v", items)
	}
	if res.Failed() != 2 {
		t.Errorf("Failed() = %d, want 2", res.Failed())
	}
	if merged := res.Bag(0); merged.Len() != 3 || merged.Items()[2].Path != missing {
		t.Errorf("merged bag has %d items", merged.Len())
	}

	statuses := sink.final()
	if statuses[good] != StatusDone || statuses[bad] != StatusError || statuses[missing] != StatusError {
		t.Errorf("final statuses = %v", statuses)
	}
	if timer.Len() != 1 {
		t.Errorf("timer phases = %d, want 1", timer.Len())
	}
	if res.Stats.Slowest == "" || res.Stats.Total < res.Stats.Max {
		t.Errorf("compile stats = %+v", res.Stats)
	}
}

func TestCheck_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	timer := observ.NewTimer()
	res, err := Check(ctx, CheckRequest{
		Files:    []string{"a.eel", "b.eel"},
		Sections: []string{"@a"},
		Timer:    timer,
	})
	if err == nil || res != nil {
		t.Errorf("Check = %v, %v; want cancellation error", res, err)
	}
	if timer.Len() != 1 {
		t.Errorf("timer phases = %d, want 1", timer.Len())
	}
}

func TestFileResult_UnfilledIsNotOK(t *testing.T) {
	var res CheckResult
	res.Files = make([]FileResult, 2)
	if res.Files[0].OK() {
		t.Error("a result without a bag must not be OK")
	}
	if res.Failed() != 2 {
		t.Errorf("Failed() = %d, want 2", res.Failed())
	}
}

func TestCheck_Empty(t *testing.T) {
	res, err := Check(context.Background(), CheckRequest{})
	if err != nil || len(res.Files) != 0 || res.Failed() != 0 {
		t.Errorf("Check(empty) = %+v, %v", res, err)
	}
}
