package profile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"displaywarp/internal/winapi"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "profiles.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	s := tempStore(t)
	if got := len(s.Snapshot()); got != 0 {
		t.Fatalf("expected empty store, got %d profiles", got)
	}
}

func TestStore_AddPersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.json")

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	p := Profile{
		Name:          "diablo",
		ExePath:       `C:\Games\Diablo IV\Diablo IV Launcher.exe`,
		TargetMonitor: `\\.\DISPLAY2`,
		TargetMonitorRect: &winapi.Rect{
			Left: 1920, Right: 3840, Bottom: 1080,
		},
		WindowProcessName: "Diablo IV.exe",
		ForcePrimary:      true,
	}
	if err := s.Add(p); err != nil {
		t.Fatalf("add: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get("diablo")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TargetMonitor != p.TargetMonitor || !got.ForcePrimary || got.WindowProcessName != "Diablo IV.exe" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.TargetMonitorRect == nil || got.TargetMonitorRect.Left != 1920 {
		t.Fatalf("cached rect lost: %+v", got.TargetMonitorRect)
	}
}

func TestStore_BackwardCompatibleDefaults(t *testing.T) {
	// A config written before force_primary / persistent_monitor / audio
	// existed must load with those fields defaulted.
	legacy := `{"profiles":[{"name":"old","exe_path":"C:\\app.exe","target_monitor_name":"\\\\.\\DISPLAY1"}]}`
	path := filepath.Join(t.TempDir(), "profiles.json")
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	p, err := s.Get("old")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ForcePrimary || p.PersistentMonitor || p.AudioDeviceID != "" || p.TargetMonitorRect != nil {
		t.Fatalf("expected zero defaults for missing fields, got %+v", p)
	}
}

func TestStore_UpdateAndRemove(t *testing.T) {
	s := tempStore(t)
	if err := s.Add(Profile{Name: "a", ExePath: "a.exe"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(Profile{Name: "b", ExePath: "b.exe"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.Update("a", Profile{Name: "a", ExePath: "a2.exe", PersistentMonitor: true}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := s.Get("a")
	if got.ExePath != "a2.exe" || !got.PersistentMonitor {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := s.Remove("a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// Order of the remainder is preserved.
	snap := s.Snapshot()
	if len(snap) != 1 || snap[0].Name != "b" {
		t.Fatalf("unexpected remainder: %+v", snap)
	}

	if err := s.Remove("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SnapshotIsIndependent(t *testing.T) {
	s := tempStore(t)
	rect := &winapi.Rect{Right: 100, Bottom: 100}
	if err := s.Add(Profile{Name: "p", TargetMonitorRect: rect}); err != nil {
		t.Fatalf("add: %v", err)
	}

	snap := s.Snapshot()
	snap[0].Name = "mutated"
	snap[0].TargetMonitorRect.Right = 999

	got, err := s.Get("p")
	if err != nil {
		t.Fatalf("expected original profile untouched, got %v", err)
	}
	if got.TargetMonitorRect.Right != 100 {
		t.Fatal("snapshot mutation leaked into the store")
	}
}

func TestStore_FileSchemaShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.Add(Profile{Name: "p", ExePath: "p.exe", TargetMonitor: `\\.\DISPLAY1`}); err != nil {
		t.Fatalf("add: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := doc["profiles"]; !ok {
		t.Fatalf("expected top-level profiles key, got %s", raw)
	}
}
