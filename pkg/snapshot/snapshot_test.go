package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skobaya/manabasync/pkg/model"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	records := []model.Assignment{
		{Course: "データベース概論", Title: "第3回レポート", Deadline: "2025-06-01T18:00:00", URL: "/ct/course_123/report_456?x=1&y=2"},
		{Course: "DB", Title: "HW1", Deadline: "期限後提出可", URL: ""},
	}

	if err := Save(path, records); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded))
	}
	if loaded[0] != records[0] || loaded[1] != records[1] {
		t.Errorf("round-trip mismatch: %+v", loaded)
	}

	// Non-ASCII and URL characters must survive verbatim in the file
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(raw), "データベース概論") {
		t.Errorf("expected unescaped Japanese text in snapshot, got: %s", raw)
	}
	if !strings.Contains(string(raw), "?x=1&y=2") {
		t.Errorf("expected unescaped URL in snapshot, got: %s", raw)
	}
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	first := []model.Assignment{
		{Course: "A", Title: "1", Deadline: "2025-06-01T18:00:00"},
		{Course: "B", Title: "2", Deadline: "2025-06-02T18:00:00"},
	}
	if err := Save(path, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := []model.Assignment{{Course: "C", Title: "3", Deadline: "2025-06-03T18:00:00"}}
	if err := Save(path, second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Course != "C" {
		t.Errorf("expected full overwrite, got %+v", loaded)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing snapshot")
	}
	if !strings.Contains(err.Error(), "run fetch first") {
		t.Errorf("expected actionable message, got: %v", err)
	}
}

func TestSaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := Save(path, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty snapshot, got %+v", loaded)
	}
}
