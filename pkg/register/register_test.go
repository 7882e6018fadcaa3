package register

import (
	"fmt"
	"strings"
	"testing"

	"github.com/skobaya/manabasync/pkg/model"
	"google.golang.org/api/tasks/v1"
)

type fakeStore struct {
	titles    []string
	inserted  []*tasks.Task
	failTitle string // Insert fails for this exact title
	listErr   error
}

func (f *fakeStore) ListTitles() ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.titles, nil
}

func (f *fakeStore) Insert(task *tasks.Task) (*tasks.Task, error) {
	if task.Title == f.failTitle {
		return nil, fmt.Errorf("simulated API error")
	}
	f.inserted = append(f.inserted, task)
	f.titles = append(f.titles, task.Title)
	return task, nil
}

func TestRunInsertsNewRecord(t *testing.T) {
	store := &fakeStore{}
	records := []model.Assignment{
		{Course: "DB", Title: "HW1", Deadline: "2025-06-01T18:00:00", URL: "/x"},
	}

	result, err := Run(store, records)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Added != 1 {
		t.Errorf("Added = %d, want 1", result.Added)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(store.inserted))
	}

	task := store.inserted[0]
	if task.Title != "[18:00] [DB] HW1" {
		t.Errorf("Title = %q, want %q", task.Title, "[18:00] [DB] HW1")
	}
	if task.Due != "2025-06-01T09:00:00.000Z" {
		t.Errorf("Due = %q, want %q", task.Due, "2025-06-01T09:00:00.000Z")
	}
	if !strings.Contains(task.Notes, "/x") {
		t.Errorf("Notes = %q, want source URL included", task.Notes)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	records := []model.Assignment{
		{Course: "DB", Title: "HW1", Deadline: "2025-06-01T18:00:00", URL: "/x"},
		{Course: "OS", Title: "HW2", Deadline: "2025-06-02T18:00:00", URL: "/y"},
	}

	first, err := Run(store, records)
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if first.Added != 2 {
		t.Fatalf("first run Added = %d, want 2", first.Added)
	}

	second, err := Run(store, records)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if second.Added != 0 {
		t.Errorf("second run Added = %d, want 0", second.Added)
	}
	if second.Skipped != 2 {
		t.Errorf("second run Skipped = %d, want 2", second.Skipped)
	}
	if len(store.inserted) != 2 {
		t.Errorf("expected 2 total inserts, got %d", len(store.inserted))
	}
}

func TestRunPartialFailure(t *testing.T) {
	store := &fakeStore{failTitle: "[18:00] [OS] HW2"}
	records := []model.Assignment{
		{Course: "DB", Title: "HW1", Deadline: "2025-06-01T18:00:00", URL: "/a"},
		{Course: "OS", Title: "HW2", Deadline: "2025-06-02T18:00:00", URL: "/b"},
		{Course: "NW", Title: "HW3", Deadline: "2025-06-03T18:00:00", URL: "/c"},
	}

	result, err := Run(store, records)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Added != 2 {
		t.Errorf("Added = %d, want 2", result.Added)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if len(store.inserted) != 2 {
		t.Errorf("expected items 1 and 3 inserted, got %d inserts", len(store.inserted))
	}
}

func TestRunRawDeadlineHasNoDue(t *testing.T) {
	store := &fakeStore{}
	records := []model.Assignment{
		{Course: "DB", Title: "HW1", Deadline: "期限は追って連絡", URL: "/x"},
	}

	result, err := Run(store, records)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Added != 1 {
		t.Fatalf("Added = %d, want 1", result.Added)
	}

	task := store.inserted[0]
	if task.Title != "[DB] HW1" {
		t.Errorf("Title = %q, want no clock prefix", task.Title)
	}
	if task.Due != "" {
		t.Errorf("Due = %q, want empty for raw deadline", task.Due)
	}
}

func TestRunListFailureAborts(t *testing.T) {
	store := &fakeStore{listErr: fmt.Errorf("boom")}
	records := []model.Assignment{
		{Course: "DB", Title: "HW1", Deadline: "2025-06-01T18:00:00", URL: "/x"},
	}

	if _, err := Run(store, records); err == nil {
		t.Fatal("expected error when listing existing tasks fails")
	}
	if len(store.inserted) != 0 {
		t.Errorf("expected no inserts after list failure, got %d", len(store.inserted))
	}
}
