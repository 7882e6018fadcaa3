// Package register reconciles the scraped snapshot against the remote task
// list, inserting only assignments whose composed title is not already there.
package register

import (
	"fmt"
	"log"

	"github.com/skobaya/manabasync/pkg/model"
	"github.com/skobaya/manabasync/pkg/util"
	"google.golang.org/api/tasks/v1"
)

// Store is the remote task list as the reconciler sees it.
type Store interface {
	ListTitles() ([]string, error)
	Insert(task *tasks.Task) (*tasks.Task, error)
}

// Result counts what one reconciliation pass did.
type Result struct {
	Added   int
	Skipped int
	Failed  int
}

// Run inserts every snapshot record whose title is not already on the list,
// in snapshot order. The exact title string is the sole identity key, so a
// re-run against an unchanged snapshot and list inserts nothing. A failed
// insert is logged and counted, never aborts the rest of the batch.
func Run(store Store, records []model.Assignment) (Result, error) {
	existing, err := store.ListTitles()
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch existing tasks: %w", err)
	}
	log.Printf("Found %d existing tasks on the list.", len(existing))

	seen := make(map[string]struct{}, len(existing))
	for _, title := range existing {
		seen[title] = struct{}{}
	}

	var result Result
	for _, record := range records {
		title := util.ComposeTitle(record.Course, record.Title, util.ClockPortion(record.Deadline))

		if _, ok := seen[title]; ok {
			log.Printf("  skip: %s (already registered)", title)
			result.Skipped++
			continue
		}

		task := &tasks.Task{
			Title: title,
			Notes: fmt.Sprintf("%s\n(Auto added from manaba)", record.URL),
		}
		// Raw-text deadlines fail the conversion and the task simply
		// carries no due date.
		if due := util.FormatDueUTC(record.Deadline); due != "" {
			task.Due = due
		}

		if _, err := store.Insert(task); err != nil {
			log.Printf("  error adding %s: %v", title, err)
			result.Failed++
			continue
		}
		log.Printf("  add: %s", title)
		seen[title] = struct{}{}
		result.Added++
	}
	return result, nil
}
