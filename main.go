package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/skobaya/manabasync/pkg/auth"
	"github.com/skobaya/manabasync/pkg/browser"
	"github.com/skobaya/manabasync/pkg/config"
	"github.com/skobaya/manabasync/pkg/google"
	"github.com/skobaya/manabasync/pkg/manaba"
	"github.com/skobaya/manabasync/pkg/register"
	"github.com/skobaya/manabasync/pkg/snapshot"
)

func main() {
	doAuth := flag.Bool("auth", false, "Authorize access to Google Tasks and exit")
	flag.Parse()

	cfg := config.Load()

	if *doAuth {
		if err := authorize(); err != nil {
			log.Fatalf("Authorization failed: %v", err)
		}
		return
	}

	switch flag.Arg(0) {
	case "fetch":
		if err := runFetch(cfg); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "register":
		if err := runRegister(cfg); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "run":
		if err := runFetch(cfg); err != nil {
			log.Fatalf("Error: %v", err)
		}
		if err := runRegister(cfg); err != nil {
			log.Fatalf("Error: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [-auth] fetch|register|run\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}
}

// authorize runs the interactive consent flow, discarding any stale token
// first so a broken refresh token cannot shadow the new one.
func authorize() error {
	configDir, err := auth.GetXdgHome()
	if err != nil {
		return fmt.Errorf("could not find configuration directory: %w", err)
	}

	tokenFile := filepath.Join(configDir, auth.TokenFile)
	if _, err := os.Stat(tokenFile); err == nil {
		log.Printf("Removing existing token file at %s", tokenFile)
		if err := os.Remove(tokenFile); err != nil {
			return fmt.Errorf("could not delete token file %s, please delete it manually: %w", tokenFile, err)
		}
	}

	if err := auth.Authorize(context.Background()); err != nil {
		return err
	}
	log.Printf("Authorization successful! Token saved to %s", tokenFile)
	return nil
}

// runFetch logs into the portal, scrapes the outstanding-assignment listing
// and overwrites the snapshot file.
func runFetch(cfg *config.Config) error {
	if err := cfg.ValidatePortal(); err != nil {
		return err
	}

	sess, err := browser.NewChromeSession(context.Background(), cfg.Headless)
	if err != nil {
		return err
	}
	defer sess.Close()

	log.Printf("Opening portal at %s ...", cfg.PortalURL)
	if err := manaba.Login(sess, cfg); err != nil {
		return err
	}
	log.Println("Login successful.")

	records, outcome, err := manaba.NewExtractor(sess).Collect()
	if err != nil {
		return err
	}
	if outcome == manaba.ListingEmpty {
		log.Println("No outstanding assignments found.")
	} else {
		log.Printf("Extracted %d assignments.", len(records))
	}

	shot := filepath.Join(cfg.ScreenshotDir, "manaba_result.png")
	if err := sess.Screenshot(shot); err != nil {
		log.Printf("Warning: could not save screenshot: %v", err)
	}

	if err := snapshot.Save(cfg.SnapshotPath, records); err != nil {
		return err
	}
	log.Printf("Wrote snapshot to %s.", cfg.SnapshotPath)
	return nil
}

// runRegister loads the snapshot and pushes the missing assignments to the
// Google Tasks list.
func runRegister(cfg *config.Config) error {
	if err := cfg.ValidateStore(); err != nil {
		return err
	}

	records, err := snapshot.Load(cfg.SnapshotPath)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d records from %s.", len(records), cfg.SnapshotPath)

	client, err := google.NewClient(context.Background(), cfg.TaskListID, cfg.TokenJSON)
	if err != nil {
		return err
	}

	result, err := register.Run(client, records)
	if err != nil {
		return err
	}
	log.Printf("Done: %d added, %d already registered, %d failed.", result.Added, result.Skipped, result.Failed)
	return nil
}
