// Package main dumps the durable reading state: every stored key, the
// session slot and each user's decoded progress list.
//
// Usage:
//
//	DATA_PATH=~/Bookshelf/data go run ./cmd/dbinspect
//	STORAGE_BACKEND=sqlite DATA_PATH=~/Bookshelf/data go run ./cmd/dbinspect
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/bookshelfapp/bookshelf/internal/kv"
	"github.com/bookshelfapp/bookshelf/internal/persistence"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Bookshelf/data")
	}
	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "" {
		backend = kv.BackendBadger
	}

	store, err := kv.Open(backend, dataPath, nil)
	if err != nil {
		log.Fatalf("Failed to open %s store at %s: %v", backend, dataPath, err)
	}
	defer store.Close()

	ctx := context.Background()
	adapter := persistence.New(store, nil)

	fmt.Printf("=== Storage Inspection (%s, %s) ===\n\n", backend, dataPath)

	keys, err := store.Keys(ctx, "")
	if err != nil {
		log.Fatalf("Failed to list keys: %v", err)
	}

	fmt.Println("Keys:")
	for _, key := range keys {
		value, err := store.Get(ctx, key)
		if err != nil {
			log.Printf("Error reading %s: %v", key, err)
			continue
		}
		fmt.Printf("  %-24s %6d bytes\n", key, len(value))
	}
	fmt.Println()

	if u, ok, err := adapter.LoadSession(ctx); err != nil {
		log.Printf("Error reading session: %v", err)
	} else if ok {
		fmt.Printf("Session: %s (%s), id %d\n\n", u.DisplayName, u.Username, u.ID)
	} else {
		fmt.Print("Session: none\n\n")
	}

	totalRecords, totalNotes := 0, 0
	for _, key := range keys {
		userID, ok := kv.ParseProgressKey(key)
		if !ok {
			continue
		}

		raw, err := store.Get(ctx, key)
		if err != nil {
			log.Printf("Error reading %s: %v", key, err)
			continue
		}
		records, err := persistence.DecodeProgress(raw)
		if err != nil {
			fmt.Printf("User %d: MALFORMED (%v)\n\n", userID, err)
			continue
		}

		fmt.Printf("User %d: %d books\n", userID, len(records))
		for _, p := range records {
			fmt.Printf("  book %-3d page %4d/%-4d %3d%%  notes %d  last read %s\n",
				p.BookID, p.CurrentPage, p.TotalPages, p.Percent(), len(p.Notes),
				p.LastReadAt.Format(persistence.TimeLayout))
			totalNotes += len(p.Notes)
		}
		totalRecords += len(records)
		fmt.Println()
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Total keys: %d\n", len(keys))
	fmt.Printf("Progress records: %d\n", totalRecords)
	fmt.Printf("Notes: %d\n", totalNotes)
}
