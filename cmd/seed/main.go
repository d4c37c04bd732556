// Package main seeds the durable store with sample reading progress for the
// stub reader accounts.
//
// Usage:
//
//	DATA_PATH=~/Bookshelf/data go run ./cmd/seed
//	DATA_PATH=~/Bookshelf/data go run ./cmd/seed --books 6 --seed 42
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/bookshelfapp/bookshelf/internal/auth"
	"github.com/bookshelfapp/bookshelf/internal/catalog"
	"github.com/bookshelfapp/bookshelf/internal/domain"
	"github.com/bookshelfapp/bookshelf/internal/kv"
	"github.com/bookshelfapp/bookshelf/internal/persistence"
	"github.com/bookshelfapp/bookshelf/internal/progress"
)

var (
	booksPerUser = flag.Int("books", 4, "books to start per user")
	seed         = flag.Int64("seed", 0, "random seed; 0 uses the current time")
)

var sampleNotes = []string{
	"Перечитать эту главу",
	"Хорошая цитата",
	"Вернуться позже",
	"Интересная мысль автора",
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Bookshelf/data")
	}
	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "" {
		backend = kv.BackendBadger
	}

	fmt.Printf("Opening %s store at: %s\n", backend, dataPath)

	store, err := kv.Open(backend, dataPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	c, err := catalog.Default(nil)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	ctx := context.Background()
	adapter := persistence.New(store, nil)
	provider, err := auth.NewProvider(adapter, nil, nil, nil)
	if err != nil {
		log.Fatalf("Failed to create identity provider: %v", err)
	}
	users := provider.Users()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	books := c.All()
	for _, user := range users {
		fmt.Printf("\nSeeding progress for %s (%s)\n", user.DisplayName, user.Username)

		// Spread reads over the past two weeks so recent-books ordering is visible.
		clock := time.Now().Add(-14 * 24 * time.Hour)
		s := progress.Open(ctx, user.ID, progress.Deps{
			Catalog: c,
			Adapter: adapter,
			Clock: func() time.Time {
				clock = clock.Add(time.Duration(1+rng.Intn(48)) * time.Hour)
				return clock
			},
		})

		picked := pick(rng, books, min(*booksPerUser, len(books)))
		for _, b := range picked {
			page := rng.Intn(b.PageCount + 1)
			if rng.Intn(4) == 0 {
				page = b.PageCount
			}
			if err := s.UpdateProgress(ctx, b.ID, page); err != nil {
				log.Printf("  Failed to update book %d: %v", b.ID, err)
				continue
			}

			notes := rng.Intn(3)
			for range notes {
				text := sampleNotes[rng.Intn(len(sampleNotes))]
				if err := s.AddNote(ctx, b.ID, rng.Intn(max(page, 1)), text); err != nil {
					log.Printf("  Failed to add note to book %d: %v", b.ID, err)
				}
			}

			fmt.Printf("  %-40s page %d/%d, %d notes\n", b.Title, page, b.PageCount, notes)
		}
	}

	fmt.Printf("\nDone (seed %d)\n", *seed)
}

func pick(rng *rand.Rand, books []domain.Book, n int) []domain.Book {
	shuffled := make([]domain.Book, len(books))
	copy(shuffled, books)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
