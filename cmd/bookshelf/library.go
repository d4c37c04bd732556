package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bookshelfapp/bookshelf/internal/derive"
	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
	"github.com/bookshelfapp/bookshelf/internal/search"
)

func newBooksCommand(a *app) *cobra.Command {
	var q derive.Query

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List catalog books, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			books := a.svc.Books(q)
			if a.jsonOut {
				return a.printJSON(books)
			}
			a.printBooks(books)
			return nil
		},
	}

	cmd.Flags().StringVarP(&q.Search, "query", "q", "", "substring of title or author, any case")
	cmd.Flags().StringVarP(&q.Genre, "genre", "g", "", "exact genre, any case")
	return cmd
}

func newGenresCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List every genre in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			genres := a.svc.Genres()
			if a.jsonOut {
				return a.printJSON(genres)
			}
			for _, g := range genres {
				fmt.Fprintln(a.out, g)
			}
			return nil
		},
	}
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show a book and your progress on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := a.svc.Book(id)
			if err != nil {
				return err
			}

			// Progress is optional here: signed-out readers still see the book.
			p, hasProgress, progressErr := a.svc.Progress(id)
			hasProgress = hasProgress && progressErr == nil

			if a.jsonOut {
				view := map[string]any{"book": b}
				if hasProgress {
					view["progress"] = p
				}
				return a.printJSON(view)
			}

			fmt.Fprintf(a.out, "%s\n%s, %d\n", b.Title, b.Author, b.PublicationYear)
			fmt.Fprintf(a.out, "Genres: %s\n", strings.Join(b.Genres, ", "))
			fmt.Fprintf(a.out, "Pages: %d  Rating: %.1f\n", b.PageCount, b.Rating)
			if b.Description != "" {
				fmt.Fprintf(a.out, "\n%s\n", b.Description)
			}
			if hasProgress {
				fmt.Fprintf(a.out, "\nProgress: page %d of %d (%d%%)\n", p.CurrentPage, p.TotalPages, p.Percent())
				for _, n := range p.Notes {
					fmt.Fprintf(a.out, "  p.%d: %s\n", n.Page, n.Text)
				}
			}
			return nil
		},
	}
}

func newSearchCommand(a *app) *cobra.Command {
	var params search.Params

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over titles, authors and descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Query = strings.Join(args, " ")

			results, err := a.svc.Search(cmd.Context(), params)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(results)
			}
			w := a.table()
			fmt.Fprintln(w, "ID\tSCORE\tTITLE\tAUTHOR")
			for _, r := range results {
				fmt.Fprintf(w, "%d\t%.3f\t%s\t%s\n", r.Book.ID, r.Score, r.Book.Title, r.Book.Author)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&params.Genre, "genre", "g", "", "restrict to a genre")
	cmd.Flags().IntVar(&params.MinYear, "from", 0, "earliest publication year")
	cmd.Flags().IntVar(&params.MaxYear, "to", 0, "latest publication year")
	cmd.Flags().IntVarP(&params.Limit, "limit", "n", search.DefaultLimit, "maximum results")
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, domainerrors.Validationf("invalid book id %q", s)
	}
	return id, nil
}
