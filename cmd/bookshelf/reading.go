package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
	"github.com/bookshelfapp/bookshelf/internal/service"
)

func newReadCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <book-id> <page>",
		Short: "Set your current page in a book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := parsePage(args[1])
			if err != nil {
				return err
			}

			if err := a.svc.UpdateProgress(cmd.Context(), service.UpdateProgressRequest{BookID: id, Page: page}); err != nil {
				return err
			}

			p, _, err := a.svc.Progress(id)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(p)
			}
			fmt.Fprintf(a.out, "Page %d of %d (%d%%)\n", p.CurrentPage, p.TotalPages, p.Percent())
			return nil
		},
	}
}

func newNoteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "note <book-id> <page> <text...>",
		Short: "Attach a note to a page",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := parsePage(args[1])
			if err != nil {
				return err
			}

			req := service.AddNoteRequest{BookID: id, Page: page, Text: strings.Join(args[2:], " ")}
			if err := a.svc.AddNote(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Note saved")
			return nil
		},
	}
}

func newProgressCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "List every book you have started",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			all, err := a.svc.AllProgress()
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(all)
			}
			w := a.table()
			fmt.Fprintln(w, "ID\tPAGE\tOF\tPCT\tNOTES\tLAST READ")
			for _, p := range all {
				fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%s\n",
					p.BookID, p.CurrentPage, p.TotalPages, p.Percent(), len(p.Notes), formatTime(p.LastReadAt))
			}
			return w.Flush()
		},
	}
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise your reading",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			stats, err := a.svc.Stats()
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(stats)
			}
			fmt.Fprintf(a.out, "Books started:  %d\n", stats.TotalBooks)
			fmt.Fprintf(a.out, "In progress:    %d\n", stats.BooksInProgress)
			fmt.Fprintf(a.out, "Completed:      %d\n", stats.CompletedBooks)
			fmt.Fprintf(a.out, "Pages read:     %d\n", stats.TotalPages)
			return nil
		},
	}
}

func newRecentCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "Show the books you read most recently",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			recent, err := a.svc.Recent()
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(recent)
			}
			w := a.table()
			fmt.Fprintln(w, "ID\tPCT\tLAST READ\tTITLE")
			for _, r := range recent {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", r.Book.ID, r.Progress, formatTime(r.LastReadAt), r.Book.Title)
			}
			return w.Flush()
		},
	}
}

func newRecommendCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Suggest unread books from genres you read",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			recs, err := a.svc.Recommendations()
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(recs)
			}
			w := a.table()
			fmt.Fprintln(w, "ID\tMATCH\tRATING\tTITLE")
			for _, r := range recs {
				fmt.Fprintf(w, "%d\t%d\t%.1f\t%s\n", r.Book.ID, r.Relevance, r.Book.Rating, r.Book.Title)
			}
			return w.Flush()
		},
	}
}

func parsePage(s string) (int, error) {
	page, err := strconv.Atoi(s)
	if err != nil {
		return 0, domainerrors.Validationf("invalid page %q", s)
	}
	return page, nil
}
