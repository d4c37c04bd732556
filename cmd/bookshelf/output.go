package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/bookshelfapp/bookshelf/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

func (a *app) printBooks(books []domain.Book) {
	w := a.table()
	_, _ = w.Write([]byte("ID\tYEAR\tRATING\tTITLE\tAUTHOR\n"))
	for _, b := range books {
		_, _ = fmt.Fprintf(w, "%d\t%d\t%.1f\t%s\t%s\n", b.ID, b.PublicationYear, b.Rating, b.Title, b.Author)
	}
	_ = w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
