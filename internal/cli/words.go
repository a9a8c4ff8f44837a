package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/roach88/wordlist/internal/listing"
)

// RowsResult is the output of list.
type RowsResult []listing.Row

func (r RowsResult) WriteText(w io.Writer) {
	if len(r) == 0 {
		fmt.Fprintln(w, "No words.")
		return
	}
	for _, row := range r {
		writeRow(w, row)
	}
}

// RowResult is the output of show.
type RowResult listing.Row

func (r RowResult) WriteText(w io.Writer) {
	writeRow(w, listing.Row(r))
}

func writeRow(w io.Writer, row listing.Row) {
	fmt.Fprintf(w, "%d\t%d\t%s\n", row.Position, row.ID, row.Text)
}

// AddResult is the output of add.
type AddResult struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

func (r AddResult) WriteText(w io.Writer) {
	fmt.Fprintln(w, r.ID)
}

// MutationResult is the output of edit and delete.
type MutationResult struct {
	Action string `json:"-"`
	ID     int64  `json:"id"`
	Rows   int64  `json:"rows"`
}

func (r MutationResult) WriteText(w io.Writer) {
	fmt.Fprintf(w, "%s word %d\n", r.Action, r.ID)
}

// TextsResult is the output of search.
type TextsResult []string

func (r TextsResult) WriteText(w io.Writer) {
	for _, text := range r {
		fmt.Fprintln(w, text)
	}
}

// CountResult is the output of count and reset.
type CountResult struct {
	Count int64 `json:"count"`
}

func (r CountResult) WriteText(w io.Writer) {
	fmt.Fprintln(w, r.Count)
}

// parseID parses a positive row id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q: must be a positive integer", arg))
	}
	return id, nil
}

// parsePosition parses a non-negative list position argument.
func parsePosition(arg string) (int, error) {
	pos, err := strconv.Atoi(arg)
	if err != nil || pos < 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid position %q: must be a non-negative integer", arg))
	}
	return pos, nil
}
