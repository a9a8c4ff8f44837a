// Package listing binds display positions to rows of the word store.
//
// A Binding plays the role of a list adapter: it answers how many rows exist
// and which word sits at a display position, and it forwards remove and edit
// actions to the store by the id captured when the row was bound. It keeps no
// copy of the data. Positions are recomputed by the store on every call, so
// after a removal the renderer shifts its own later positions; the Observer
// tells it when.
package listing

import (
	"context"

	"github.com/roach88/wordlist/internal/store"
)

// Source is the subset of the word store a Binding needs.
type Source interface {
	Count(ctx context.Context) int64
	Query(ctx context.Context, position int) (store.Word, bool)
	Insert(ctx context.Context, text string) int64
	Delete(ctx context.Context, id int64) int64
	Update(ctx context.Context, id int64, text string) int64
}

// Observer is told how the rendered list must change after a mutation.
type Observer interface {
	// ItemRemoved reports that the row bound at position is gone.
	// Rows after it move up by one.
	ItemRemoved(position int)

	// ItemChanged reports that the row bound at position has new text.
	// The row may now sort elsewhere, so the renderer should rebind.
	ItemChanged(position int)

	// DataSetChanged reports a change whose position is unknown.
	DataSetChanged()
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnRemoved func(position int)
	OnChanged func(position int)
	OnReset   func()
}

func (f ObserverFuncs) ItemRemoved(position int) {
	if f.OnRemoved != nil {
		f.OnRemoved(position)
	}
}

func (f ObserverFuncs) ItemChanged(position int) {
	if f.OnChanged != nil {
		f.OnChanged(position)
	}
}

func (f ObserverFuncs) DataSetChanged() {
	if f.OnReset != nil {
		f.OnReset()
	}
}

// Row is a word bound at a display position.
type Row struct {
	Position int    `json:"position"`
	ID       int64  `json:"id"`
	Text     string `json:"text"`
}

// Binding maps display positions onto a Source.
type Binding struct {
	src Source
	obs Observer
}

// New creates a Binding over src. obs may be nil.
func New(src Source, obs Observer) *Binding {
	if obs == nil {
		obs = ObserverFuncs{}
	}
	return &Binding{src: src, obs: obs}
}

// ItemCount returns the number of rows to render.
func (b *Binding) ItemCount(ctx context.Context) int {
	return int(b.src.Count(ctx))
}

// Bind returns the row at position. ok is false when nothing is there.
func (b *Binding) Bind(ctx context.Context, position int) (Row, bool) {
	w, ok := b.src.Query(ctx, position)
	if !ok {
		return Row{}, false
	}
	return Row{Position: position, ID: w.ID, Text: w.Text}, true
}

// Rows binds every position from 0 to ItemCount-1 in order.
// It stops early if a position comes back empty.
func (b *Binding) Rows(ctx context.Context) []Row {
	n := b.ItemCount(ctx)
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		row, ok := b.Bind(ctx, i)
		if !ok {
			break
		}
		rows = append(rows, row)
	}
	return rows
}

// Remove deletes the word behind row and reports whether a row was removed.
func (b *Binding) Remove(ctx context.Context, row Row) bool {
	if b.src.Delete(ctx, row.ID) <= 0 {
		return false
	}
	b.obs.ItemRemoved(row.Position)
	return true
}

// Replace sets the text of the word behind row and reports whether it changed.
func (b *Binding) Replace(ctx context.Context, row Row, text string) bool {
	if b.src.Update(ctx, row.ID, text) <= 0 {
		return false
	}
	b.obs.ItemChanged(row.Position)
	return true
}

// Add inserts a word and returns its id. The position of the new row is not
// known until the next Bind, so observers get DataSetChanged.
func (b *Binding) Add(ctx context.Context, text string) (int64, bool) {
	id := b.src.Insert(ctx, text)
	if id <= 0 {
		return 0, false
	}
	b.obs.DataSetChanged()
	return id, true
}
