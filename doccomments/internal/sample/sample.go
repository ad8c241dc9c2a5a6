// Package sample declares documented handlers and types used by the
// doccomments tests.
package sample

import "net/http"

// Book is a published work.
//
// Books are identified by ISBN.
type Book struct {
	// ISBN is the international standard book number.
	ISBN string `json:"isbn"`

	Title string `json:"title"` // Title as printed on the cover.

	// Deprecated: use Title.
	Name string `json:"name"`
}

// Handlers serves books.
type Handlers struct{}

// Get returns one book.
//
// The book is looked up by ISBN.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {}

// List returns every book.
//
// Deprecated: use search instead.
func List(w http.ResponseWriter, r *http.Request) {}

// Shelf serves the bookshelf page.
type Shelf struct{}

// ServeHTTP renders the shelf.
func (Shelf) ServeHTTP(w http.ResponseWriter, r *http.Request) {}
