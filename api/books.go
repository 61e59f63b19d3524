package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Author is a catalog author record.
type Author struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Biography string `json:"biography,omitempty"`
	Photo     string `json:"photo,omitempty"`
}

// Book is a catalog book record.
type Book struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Author        *Author    `json:"author,omitempty"`
	ISBN          string     `json:"isbn,omitempty"`
	Cover         string     `json:"cover,omitempty"`
	Description   string     `json:"description,omitempty"`
	PublishedDate string     `json:"published_date,omitempty"`
	AverageRating *float64   `json:"average_rating,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// LibraryEntry is the caller's per-user metadata about one book: read state,
// ownership, format, rating, wishlist flag, and private notes.
type LibraryEntry struct {
	ID        int64      `json:"id"`
	Book      *Book      `json:"book,omitempty"`
	BookID    int64      `json:"book_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	Rating    *int       `json:"rating,omitempty"`
	IsDigital bool       `json:"is_digital"`
	Owned     bool       `json:"owned"`
	Wishlist  bool       `json:"wishlist"`
	Notes     string     `json:"notes,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Review is a public review of a book.
type Review struct {
	ID        int64      `json:"id"`
	User      string     `json:"user,omitempty"`
	Book      *Book      `json:"book,omitempty"`
	BookID    int64      `json:"book_id,omitempty"`
	Rating    int        `json:"rating"`
	Text      string     `json:"text,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Page is the backend's paginated list envelope. Next and Previous are
// opaque URLs; HasNext is what callers usually want for "load more".
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}

// HasNext reports whether another page follows.
func (p *Page[T]) HasNext() bool {
	return p != nil && p.Next != ""
}

// ListQuery narrows and pages a catalog list. A zero value lists the first
// page unfiltered. Searches that supersede an earlier one should cancel the
// earlier call's context; the client honors cancellation on every request.
type ListQuery struct {
	Search string
	Page   int
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// ListBooks searches the catalog via GET /books/.
func (c *Client) ListBooks(ctx context.Context, token string, q ListQuery) (*Page[Book], error) {
	return listPage[Book](ctx, c, "ListBooks", c.endpoint("/books/", q.values()), token)
}

// GetBook reads one book via GET /books/{id}/.
func (c *Client) GetBook(ctx context.Context, token string, id int64) (*Book, error) {
	const op = "GetBook"

	resp, err := c.do(ctx, op, http.MethodGet, c.endpoint(fmt.Sprintf("/books/%d/", id), nil), token, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return nil, c.statusError(op, resp)
	}
	book := &Book{}
	if err := decode(op, resp, book); err != nil {
		return nil, err
	}
	return book, nil
}

// ListAuthors searches authors via GET /authors/.
func (c *Client) ListAuthors(ctx context.Context, token string, q ListQuery) (*Page[Author], error) {
	return listPage[Author](ctx, c, "ListAuthors", c.endpoint("/authors/", q.values()), token)
}

// ListLibrary reads the caller's library via GET /user/books/.
func (c *Client) ListLibrary(ctx context.Context, token string, q ListQuery) (*Page[LibraryEntry], error) {
	return listPage[LibraryEntry](ctx, c, "ListLibrary", c.endpoint("/user/books/", q.values()), token)
}

// AddLibraryEntry adds a book to the caller's library via POST /user/books/.
func (c *Client) AddLibraryEntry(ctx context.Context, token string, entry LibraryEntry) (*LibraryEntry, error) {
	const op = "AddLibraryEntry"

	resp, err := c.doJSON(ctx, op, http.MethodPost, c.endpoint("/user/books/", nil), token, entry)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return libraryResponse(c, op, resp)
}

// UpdateLibraryEntry patches one entry via PATCH /user/books/{id}/.
func (c *Client) UpdateLibraryEntry(ctx context.Context, token string, id int64, entry LibraryEntry) (*LibraryEntry, error) {
	const op = "UpdateLibraryEntry"

	resp, err := c.doJSON(ctx, op, http.MethodPatch, c.endpoint(fmt.Sprintf("/user/books/%d/", id), nil), token, entry)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return libraryResponse(c, op, resp)
}

// RemoveLibraryEntry deletes one entry via DELETE /user/books/{id}/.
func (c *Client) RemoveLibraryEntry(ctx context.Context, token string, id int64) error {
	const op = "RemoveLibraryEntry"

	resp, err := c.do(ctx, op, http.MethodDelete, c.endpoint(fmt.Sprintf("/user/books/%d/", id), nil), token, "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return c.statusError(op, resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// ListReviews reads reviews via GET /reviews/, optionally filtered by book.
func (c *Client) ListReviews(ctx context.Context, token string, bookID int64) (*Page[Review], error) {
	v := url.Values{}
	if bookID > 0 {
		v.Set("book", strconv.FormatInt(bookID, 10))
	}
	return listPage[Review](ctx, c, "ListReviews", c.endpoint("/reviews/", v), token)
}

// AddReview posts a review via POST /reviews/.
func (c *Client) AddReview(ctx context.Context, token string, review Review) (*Review, error) {
	const op = "AddReview"

	resp, err := c.doJSON(ctx, op, http.MethodPost, c.endpoint("/reviews/", nil), token, review)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return nil, c.statusError(op, resp)
	}
	out := &Review{}
	if err := decode(op, resp, out); err != nil {
		return nil, err
	}
	return out, nil
}

func listPage[T any](ctx context.Context, c *Client, op, rawURL, token string) (*Page[T], error) {
	resp, err := c.do(ctx, op, http.MethodGet, rawURL, token, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return nil, c.statusError(op, resp)
	}
	page := &Page[T]{}
	if err := decode(op, resp, page); err != nil {
		return nil, err
	}
	return page, nil
}

func libraryResponse(c *Client, op string, resp *http.Response) (*LibraryEntry, error) {
	if !ok(resp) {
		return nil, c.statusError(op, resp)
	}
	entry := &LibraryEntry{}
	if err := decode(op, resp, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
