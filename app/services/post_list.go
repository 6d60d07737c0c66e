package services

import (
	"time"

	"blogfront/app/models"
	"blogfront/app/upstream"
)

const (
	// DefaultPageSize is the number of posts fetched per page.
	DefaultPageSize = 5

	// DefaultMinLoading keeps the loading placeholder up after a fetch settles.
	DefaultMinLoading = time.Second
)

// ListOptions configures a new PostList.
type ListOptions struct {
	PageSize   int
	MinLoading time.Duration
}

func (o ListOptions) normalized() ListOptions {
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.MinLoading < 0 {
		o.MinLoading = 0
	}
	return o
}

// FetchTicket identifies one page request. Only the ticket carrying the
// list's current generation may change the list when it settles.
type FetchTicket struct {
	Generation uint64 `json:"generation"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

// PostList holds one page of posts, the pagination around it and the
// search query applied to it. It is plain data so a session can be
// stored and restored between requests.
type PostList struct {
	PageSize     int               `json:"pageSize"`
	MinLoading   time.Duration     `json:"minLoading"`
	Pagination   models.Pagination `json:"pagination"`
	Posts        []models.Post     `json:"posts"`
	Query        string            `json:"query"`
	Generation   uint64            `json:"generation"`
	Fetching     bool              `json:"fetching"`
	Fetched      bool              `json:"fetched"`
	LoadingUntil time.Time         `json:"loadingUntil"`
}

// NewPostList returns an empty list on page one.
func NewPostList(opts ListOptions) *PostList {
	opts = opts.normalized()
	return &PostList{
		PageSize:   opts.PageSize,
		MinLoading: opts.MinLoading,
		Pagination: models.NewPagination(),
		Posts:      []models.Post{},
	}
}

// BeginFetch starts a request for the current page. Any ticket handed
// out earlier becomes stale.
func (l *PostList) BeginFetch() FetchTicket {
	l.Generation++
	l.Fetching = true
	return FetchTicket{
		Generation: l.Generation,
		Page:       l.Pagination.CurrentPage,
		Limit:      l.PageSize,
	}
}

// CompleteFetch applies a fetched page. It reports false and leaves the
// list untouched when the ticket is stale.
func (l *PostList) CompleteFetch(ticket FetchTicket, page *upstream.PostPage, now time.Time) bool {
	if ticket.Generation != l.Generation || page == nil {
		return false
	}
	posts := page.Posts
	if len(posts) > ticket.Limit {
		posts = posts[:ticket.Limit]
	}
	l.Posts = append([]models.Post{}, posts...)
	l.Pagination.TotalPages = models.TotalPagesFor(page.Total, ticket.Limit)
	l.settle(now)
	return true
}

// FailFetch ends the current request without touching the held page.
func (l *PostList) FailFetch(ticket FetchTicket, now time.Time) bool {
	if ticket.Generation != l.Generation {
		return false
	}
	l.settle(now)
	return true
}

func (l *PostList) settle(now time.Time) {
	l.Fetching = false
	l.Fetched = true
	l.LoadingUntil = now.Add(l.MinLoading)
}

// Loading reports whether the loading placeholder should be shown.
func (l *PostList) Loading(now time.Time) bool {
	return l.Fetching || now.Before(l.LoadingUntil)
}

// NeedsInitialFetch is true until the first request has been started.
func (l *PostList) NeedsInitialFetch() bool {
	return !l.Fetched && !l.Fetching
}

// NextPage advances one page. It is a no-op on the last page.
func (l *PostList) NextPage() bool {
	if !l.Pagination.HasNext() {
		return false
	}
	l.Pagination.CurrentPage++
	return true
}

// PreviousPage goes back one page. It is a no-op on the first page.
func (l *PostList) PreviousPage() bool {
	if !l.Pagination.HasPrevious() {
		return false
	}
	l.Pagination.CurrentPage--
	return true
}

// SetQuery replaces the search query.
func (l *PostList) SetQuery(query string) {
	l.Query = query
}

// Visible returns the held page filtered by the query. Search only
// covers the page currently held, not the whole collection.
func (l *PostList) Visible() []models.Post {
	return models.FilterByTitle(l.Posts, l.Query)
}

// Prepend puts a newly created post in front of the held page.
func (l *PostList) Prepend(post models.Post) {
	l.Posts = append([]models.Post{post}, l.Posts...)
}
