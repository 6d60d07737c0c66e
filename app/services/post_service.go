package services

import (
	"context"
	"fmt"
	"time"

	"blogfront/app/models"
	"blogfront/app/upstream"

	"github.com/sirupsen/logrus"
)

// PostService handles the remote side of the blog: fetching pages and creating posts
type PostService struct {
	api    upstream.PostsAPI
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(api upstream.PostsAPI, logger logrus.FieldLogger, now func() time.Time) *PostService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PostService{api: api, logger: logger, now: now}
}

// Now returns the service clock's current time.
func (s *PostService) Now() time.Time {
	return s.now()
}

// FetchPage runs the request described by ticket.
func (s *PostService) FetchPage(ctx context.Context, ticket FetchTicket) (*upstream.PostPage, error) {
	page, err := s.api.ListPosts(ctx, ticket.Page, ticket.Limit)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"page":       ticket.Page,
			"limit":      ticket.Limit,
			"generation": ticket.Generation,
		}).Error("Error fetching posts")
		return nil, err
	}
	return page, nil
}

// Settle applies the outcome of a fetch to list and reports whether it
// was current.
func (s *PostService) Settle(list *PostList, ticket FetchTicket, page *upstream.PostPage, err error) bool {
	var applied bool
	if err != nil {
		applied = list.FailFetch(ticket, s.now())
	} else {
		applied = list.CompleteFetch(ticket, page, s.now())
	}
	if !applied {
		s.logger.WithFields(logrus.Fields{
			"page":       ticket.Page,
			"generation": ticket.Generation,
			"current":    list.Generation,
		}).Debug("Discarding stale posts response")
	}
	return applied
}

// Refresh fetches the list's current page and applies the result. A
// failed fetch leaves the held page as it was.
func (s *PostService) Refresh(ctx context.Context, list *PostList) error {
	ticket := list.BeginFetch()
	page, err := s.FetchPage(ctx, ticket)
	s.Settle(list, ticket, page, err)
	return err
}

// CreatePost normalizes the draft and submits it upstream
func (s *PostService) CreatePost(ctx context.Context, draft models.Draft) (*models.Post, error) {
	post, err := draft.Post()
	if err != nil {
		s.logger.WithError(err).Warn("Error creating post")
		return nil, err
	}

	created, err := s.api.CreatePost(ctx, post)
	if err != nil {
		s.logger.WithError(err).WithField("title", post.Title).Error("Error creating post")
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}
