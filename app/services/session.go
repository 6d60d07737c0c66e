package services

import (
	"time"

	"blogfront/app/models"
)

// Session is the UI state of one visitor: a post list and a creator.
type Session struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	List      *PostList    `json:"list"`
	Creator   *PostCreator `json:"creator"`
}

// NewSession starts a session with an empty list and draft.
func NewSession(id string, opts ListOptions, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		List:      NewPostList(opts),
		Creator:   &PostCreator{},
	}
}

// PostCreated splices a created post into the list without re-fetching.
func (s *Session) PostCreated(post models.Post) {
	s.List.Prepend(post)
}
