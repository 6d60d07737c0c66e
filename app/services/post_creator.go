package services

import (
	"context"
	"time"

	"blogfront/app/models"
)

// NoticeDuration is how long the creation confirmation stays visible.
const NoticeDuration = 5 * time.Second

// Notice is a transient confirmation shown after a successful action.
type Notice struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Active reports whether the notice should still be shown.
func (n *Notice) Active(now time.Time) bool {
	return n != nil && now.Before(n.ExpiresAt)
}

// DraftSubmitter creates a post from a draft.
type DraftSubmitter interface {
	CreatePost(ctx context.Context, draft models.Draft) (*models.Post, error)
	Now() time.Time
}

// PostCreator owns the form state for a post being authored.
type PostCreator struct {
	Draft  models.Draft `json:"draft"`
	Notice *Notice      `json:"notice,omitempty"`
}

// Change updates one draft field by its form name.
func (c *PostCreator) Change(name, value string) error {
	return c.Draft.SetField(name, value)
}

// Submit sends the whole draft. On success the draft is cleared, a
// notice is raised and onCreated receives the server's post. On failure
// the draft is left exactly as entered.
func (c *PostCreator) Submit(ctx context.Context, svc DraftSubmitter, onCreated func(models.Post)) (*models.Post, error) {
	created, err := svc.CreatePost(ctx, c.Draft)
	if err != nil {
		return nil, err
	}
	c.Accept(*created, svc.Now(), onCreated)
	return created, nil
}

// Accept records a post the server has created from the draft: the
// draft is cleared, the notice raised and onCreated called.
func (c *PostCreator) Accept(created models.Post, now time.Time, onCreated func(models.Post)) {
	c.Draft.Reset()
	c.Notice = &Notice{
		Title:       "Post created.",
		Description: "Your post has been created successfully.",
		Status:      "success",
		ExpiresAt:   now.Add(NoticeDuration),
	}
	if onCreated != nil {
		onCreated(created)
	}
}

// ActiveNotice returns the notice while it is visible and drops it once expired.
func (c *PostCreator) ActiveNotice(now time.Time) *Notice {
	if !c.Notice.Active(now) {
		c.Notice = nil
		return nil
	}
	return c.Notice
}
