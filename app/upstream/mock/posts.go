package mock

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"blogfront/app/models"
	"blogfront/app/upstream"
)

// ErrUnavailable is what a failing PostsAPI returns.
var ErrUnavailable = errors.New("posts api unavailable")

// PostsAPI is an in-memory stand-in for the remote posts collection.
type PostsAPI struct {
	mutex      sync.Mutex
	posts      []models.Post
	nextID     int
	FailList   bool
	FailCreate bool
	ListCalls  []int
	Created    []models.Post
}

// NewPostsAPI seeds count posts titled "Post 1".."Post N", authored round-robin by ten users.
func NewPostsAPI(count int) *PostsAPI {
	api := &PostsAPI{nextID: count + 1}
	for i := 1; i <= count; i++ {
		api.posts = append(api.posts, models.Post{
			ID:       i,
			Title:    fmt.Sprintf("Post %d", i),
			Body:     fmt.Sprintf("Body of post %d", i),
			AuthorID: (i-1)/10 + 1,
		})
	}
	return api
}

// WithPosts replaces the collection.
func (m *PostsAPI) WithPosts(posts []models.Post) *PostsAPI {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = append([]models.Post(nil), posts...)
	m.nextID = len(posts) + 1
	return m
}

func (m *PostsAPI) ListPosts(ctx context.Context, page, limit int) (*upstream.PostPage, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.ListCalls = append(m.ListCalls, page)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.FailList {
		return nil, ErrUnavailable
	}

	start := (page - 1) * limit
	if start < 0 || start >= len(m.posts) {
		return &upstream.PostPage{Posts: []models.Post{}, Total: len(m.posts)}, nil
	}
	end := start + limit
	if end > len(m.posts) {
		end = len(m.posts)
	}
	out := append([]models.Post(nil), m.posts[start:end]...)
	return &upstream.PostPage{Posts: out, Total: len(m.posts)}, nil
}

// CreatePost echoes the post with a fresh id; like the real API it does
// not add it to the collection.
func (m *PostsAPI) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.FailCreate {
		return nil, ErrUnavailable
	}
	post.ID = m.nextID
	m.Created = append(m.Created, post)
	return &post, nil
}

// SetFailList toggles list failures.
func (m *PostsAPI) SetFailList(fail bool) {
	m.mutex.Lock()
	m.FailList = fail
	m.mutex.Unlock()
}

// SetFailCreate toggles create failures.
func (m *PostsAPI) SetFailCreate(fail bool) {
	m.mutex.Lock()
	m.FailCreate = fail
	m.mutex.Unlock()
}
