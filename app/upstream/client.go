package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"blogfront/app/models"

	"github.com/google/go-querystring/query"
)

// TotalCountHeader carries the size of the whole collection on list responses.
const TotalCountHeader = "X-Total-Count"

// DefaultBaseURL is the public placeholder API.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// PostsAPI is the read/create surface of the remote posts collection.
type PostsAPI interface {
	ListPosts(ctx context.Context, page, limit int) (*PostPage, error)
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
}

// PostPage is one page of the collection together with the reported total.
type PostPage struct {
	Posts []models.Post
	Total int
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: upstream returned %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
}

type listParams struct {
	Page  int `url:"_page"`
	Limit int `url:"_limit"`
}

// Client talks to a jsonplaceholder-style /posts endpoint.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// NewClient creates a client with a tuned transport and the given overall timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) postsURL() string {
	return c.BaseURL + "/posts"
}

// ListPosts fetches one 1-based page of at most limit posts.
func (c *Client) ListPosts(ctx context.Context, page, limit int) (*PostPage, error) {
	values, err := query.Values(listParams{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("encode list params: %w", err)
	}
	url := c.postsURL() + "?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: http.MethodGet, URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var posts []models.Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	total, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get(TotalCountHeader)))
	if err != nil || total < 0 {
		total = len(posts)
	}
	return &PostPage{Posts: posts, Total: total}, nil
}

// CreatePost submits a new post and returns the server's echo with its assigned id.
func (c *Client) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	payload, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("encode post: %w", err)
	}
	url := c.postsURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: http.MethodPost, URL: url, Code: resp.StatusCode}
	}

	var created models.Post
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode created post: %w", err)
	}
	return &created, nil
}
