package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"blogfront/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUpstream serves count posts the way the posts API does and
// points the configuration at it.
func setupUpstream(t *testing.T, count int) *[]models.Post {
	t.Helper()
	var created []models.Post
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			page, _ := strconv.Atoi(r.URL.Query().Get("_page"))
			limit, _ := strconv.Atoi(r.URL.Query().Get("_limit"))
			posts := []models.Post{}
			for i := (page-1)*limit + 1; i <= page*limit && i <= count; i++ {
				posts = append(posts, models.Post{ID: i, Title: fmt.Sprintf("Post %d", i), Body: "body", AuthorID: 1})
			}
			w.Header().Set("X-Total-Count", strconv.Itoa(count))
			_ = json.NewEncoder(w).Encode(posts)
		case http.MethodPost:
			var post models.Post
			if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			post.ID = count + 1
			created = append(created, post)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(post)
		}
	}))
	t.Cleanup(srv.Close)

	t.Setenv("BLOGFRONT_UPSTREAM_BASE_URL", srv.URL)
	t.Setenv("BLOGFRONT_LOGGER_OUTPUT", "discard")
	return &created
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	created := setupUpstream(t, 12)

	tests := []struct {
		name           string
		args           []string
		expectedOutput []string
		expectError    bool
	}{
		{
			name:           "version",
			args:           []string{"version"},
			expectedOutput: []string{"blogfront version " + Version},
		},
		{
			name:           "posts list first page",
			args:           []string{"posts", "list"},
			expectedOutput: []string{"#1 Post 1", "#5 Post 5", "Page 1 of 3"},
		},
		{
			name:           "posts list last page",
			args:           []string{"posts", "list", "--page", "3"},
			expectedOutput: []string{"#11 Post 11", "#12 Post 12", "Page 3 of 3"},
		},
		{
			name:           "posts list with query",
			args:           []string{"posts", "list", "-q", "post 4"},
			expectedOutput: []string{"#4 Post 4"},
		},
		{
			name:           "posts list query without match",
			args:           []string{"posts", "list", "-q", "nothing"},
			expectedOutput: []string{"No posts found."},
		},
		{
			name:           "posts create",
			args:           []string{"posts", "create", "--title", "Hi", "--body", "There", "--author", "3"},
			expectedOutput: []string{"Post created.", "Created post #13: Hi"},
		},
		{
			name:        "posts create with bad author",
			args:        []string{"posts", "create", "--title", "Hi", "--author", "x"},
			expectError: true,
		},
		{
			name:        "unknown command",
			args:        []string{"bogus"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, tt.args...)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.expectedOutput {
				assert.Contains(t, out, want)
			}
		})
	}

	require.Len(t, *created, 1)
	assert.Equal(t, models.Post{ID: 13, Title: "Hi", Body: "There", AuthorID: 3}, (*created)[0])
}

func TestPostsListPastLastPage(t *testing.T) {
	setupUpstream(t, 12)

	out, err := runCommand(t, "posts", "list", "--page", "99")
	assert.ErrorContains(t, err, "page 99 is past the last page (3)")
	assert.NotContains(t, out, "Page 99")
}

func TestPostsListUpstreamDown(t *testing.T) {
	t.Setenv("BLOGFRONT_UPSTREAM_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("BLOGFRONT_LOGGER_OUTPUT", "discard")

	_, err := runCommand(t, "posts", "list")
	assert.Error(t, err)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := runCommand(t, "--config", "/nonexistent/blogfront.yaml", "posts", "list")
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestExecuteExitCode(t *testing.T) {
	setupUpstream(t, 1)
	assert.Equal(t, 0, Execute(t.Context(), []string{"version"}))
	assert.Equal(t, 1, Execute(t.Context(), []string{"bogus"}))
}
