package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"blogfront/app/controllers"
	"blogfront/app/middleware"
	"blogfront/app/repositories"
	"blogfront/app/services"
	"blogfront/app/theme"
	"blogfront/app/upstream/mock"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "blogfront_session"

func setupTestRouter(t *testing.T, count int) (*mux.Router, *mock.PostsAPI) {
	t.Helper()
	db, err := repositories.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger, _ := test.NewNullLogger()
	api := mock.NewPostsAPI(count)
	opts := services.ListOptions{PageSize: 5}
	sessionRepo := repositories.NewBadgerSessionRepository(db, time.Minute)
	postService := services.NewPostService(api, logger, nil)

	postController, err := controllers.NewPostController(sessionRepo, postService, theme.Default(), "My Blog", opts.PageSize, logger)
	require.NoError(t, err)
	sessions, err := middleware.NewSessionManager(sessionRepo, cookieName, "test-secret", time.Minute, opts, logger)
	require.NoError(t, err)

	return SetupRoutes(postController, sessions, logger), api
}

// browser replays the session cookie the way a browser would.
type browser struct {
	router http.Handler
	cookie *http.Cookie
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			b.cookie = c
		}
	}
	return w
}

func TestWebRoutes(t *testing.T) {
	router, api := setupTestRouter(t, 12)
	b := &browser{router: router}

	t.Run("GET / starts a session", func(t *testing.T) {
		w := b.do(http.MethodGet, "/", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, b.cookie)
		assert.True(t, b.cookie.HttpOnly)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "Recent Posts")
		assert.Equal(t, []int{1}, api.ListCalls)
	})

	t.Run("session survives between requests", func(t *testing.T) {
		first := b.cookie.Value
		w := b.do(http.MethodPost, "/page/next", nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, first, b.cookie.Value)
		assert.Equal(t, []int{1, 2}, api.ListCalls)
	})

	t.Run("POST /posts redirects home", func(t *testing.T) {
		form := url.Values{"title": {"Routed"}, "body": {"via form"}, "authorId": {"2"}}
		w := b.do(http.MethodPost, "/posts", form)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		require.Len(t, api.Created, 1)
		assert.Equal(t, 2, api.Created[0].AuthorID)
	})

	t.Run("a forged cookie gets a fresh session", func(t *testing.T) {
		forged := &browser{router: router, cookie: &http.Cookie{Name: cookieName, Value: "not-a-session.mac"}}
		w := forged.do(http.MethodGet, "/", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEqual(t, "not-a-session.mac", forged.cookie.Value)
	})

	t.Run("wrong method", func(t *testing.T) {
		w := b.do(http.MethodGet, "/page/next", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestAPIRoutes(t *testing.T) {
	router, _ := setupTestRouter(t, 12)

	t.Run("GET /api/posts is JSON and sessionless", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/posts?page=3", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Empty(t, w.Result().Cookies())
		assert.Contains(t, w.Body.String(), `"Post 11"`)
	})

	t.Run("POST /api/posts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"title":"API","body":"post","authorId":"1"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":1`)
	})

	t.Run("unknown API path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
	})

	t.Run("healthz", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
