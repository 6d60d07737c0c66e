package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"strconv"
	"time"

	"blogfront/app/middleware"
	"blogfront/app/models"
	"blogfront/app/repositories"
	"blogfront/app/services"
	"blogfront/app/theme"
	"blogfront/app/upstream"
	"blogfront/app/views"

	"github.com/sirupsen/logrus"
)

// maxAPILimit caps the page size accepted by the JSON API.
const maxAPILimit = 100

// PostController handles HTTP requests for the blog front end
type PostController struct {
	sessions   repositories.SessionRepository
	posts      *services.PostService
	templates  map[string]*template.Template
	css        template.CSS
	brandTitle string
	pageSize   int
	logger     logrus.FieldLogger
}

// NewPostController creates a new PostController
func NewPostController(sessions repositories.SessionRepository, posts *services.PostService, th theme.Theme, brandTitle string, pageSize int, logger logrus.FieldLogger) (*PostController, error) {
	templates, err := loadTemplates(views.FS)
	if err != nil {
		return nil, err
	}
	if pageSize < 1 {
		pageSize = services.DefaultPageSize
	}
	return &PostController{
		sessions:   sessions,
		posts:      posts,
		templates:  templates,
		css:        template.CSS(th.CSS()),
		brandTitle: brandTitle,
		pageSize:   pageSize,
		logger:     logger,
	}, nil
}

// loadTemplates loads and parses all templates
func loadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)
	index, err := template.ParseFS(fsys, "layout.html", "posts/index.html")
	if err != nil {
		return nil, err
	}
	templates["index"] = index
	return templates, nil
}

type indexData struct {
	Header       services.Header
	CSS          template.CSS
	Posts        []models.Post
	Loading      bool
	RefreshAfter int
	Pagination   models.Pagination
	Draft        models.Draft
	Notice       *services.Notice
}

// Index renders the page: header, creator form and the current page of posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionID(r.Context())

	err := pc.refresh(r.Context(), id, func(list *services.PostList) bool {
		return list.NeedsInitialFetch()
	})
	if err != nil {
		pc.sendError(w, r, "Failed to load session", err)
		return
	}

	now := pc.posts.Now()
	var data indexData
	_, err = pc.sessions.Update(id, func(s *services.Session) error {
		data = indexData{
			Header:     services.NewHeader(pc.brandTitle, s.List),
			CSS:        pc.css,
			Posts:      s.List.Visible(),
			Loading:    s.List.Loading(now),
			Pagination: s.List.Pagination,
			Draft:      s.Creator.Draft,
			Notice:     s.Creator.ActiveNotice(now),
		}
		if data.Loading {
			data.RefreshAfter = refreshAfter(s.List, now)
		}
		return nil
	})
	if err != nil {
		pc.sendError(w, r, "Failed to load session", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pc.templates["index"].ExecuteTemplate(w, "layout", data); err != nil {
		pc.logger.WithError(err).Error("Template error")
	}
}

// refreshAfter is the number of whole seconds until the loading
// placeholder may go away.
func refreshAfter(list *services.PostList, now time.Time) int {
	wait := list.LoadingUntil.Sub(now).Seconds()
	if wait < 1 {
		return 1
	}
	return int(math.Ceil(wait))
}

// Search sets the session's search query
func (pc *PostController) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	_, err := pc.sessions.Update(middleware.SessionID(r.Context()), func(s *services.Session) error {
		s.List.SetQuery(query)
		return nil
	})
	if err != nil {
		pc.sendError(w, r, "Failed to update search", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// NextPage advances one page and fetches it
func (pc *PostController) NextPage(w http.ResponseWriter, r *http.Request) {
	pc.turnPage(w, r, (*services.PostList).NextPage)
}

// PreviousPage goes back one page and fetches it
func (pc *PostController) PreviousPage(w http.ResponseWriter, r *http.Request) {
	pc.turnPage(w, r, (*services.PostList).PreviousPage)
}

func (pc *PostController) turnPage(w http.ResponseWriter, r *http.Request, move func(*services.PostList) bool) {
	if err := pc.refresh(r.Context(), middleware.SessionID(r.Context()), move); err != nil {
		pc.sendError(w, r, "Failed to change page", err)
		return
	}
	http.Redirect(w, r, "/#top", http.StatusSeeOther)
}

// refresh runs a fetch against the session's list when move allows it.
// The ticket is taken and settled in two separate session updates so the
// upstream call holds no transaction; a response overtaken by a newer
// fetch from the same visitor is dropped when it settles. Fetch errors
// are logged by the service and otherwise ignored.
func (pc *PostController) refresh(ctx context.Context, id string, move func(*services.PostList) bool) error {
	var ticket services.FetchTicket
	var started bool
	_, err := pc.sessions.Update(id, func(s *services.Session) error {
		started = move(s.List)
		if started {
			ticket = s.List.BeginFetch()
		}
		return nil
	})
	if err != nil || !started {
		return err
	}

	page, fetchErr := pc.posts.FetchPage(ctx, ticket)
	_, err = pc.sessions.Update(id, func(s *services.Session) error {
		pc.posts.Settle(s.List, ticket, page, fetchErr)
		return nil
	})
	return err
}

// Create submits the creator form
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	id := middleware.SessionID(r.Context())

	var draft models.Draft
	_, err := pc.sessions.Update(id, func(s *services.Session) error {
		for _, name := range models.FormFields {
			if _, ok := r.PostForm[name]; !ok {
				continue
			}
			if err := s.Creator.Change(name, r.PostForm.Get(name)); err != nil {
				return err
			}
		}
		draft = s.Creator.Draft
		return nil
	})
	if err != nil {
		pc.sendError(w, r, "Failed to update draft", err)
		return
	}

	created, err := pc.posts.CreatePost(r.Context(), draft)
	if err != nil {
		// the draft stays as entered; the service has logged the failure
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	_, err = pc.sessions.Update(id, func(s *services.Session) error {
		s.Creator.Accept(*created, pc.posts.Now(), s.PostCreated)
		return nil
	})
	if err != nil {
		pc.sendError(w, r, "Failed to store post", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type apiPage struct {
	Posts      []models.Post     `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
	Total      int               `json:"total"`
}

// APIIndex returns one upstream page as JSON
func (pc *PostController) APIIndex(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	limit := pc.pageSize
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= maxAPILimit {
			limit = l
		}
	}

	ticket := services.FetchTicket{Page: page, Limit: limit}
	result, err := pc.posts.FetchPage(r.Context(), ticket)
	if err != nil {
		pc.sendAPIError(w, "Failed to fetch posts", upstreamStatus(err))
		return
	}
	posts := result.Posts
	if len(posts) > limit {
		posts = posts[:limit]
	}
	pc.sendJSON(w, http.StatusOK, apiPage{
		Posts: posts,
		Pagination: models.Pagination{
			CurrentPage: page,
			TotalPages:  models.TotalPagesFor(result.Total, limit),
		},
		Total: result.Total,
	})
}

// APICreate creates a post from a JSON draft
func (pc *PostController) APICreate(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		pc.sendAPIError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := draft.Validate(); err != nil {
		pc.sendAPIError(w, "Invalid post: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	created, err := pc.posts.CreatePost(r.Context(), draft)
	if err != nil {
		pc.sendAPIError(w, "Failed to create post", upstreamStatus(err))
		return
	}
	pc.sendJSON(w, http.StatusCreated, created)
}

// Health reports liveness
func (pc *PostController) Health(w http.ResponseWriter, r *http.Request) {
	pc.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func upstreamStatus(err error) int {
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// Helper methods for consistent response handling

func (pc *PostController) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		pc.logger.WithError(err).Error("encode response")
	}
}

func (pc *PostController) sendAPIError(w http.ResponseWriter, message string, status int) {
	pc.sendJSON(w, status, map[string]string{"error": message})
}

func (pc *PostController) sendError(w http.ResponseWriter, r *http.Request, message string, err error) {
	pc.logger.WithError(err).WithField("path", r.URL.Path).Error(message)
	http.Error(w, message, http.StatusInternalServerError)
}
