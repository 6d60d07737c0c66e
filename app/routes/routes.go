package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"blogfront/app/controllers"
	"blogfront/app/middleware"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// SetupRoutes defines the application's routes and returns a router.
// Web routes run behind the session middleware; the JSON API and the
// health check are stateless.
func SetupRoutes(postController *controllers.PostController, sessions *middleware.SessionManager, logger logrus.FieldLogger) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
			return
		}
		http.NotFound(w, r)
	})

	router.HandleFunc("/healthz", postController.Health).Methods("GET")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.HandleFunc("/posts", postController.APIIndex).Methods("GET")
	api.HandleFunc("/posts", postController.APICreate).Methods("POST")

	// Web routes
	web := router.NewRoute().Subrouter()
	web.Use(sessions.Middleware)
	web.HandleFunc("/", postController.Index).Methods("GET")
	web.HandleFunc("/search", postController.Search).Methods("GET")
	web.HandleFunc("/page/next", postController.NextPage).Methods("POST")
	web.HandleFunc("/page/previous", postController.PreviousPage).Methods("POST")
	web.HandleFunc("/posts", postController.Create).Methods("POST")

	return router
}
