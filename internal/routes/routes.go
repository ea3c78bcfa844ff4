package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shareareview/notify-api/internal/authz"
	"github.com/shareareview/notify-api/internal/handlers"
)

// NewRouter sets up the API routes
func NewRouter(auth *handlers.AuthHandler, folder *handlers.FolderHandler, notification *handlers.NotificationHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check route
	router.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)

	// Public auth endpoints
	router.HandleFunc("/api/signup", auth.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/api/login", auth.Login).Methods(http.MethodPost)

	// Everything below requires an authenticated user.
	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.JWTMiddleware, authz.RequireUser)

	api.HandleFunc("/folders", folder.List).Methods(http.MethodGet)
	api.HandleFunc("/folders", folder.Create).Methods(http.MethodPost)
	api.HandleFunc("/folders/{folderID}", folder.Rename).Methods(http.MethodPut)
	api.HandleFunc("/folders/{folderID}", folder.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/notifications", notification.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications", notification.Create).Methods(http.MethodPost)
	api.HandleFunc("/notifications/view", notification.View).Methods(http.MethodGet)
	api.HandleFunc("/notifications/bulk/move", notification.BulkMove).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{notificationID}/status", notification.SetStatus).Methods(http.MethodPut)
	api.HandleFunc("/notifications/{notificationID}/folder", notification.MoveToFolder).Methods(http.MethodPut)
	api.HandleFunc("/notifications/{notificationID}/trash", notification.Trash).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{notificationID}/restore", notification.Restore).Methods(http.MethodPost)

	return router
}
