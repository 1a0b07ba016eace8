// Package httpapi exposes the user and task services over HTTP/JSON and
// guards owner-scoped routes with bearer-token middleware.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/gorilla/mux"
)

// userSvc is the slice of UserService the transport needs.
type userSvc interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(tokenString string) (string, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID, name, email string) (*models.User, error)
}

// taskSvc is the slice of TaskService the transport needs.
type taskSvc interface {
	List(ctx context.Context, userID string) ([]*models.Task, error)
	Create(ctx context.Context, userID, title, description, status, priority string) (*models.Task, error)
	Update(ctx context.Context, userID, taskID string, upd services.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
	AttachmentPutURL(ctx context.Context, userID, taskID string) (string, string, error)
	AttachmentGetURL(ctx context.Context, userID, taskID string) (string, error)
}

type HTTPServer struct {
	address string
	logger  logging.Logger
	users   userSvc
	tasks   taskSvc
}

func NewHTTPServer(address string, l logging.Logger, us userSvc, ts taskSvc) *HTTPServer {
	return &HTTPServer{
		address: address,
		logger:  l.With("module", "httpapi"),
		users:   us,
		tasks:   ts,
	}
}

func (s *HTTPServer) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/ping", s.ping).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.Handle("/auth/profile", s.withAuth(s.getProfile)).Methods(http.MethodGet)
	r.Handle("/auth/profile", s.withAuth(s.updateProfile)).Methods(http.MethodPut)

	r.Handle("/tasks", s.withAuth(s.listTasks)).Methods(http.MethodGet)
	r.Handle("/tasks", s.withAuth(s.createTask)).Methods(http.MethodPost)
	r.Handle("/tasks/{id}", s.withAuth(s.updateTask)).Methods(http.MethodPut)
	r.Handle("/tasks/{id}", s.withAuth(s.deleteTask)).Methods(http.MethodDelete)
	r.Handle("/tasks/{id}/attachment", s.withAuth(s.attachmentPutURL)).Methods(http.MethodPost)
	r.Handle("/tasks/{id}/attachment", s.withAuth(s.attachmentGetURL)).Methods(http.MethodGet)

	return r
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *HTTPServer) ping(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
