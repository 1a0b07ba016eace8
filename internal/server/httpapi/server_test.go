package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserSvc struct {
	registerFn      func(ctx context.Context, name, email, password string) (*models.User, string, error)
	loginFn         func(ctx context.Context, email, password string) (*models.User, string, error)
	validateTokenFn func(tokenString string) (string, error)
	getProfileFn    func(ctx context.Context, userID string) (*models.User, error)
	updateProfileFn func(ctx context.Context, userID, name, email string) (*models.User, error)
}

func (f *fakeUserSvc) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	return f.registerFn(ctx, name, email, password)
}

func (f *fakeUserSvc) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeUserSvc) ValidateToken(tokenString string) (string, error) {
	return f.validateTokenFn(tokenString)
}

func (f *fakeUserSvc) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return f.getProfileFn(ctx, userID)
}

func (f *fakeUserSvc) UpdateProfile(ctx context.Context, userID, name, email string) (*models.User, error) {
	return f.updateProfileFn(ctx, userID, name, email)
}

type fakeTaskSvc struct {
	listFn             func(ctx context.Context, userID string) ([]*models.Task, error)
	createFn           func(ctx context.Context, userID, title, description, status, priority string) (*models.Task, error)
	updateFn           func(ctx context.Context, userID, taskID string, upd services.TaskUpdate) (*models.Task, error)
	deleteFn           func(ctx context.Context, userID, taskID string) error
	attachmentPutURLFn func(ctx context.Context, userID, taskID string) (string, string, error)
	attachmentGetURLFn func(ctx context.Context, userID, taskID string) (string, error)
}

func (f *fakeTaskSvc) List(ctx context.Context, userID string) ([]*models.Task, error) {
	return f.listFn(ctx, userID)
}

func (f *fakeTaskSvc) Create(ctx context.Context, userID, title, description, status, priority string) (*models.Task, error) {
	return f.createFn(ctx, userID, title, description, status, priority)
}

func (f *fakeTaskSvc) Update(ctx context.Context, userID, taskID string, upd services.TaskUpdate) (*models.Task, error) {
	return f.updateFn(ctx, userID, taskID, upd)
}

func (f *fakeTaskSvc) Delete(ctx context.Context, userID, taskID string) error {
	return f.deleteFn(ctx, userID, taskID)
}

func (f *fakeTaskSvc) AttachmentPutURL(ctx context.Context, userID, taskID string) (string, string, error) {
	return f.attachmentPutURLFn(ctx, userID, taskID)
}

func (f *fakeTaskSvc) AttachmentGetURL(ctx context.Context, userID, taskID string) (string, error) {
	return f.attachmentGetURLFn(ctx, userID, taskID)
}

func newTestServer(us userSvc, ts taskSvc) *HTTPServer {
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewHTTPServer(":0", l, us, ts)
}

func doRequest(t *testing.T, s *HTTPServer, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, buf)
	if token != "" {
		req.Header.Set(common.AuthHeaderName, common.AuthScheme+" "+token)
	}

	rr := httptest.NewRecorder()
	s.router().ServeHTTP(rr, req)
	return rr
}

func TestPing(t *testing.T) {
	s := newTestServer(&fakeUserSvc{}, &fakeTaskSvc{})

	rr := doRequest(t, s, http.MethodGet, "/ping", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rr.Body.String())
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		err        error
		wantStatus int
	}{
		{"ok", registerRequest{Name: "Alice", Email: "alice@example.com", Password: "secret1"}, nil, http.StatusCreated},
		{"duplicate email", registerRequest{Name: "Alice", Email: "alice@example.com", Password: "secret1"}, common.ErrorAlreadyExists, http.StatusConflict},
		{"validation", registerRequest{Email: "alice@example.com"}, common.ErrorValidation, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			us := &fakeUserSvc{
				registerFn: func(ctx context.Context, name, email, password string) (*models.User, string, error) {
					if tt.err != nil {
						return nil, "", tt.err
					}
					return &models.User{ID: "u1", Name: name, Email: email}, "token1", nil
				},
			}
			s := newTestServer(us, &fakeTaskSvc{})

			rr := doRequest(t, s, http.MethodPost, "/auth/register", "", tt.body)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.err == nil {
				var resp authResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "token1", resp.Token)
				assert.Equal(t, "u1", resp.User.ID)
			}
		})
	}
}

func TestRegisterMalformedBody(t *testing.T) {
	s := newTestServer(&fakeUserSvc{}, &fakeTaskSvc{})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	s.router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ok", nil, http.StatusOK},
		{"wrong password", common.ErrorUnauthorized, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			us := &fakeUserSvc{
				loginFn: func(ctx context.Context, email, password string) (*models.User, string, error) {
					if tt.err != nil {
						return nil, "", tt.err
					}
					return &models.User{ID: "u1", Email: email}, "token1", nil
				},
			}
			s := newTestServer(us, &fakeTaskSvc{})

			rr := doRequest(t, s, http.MethodPost, "/auth/login",
				"", loginRequest{Email: "alice@example.com", Password: "secret1"})

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	us := &fakeUserSvc{
		validateTokenFn: func(tokenString string) (string, error) {
			if tokenString == "good" {
				return "u1", nil
			}
			return "", common.ErrInvalidToken
		},
	}
	ts := &fakeTaskSvc{
		listFn: func(ctx context.Context, userID string) ([]*models.Task, error) {
			return []*models.Task{}, nil
		},
	}
	s := newTestServer(us, ts)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.header != "" {
				req.Header.Set(common.AuthHeaderName, tt.header)
			}
			rr := httptest.NewRecorder()
			s.router().ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func validatingUserSvc(userID string) *fakeUserSvc {
	return &fakeUserSvc{
		validateTokenFn: func(tokenString string) (string, error) {
			return userID, nil
		},
	}
}

func TestListTasks(t *testing.T) {
	ts := &fakeTaskSvc{
		listFn: func(ctx context.Context, userID string) ([]*models.Task, error) {
			require.Equal(t, "u1", userID)
			return []*models.Task{
				{ID: "t1", UserID: "u1", Title: "one"},
				{ID: "t2", UserID: "u1", Title: "two"},
			}, nil
		},
	}
	s := newTestServer(validatingUserSvc("u1"), ts)

	rr := doRequest(t, s, http.MethodGet, "/tasks", "good", nil)

	assert.Equal(t, http.StatusOK, rr.Code)

	var tasks []*models.Task
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 2)
}

func TestCreateTask(t *testing.T) {
	ts := &fakeTaskSvc{
		createFn: func(ctx context.Context, userID, title, description, status, priority string) (*models.Task, error) {
			require.Equal(t, "u1", userID)
			return &models.Task{ID: "t1", UserID: userID, Title: title, Status: status, Priority: priority}, nil
		},
	}
	s := newTestServer(validatingUserSvc("u1"), ts)

	rr := doRequest(t, s, http.MethodPost, "/tasks", "good",
		createTaskRequest{Title: "buy milk", Description: "2l", Status: "pending", Priority: "low"})

	assert.Equal(t, http.StatusCreated, rr.Code)

	var task models.Task
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &task))
	assert.Equal(t, "buy milk", task.Title)
}

func TestUpdateTaskPartialFields(t *testing.T) {
	var got services.TaskUpdate
	ts := &fakeTaskSvc{
		updateFn: func(ctx context.Context, userID, taskID string, upd services.TaskUpdate) (*models.Task, error) {
			require.Equal(t, "t1", taskID)
			got = upd
			return &models.Task{ID: taskID, UserID: userID}, nil
		},
	}
	s := newTestServer(validatingUserSvc("u1"), ts)

	rr := doRequest(t, s, http.MethodPut, "/tasks/t1", "good",
		map[string]string{"status": "completed"})

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got.Status)
	assert.Equal(t, "completed", *got.Status)
	assert.Nil(t, got.Title)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.Priority)
}

func TestUpdateTaskErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", common.ErrorNotFound, http.StatusNotFound},
		{"other users task", common.ErrorForbidden, http.StatusForbidden},
		{"bad status value", common.ErrorValidation, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := &fakeTaskSvc{
				updateFn: func(ctx context.Context, userID, taskID string, upd services.TaskUpdate) (*models.Task, error) {
					return nil, tt.err
				},
			}
			s := newTestServer(validatingUserSvc("u1"), ts)

			rr := doRequest(t, s, http.MethodPut, "/tasks/t1", "good",
				map[string]string{"status": "completed"})

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestDeleteTask(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ok", nil, http.StatusNoContent},
		{"not found", common.ErrorNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := &fakeTaskSvc{
				deleteFn: func(ctx context.Context, userID, taskID string) error {
					require.Equal(t, "t1", taskID)
					return tt.err
				},
			}
			s := newTestServer(validatingUserSvc("u1"), ts)

			rr := doRequest(t, s, http.MethodDelete, "/tasks/t1", "good", nil)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestAttachmentURLs(t *testing.T) {
	ts := &fakeTaskSvc{
		attachmentPutURLFn: func(ctx context.Context, userID, taskID string) (string, string, error) {
			return "tasks/2025/1/1/key", "https://s3.local/put", nil
		},
		attachmentGetURLFn: func(ctx context.Context, userID, taskID string) (string, error) {
			return "https://s3.local/get", nil
		},
	}
	s := newTestServer(validatingUserSvc("u1"), ts)

	rr := doRequest(t, s, http.MethodPost, "/tasks/t1/attachment", "good", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var put attachmentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &put))
	assert.Equal(t, "tasks/2025/1/1/key", put.Key)
	assert.Equal(t, "https://s3.local/put", put.URL)

	rr = doRequest(t, s, http.MethodGet, "/tasks/t1/attachment", "good", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var get attachmentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &get))
	assert.Equal(t, "https://s3.local/get", get.URL)
}

func TestErrorBodyShape(t *testing.T) {
	us := &fakeUserSvc{
		loginFn: func(ctx context.Context, email, password string) (*models.User, string, error) {
			return nil, "", common.ErrorUnauthorized
		},
	}
	s := newTestServer(us, &fakeTaskSvc{})

	rr := doRequest(t, s, http.MethodPost, "/auth/login",
		"", loginRequest{Email: "a@b.c", Password: "x"})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rr.Body.String())
}
