// Package api implements the HTTP/JSON client for the task tracker backend.
// It translates API status codes back into the shared error sentinels so the
// rest of the client can use errors.Is the same way the server does.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/sethvargo/go-retry"
)

// Client talks to the backend over HTTP. A bearer token, once set, is sent
// with every request.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken installs the bearer token used on subsequent requests. An empty
// string clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// errorFromStatus maps a non-2xx response to a sentinel error.
func errorFromStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return common.ErrorValidation
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	default:
		return fmt.Errorf("%w: unexpected status %d", common.ErrorInternal, status)
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(common.AuthHeaderName, common.AuthScheme+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromStatus(resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// getJSON wraps doJSON with a fibonacci backoff for GET requests. GETs are
// safe to repeat, so transport failures and 5xx responses are retried a few
// times before giving up.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(100*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.doJSON(ctx, http.MethodGet, path, nil, out)
		if err != nil && isRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// isRetryable reports whether err may resolve on a repeat attempt. 4xx
// sentinels are definitive answers from the server; only server-side
// failures and transport errors retry.
func isRetryable(err error) bool {
	for _, sentinel := range []error{
		common.ErrorValidation, common.ErrorUnauthorized,
		common.ErrorForbidden, common.ErrorNotFound, common.ErrorAlreadyExists,
	} {
		if errors.Is(err, sentinel) {
			return false
		}
	}
	return true
}

type credentialsRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// TaskUpdate carries the fields of a partial task update. Nil fields are
// omitted from the request body and left untouched by the server.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

type attachmentResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/ping", nil, nil)
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/register",
		credentialsRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return nil, "", err
	}
	return resp.User, resp.Token, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login",
		credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, "", err
	}
	return resp.User, resp.Token, nil
}

func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.getJSON(ctx, "/auth/profile", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name, email string) (*models.User, error) {
	var user models.User
	err := c.doJSON(ctx, http.MethodPut, "/auth/profile", profileRequest{Name: name, Email: email}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	if err := c.getJSON(ctx, "/tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, title, description, status, priority string) (*models.Task, error) {
	var task models.Task
	err := c.doJSON(ctx, http.MethodPost, "/tasks",
		createTaskRequest{Title: title, Description: description, Status: status, Priority: priority}, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskID string, upd TaskUpdate) (*models.Task, error) {
	var task models.Task
	if err := c.doJSON(ctx, http.MethodPut, "/tasks/"+taskID, upd, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/tasks/"+taskID, nil, nil)
}

// AttachmentPutURL asks the server for a presigned upload URL for the task's
// attachment and returns the storage key together with the URL.
func (c *Client) AttachmentPutURL(ctx context.Context, taskID string) (string, string, error) {
	var resp attachmentResponse
	err := c.doJSON(ctx, http.MethodPost, "/tasks/"+taskID+"/attachment", nil, &resp)
	if err != nil {
		return "", "", err
	}
	return resp.Key, resp.URL, nil
}

// AttachmentGetURL asks the server for a presigned download URL for the
// task's attachment.
func (c *Client) AttachmentGetURL(ctx context.Context, taskID string) (string, error) {
	var resp attachmentResponse
	if err := c.getJSON(ctx, "/tasks/"+taskID+"/attachment", &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}
