package services

import (
	"context"
	"os"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
	"github.com/dmitrijs2005/gophtasks/internal/client/models"
)

// readFile and uploadToPresignedURL are test seams.
var readFile = os.ReadFile
var uploadToPresignedURL = api.UploadToPresignedURL

// taskAPI is the slice of the API client the task service needs.
type taskAPI interface {
	ListTasks(ctx context.Context) ([]*models.Task, error)
	CreateTask(ctx context.Context, title, description, status, priority string) (*models.Task, error)
	UpdateTask(ctx context.Context, taskID string, upd api.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	AttachmentPutURL(ctx context.Context, taskID string) (string, string, error)
	AttachmentGetURL(ctx context.Context, taskID string) (string, error)
}

// TaskService defines task operations for the CLI.
type TaskService interface {
	List(ctx context.Context) ([]*models.Task, error)
	Add(ctx context.Context, title, description, status, priority string) (*models.Task, error)
	Update(ctx context.Context, taskID string, upd api.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, taskID string) error
	AttachFile(ctx context.Context, taskID, filePath string) (string, error)
	AttachmentLink(ctx context.Context, taskID string) (string, error)
}

type taskService struct {
	client taskAPI
}

// NewTaskService constructs a TaskService bound to the given API client.
func NewTaskService(client taskAPI) TaskService {
	return &taskService{client: client}
}

var _ taskAPI = (*api.Client)(nil)

func (t *taskService) List(ctx context.Context) ([]*models.Task, error) {
	return t.client.ListTasks(ctx)
}

func (t *taskService) Add(ctx context.Context, title, description, status, priority string) (*models.Task, error) {
	return t.client.CreateTask(ctx, title, description, status, priority)
}

func (t *taskService) Update(ctx context.Context, taskID string, upd api.TaskUpdate) (*models.Task, error) {
	return t.client.UpdateTask(ctx, taskID, upd)
}

func (t *taskService) Delete(ctx context.Context, taskID string) error {
	return t.client.DeleteTask(ctx, taskID)
}

// AttachFile reads the local file, asks the server for a presigned upload URL
// and uploads the content directly to the object store. Returns the storage
// key the server recorded on the task.
func (t *taskService) AttachFile(ctx context.Context, taskID, filePath string) (string, error) {
	data, err := readFile(filePath)
	if err != nil {
		return "", err
	}

	key, url, err := t.client.AttachmentPutURL(ctx, taskID)
	if err != nil {
		return "", err
	}

	if err := uploadToPresignedURL(url, data); err != nil {
		return "", err
	}
	return key, nil
}

// AttachmentLink returns a presigned download URL for the task's attachment.
func (t *taskService) AttachmentLink(ctx context.Context, taskID string) (string, error) {
	return t.client.AttachmentGetURL(ctx, taskID)
}
