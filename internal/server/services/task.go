package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	sc "github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Presign seams, replaceable in tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const presignValidity = 15 * time.Minute

// TaskUpdate carries a partial update: nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
}

// TaskService performs owner-scoped CRUD on tasks. Every method takes the
// authenticated user id produced by token validation; a task owned by a
// different user yields common.ErrorForbidden.
type TaskService struct {
	repo   tasks.Repository
	config *sc.Config
}

func NewTaskService(repo tasks.Repository, config *sc.Config) *TaskService {
	return &TaskService{
		repo:   repo,
		config: config,
	}
}

// List returns all tasks owned by userID, newest first.
func (s *TaskService) List(ctx context.Context, userID string) ([]*models.Task, error) {
	result, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Create stores a new task owned by userID. Blank title or description is a
// validation error; so is an unknown status or priority string. Empty status
// and priority fall back to pending/medium.
func (s *TaskService) Create(ctx context.Context, userID, title, description, status, priority string) (*models.Task, error) {

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" || description == "" {
		return nil, common.ErrorValidation
	}

	if status == "" {
		status = models.StatusPending
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidStatus(status) || !models.ValidPriority(priority) {
		return nil, common.ErrorValidation
	}

	task := &models.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
	}

	task, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	return task, nil
}

// getOwned loads a task and enforces ownership: an absent id yields
// ErrorNotFound, an id owned by someone else yields ErrorForbidden.
func (s *TaskService) getOwned(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	if task.UserID != userID {
		return nil, common.ErrorForbidden
	}
	return task, nil
}

// Update applies the non-nil fields of upd to the task and returns the
// updated record.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, upd TaskUpdate) (*models.Task, error) {

	task, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, common.ErrorValidation
		}
		task.Title = title
	}
	if upd.Description != nil {
		task.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Status != nil {
		if !models.ValidStatus(*upd.Status) {
			return nil, common.ErrorValidation
		}
		task.Status = *upd.Status
	}
	if upd.Priority != nil {
		if !models.ValidPriority(*upd.Priority) {
			return nil, common.ErrorValidation
		}
		task.Priority = *upd.Priority
	}

	task, err = s.repo.Update(ctx, task)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return task, nil
}

// Delete removes the task. No soft delete.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {

	if _, err := s.getOwned(ctx, userID, taskID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	return nil
}

func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("tasks/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *TaskService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// AttachmentPutURL generates a storage key, records it on the task, and
// returns a presigned PUT URL the owner can upload to directly.
func (s *TaskService) AttachmentPutURL(ctx context.Context, userID, taskID string) (string, string, error) {

	task, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return "", "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	key := randomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", "", common.ErrorInternal
	}

	task.AttachmentKey = key
	if _, err := s.repo.Update(ctx, task); err != nil {
		return "", "", common.ErrorInternal
	}

	return key, req.URL, nil
}

// AttachmentGetURL returns a presigned GET URL for the task's attachment.
// A task without an attachment yields ErrorNotFound.
func (s *TaskService) AttachmentGetURL(ctx context.Context, userID, taskID string) (string, error) {

	task, err := s.getOwned(ctx, userID, taskID)
	if err != nil {
		return "", err
	}

	if task.AttachmentKey == "" {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", common.ErrorInternal
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &task.AttachmentKey,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", common.ErrorInternal
	}

	return req.URL, nil
}
