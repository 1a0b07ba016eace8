package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
)

// getMultiline is an indirection over GetMultiline for tests.
var getMultiline = GetMultiline

// List fetches the user's tasks and prints one line per task, newest first.
func (a *App) List(ctx context.Context) error {
	tasks, err := a.taskService.List(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if len(tasks) == 0 {
		printlnFn("No tasks yet")
		return nil
	}

	for _, task := range tasks {
		marker := " "
		if task.AttachmentKey != "" {
			marker = "@"
		}
		printlnFn(fmt.Sprintf("%s %s [%s/%s] %s", marker, task.ID, task.Status, task.Priority, task.Title))
	}
	return nil
}

// Add prompts for the task fields and creates a task. Status and priority
// may be left empty to accept the server defaults.
func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}

	description, err := getMultiline(a.reader, "Enter description", os.Stdout)
	if err != nil {
		return err
	}

	status, err := getSimpleText(a.reader, "Enter status (pending/in-progress/completed, empty for pending)", os.Stdout)
	if err != nil {
		return err
	}

	priority, err := getSimpleText(a.reader, "Enter priority (low/medium/high, empty for medium)", os.Stdout)
	if err != nil {
		return err
	}

	task, err := a.taskService.Add(ctx, title, description, status, priority)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	printlnFn("Created task", task.ID)
	return nil
}

// Update prompts for a task id and new field values. Empty input leaves the
// field unchanged.
func (a *App) Update(ctx context.Context) error {
	taskID, err := getSimpleText(a.reader, "Enter task id", os.Stdout)
	if err != nil {
		return err
	}

	var upd api.TaskUpdate

	if v, err := getSimpleText(a.reader, "Enter title (empty to keep)", os.Stdout); err != nil {
		return err
	} else if v != "" {
		upd.Title = &v
	}

	if v, err := getSimpleText(a.reader, "Enter description (empty to keep)", os.Stdout); err != nil {
		return err
	} else if v != "" {
		upd.Description = &v
	}

	if v, err := getSimpleText(a.reader, "Enter status (empty to keep)", os.Stdout); err != nil {
		return err
	} else if v != "" {
		upd.Status = &v
	}

	if v, err := getSimpleText(a.reader, "Enter priority (empty to keep)", os.Stdout); err != nil {
		return err
	} else if v != "" {
		upd.Priority = &v
	}

	task, err := a.taskService.Update(ctx, taskID, upd)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	printlnFn("Updated task", task.ID)
	return nil
}

// Delete prompts for a task id and deletes the task.
func (a *App) Delete(ctx context.Context) error {
	taskID, err := getSimpleText(a.reader, "Enter task id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.taskService.Delete(ctx, taskID); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	printlnFn("Deleted task", taskID)
	return nil
}

// Attach prompts for a task id and a local file path and uploads the file as
// the task's attachment.
func (a *App) Attach(ctx context.Context) error {
	taskID, err := getSimpleText(a.reader, "Enter task id", os.Stdout)
	if err != nil {
		return err
	}

	filePath, err := getSimpleText(a.reader, "Enter file path", os.Stdout)
	if err != nil {
		return err
	}

	key, err := a.taskService.AttachFile(ctx, taskID, filePath)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	printlnFn("Uploaded attachment", key)
	return nil
}

// Link prompts for a task id and prints a download URL for its attachment.
func (a *App) Link(ctx context.Context) error {
	taskID, err := getSimpleText(a.reader, "Enter task id", os.Stdout)
	if err != nil {
		return err
	}

	url, err := a.taskService.AttachmentLink(ctx, taskID)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	printlnFn(url)
	return nil
}
