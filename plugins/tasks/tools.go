package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/deskagent/log"
	"github.com/va6996/deskagent/plugins/clock"
	"github.com/va6996/deskagent/tools"
)

type ScheduleInput struct {
	Title           string `json:"title" description:"Short description of the task"`
	RunAt           string `json:"run_at,omitempty" description:"When to run, RFC3339 (e.g. 2026-01-02T09:00:00Z)"`
	RunAtExpression string `json:"run_at_expression,omitempty" description:"JavaScript date expression using 'now' (epoch millis), used when run_at is empty"`
	Note            string `json:"note,omitempty"`
}

type ListInput struct {
	IncludeCancelled bool `json:"include_cancelled,omitempty"`
}

type ListOutput struct {
	Tasks []Task `json:"tasks"`
}

type CancelInput struct {
	ID string `json:"id" description:"Task ID returned by tasks_schedule"`
}

// Tool exposes a Store to the agent.
type Tool struct {
	Store *Store
	now   func() time.Time
}

func NewTool(now func() time.Time) *Tool {
	if now == nil {
		now = time.Now
	}
	return &Tool{Store: NewStore(now), now: now}
}

func (t *Tool) Schedule(ctx context.Context, input *ScheduleInput) (*Task, error) {
	if input == nil {
		return nil, fmt.Errorf("input is required")
	}

	var runAt time.Time
	var err error
	switch {
	case strings.TrimSpace(input.RunAt) != "":
		runAt, err = time.Parse(time.RFC3339, strings.TrimSpace(input.RunAt))
		if err != nil {
			return nil, fmt.Errorf("invalid run_at %q: expected RFC3339", input.RunAt)
		}
	case strings.TrimSpace(input.RunAtExpression) != "":
		runAt, err = clock.EvaluateExpression(input.RunAtExpression, t.now())
		if err != nil {
			return nil, fmt.Errorf("invalid run_at_expression: %w", err)
		}
	default:
		return nil, fmt.Errorf("either run_at or run_at_expression is required")
	}

	task, err := t.Store.Schedule(input.Title, input.Note, runAt)
	if err != nil {
		log.Errorf(ctx, "Schedule failed: %v", err)
		return nil, err
	}
	log.Infof(ctx, "Scheduled task %s at %s", task.ID, task.RunAt.Format(time.RFC3339))
	return &task, nil
}

func (t *Tool) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	include := input != nil && input.IncludeCancelled
	return &ListOutput{Tasks: t.Store.List(include)}, nil
}

func (t *Tool) Cancel(ctx context.Context, input *CancelInput) (*Task, error) {
	if input == nil || strings.TrimSpace(input.ID) == "" {
		return nil, fmt.Errorf("id is required")
	}
	task, err := t.Store.Cancel(input.ID)
	if err != nil {
		log.Errorf(ctx, "Cancel failed: %v", err)
		return nil, err
	}
	log.Infof(ctx, "Cancelled task %s", task.ID)
	return &task, nil
}

// RegisterTools registers tasks_schedule, tasks_list and tasks_cancel.
func (t *Tool) RegisterTools(gk *genkit.Genkit, registry *tools.Registry) {
	tools.Define(gk, registry,
		"tasks_schedule",
		"Schedules a reminder task. Arguments: title (string), run_at (RFC3339) or run_at_expression (JavaScript using 'now'), note (optional).",
		t.Schedule,
		tools.RequiresConfirmation(),
	)
	tools.Define(gk, registry,
		"tasks_list",
		"Lists scheduled tasks ordered by run time. Arguments: include_cancelled (bool, optional).",
		t.List,
	)
	tools.Define(gk, registry,
		"tasks_cancel",
		"Cancels a scheduled task by id.",
		t.Cancel,
		tools.RequiresConfirmation(),
	)
}
