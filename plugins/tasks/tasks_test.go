package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/deskagent/tools"
)

var fixedNow = time.Date(2025, 11, 18, 12, 0, 0, 0, time.UTC)

func nowFunc() time.Time { return fixedNow }

func TestStore_Schedule(t *testing.T) {
	s := NewStore(nowFunc)

	tests := []struct {
		name    string
		title   string
		runAt   time.Time
		wantErr error
	}{
		{name: "future", title: "Call bank", runAt: fixedNow.Add(time.Hour)},
		{name: "now is past", title: "Late", runAt: fixedNow, wantErr: ErrRunAtInPast},
		{name: "past", title: "Late", runAt: fixedNow.Add(-time.Minute), wantErr: ErrRunAtInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := s.Schedule(tt.title, "", tt.runAt)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, task.ID)
			assert.Equal(t, StatusScheduled, task.Status)
			assert.Equal(t, fixedNow, task.CreatedAt)
		})
	}

	_, err := s.Schedule("   ", "", fixedNow.Add(time.Hour))
	assert.Error(t, err)
}

func TestStore_ListAndCancel(t *testing.T) {
	s := NewStore(nowFunc)
	later, err := s.Schedule("later", "", fixedNow.Add(2*time.Hour))
	require.NoError(t, err)
	sooner, err := s.Schedule("sooner", "", fixedNow.Add(time.Hour))
	require.NoError(t, err)

	list := s.List(false)
	require.Len(t, list, 2)
	assert.Equal(t, sooner.ID, list[0].ID)
	assert.Equal(t, later.ID, list[1].ID)

	cancelled, err := s.Cancel(sooner.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	assert.Len(t, s.List(false), 1)
	assert.Len(t, s.List(true), 2)

	_, err = s.Cancel(sooner.ID)
	assert.True(t, errors.Is(err, ErrTaskAlreadyCancelled))

	_, err = s.Cancel("missing")
	assert.True(t, errors.Is(err, ErrTaskNotFound))
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore(nowFunc)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Schedule("task", "", fixedNow.Add(time.Hour))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, s.List(false), 50)
}

func TestTool_Schedule(t *testing.T) {
	tool := NewTool(nowFunc)

	tests := []struct {
		name      string
		input     *ScheduleInput
		want      time.Time
		expectErr bool
	}{
		{name: "rfc3339", input: &ScheduleInput{Title: "a", RunAt: "2025-11-19T09:00:00Z"}, want: time.Date(2025, 11, 19, 9, 0, 0, 0, time.UTC)},
		{name: "expression", input: &ScheduleInput{Title: "b", RunAtExpression: "new Date(now + 3600000)"}, want: fixedNow.Add(time.Hour)},
		{name: "bad run_at", input: &ScheduleInput{Title: "c", RunAt: "tomorrow"}, expectErr: true},
		{name: "bad expression", input: &ScheduleInput{Title: "d", RunAtExpression: "new Date("}, expectErr: true},
		{name: "missing time", input: &ScheduleInput{Title: "e"}, expectErr: true},
		{name: "past", input: &ScheduleInput{Title: "f", RunAt: "2020-01-01T00:00:00Z"}, expectErr: true},
		{name: "nil", input: nil, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := tool.Schedule(context.Background(), tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(task.RunAt))
		})
	}
}

func TestRegisterTools(t *testing.T) {
	gk := genkit.Init(context.Background())
	registry := tools.NewRegistry()
	tool := NewTool(nowFunc)
	tool.RegisterTools(gk, registry)

	assert.Equal(t, []string{"tasks_cancel", "tasks_list", "tasks_schedule"}, registry.Names())
	assert.True(t, registry.RequiresConfirmation("tasks_schedule"))
	assert.True(t, registry.RequiresConfirmation("tasks_cancel"))
	assert.False(t, registry.RequiresConfirmation("tasks_list"))

	res, err := registry.ExecuteTool(context.Background(), "tasks_schedule", map[string]interface{}{
		"title":  "Pay invoice",
		"run_at": "2025-12-01T10:00:00Z",
	})
	require.NoError(t, err)
	task := res.(*Task)

	res, err = registry.ExecuteTool(context.Background(), "tasks_list", map[string]interface{}{})
	require.NoError(t, err)
	require.Len(t, res.(*ListOutput).Tasks, 1)

	_, err = registry.ExecuteTool(context.Background(), "tasks_cancel", map[string]interface{}{"id": task.ID})
	require.NoError(t, err)

	_, err = registry.ExecuteTool(context.Background(), "tasks_cancel", map[string]interface{}{"id": task.ID})
	assert.True(t, errors.Is(err, ErrTaskAlreadyCancelled))
}
