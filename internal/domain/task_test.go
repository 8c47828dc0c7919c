package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTask_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		want    Task
		changed bool
	}{
		{
			name: "valid colored task",
			task: Task{ID: "a", Color: ColorRed, Highlighted: true},
			want: Task{ID: "a", Color: ColorRed, Highlighted: true},
		},
		{
			name:    "completed task loses color state",
			task:    Task{ID: "a", Color: ColorRed, Highlighted: true, Completed: true},
			want:    Task{ID: "a", Completed: true},
			changed: true,
		},
		{
			name:    "highlight without color is dropped",
			task:    Task{ID: "a", Highlighted: true},
			want:    Task{ID: "a"},
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := tt.task
			assert.Equal(t, !tt.changed, task.IsValid())
			assert.Equal(t, tt.changed, task.Normalize())
			assert.Equal(t, tt.want, task)
			assert.True(t, task.IsValid())
			assert.False(t, task.Normalize(), "second pass is a no-op")
		})
	}
}

func TestTask_Duplicate(t *testing.T) {
	src := Task{ID: "a", Title: "Plan", Description: "notes", Color: ColorBlue, Highlighted: true}
	dup := src.Duplicate("b")
	assert.Equal(t, Task{ID: "b", Title: "Plan (copy)", Description: "notes", Color: ColorBlue, Highlighted: true}, dup)

	done := Task{ID: "a", Title: "Done", Completed: true}
	assert.False(t, done.Duplicate("c").Completed)
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "Buy milk", NormalizeTitle("  Buy milk \n"))
	assert.Empty(t, NormalizeTitle(" \t "))
}
