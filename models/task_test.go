package models

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"TODO", StatusTodo, true},
		{"progress", StatusProgress, true},
		{"Completed", StatusCompleted, true},
		{"SALAH", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseStatus(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTaskPatchApply(t *testing.T) {
	task := Task{ID: 1, Title: "old", Description: "keep", DueDate: 10, Status: StatusTodo}
	title := "new"
	due := int64(20)
	status := StatusCompleted

	TaskPatch{Title: &title, DueDate: &due, Status: &status}.Apply(&task)

	if task.Title != "new" || task.DueDate != 20 || task.Status != StatusCompleted {
		t.Errorf("patch not applied: %+v", task)
	}
	if task.Description != "keep" {
		t.Errorf("Description = %q, want unchanged", task.Description)
	}
}

func TestToTaskOutcomesKeepsOrder(t *testing.T) {
	tasks := []Task{{ID: 3}, {ID: 1}, {ID: 2}}
	out := ToTaskOutcomes(tasks)
	for i, want := range []int64{3, 1, 2} {
		if out[i].ID != want {
			t.Errorf("out[%d].ID = %d, want %d", i, out[i].ID, want)
		}
	}
}
