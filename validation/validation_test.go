package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Rajangupta9/taskmanager/errors"
	"github.com/Rajangupta9/taskmanager/models"
)

func issuesOf(t *testing.T, err error) []errors.FieldIssue {
	t.Helper()
	var ve *errors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return ve.Issues
}

func TestValidateRegister(t *testing.T) {
	t.Run("accepts a valid payload", func(t *testing.T) {
		err := Validate(Register, map[string]any{
			"username": "example",
			"email":    "example@example.com",
			"password": "Password123",
		})
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
	})

	t.Run("reports every field in schema order", func(t *testing.T) {
		err := Validate(Register, map[string]any{
			"username": "abc",
			"email":    "abc@example.org",
			"password": "1secret",
		})
		issues := issuesOf(t, err)

		want := []errors.FieldIssue{
			{Path: "username", Message: "String must contain at least 5 character(s)"},
			{Path: "email", Message: `Invalid input: must end with ".com"`},
			{Path: "password", Message: "Invalid"},
		}
		if len(issues) != len(want) {
			t.Fatalf("got %d issues (%v), want %d", len(issues), issues, len(want))
		}
		for i := range want {
			if issues[i] != want[i] {
				t.Errorf("issue %d = %+v, want %+v", i, issues[i], want[i])
			}
		}
	})

	t.Run("missing fields are required", func(t *testing.T) {
		issues := issuesOf(t, Validate(Register, map[string]any{}))
		if len(issues) != 3 {
			t.Fatalf("got %d issues, want 3", len(issues))
		}
		for _, issue := range issues {
			if issue.Message != "Required" {
				t.Errorf("%s: message = %q, want Required", issue.Path, issue.Message)
			}
		}
	})

	t.Run("wrong type stops further rules", func(t *testing.T) {
		issues := issuesOf(t, Validate(Login, map[string]any{
			"email":    42.0,
			"password": "Password123",
		}))
		if len(issues) != 1 || issues[0].Message != "Expected string, received number" {
			t.Errorf("issues = %+v", issues)
		}
	})
}

func TestPasswordByteLimit(t *testing.T) {
	tests := []struct {
		name     string
		password string
		issue    string
	}{
		{"72 ascii bytes", "a" + strings.Repeat("b", 71), ""},
		{"73 ascii bytes", "a" + strings.Repeat("b", 72), "String must contain at most 72 byte(s)"},
		{"few characters many bytes", "a" + strings.Repeat("é", 40), "String must contain at most 72 byte(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ChangePassword, map[string]any{"currentPassword": "secret1", "newPassword": tt.password})
			if tt.issue == "" {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			issues := issuesOf(t, err)
			if len(issues) != 1 || issues[0].Path != "newPassword" || issues[0].Message != tt.issue {
				t.Errorf("issues = %+v", issues)
			}
		})
	}
}

func TestValidateUpdateProfileAllowsEmpty(t *testing.T) {
	if err := Validate(UpdateProfile, map[string]any{}); err != nil {
		t.Errorf("empty profile update should pass, got %v", err)
	}
	issues := issuesOf(t, Validate(UpdateProfile, map[string]any{"email": "not-an-email"}))
	if len(issues) != 2 {
		t.Errorf("expected email format and suffix issues, got %+v", issues)
	}
}

func TestValidateCreateTask(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		paths   []string
	}{
		{
			name:    "valid",
			payload: map[string]any{"title": "Task 1", "description": "Desc", "dueDate": "1700000000000", "status": "TODO"},
		},
		{
			name:    "all empty",
			payload: map[string]any{"title": "", "description": "", "dueDate": "", "status": ""},
			paths:   []string{"title", "dueDate", "status"},
		},
		{
			name:    "lowercase status is not an enum value",
			payload: map[string]any{"title": "t", "dueDate": "1", "status": "todo"},
			paths:   []string{"status"},
		},
		{
			name:    "non numeric due date",
			payload: map[string]any{"title": "t", "dueDate": "tomorrow", "status": "TODO"},
			paths:   []string{"dueDate"},
		},
		{
			name:    "description too long",
			payload: map[string]any{"title": "t", "description": strings.Repeat("x", 1001), "dueDate": "1", "status": "TODO"},
			paths:   []string{"description"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(CreateTask, tt.payload)
			if len(tt.paths) == 0 {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			issues := issuesOf(t, err)
			if len(issues) != len(tt.paths) {
				t.Fatalf("issues = %+v, want paths %v", issues, tt.paths)
			}
			for i, p := range tt.paths {
				if issues[i].Path != p {
					t.Errorf("issue %d path = %q, want %q", i, issues[i].Path, p)
				}
			}
		})
	}
}

func TestDecodeUpdateTask(t *testing.T) {
	var payload map[string]any
	dec := json.NewDecoder(strings.NewReader(`{"title":"renamed","dueDate":"1700000000000","status":"COMPLETED","extra":true}`))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		t.Fatal(err)
	}
	payload["id"] = int64(7)

	var req models.UpdateTaskRequest
	if err := Decode(UpdateTask, payload, &req); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if req.ID != 7 {
		t.Errorf("ID = %d, want 7", req.ID)
	}
	if req.Title == nil || *req.Title != "renamed" {
		t.Errorf("Title = %v", req.Title)
	}
	if req.Description != nil {
		t.Errorf("Description = %v, want nil", *req.Description)
	}
	if req.Status == nil || *req.Status != models.StatusCompleted {
		t.Errorf("Status = %v", req.Status)
	}
	if req.DueDate != "1700000000000" {
		t.Errorf("DueDate = %q", req.DueDate)
	}
}

func TestDecodeRejectsBeforeWriting(t *testing.T) {
	req := models.CreateTaskRequest{Title: "untouched"}
	err := Decode(CreateTask, map[string]any{"title": ""}, &req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if req.Title != "untouched" {
		t.Errorf("Decode wrote into out on failure: %+v", req)
	}
}

func TestPositiveID(t *testing.T) {
	issues := issuesOf(t, Validate(UpdateTask, map[string]any{"id": int64(0), "dueDate": "1"}))
	if len(issues) != 1 || issues[0].Path != "id" {
		t.Errorf("issues = %+v", issues)
	}
}
