package store

import (
	"context"
	"testing"

	"github.com/Rajangupta9/taskmanager/errors"
	"github.com/Rajangupta9/taskmanager/models"
)

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLStore)(nil)
	_ Store = (*MongoStore)(nil)
)

func int64p(v int64) *int64 { return &v }

func seedTasks(t *testing.T, s *MemoryStore, tasks ...models.Task) []models.Task {
	t.Helper()
	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		task := task
		if err := s.CreateTask(context.Background(), &task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		out = append(out, task)
	}
	return out
}

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := &models.User{Username: "example", Email: "example@example.com", PasswordHash: "hash"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if u.ID != 1 {
		t.Errorf("ID = %d, want 1", u.ID)
	}

	t.Run("duplicate username is rejected", func(t *testing.T) {
		err := s.CreateUser(ctx, &models.User{Username: "example", Email: "other@example.com"})
		if !errors.Is(err, ErrDuplicate) {
			t.Errorf("err = %v, want ErrDuplicate", err)
		}
	})

	t.Run("lookups", func(t *testing.T) {
		if got, err := s.FindUserByEmail(ctx, "example@example.com"); err != nil || got.ID != u.ID {
			t.Errorf("FindUserByEmail = %v, %v", got, err)
		}
		if got, err := s.FindUserByUsername(ctx, "example"); err != nil || got.ID != u.ID {
			t.Errorf("FindUserByUsername = %v, %v", got, err)
		}
		if _, err := s.FindUserByID(ctx, 99); !errors.Is(err, ErrNotFound) {
			t.Errorf("FindUserByID(99) err = %v, want ErrNotFound", err)
		}
	})

	t.Run("update collides with another user", func(t *testing.T) {
		other := &models.User{Username: "second", Email: "second@example.com"}
		if err := s.CreateUser(ctx, other); err != nil {
			t.Fatal(err)
		}
		name := "example"
		if _, err := s.UpdateUser(ctx, other.ID, models.UserPatch{Username: &name}); !errors.Is(err, ErrDuplicate) {
			t.Errorf("err = %v, want ErrDuplicate", err)
		}
	})

	t.Run("returned users are copies", func(t *testing.T) {
		got, _ := s.FindUserByID(ctx, u.ID)
		got.Username = "mutated"
		again, _ := s.FindUserByID(ctx, u.ID)
		if again.Username != "example" {
			t.Errorf("store was mutated through a returned pointer")
		}
	})
}

func TestMemoryStoreQueryTasks(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	seedTasks(t, s,
		models.Task{Title: "a", DueDate: 300, Status: models.StatusTodo, UserID: 1},
		models.Task{Title: "b", DueDate: 100, Status: models.StatusCompleted, UserID: 1},
		models.Task{Title: "c", DueDate: 200, Status: models.StatusProgress, UserID: 1},
		models.Task{Title: "d", DueDate: 100, Status: models.StatusTodo, UserID: 2},
		models.Task{Title: "e", DueDate: 900, Status: models.StatusTodo, UserID: 1},
		models.Task{Title: "f", Description: " spaced", DueDate: 50, Status: models.StatusCompleted, UserID: 1},
	)

	titles := func(tasks []models.Task) []string {
		out := make([]string, len(tasks))
		for i, task := range tasks {
			out[i] = task.Title
		}
		return out
	}

	tests := []struct {
		name string
		q    TaskQuery
		want []string
	}{
		{"owner scoped by id", TaskQuery{OwnerID: 1}, []string{"a", "b", "c", "e", "f"}},
		{"status", TaskQuery{OwnerID: 1, Status: models.StatusTodo}, []string{"a", "e"}},
		{"due ascending", TaskQuery{OwnerID: 1, DueAtOrBefore: int64p(300), Order: OrderAsc}, []string{"f", "b", "c", "a"}},
		{"due descending", TaskQuery{OwnerID: 1, DueAtOrBefore: int64p(300), Order: OrderDesc}, []string{"a", "c", "b", "f"}},
		{"assignable", TaskQuery{OwnerID: 1, DueAtOrBefore: int64p(300), Assignable: true}, []string{"a", "c", "f"}},
		{"limit", TaskQuery{OwnerID: 1, Assignable: true, Limit: 1}, []string{"a"}},
		{"other owner", TaskQuery{OwnerID: 3}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.QueryTasks(ctx, tt.q)
			if err != nil {
				t.Fatalf("QueryTasks failed: %v", err)
			}
			gotTitles := titles(got)
			if len(gotTitles) != len(tt.want) {
				t.Fatalf("got %v, want %v", gotTitles, tt.want)
			}
			for i := range tt.want {
				if gotTitles[i] != tt.want[i] {
					t.Errorf("got %v, want %v", gotTitles, tt.want)
					break
				}
			}
		})
	}
}

func TestMemoryStoreDescendingReversesAscending(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedTasks(t, s,
		models.Task{Title: "early", DueDate: 100, Status: models.StatusTodo, UserID: 1},
		models.Task{Title: "tie-1", DueDate: 200, Status: models.StatusTodo, UserID: 1},
		models.Task{Title: "tie-2", DueDate: 200, Status: models.StatusTodo, UserID: 1},
		models.Task{Title: "late", DueDate: 300, Status: models.StatusTodo, UserID: 1},
	)

	asc, err := s.QueryTasks(ctx, TaskQuery{OwnerID: 1, Order: OrderAsc})
	if err != nil {
		t.Fatal(err)
	}
	desc, err := s.QueryTasks(ctx, TaskQuery{OwnerID: 1, Order: OrderDesc})
	if err != nil {
		t.Fatal(err)
	}
	if len(asc) != 4 || len(desc) != 4 {
		t.Fatalf("asc = %d tasks, desc = %d tasks", len(asc), len(desc))
	}
	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("desc is not the reverse of asc: asc[%d] = %s, desc[%d] = %s",
				i, asc[i].Title, len(desc)-1-i, desc[len(desc)-1-i].Title)
		}
	}
	if asc[1].Title != "tie-1" || desc[1].Title != "tie-2" {
		t.Errorf("ties: asc[1] = %s, desc[1] = %s", asc[1].Title, desc[1].Title)
	}
}

func TestMemoryStoreOwnedMutations(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	tasks := seedTasks(t, s, models.Task{Title: "mine", DueDate: 1, Status: models.StatusTodo, UserID: 1})
	id := tasks[0].ID

	title := "stolen"
	if _, err := s.UpdateOwnedTask(ctx, id, 2, models.TaskPatch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update by non-owner err = %v, want ErrNotFound", err)
	}
	if _, err := s.DeleteOwnedTask(ctx, id, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete by non-owner err = %v, want ErrNotFound", err)
	}
	if _, err := s.FindTask(ctx, id, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("find by non-owner err = %v, want ErrNotFound", err)
	}

	title = "renamed"
	updated, err := s.UpdateOwnedTask(ctx, id, 1, models.TaskPatch{Title: &title})
	if err != nil || updated.Title != "renamed" {
		t.Fatalf("UpdateOwnedTask = %v, %v", updated, err)
	}

	deleted, err := s.DeleteOwnedTask(ctx, id, 1)
	if err != nil || deleted.ID != id {
		t.Fatalf("DeleteOwnedTask = %v, %v", deleted, err)
	}
	if _, err := s.FindTask(ctx, id, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("task still present after delete")
	}
}
