package store

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Rajangupta9/taskmanager/models"
)

func TestRebind(t *testing.T) {
	q := "SELECT * FROM tasks WHERE id = ? AND user_id = ?"
	if got := DialectPostgres.Rebind(q); got != "SELECT * FROM tasks WHERE id = $1 AND user_id = $2" {
		t.Errorf("postgres Rebind = %q", got)
	}
	if got := DialectMySQL.Rebind(q); got != q {
		t.Errorf("mysql Rebind = %q", got)
	}
}

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"pq unique violation", &pq.Error{Code: "23505"}, true},
		{"pq other", &pq.Error{Code: "23503"}, false},
		{"mysql duplicate entry", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), true},
		{"mysql other", &mysql.MySQLError{Number: 1452}, false},
		{"plain", fmt.Errorf("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DialectPostgres.IsDuplicate(tt.err); got != tt.want {
				t.Errorf("IsDuplicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeDSNEnablesParseTime(t *testing.T) {
	dsn, err := DialectMySQL.normalizeDSN("root:@tcp(localhost:3306)/todos")
	if err != nil {
		t.Fatalf("normalizeDSN failed: %v", err)
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.ParseTime {
		t.Errorf("ParseTime not enabled in %q", dsn)
	}
}

func TestBuildTaskQuery(t *testing.T) {
	now := int64(1700000000000)

	t.Run("sort descending", func(t *testing.T) {
		query, args := buildTaskQuery(TaskQuery{OwnerID: 4, DueAtOrBefore: &now, Order: OrderDesc})
		want := "SELECT " + taskColumns + " FROM tasks WHERE user_id = ? AND due_date <= ? ORDER BY due_date DESC, id DESC"
		if query != want {
			t.Errorf("query = %q\nwant  %q", query, want)
		}
		if len(args) != 2 || args[0] != int64(4) || args[1] != now {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("assignable with limit", func(t *testing.T) {
		query, args := buildTaskQuery(TaskQuery{OwnerID: 4, DueAtOrBefore: &now, Assignable: true, Limit: 1})
		want := "SELECT " + taskColumns + " FROM tasks WHERE user_id = ? AND due_date <= ? AND (description LIKE ? OR status <> ?) ORDER BY id ASC LIMIT 1"
		if query != want {
			t.Errorf("query = %q\nwant  %q", query, want)
		}
		if len(args) != 4 || args[2] != " %" || args[3] != "COMPLETED" {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		_, args := buildTaskQuery(TaskQuery{OwnerID: 1, Status: models.StatusProgress})
		if len(args) != 2 || args[1] != "PROGRESS" {
			t.Errorf("args = %v", args)
		}
	})
}

func TestBuildTaskFilter(t *testing.T) {
	now := int64(42)
	filter, opts := buildTaskFilter(TaskQuery{OwnerID: 9, DueAtOrBefore: &now, Assignable: true, Order: OrderAsc, Limit: 1})

	if filter["user_id"] != int64(9) {
		t.Errorf("user_id = %v", filter["user_id"])
	}
	due, ok := filter["due_date"].(bson.M)
	if !ok || due["$lte"] != now {
		t.Errorf("due_date = %v", filter["due_date"])
	}
	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("$or = %v", filter["$or"])
	}
	if opts.Limit == nil || *opts.Limit != 1 {
		t.Errorf("limit = %v", opts.Limit)
	}
	sort, ok := opts.Sort.(bson.D)
	if !ok || len(sort) != 2 || sort[0].Key != "due_date" || sort[0].Value != 1 || sort[1].Value != 1 {
		t.Errorf("sort = %v", opts.Sort)
	}

	t.Run("descending reverses id tie-break", func(t *testing.T) {
		_, opts := buildTaskFilter(TaskQuery{OwnerID: 9, Order: OrderDesc})
		sort, ok := opts.Sort.(bson.D)
		if !ok || len(sort) != 2 || sort[0].Value != -1 || sort[1].Key != "_id" || sort[1].Value != -1 {
			t.Errorf("sort = %v", opts.Sort)
		}
	})
}
