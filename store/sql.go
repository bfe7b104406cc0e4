package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Rajangupta9/taskmanager/errors"
	"github.com/Rajangupta9/taskmanager/models"
)

const (
	userColumns = "id, username, email, password, created_at, updated_at"
	taskColumns = "id, title, description, due_date, status, user_id, created_at, updated_at"
)

// SQLStore persists users and tasks in PostgreSQL or MySQL.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// OpenSQL opens and pings a database for the given dialect.
func OpenSQL(ctx context.Context, d Dialect, dsn string) (*SQLStore, error) {
	dsn, err := d.normalizeDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid %s dsn: %w", d, err)
	}

	db, err := sql.Open(string(d), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewSQLStore(db, d), nil
}

func NewSQLStore(db *sql.DB, d Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: d, now: func() time.Time { return time.Now().UTC() }}
}

func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.Schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.dialect, err)
		}
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLStore) Close(context.Context) error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanTask(row scanner) (*models.Task, error) {
	var t models.Task
	var status string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &status, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Status = models.Status(status)
	return &t, nil
}

// insert runs an INSERT and returns the generated id.
func (s *SQLStore) insert(ctx context.Context, query string, args ...any) (int64, error) {
	if s.dialect == DialectPostgres {
		var id int64
		err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// User methods

func (s *SQLStore) CreateUser(ctx context.Context, u *models.User) error {
	now := s.now()
	id, err := s.insert(ctx,
		"INSERT INTO users (username, email, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		u.Username, u.Email, u.PasswordHash, now, now)
	if err != nil {
		if s.dialect.IsDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, u.CreatedAt, u.UpdatedAt = id, now, now
	return nil
}

func (s *SQLStore) findUser(ctx context.Context, column string, value any) (*models.User, error) {
	q := s.dialect.Rebind("SELECT " + userColumns + " FROM users WHERE " + column + " = ?")
	u, err := scanUser(s.db.QueryRowContext(ctx, q, value))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}
	return u, err
}

func (s *SQLStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.findUser(ctx, "id", id)
}

func (s *SQLStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, "username", username)
}

func (s *SQLStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email", email)
}

func (s *SQLStore) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	var updated *models.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		q := s.dialect.Rebind("SELECT " + userColumns + " FROM users WHERE id = ? FOR UPDATE")
		u, err := scanUser(tx.QueryRowContext(ctx, q, id))
		if err != nil {
			return err
		}

		patch.Apply(u)
		u.UpdatedAt = s.now()
		_, err = tx.ExecContext(ctx,
			s.dialect.Rebind("UPDATE users SET username = ?, email = ?, password = ?, updated_at = ? WHERE id = ?"),
			u.Username, u.Email, u.PasswordHash, u.UpdatedAt, u.ID)
		if err != nil {
			if s.dialect.IsDuplicate(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("update user %d: %w", id, err)
		}
		updated = u
		return nil
	})
	return updated, err
}

// Task methods

func (s *SQLStore) CreateTask(ctx context.Context, t *models.Task) error {
	now := s.now()
	id, err := s.insert(ctx,
		"INSERT INTO tasks (title, description, due_date, status, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		t.Title, t.Description, t.DueDate, string(t.Status), t.UserID, now, now)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.ID, t.CreatedAt, t.UpdatedAt = id, now, now
	return nil
}

func (s *SQLStore) FindTask(ctx context.Context, id, ownerID int64) (*models.Task, error) {
	q := s.dialect.Rebind("SELECT " + taskColumns + " FROM tasks WHERE id = ? AND user_id = ?")
	t, err := scanTask(s.db.QueryRowContext(ctx, q, id, ownerID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return t, err
}

// buildTaskQuery translates q into a SELECT with ? placeholders.
func buildTaskQuery(q TaskQuery) (string, []any) {
	where := []string{"user_id = ?"}
	args := []any{q.OwnerID}

	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}
	if q.DueAtOrBefore != nil {
		where = append(where, "due_date <= ?")
		args = append(args, *q.DueAtOrBefore)
	}
	if q.Assignable {
		where = append(where, "(description LIKE ? OR status <> ?)")
		args = append(args, " %", string(models.StatusCompleted))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + taskColumns + " FROM tasks WHERE ")
	sb.WriteString(strings.Join(where, " AND "))

	switch q.Order {
	case OrderAsc:
		sb.WriteString(" ORDER BY due_date ASC, id ASC")
	case OrderDesc:
		sb.WriteString(" ORDER BY due_date DESC, id DESC")
	default:
		sb.WriteString(" ORDER BY id ASC")
	}
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}
	return sb.String(), args
}

func (s *SQLStore) QueryTasks(ctx context.Context, q TaskQuery) ([]models.Task, error) {
	query, args := buildTaskQuery(q)
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return tasks, nil
}

// lockOwnedTask selects the task row for update inside tx.
func (s *SQLStore) lockOwnedTask(ctx context.Context, tx *sql.Tx, id, ownerID int64) (*models.Task, error) {
	q := s.dialect.Rebind("SELECT " + taskColumns + " FROM tasks WHERE id = ? AND user_id = ? FOR UPDATE")
	return scanTask(tx.QueryRowContext(ctx, q, id, ownerID))
}

func (s *SQLStore) UpdateOwnedTask(ctx context.Context, id, ownerID int64, patch models.TaskPatch) (*models.Task, error) {
	var updated *models.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		t, err := s.lockOwnedTask(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		patch.Apply(t)
		t.UpdatedAt = s.now()
		_, err = tx.ExecContext(ctx,
			s.dialect.Rebind("UPDATE tasks SET title = ?, description = ?, due_date = ?, status = ?, updated_at = ? WHERE id = ? AND user_id = ?"),
			t.Title, t.Description, t.DueDate, string(t.Status), t.UpdatedAt, id, ownerID)
		if err != nil {
			return fmt.Errorf("update task %d: %w", id, err)
		}
		updated = t
		return nil
	})
	return updated, err
}

func (s *SQLStore) DeleteOwnedTask(ctx context.Context, id, ownerID int64) (*models.Task, error) {
	var deleted *models.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		t, err := s.lockOwnedTask(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.dialect.Rebind("DELETE FROM tasks WHERE id = ? AND user_id = ?"), id, ownerID); err != nil {
			return fmt.Errorf("delete task %d: %w", id, err)
		}
		deleted = t
		return nil
	})
	return deleted, err
}
