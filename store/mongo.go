package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rajangupta9/taskmanager/errors"
	"github.com/Rajangupta9/taskmanager/models"
)

// MongoStore persists users and tasks in MongoDB. Numeric ids come from a
// counters collection so that task routes keep integer ids.
type MongoStore struct {
	client   *mongo.Client
	users    *mongo.Collection
	tasks    *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

// ConnectMongo connects to uri, pings the server and opens database dbName.
func ConnectMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return NewMongoStore(client, dbName), nil
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	return &MongoStore{
		client:   client,
		users:    db.Collection("users"),
		tasks:    db.Collection("tasks"),
		counters: db.Collection("counters"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MongoStore) Migrate(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	_, err = s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "due_date", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create task indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error { return s.client.Ping(ctx, nil) }

func (s *MongoStore) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

func (s *MongoStore) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return counter.Seq, nil
}

// decodeOne maps ErrNoDocuments to ErrNotFound.
func decodeOne(res *mongo.SingleResult, out any) error {
	err := res.Decode(out)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

// User methods

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	id, err := s.nextID(ctx, "users")
	if err != nil {
		return err
	}
	now := s.now()
	u.ID, u.CreatedAt, u.UpdatedAt = id, now, now

	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := decodeOne(s.users.FindOne(ctx, filter), &u); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	set := bson.M{"updated_at": s.now()}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.PasswordHash != nil {
		set["password"] = *patch.PasswordHash
	}

	var u models.User
	err := decodeOne(s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	), &u)
	switch {
	case err == nil:
		return &u, nil
	case errors.Is(err, ErrNotFound):
		return nil, err
	case mongo.IsDuplicateKeyError(err):
		return nil, ErrDuplicate
	default:
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
}

// Task methods

func (s *MongoStore) CreateTask(ctx context.Context, t *models.Task) error {
	id, err := s.nextID(ctx, "tasks")
	if err != nil {
		return err
	}
	now := s.now()
	t.ID, t.CreatedAt, t.UpdatedAt = id, now, now

	if _, err := s.tasks.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *MongoStore) FindTask(ctx context.Context, id, ownerID int64) (*models.Task, error) {
	var t models.Task
	if err := decodeOne(s.tasks.FindOne(ctx, bson.M{"_id": id, "user_id": ownerID}), &t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return &t, nil
}

// buildTaskFilter translates q into a Mongo filter and find options.
func buildTaskFilter(q TaskQuery) (bson.M, *options.FindOptions) {
	filter := bson.M{"user_id": q.OwnerID}
	if q.Status != "" {
		filter["status"] = string(q.Status)
	}
	if q.DueAtOrBefore != nil {
		filter["due_date"] = bson.M{"$lte": *q.DueAtOrBefore}
	}
	if q.Assignable {
		filter["$or"] = bson.A{
			bson.M{"description": bson.M{"$regex": "^ "}},
			bson.M{"status": bson.M{"$ne": string(models.StatusCompleted)}},
		}
	}

	opts := options.Find()
	switch q.Order {
	case OrderAsc:
		opts.SetSort(bson.D{{Key: "due_date", Value: 1}, {Key: "_id", Value: 1}})
	case OrderDesc:
		opts.SetSort(bson.D{{Key: "due_date", Value: -1}, {Key: "_id", Value: -1}})
	default:
		opts.SetSort(bson.D{{Key: "_id", Value: 1}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return filter, opts
}

func (s *MongoStore) QueryTasks(ctx context.Context, q TaskQuery) ([]models.Task, error) {
	filter, opts := buildTaskFilter(q)
	cursor, err := s.tasks.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]models.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func (s *MongoStore) UpdateOwnedTask(ctx context.Context, id, ownerID int64, patch models.TaskPatch) (*models.Task, error) {
	set := bson.M{"updated_at": s.now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.DueDate != nil {
		set["due_date"] = *patch.DueDate
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}

	var t models.Task
	err := decodeOne(s.tasks.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	), &t)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return &t, nil
}

func (s *MongoStore) DeleteOwnedTask(ctx context.Context, id, ownerID int64) (*models.Task, error) {
	var t models.Task
	if err := decodeOne(s.tasks.FindOneAndDelete(ctx, bson.M{"_id": id, "user_id": ownerID}), &t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete task %d: %w", id, err)
	}
	return &t, nil
}
