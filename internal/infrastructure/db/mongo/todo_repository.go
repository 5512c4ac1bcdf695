package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/todoapp/todo-api/internal/core/domain"
)

const (
	collectionTodos    = "todo_items"
	collectionCounters = "counters"
	todoSequence       = "todo_items"
)

type TodoRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewTodoRepository(db *mongo.Database) *TodoRepository {
	return &TodoRepository{
		col:      db.Collection(collectionTodos),
		counters: db.Collection(collectionCounters),
	}
}

type todoDoc struct {
	ID          int64      `bson:"_id"`
	OwnerID     string     `bson:"owner_id"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	IsCompleted bool       `bson:"is_completed"`
	CreatedAt   time.Time  `bson:"created_at"`
	CompletedAt *time.Time `bson:"completed_at"`
	Version     int64      `bson:"version"`
}

func (d todoDoc) toDomain() *domain.TodoItem {
	t := &domain.TodoItem{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		IsCompleted: d.IsCompleted,
		CreatedAt:   d.CreatedAt.UTC(),
		OwnerID:     d.OwnerID,
		Version:     d.Version,
	}
	if d.CompletedAt != nil {
		ts := d.CompletedAt.UTC()
		t.CompletedAt = &ts
	}
	return t
}

// nextID hands out integer ids from a counters document so that items keep
// the same numeric ids as in the relational store.
func (r *TodoRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": todoSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next todo id: %w", err)
	}
	return counter.Seq, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer cur.Close(ctx)

	var docs []todoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}

	items := make([]*domain.TodoItem, len(docs))
	for i, d := range docs {
		items[i] = d.toDomain()
	}
	return items, nil
}

func (r *TodoRepository) FindByID(ctx context.Context, ownerID string, id int64) (*domain.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc todoDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TodoRepository) Create(ctx context.Context, item *domain.TodoItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	doc := todoDoc{
		ID:          id,
		OwnerID:     item.OwnerID,
		Title:       item.Title,
		Description: item.Description,
		IsCompleted: item.IsCompleted,
		CreatedAt:   item.CreatedAt,
		CompletedAt: item.CompletedAt,
		Version:     1,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	item.ID = id
	item.Version = doc.Version
	return nil
}

// Update applies the mutable fields only when the stored version still
// matches item.Version.
func (r *TodoRepository) Update(ctx context.Context, item *domain.TodoItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": item.ID, "owner_id": item.OwnerID, "version": item.Version}
	update := bson.M{
		"$set": bson.M{
			"title":        item.Title,
			"description":  item.Description,
			"is_completed": item.IsCompleted,
			"completed_at": item.CompletedAt,
		},
		"$inc": bson.M{"version": int64(1)},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrConflict
	}
	item.Version++
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

// EnsureIndexes creates the owner lookup index on the items collection.
func (r *TodoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("todo indexes: %w", err)
	}
	return nil
}
