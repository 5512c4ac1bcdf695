package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/todoapp/todo-api/internal/core/domain"
)

const todoNS = "todo.todo_items"

func TestAccountRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		got, err := NewAccountRepository(mt.DB).Create(context.Background(), &domain.Account{
			LoginName:    "Alice",
			PasswordHash: "$2a$hash",
			Profile:      domain.Profile{}.WithDefaults(),
		})
		require.NoError(mt, err)
		require.Len(mt, got.ID, 24)
		require.Equal(mt, "Alice", got.LoginName)
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := NewAccountRepository(mt.DB).Create(context.Background(), &domain.Account{LoginName: "alice"})
		require.ErrorIs(mt, err, domain.ErrLoginNameTaken)
	})

	mt.Run("find", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "todo.accounts", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "login_name", Value: "Alice"},
			{Key: "normalized_login_name", Value: "alice"},
			{Key: "password_hash", Value: "$2a$hash"},
			{Key: "first_name", Value: "A"},
		}))

		got, err := NewAccountRepository(mt.DB).FindByLoginName(context.Background(), "ALICE")
		require.NoError(mt, err)
		require.Equal(mt, id.Hex(), got.ID)
		require.Equal(mt, "$2a$hash", got.PasswordHash)
		require.Equal(mt, "A", got.Profile.FirstName)
	})

	mt.Run("find missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "todo.accounts", mtest.FirstBatch))

		_, err := NewAccountRepository(mt.DB).FindByLoginName(context.Background(), "ghost")
		require.ErrorIs(mt, err, domain.ErrAccountNotFound)
	})
}

func TestTodoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("create assigns sequential id", func(mt *mtest.T) {
		mt.AddMockResponses(
			bson.D{
				{Key: "ok", Value: 1},
				{Key: "value", Value: bson.D{{Key: "_id", Value: todoSequence}, {Key: "seq", Value: int64(5)}}},
			},
			mtest.CreateSuccessResponse(),
		)

		item := &domain.TodoItem{Title: "buy milk", OwnerID: "acc-1", CreatedAt: created}
		require.NoError(mt, NewTodoRepository(mt.DB).Create(context.Background(), item))
		require.Equal(mt, int64(5), item.ID)
		require.Equal(mt, int64(1), item.Version)
	})

	mt.Run("list", func(mt *mtest.T) {
		done := created.Add(time.Hour)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, todoNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: int64(1)}, {Key: "owner_id", Value: "acc-1"}, {Key: "title", Value: "a"}, {Key: "created_at", Value: created}, {Key: "completed_at", Value: nil}, {Key: "version", Value: int64(1)}},
			bson.D{{Key: "_id", Value: int64(2)}, {Key: "owner_id", Value: "acc-1"}, {Key: "title", Value: "b"}, {Key: "is_completed", Value: true}, {Key: "created_at", Value: created}, {Key: "completed_at", Value: done}, {Key: "version", Value: int64(2)}},
		))

		items, err := NewTodoRepository(mt.DB).ListByOwner(context.Background(), "acc-1")
		require.NoError(mt, err)
		require.Len(mt, items, 2)
		require.Nil(mt, items[0].CompletedAt)
		require.NotNil(mt, items[1].CompletedAt)
		require.True(mt, items[1].CompletedAt.Equal(done))
	})

	mt.Run("find not owned", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, todoNS, mtest.FirstBatch))

		_, err := NewTodoRepository(mt.DB).FindByID(context.Background(), "acc-2", 1)
		require.ErrorIs(mt, err, domain.ErrTodoNotFound)
	})

	mt.Run("update bumps version", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		item := &domain.TodoItem{ID: 1, OwnerID: "acc-1", Version: 3}
		require.NoError(mt, NewTodoRepository(mt.DB).Update(context.Background(), item))
		require.Equal(mt, int64(4), item.Version)
	})

	mt.Run("update stale version", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		item := &domain.TodoItem{ID: 1, OwnerID: "acc-1", Version: 3}
		require.ErrorIs(mt, NewTodoRepository(mt.DB).Update(context.Background(), item), domain.ErrConflict)
		require.Equal(mt, int64(3), item.Version)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		repo := NewTodoRepository(mt.DB)
		require.NoError(mt, repo.Delete(context.Background(), "acc-1", 1))
		require.ErrorIs(mt, repo.Delete(context.Background(), "acc-1", 1), domain.ErrTodoNotFound)
	})
}
