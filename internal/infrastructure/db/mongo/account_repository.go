package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/todoapp/todo-api/internal/core/domain"
)

const collectionAccounts = "accounts"

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

type accountDoc struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	LoginName           string             `bson:"login_name"`
	NormalizedLoginName string             `bson:"normalized_login_name"`
	PasswordHash        string             `bson:"password_hash"`
	FirstName           string             `bson:"first_name"`
	LastName            string             `bson:"last_name"`
	Address             string             `bson:"address"`
	PhoneNumber         string             `bson:"phone_number"`
	CreatedAt           time.Time          `bson:"created_at"`
}

func (d accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:           d.ID.Hex(),
		LoginName:    d.LoginName,
		PasswordHash: d.PasswordHash,
		Profile: domain.Profile{
			FirstName:   d.FirstName,
			LastName:    d.LastName,
			Address:     d.Address,
			PhoneNumber: d.PhoneNumber,
		},
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := accountDoc{
		ID:                  primitive.NewObjectID(),
		LoginName:           account.LoginName,
		NormalizedLoginName: domain.NormalizeLoginName(account.LoginName),
		PasswordHash:        account.PasswordHash,
		FirstName:           account.Profile.FirstName,
		LastName:            account.Profile.LastName,
		Address:             account.Profile.Address,
		PhoneNumber:         account.Profile.PhoneNumber,
		CreatedAt:           account.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrLoginNameTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByLoginName(ctx context.Context, loginName string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	err := r.col.FindOne(ctx, bson.M{"normalized_login_name": domain.NormalizeLoginName(loginName)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the case-insensitive uniqueness index on login names.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "normalized_login_name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("account indexes: %w", err)
	}
	return nil
}
