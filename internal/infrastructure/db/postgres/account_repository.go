package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/todoapp/todo-api/internal/core/domain"
)

type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query :=
		`INSERT INTO accounts (id, login_name, normalized_login_name, password_hash,
		                       first_name, last_name, address, phone_number, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	created := *account
	created.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx, query,
		created.ID,
		created.LoginName,
		domain.NormalizeLoginName(created.LoginName),
		created.PasswordHash,
		created.Profile.FirstName,
		created.Profile.LastName,
		created.Profile.Address,
		created.Profile.PhoneNumber,
		created.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrLoginNameTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return &created, nil
}

func (r *AccountRepository) FindByLoginName(ctx context.Context, loginName string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query :=
		`SELECT id, login_name, password_hash, first_name, last_name, address, phone_number, created_at
		 FROM accounts
		 WHERE normalized_login_name = $1`

	var a domain.Account
	err := r.db.QueryRowContext(ctx, query, domain.NormalizeLoginName(loginName)).Scan(
		&a.ID,
		&a.LoginName,
		&a.PasswordHash,
		&a.Profile.FirstName,
		&a.Profile.LastName,
		&a.Profile.Address,
		&a.Profile.PhoneNumber,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}
