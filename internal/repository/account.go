package repository

import (
	"context"
	"database/sql"
	"errors"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("row not found")
	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, acc models.NewAccount) (*models.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	GetCredentialByUsername(ctx context.Context, username string) (*models.Credential, error)
}

type accountRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewAccountRepository(db *sqlx.DB, log *logrus.Logger) AccountRepository {
	return &accountRepository{db: db, log: log}
}

// CreateAccount inserts the account row and its credential row in one
// transaction so a failed credential insert never leaves an orphan account.
func (r *accountRepository) CreateAccount(ctx context.Context, acc models.NewAccount) (*models.Account, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var account models.Account
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO accounts (email, first_name, last_name) VALUES ($1, $2, $3) RETURNING id, email, first_name, last_name`,
		acc.Email, acc.FirstName, acc.LastName,
	).StructScan(&account)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO credentials (username, hashed_password, salt, user_id) VALUES ($1, $2, $3, $4)`,
		acc.Username, acc.Password, acc.Salt, account.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	query := `SELECT id, email, first_name, last_name FROM accounts WHERE id = $1`
	err := r.db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetCredentialByUsername(ctx context.Context, username string) (*models.Credential, error) {
	var cred models.Credential
	query := `SELECT username, hashed_password, salt, user_id FROM credentials WHERE username = $1`
	err := r.db.GetContext(ctx, &cred, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}
