package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `INSERT INTO users (username, password_hash, salt, balance)
		VALUES ($1, $2, $3, $4)`, user.Username, user.PasswordHash, user.Salt, user.Balance)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PGUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT username, password_hash, salt, balance FROM users WHERE username=$1`, username)
	var u domain.User
	if err := row.Scan(&u.Username, &u.PasswordHash, &u.Salt, &u.Balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
