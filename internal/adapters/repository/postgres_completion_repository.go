package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
)

type PostgresCompletionRepository struct {
	db *sqlx.DB
}

func NewPostgresCompletionRepository(db *sqlx.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

// Upsert enforces the one-record-per-(habit, day) invariant at the
// storage layer: a conflicting day key updates the existing row in
// place and revives it if it was soft-deleted.
func (r *PostgresCompletionRepository) Upsert(ctx context.Context, completion *domain.Completion) error {
	if completion.ID == "" {
		completion.ID = uuid.NewString()
	}

	query := `
		INSERT INTO completions (
			id, habit_id, user_id,
			day, completed, count,
			version, created_at, updated_at, deleted_at
		) VALUES (
			:id, :habit_id, :user_id,
			:day, :completed, :count,
			:version, :created_at, :updated_at, :deleted_at
		)
		ON CONFLICT (habit_id, day) DO UPDATE SET
			completed  = EXCLUDED.completed,
			count      = EXCLUDED.count,
			version    = completions.version + 1,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL`

	_, err := r.db.NamedExecContext(ctx, query, completion)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return errors.New("referenced habit or user does not exist")
		}
		return err
	}
	return nil
}

func (r *PostgresCompletionRepository) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	var completion domain.Completion
	query := `SELECT * FROM completions WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &completion, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}
	return &completion, nil
}

func (r *PostgresCompletionRepository) GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*domain.Completion, error) {
	var completion domain.Completion
	query := `
		SELECT * FROM completions
		WHERE habit_id = $1 AND day = $2 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &completion, query, habitID, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}
	return &completion, nil
}

func (r *PostgresCompletionRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `
		SELECT * FROM completions
		WHERE habit_id = $1 AND deleted_at IS NULL
		ORDER BY day ASC`

	err := r.db.SelectContext(ctx, &completions, query, habitID)
	if err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *PostgresCompletionRepository) ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `
		SELECT * FROM completions
		WHERE habit_id = $1
		  AND day >= $2
		  AND day <= $3
		  AND deleted_at IS NULL
		ORDER BY day DESC`

	err := r.db.SelectContext(ctx, &completions, query, habitID, from, to)
	if err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *PostgresCompletionRepository) Delete(ctx context.Context, id string, userID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE completions
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE id = $2
		  AND user_id = $3
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCompletionNotFound
	}

	return nil
}

func (r *PostgresCompletionRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE completions
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE habit_id = $2
		  AND deleted_at IS NULL`

	_, err := r.db.ExecContext(ctx, query, now, habitID)
	return err
}

func (r *PostgresCompletionRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `
		SELECT * FROM completions
		WHERE user_id = $1
		  AND updated_at > $2
		ORDER BY updated_at ASC`

	err := r.db.SelectContext(ctx, &completions, query, userID, since)
	if err != nil {
		return nil, err
	}
	return completions, nil
}
