package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
)

const credentialColumns = `id, user_id, website, username, password, category, notes, strength, created_at, updated_at, last_used`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, cred *models.Credential) (*models.Credential, error) {

	query :=
		`INSERT INTO credentials (user_id, website, username, password, category, notes, strength)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		cred.UserID, cred.Website, cred.Username, cred.Password, cred.Category, cred.Notes, cred.Strength).
		Scan(&cred.ID, &cred.CreatedAt, &cred.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return cred, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials
		 WHERE id = $1
		 `

	cred := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cred.ID, &cred.UserID, &cred.Website, &cred.Username, &cred.Password,
		&cred.Category, &cred.Notes, &cred.Strength, &cred.CreatedAt, &cred.UpdatedAt, &cred.LastUsed)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return cred, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanCredentials(rows)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanCredentials(rows)
}

func (r *PostgresRepository) Update(ctx context.Context, cred *models.Credential) error {
	query :=
		`UPDATE credentials
		 SET website = $2, username = $3, password = $4, category = $5, notes = $6, strength = $7,
		     last_used = $8, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		cred.ID, cred.Website, cred.Username, cred.Password, cred.Category, cred.Notes, cred.Strength, cred.LastUsed)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM credentials
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func scanCredentials(rows *sql.Rows) ([]*models.Credential, error) {
	var result []*models.Credential

	for rows.Next() {
		cred := &models.Credential{}
		err := rows.Scan(
			&cred.ID, &cred.UserID, &cred.Website, &cred.Username, &cred.Password,
			&cred.Category, &cred.Notes, &cred.Strength, &cred.CreatedAt, &cred.UpdatedAt, &cred.LastUsed)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, cred)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
