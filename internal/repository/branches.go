package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shibutz-dev/shibutz/backend/internal/domain"
)

func (r *Repository) CreateBranch(branch *domain.Branch) error {
	// a branch is born with an empty current-week grid; the next-week
	// document stays NULL until first requested
	emptyDoc, err := json.Marshal(scheduleDocument{Days: domain.NewEmptyDays()})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO branches (name, username, password_hash, email, is_admin, branch_type, schedule)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	args := []any{branch.Name, branch.Username, branch.PasswordHash, branch.Email, branch.IsAdmin, branch.Type, emptyDoc}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&branch.ID, &branch.CreatedAt, &branch.Version); err != nil {
		return err
	}

	return nil
}

const branchColumns = `id, name, username, password_hash, email, is_admin, branch_type, last_schedule_transition, created_at, version`

func scanBranch(row *sql.Row) (*domain.Branch, error) {
	branch := &domain.Branch{}
	var lastTransition sql.NullTime

	dst := []any{&branch.ID, &branch.Name, &branch.Username, &branch.PasswordHash, &branch.Email, &branch.IsAdmin, &branch.Type, &lastTransition, &branch.CreatedAt, &branch.Version}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if lastTransition.Valid {
		branch.LastScheduleTransition = &lastTransition.Time
	}

	return branch, nil
}

func (r *Repository) GetBranchByID(id int64) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanBranch(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetBranchByUsername(username string) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE username = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanBranch(r.dbpool.QueryRowContext(ctx, query, username))
}

func (r *Repository) GetBranchByName(name string) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE name = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanBranch(r.dbpool.QueryRowContext(ctx, query, name))
}

func (r *Repository) GetAllBranches() ([]*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches ORDER BY id`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := make([]*domain.Branch, 0)
	for rows.Next() {
		branch := &domain.Branch{}
		var lastTransition sql.NullTime

		dst := []any{&branch.ID, &branch.Name, &branch.Username, &branch.PasswordHash, &branch.Email, &branch.IsAdmin, &branch.Type, &lastTransition, &branch.CreatedAt, &branch.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if lastTransition.Valid {
			branch.LastScheduleTransition = &lastTransition.Time
		}

		branches = append(branches, branch)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return branches, nil
}

func (r *Repository) UpdateBranch(branch *domain.Branch) error {
	query := `
		UPDATE branches
		SET
			name = $1,
			password_hash = $2,
			email = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING username, is_admin, branch_type, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{branch.Name, branch.PasswordHash, branch.Email, branch.ID, branch.Version}
	dst := []any{&branch.Username, &branch.IsAdmin, &branch.Type, &branch.CreatedAt, &branch.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteBranch(id int64) error {
	query := `DELETE FROM branches WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
