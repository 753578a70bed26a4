package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shibutz-dev/shibutz/backend/internal/domain"
)

// scheduleDocument is the persisted JSONB shape of one week's grid.
type scheduleDocument struct {
	Days []domain.Day `json:"days"`
}

func weekColumn(week domain.WeekSelector) string {
	switch week {
	case domain.WeekCurrent:
		return "schedule"
	case domain.WeekNext:
		return "next_week_schedule"
	default:
		panic(fmt.Sprintf("unknown week selector %q", week))
	}
}

// GetSchedule loads one week's grid of a branch, looked up by branch name.
// The next-week document is materialized lazily: the first read synthesizes
// an empty grid, persists it and returns it. A document with missing or
// corrupted days is backfilled with the empty template before it is handed
// out.
func (r *Repository) GetSchedule(branchName string, week domain.WeekSelector) (*domain.Schedule, error) {
	query := `SELECT id, ` + weekColumn(week) + ` FROM branches WHERE name = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var branchID int64
	var doc []byte
	if err := r.dbpool.QueryRowContext(ctx, query, branchName).Scan(&branchID, &doc); err != nil {
		return nil, err
	}

	if doc == nil {
		// first touch of this week variant
		return r.SaveSchedule(branchID, week, domain.NewEmptyDays())
	}

	schedule := &domain.Schedule{
		BranchID: branchID,
		Week:     week,
	}

	var document scheduleDocument
	if err := json.Unmarshal(doc, &document); err != nil {
		return nil, err
	}
	schedule.Days = document.Days
	schedule.Normalize()

	return schedule, nil
}

// SaveSchedule persists the full days array of the selected week variant as
// an atomic document replace, never a patch. The input is deep-copied first
// so the caller's in-memory slices and the persisted document never alias.
// The returned schedule is the authoritative echo of what was stored.
func (r *Repository) SaveSchedule(branchID int64, week domain.WeekSelector, days []domain.Day) (*domain.Schedule, error) {
	document := scheduleDocument{Days: domain.CloneDays(days)}
	doc, err := json.Marshal(document)
	if err != nil {
		return nil, err
	}

	query := `UPDATE branches SET ` + weekColumn(week) + ` = $1 WHERE id = $2 RETURNING id`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// no concurrency token on the schedule documents: two concurrent saves
	// race and the last writer wins
	if err := r.dbpool.QueryRowContext(ctx, query, doc, branchID).Scan(&branchID); err != nil {
		return nil, err
	}

	schedule := &domain.Schedule{
		BranchID: branchID,
		Week:     week,
		Days:     document.Days,
	}
	schedule.Normalize()

	return schedule, nil
}

const transitionSet = `
	schedule = COALESCE(next_week_schedule, $1),
	next_week_schedule = NULL,
	last_schedule_transition = now(),
	version = version + 1
`

// TransitionWeek promotes the branch's next-week grid into the current week
// and resets the next week. A branch that never touched its next week gets
// a fresh empty grid.
func (r *Repository) TransitionWeek(branchID int64) (*domain.Branch, error) {
	emptyDoc, err := json.Marshal(scheduleDocument{Days: domain.NewEmptyDays()})
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE branches SET ` + transitionSet + `
		WHERE id = $2
		RETURNING ` + branchColumns + `
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanBranch(r.dbpool.QueryRowContext(ctx, query, emptyDoc, branchID))
}

// TransitionAllWeeks runs the week transition for every non-admin branch in
// one statement and returns the affected branches, so callers can notify
// them.
func (r *Repository) TransitionAllWeeks() ([]*domain.Branch, error) {
	emptyDoc, err := json.Marshal(scheduleDocument{Days: domain.NewEmptyDays()})
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE branches SET ` + transitionSet + `
		WHERE is_admin = FALSE
		RETURNING ` + branchColumns + `
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, emptyDoc)
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
