package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"lokvista_admin/internal/adapters/observability"
	"lokvista_admin/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// Repo is the review decision audit log.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects with dsn and pings once.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

func (r *Repo) RecordDecision(ctx context.Context, d domain.Decision) (err error) {
	start := time.Now()
	defer func() { observability.ObserveStore("mysql", "RecordDecision", err, time.Since(start)) }()

	_, err = r.db.ExecContext(ctx, insertDecisionSQL,
		d.EntityKind,
		d.EntityID,
		d.Action,
		valStr(d.Actor),
		valStr(d.Reason),
		valStr(d.TargetCollection),
		valStr(d.TargetID),
		d.Notified,
		valTime(d.CreatedAt),
	)
	return err
}

// ListDecisions returns the newest decisions, optionally for one entity.
func (r *Repo) ListDecisions(ctx context.Context, entityID string, limit int) ([]domain.Decision, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, listDecisionsSQL, entityID, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Decision{}
	for rows.Next() {
		var d domain.Decision
		var actor, reason, coll, target sql.NullString
		if err := rows.Scan(
			&d.ID,
			&d.EntityKind,
			&d.EntityID,
			&d.Action,
			&actor,
			&reason,
			&coll,
			&target,
			&d.Notified,
			&d.CreatedAt,
		); err != nil {
			return nil, err
		}
		d.Actor = actor.String
		d.Reason = reason.String
		d.TargetCollection = coll.String
		d.TargetID = target.String
		out = append(out, d)
	}
	return out, rows.Err()
}
