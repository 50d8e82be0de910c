package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type resultRepo struct {
	db *sql.DB
}

const resultColumns = `id, attempt_id, question_id, user_id, answer, score, verdict, comment, advice, unmatched_equations, created_at`

func (r *resultRepo) Append(ctx context.Context, rec ResultRecord) (int64, error) {
	eqs := rec.Feedback.UnmatchedEquations
	if eqs == nil {
		eqs = []string{}
	}
	eqJSON, err := json.Marshal(eqs)
	if err != nil {
		return 0, fmt.Errorf("encode unmatched equations: %w", err)
	}

	var score sql.NullFloat64
	if rec.Feedback.Score != nil {
		score = sql.NullFloat64{Float64: *rec.Feedback.Score, Valid: true}
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO graded_results
			(attempt_id, question_id, user_id, answer, score, verdict, comment, advice, unmatched_equations, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.AttemptID, rec.QuestionID, rec.UserID, rec.Answer, score,
		rec.Feedback.Verdict, rec.Feedback.Comment, rec.Feedback.Advice,
		string(eqJSON), createdAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("result id: %w", err)
	}
	return id, nil
}

func (r *resultRepo) Recent(ctx context.Context, limit int) ([]ResultRecord, error) {
	query := `SELECT ` + resultColumns + ` FROM graded_results ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

func (r *resultRepo) Get(ctx context.Context, id int64) (*ResultRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM graded_results WHERE id = ?`, id)

	rec, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result %d: %w", id, ErrNotFound)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(s scanner) (*ResultRecord, error) {
	var (
		rec       ResultRecord
		score     sql.NullFloat64
		eqJSON    string
		createdAt int64
	)
	err := s.Scan(&rec.ID, &rec.AttemptID, &rec.QuestionID, &rec.UserID, &rec.Answer,
		&score, &rec.Feedback.Verdict, &rec.Feedback.Comment, &rec.Feedback.Advice,
		&eqJSON, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan result: %w", err)
	}

	if score.Valid {
		v := score.Float64
		rec.Feedback.Score = &v
	}
	if err := json.Unmarshal([]byte(eqJSON), &rec.Feedback.UnmatchedEquations); err != nil {
		return nil, fmt.Errorf("decode unmatched equations: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt)
	return &rec, nil
}
