package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/trailmap-ai/trailmap/pkg/common"
	"github.com/trailmap-ai/trailmap/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
)

// ErrRunNotFound is returned when no run exists for the requested id.
var ErrRunNotFound = errors.New("analysis run not found")

func (s *RoadmapDBStorage) CreateRun(ctx context.Context, run *store.AnalysisRun) error {
	query := `
		INSERT INTO analysis_runs (id, goal_title, source_key, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := s.conn.QueryRow(ctx, query, run.ID, run.GoalTitle, run.SourceKey, string(run.Status)).
		Scan(&run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return nil
}

func (s *RoadmapDBStorage) GetRun(ctx context.Context, id string) (*store.AnalysisRun, error) {
	query := `
		SELECT id, goal_title, source_key, status, error, result, created_at, updated_at
		FROM analysis_runs
		WHERE id = $1
	`
	var run store.AnalysisRun
	var errMsg *string
	var result []byte
	err := s.conn.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.GoalTitle,
		&run.SourceKey,
		&run.Status,
		&errMsg,
		&result,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis run: %w", err)
	}

	if errMsg != nil {
		run.Error = *errMsg
	}
	if len(result) > 0 {
		var roadmap common.Roadmap
		if err := json.Unmarshal(result, &roadmap); err != nil {
			return nil, fmt.Errorf("failed to decode roadmap document: %w", err)
		}
		run.Result = &roadmap
	}
	return &run, nil
}

func (s *RoadmapDBStorage) ListRuns(ctx context.Context) ([]store.AnalysisRun, error) {
	query := `
		SELECT id, goal_title, source_key, status, error, created_at, updated_at
		FROM analysis_runs
		ORDER BY created_at DESC
	`
	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	defer rows.Close()

	var runs []store.AnalysisRun
	for rows.Next() {
		var run store.AnalysisRun
		var errMsg *string
		if err := rows.Scan(
			&run.ID,
			&run.GoalTitle,
			&run.SourceKey,
			&run.Status,
			&errMsg,
			&run.CreatedAt,
			&run.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		if errMsg != nil {
			run.Error = *errMsg
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read analysis runs: %w", err)
	}
	return runs, nil
}

func (s *RoadmapDBStorage) SetRunStatus(ctx context.Context, id string, status store.RunStatus, errMsg string) error {
	query := `
		UPDATE analysis_runs
		SET status = $2, error = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1
	`
	tag, err := s.conn.Exec(ctx, query, id, string(status), errMsg)
	if err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (s *RoadmapDBStorage) SaveResult(ctx context.Context, id string, roadmap *common.Roadmap) error {
	doc, err := json.Marshal(roadmap)
	if err != nil {
		return fmt.Errorf("failed to encode roadmap document: %w", err)
	}

	query := `
		UPDATE analysis_runs
		SET status = $2, result = $3, error = NULL, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := s.conn.Exec(ctx, query, id, string(store.RunCompleted), doc)
	if err != nil {
		return fmt.Errorf("failed to save roadmap result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (s *RoadmapDBStorage) DeleteRun(ctx context.Context, id string) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM analysis_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}
