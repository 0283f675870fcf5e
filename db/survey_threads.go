package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	"simplesurvey/core"
	"simplesurvey/models"
)

type PostgresSurveyThreadsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for survey_threads table
var surveyThreadsColumns = []string{
	"id",
	"channel_id",
	"parent_ts",
	"reactor_id",
	"trigger_id",
	"trigger_ts",
	"survey_stage",
	"created_at",
	"updated_at",
}

func NewPostgresSurveyThreadsRepository(db *sqlx.DB, schema string) *PostgresSurveyThreadsRepository {
	return &PostgresSurveyThreadsRepository{db: db, schema: schema}
}

// UpsertSurveyThread inserts the record or replaces the one with the same natural key and stage.
// The id of an existing row is kept and written back into thread.
func (r *PostgresSurveyThreadsRepository) UpsertSurveyThread(ctx context.Context, thread *models.SurveyThread) error {
	insertColumns := []string{"id", "channel_id", "parent_ts", "reactor_id", "trigger_id", "trigger_ts", "survey_stage", "created_at", "updated_at"}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(surveyThreadsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.survey_threads (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (channel_id, parent_ts, reactor_id, survey_stage)
		DO UPDATE SET
			trigger_id = EXCLUDED.trigger_id,
			trigger_ts = EXCLUDED.trigger_ts,
			updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := r.db.QueryRowxContext(ctx, query,
		thread.ID,
		thread.ChannelID,
		thread.ParentTS,
		thread.ReactorID,
		thread.TriggerID,
		thread.TriggerTS,
		thread.Stage).
		StructScan(thread)
	if err != nil {
		return fmt.Errorf("failed to upsert survey thread: %w", err)
	}

	return nil
}

func (r *PostgresSurveyThreadsRepository) GetSurveyThreadsByKey(
	ctx context.Context,
	key models.ThreadKey,
) ([]*models.SurveyThread, error) {
	columnsStr := strings.Join(surveyThreadsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.survey_threads
		WHERE channel_id = $1 AND parent_ts = $2 AND reactor_id = $3
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var threads []*models.SurveyThread
	err := r.db.SelectContext(ctx, &threads, query, key.ChannelID, key.ParentTS, key.ReactorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get survey threads by key: %w", err)
	}

	return threads, nil
}

func (r *PostgresSurveyThreadsRepository) DeleteSurveyThreadByID(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s.survey_threads WHERE id = $1`, r.schema)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete survey thread: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rowsAffected == 0 {
		return core.ErrNotFound
	}

	return nil
}
