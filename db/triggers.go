package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/samber/mo"

	"simplesurvey/core"
	"simplesurvey/models"
)

// DatabaseTrigger represents the raw triggers row
type DatabaseTrigger struct {
	ID          string             `db:"id"`
	Owner       string             `db:"owner"`
	Type        string             `db:"type"`
	Name        string             `db:"name"`
	Description string             `db:"description"`
	Workflow    string             `db:"workflow"`
	EventType   string             `db:"event_type"`
	ChannelIDs  pq.StringArray     `db:"channel_ids"`
	Filter      types.NullJSONText `db:"filter"`
	Inputs      types.JSONText     `db:"inputs"`
	ButtonText  string             `db:"button_text"`
	CreatedAt   time.Time          `db:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at"`
}

// ToTrigger converts a DatabaseTrigger to a models.Trigger
func (d *DatabaseTrigger) ToTrigger() (*models.Trigger, error) {
	trigger := &models.Trigger{
		ID:    d.ID,
		Owner: d.Owner,
		TriggerDefinition: models.TriggerDefinition{
			Type:        models.TriggerType(d.Type),
			Name:        d.Name,
			Description: d.Description,
			Workflow:    d.Workflow,
			ButtonText:  d.ButtonText,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}

	if len(d.Inputs) > 0 {
		if err := d.Inputs.Unmarshal(&trigger.Inputs); err != nil {
			return nil, fmt.Errorf("failed to decode inputs of trigger %s: %w", d.ID, err)
		}
	}

	if trigger.Type != models.TriggerTypeEvent {
		return trigger, nil
	}

	event := &models.TriggerEvent{
		EventType:  models.EventType(d.EventType),
		ChannelIDs: []string(d.ChannelIDs),
	}
	if d.Filter.Valid {
		var filter models.TriggerFilter
		if err := d.Filter.Unmarshal(&filter); err != nil {
			return nil, fmt.Errorf("failed to decode filter of trigger %s: %w", d.ID, err)
		}
		event.Filter = &filter
	}
	trigger.Event = event

	return trigger, nil
}

func newDatabaseTrigger(trigger *models.Trigger) (*DatabaseTrigger, error) {
	inputs := trigger.Inputs
	if inputs == nil {
		inputs = map[string]string{}
	}
	rawInputs, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trigger inputs: %w", err)
	}

	row := &DatabaseTrigger{
		ID:          trigger.ID,
		Owner:       trigger.Owner,
		Type:        string(trigger.Type),
		Name:        trigger.Name,
		Description: trigger.Description,
		Workflow:    trigger.Workflow,
		ChannelIDs:  pq.StringArray{},
		Inputs:      types.JSONText(rawInputs),
		ButtonText:  trigger.ButtonText,
	}

	if trigger.Event != nil {
		row.EventType = string(trigger.Event.EventType)
		if trigger.Event.ChannelIDs != nil {
			row.ChannelIDs = pq.StringArray(trigger.Event.ChannelIDs)
		}
		if trigger.Event.Filter != nil {
			rawFilter, err := json.Marshal(trigger.Event.Filter)
			if err != nil {
				return nil, fmt.Errorf("failed to encode trigger filter: %w", err)
			}
			row.Filter = types.NullJSONText{JSONText: types.JSONText(rawFilter), Valid: true}
		}
	}

	return row, nil
}

type PostgresTriggersRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for triggers table
var triggersColumns = []string{
	"id",
	"owner",
	"type",
	"name",
	"description",
	"workflow",
	"event_type",
	"channel_ids",
	"filter",
	"inputs",
	"button_text",
	"created_at",
	"updated_at",
}

func NewPostgresTriggersRepository(db *sqlx.DB, schema string) *PostgresTriggersRepository {
	return &PostgresTriggersRepository{db: db, schema: schema}
}

func (r *PostgresTriggersRepository) CreateTrigger(ctx context.Context, trigger *models.Trigger) error {
	row, err := newDatabaseTrigger(trigger)
	if err != nil {
		return err
	}

	insertColumns := []string{"id", "owner", "type", "name", "description", "workflow", "event_type", "channel_ids", "filter", "inputs", "button_text", "created_at", "updated_at"}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(triggersColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.triggers (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr, returningStr)

	created := &DatabaseTrigger{}
	err = r.db.QueryRowxContext(ctx, query,
		row.ID,
		row.Owner,
		row.Type,
		row.Name,
		row.Description,
		row.Workflow,
		row.EventType,
		row.ChannelIDs,
		row.Filter,
		row.Inputs,
		row.ButtonText).
		StructScan(created)
	if err != nil {
		return fmt.Errorf("failed to create trigger: %w", err)
	}

	return r.scanInto(created, trigger)
}

// UpdateTrigger replaces the definition of an owned trigger
func (r *PostgresTriggersRepository) UpdateTrigger(ctx context.Context, trigger *models.Trigger) error {
	row, err := newDatabaseTrigger(trigger)
	if err != nil {
		return err
	}

	returningStr := strings.Join(triggersColumns, ", ")
	query := fmt.Sprintf(`
		UPDATE %s.triggers
		SET type = $3, name = $4, description = $5, workflow = $6, event_type = $7,
			channel_ids = $8, filter = $9, inputs = $10, button_text = $11, updated_at = NOW()
		WHERE id = $1 AND owner = $2
		RETURNING %s`, r.schema, returningStr)

	updated := &DatabaseTrigger{}
	err = r.db.QueryRowxContext(ctx, query,
		row.ID,
		row.Owner,
		row.Type,
		row.Name,
		row.Description,
		row.Workflow,
		row.EventType,
		row.ChannelIDs,
		row.Filter,
		row.Inputs,
		row.ButtonText).
		StructScan(updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.ErrNotFound
		}
		return fmt.Errorf("failed to update trigger: %w", err)
	}

	return r.scanInto(updated, trigger)
}

func (r *PostgresTriggersRepository) GetTriggerByID(ctx context.Context, id, owner string) (mo.Option[*models.Trigger], error) {
	columnsStr := strings.Join(triggersColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.triggers
		WHERE id = $1 AND owner = $2`, columnsStr, r.schema)

	row := &DatabaseTrigger{}
	err := r.db.GetContext(ctx, row, query, id, owner)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Trigger](), nil
		}
		return mo.None[*models.Trigger](), fmt.Errorf("failed to get trigger: %w", err)
	}

	trigger, err := row.ToTrigger()
	if err != nil {
		return mo.None[*models.Trigger](), err
	}

	return mo.Some(trigger), nil
}

func (r *PostgresTriggersRepository) GetTriggersByOwner(ctx context.Context, owner string) ([]*models.Trigger, error) {
	columnsStr := strings.Join(triggersColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.triggers
		WHERE owner = $1
		ORDER BY created_at ASC, id ASC`, columnsStr, r.schema)

	var rows []*DatabaseTrigger
	if err := r.db.SelectContext(ctx, &rows, query, owner); err != nil {
		return nil, fmt.Errorf("failed to get triggers by owner: %w", err)
	}

	triggers := make([]*models.Trigger, 0, len(rows))
	for _, row := range rows {
		trigger, err := row.ToTrigger()
		if err != nil {
			return nil, err
		}
		triggers = append(triggers, trigger)
	}

	return triggers, nil
}

func (r *PostgresTriggersRepository) DeleteTrigger(ctx context.Context, id, owner string) error {
	query := fmt.Sprintf(`DELETE FROM %s.triggers WHERE id = $1 AND owner = $2`, r.schema)

	result, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete trigger: %w", err)
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

func (r *PostgresTriggersRepository) scanInto(row *DatabaseTrigger, target *models.Trigger) error {
	trigger, err := row.ToTrigger()
	if err != nil {
		return err
	}
	*target = *trigger
	return nil
}
