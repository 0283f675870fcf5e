package triggers

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"simplesurvey/core"
	"simplesurvey/db"
	"simplesurvey/models"
)

type TriggersService struct {
	triggersRepo *db.PostgresTriggersRepository
	appID        string
}

// NewTriggersService creates a registry scoped to the triggers owned by appID
func NewTriggersService(repo *db.PostgresTriggersRepository, appID string) *TriggersService {
	return &TriggersService{triggersRepo: repo, appID: appID}
}

func (s *TriggersService) ListTriggers(ctx context.Context) ([]*models.Trigger, error) {
	log.Printf("📋 Starting to list triggers owned by %s", s.appID)

	triggers, err := s.triggersRepo.GetTriggersByOwner(ctx, s.appID)
	if err != nil {
		return nil, fmt.Errorf("failed to list triggers: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d triggers", len(triggers))
	return triggers, nil
}

func (s *TriggersService) GetTrigger(ctx context.Context, id string) (mo.Option[*models.Trigger], error) {
	log.Printf("📋 Starting to get trigger: %s", id)
	if !core.IsValidULID(id) {
		return mo.None[*models.Trigger](), fmt.Errorf("trigger ID must be a valid ULID")
	}

	maybeTrigger, err := s.triggersRepo.GetTriggerByID(ctx, id, s.appID)
	if err != nil {
		return mo.None[*models.Trigger](), fmt.Errorf("failed to get trigger: %w", err)
	}

	if !maybeTrigger.IsPresent() {
		log.Printf("📋 Completed successfully - trigger not found: %s", id)
		return mo.None[*models.Trigger](), nil
	}

	log.Printf("📋 Completed successfully - retrieved trigger: %s", id)
	return maybeTrigger, nil
}

func (s *TriggersService) CreateTrigger(ctx context.Context, definition models.TriggerDefinition) (*models.Trigger, error) {
	log.Printf("📋 Starting to create %s trigger for workflow %s", definition.Type, definition.Workflow)
	if err := validateDefinition(definition); err != nil {
		return nil, fmt.Errorf("invalid trigger definition: %w", err)
	}

	trigger := &models.Trigger{
		ID:                core.NewID("ft"),
		Owner:             s.appID,
		TriggerDefinition: definition,
	}
	if err := s.triggersRepo.CreateTrigger(ctx, trigger); err != nil {
		return nil, fmt.Errorf("failed to create trigger: %w", err)
	}

	log.Printf("📋 Completed successfully - created trigger: %s", trigger.ID)
	return trigger, nil
}

// UpdateTrigger replaces the whole definition of an existing trigger.
// Returns core.ErrNotFound when the id is not owned by the app.
func (s *TriggersService) UpdateTrigger(
	ctx context.Context,
	id string,
	definition models.TriggerDefinition,
) (*models.Trigger, error) {
	log.Printf("📋 Starting to update trigger: %s", id)
	if !core.IsValidULID(id) {
		return nil, fmt.Errorf("trigger ID must be a valid ULID")
	}
	if err := validateDefinition(definition); err != nil {
		return nil, fmt.Errorf("invalid trigger definition: %w", err)
	}

	trigger := &models.Trigger{
		ID:                id,
		Owner:             s.appID,
		TriggerDefinition: definition,
	}
	if err := s.triggersRepo.UpdateTrigger(ctx, trigger); err != nil {
		return nil, fmt.Errorf("failed to update trigger %s: %w", id, err)
	}

	log.Printf("📋 Completed successfully - updated trigger: %s", id)
	return trigger, nil
}

// DeleteTrigger returns core.ErrNotFound when the id is not owned by the app
func (s *TriggersService) DeleteTrigger(ctx context.Context, id string) error {
	log.Printf("📋 Starting to delete trigger: %s", id)
	if !core.IsValidULID(id) {
		return fmt.Errorf("trigger ID must be a valid ULID")
	}

	if err := s.triggersRepo.DeleteTrigger(ctx, id, s.appID); err != nil {
		return fmt.Errorf("failed to delete trigger %s: %w", id, err)
	}

	log.Printf("📋 Completed successfully - deleted trigger: %s", id)
	return nil
}

func validateDefinition(definition models.TriggerDefinition) error {
	if definition.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if definition.Workflow == "" {
		return fmt.Errorf("workflow cannot be empty")
	}

	switch definition.Type {
	case models.TriggerTypeEvent:
		if definition.Event == nil {
			return fmt.Errorf("event trigger must define an event")
		}
		if definition.Event.EventType == "" {
			return fmt.Errorf("event type cannot be empty")
		}
	case models.TriggerTypeShortcut:
		if definition.Event != nil {
			return fmt.Errorf("shortcut trigger cannot define an event")
		}
	default:
		return fmt.Errorf("unsupported trigger type: %q", definition.Type)
	}

	return nil
}
