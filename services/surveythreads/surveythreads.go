package surveythreads

import (
	"context"
	"fmt"
	"log"

	"simplesurvey/core"
	"simplesurvey/db"
	"simplesurvey/models"
)

type SurveyThreadsService struct {
	surveyThreadsRepo *db.PostgresSurveyThreadsRepository
}

func NewSurveyThreadsService(repo *db.PostgresSurveyThreadsRepository) *SurveyThreadsService {
	return &SurveyThreadsService{surveyThreadsRepo: repo}
}

// FindSurveyThreads returns every stage record of the thread, usually zero to two
func (s *SurveyThreadsService) FindSurveyThreads(ctx context.Context, key models.ThreadKey) ([]*models.SurveyThread, error) {
	log.Printf("📋 Starting to find survey threads for %s", key)
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thread key: %w", err)
	}

	threads, err := s.surveyThreadsRepo.GetSurveyThreadsByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	}

	log.Printf("📋 Completed successfully - found %d survey threads for %s", len(threads), key)
	return threads, nil
}

// UpsertSurveyThread saves the record, replacing the one with the same key and stage.
// The id is generated on first save and kept on replacement.
func (s *SurveyThreadsService) UpsertSurveyThread(
	ctx context.Context,
	thread *models.SurveyThread,
) (*models.SurveyThread, error) {
	log.Printf("📋 Starting to upsert %s survey thread for %s", thread.Stage, thread.Key())
	if err := thread.Key().Validate(); err != nil {
		return nil, fmt.Errorf("invalid thread key: %w", err)
	}
	if !thread.Stage.IsValid() {
		return nil, fmt.Errorf("invalid survey stage: %q", thread.Stage)
	}
	if thread.TriggerID == "" || thread.TriggerTS == "" {
		return nil, fmt.Errorf("trigger_id and trigger_ts cannot be empty")
	}

	record := *thread
	if record.ID == "" {
		record.ID = core.NewID("st")
	}

	if err := s.surveyThreadsRepo.UpsertSurveyThread(ctx, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	}

	log.Printf("📋 Completed successfully - upserted survey thread: %s", record.ID)
	return &record, nil
}

// RemoveSurveyThread deletes the record by id. A record that is already gone is not an error.
func (s *SurveyThreadsService) RemoveSurveyThread(ctx context.Context, thread *models.SurveyThread) error {
	log.Printf("📋 Starting to remove survey thread: %s", thread.ID)

	err := s.surveyThreadsRepo.DeleteSurveyThreadByID(ctx, thread.ID)
	if err != nil {
		if core.IsNotFoundError(err) {
			log.Printf("⚠️ Survey thread %s was already removed", thread.ID)
			return nil
		}
		return fmt.Errorf("%w: failed to remove survey thread %s: %w", core.ErrStoreUnavailable, thread.ID, err)
	}

	log.Printf("📋 Completed successfully - removed survey thread: %s", thread.ID)
	return nil
}
