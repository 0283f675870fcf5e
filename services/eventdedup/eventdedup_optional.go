package eventdedup

import "context"

// OptionalEventDedupService treats every event as new when Redis is not configured
type OptionalEventDedupService struct{}

func NewOptionalEventDedupService() *OptionalEventDedupService {
	return &OptionalEventDedupService{}
}

func (s *OptionalEventDedupService) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	return true, nil
}
