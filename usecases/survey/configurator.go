package survey

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/slack-go/slack"

	"simplesurvey/models"
	"simplesurvey/usecases"
)

// OpenConfigurator opens the configurator modal pre-filled with the current channel scope and actors
func (u *SurveyUseCase) OpenConfigurator(ctx context.Context, interactivity *models.Interactivity) error {
	log.Printf("📋 Starting to open configurator for user %s", interactivity.UserID)

	subscriptions, err := u.reconciler.ListOwned(ctx)
	if err != nil {
		return u.reportError(ctx, interactivity.UserID, "Failed to collect the reaction triggers", err)
	}

	channelIDs, userIDs := currentFilters(subscriptions)
	if err := u.slackClient.OpenView(ctx, interactivity.Pointer, configuratorView(channelIDs, userIDs)); err != nil {
		return u.reportError(ctx, interactivity.UserID, "Failed to open configurator modal", err)
	}

	log.Printf("📋 Completed successfully - opened configurator with %d channels and %d users", len(channelIDs), len(userIDs))
	return nil
}

// SubmitConfiguration applies the configurator selection and joins every selected channel.
// The returned view replaces the configurator modal.
func (u *SurveyUseCase) SubmitConfiguration(
	ctx context.Context,
	channelIDs, userIDs []string,
) (*slack.ModalViewRequest, error) {
	log.Printf("📋 Starting to apply configuration with %d channels and %d users", len(channelIDs), len(userIDs))

	if err := u.reconciler.Reconcile(ctx, channelIDs, userIDs); err != nil {
		return nil, fmt.Errorf("failed to configure the reaction triggers: %w", err)
	}

	if err := u.joinChannels(ctx, channelIDs); err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - configured reaction triggers")
	return configuredView(), nil
}

// RunMaintenance rejoins every channel the reaction triggers listen in
func (u *SurveyUseCase) RunMaintenance(ctx context.Context) error {
	log.Printf("📋 Starting to maintain channel membership")

	subscriptions, err := u.reconciler.ListOwned(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect the reaction triggers: %w", err)
	}

	channelIDs, _ := currentFilters(subscriptions)
	if err := u.joinChannels(ctx, channelIDs); err != nil {
		return err
	}

	log.Printf("📋 Completed successfully - maintained membership of %d channels", len(channelIDs))
	return nil
}

func (u *SurveyUseCase) joinChannels(ctx context.Context, channelIDs []string) error {
	tasks := make([]func() (string, error), 0, len(channelIDs))
	for _, channelID := range channelIDs {
		tasks = append(tasks, func() (string, error) {
			if err := u.slackClient.JoinConversation(ctx, channelID); err != nil {
				return channelID, fmt.Errorf("failed to join channel <#%s>: %w", channelID, err)
			}
			return channelID, nil
		})
	}
	return usecases.JoinFailures(usecases.FanOut(tasks))
}

// currentFilters returns the sorted union of channel scopes and actor filters of the subscriptions
func currentFilters(subscriptions []models.EventSubscription) ([]string, []string) {
	var channelIDs, userIDs []string
	for _, subscription := range subscriptions {
		channelIDs = append(channelIDs, subscription.ChannelScope...)
		userIDs = append(userIDs, subscription.ActorFilter...)
	}
	slices.Sort(channelIDs)
	slices.Sort(userIDs)
	return slices.Compact(channelIDs), slices.Compact(userIDs)
}
