package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"simplesurvey/config"
	"simplesurvey/core"
	"simplesurvey/models"
	"simplesurvey/services"
	"simplesurvey/usecases"
)

// reconciledKinds are the two reaction triggers kept in sync, in reconcile order
var reconciledKinds = []models.EventKind{
	models.EventKindReactionAdded,
	models.EventKindReactionRemoved,
}

type ReconcilerUseCase struct {
	triggersService  services.TriggersService
	actorFilterScope config.ActorFilterScope
}

func NewReconcilerUseCase(
	triggersService services.TriggersService,
	actorFilterScope config.ActorFilterScope,
) *ReconcilerUseCase {
	return &ReconcilerUseCase{
		triggersService:  triggersService,
		actorFilterScope: actorFilterScope,
	}
}

// ListOwned returns the reaction subscriptions owned by the app
func (u *ReconcilerUseCase) ListOwned(ctx context.Context) ([]models.EventSubscription, error) {
	owned, err := u.ownedReactionTriggers(ctx)
	if err != nil {
		return nil, err
	}

	var subscriptions []models.EventSubscription
	for _, kind := range reconciledKinds {
		for _, trigger := range owned[kind] {
			subscription, _ := trigger.ReactionSubscription()
			subscriptions = append(subscriptions, subscription)
		}
	}

	return subscriptions, nil
}

// Reconcile creates or updates the reaction_added and reaction_removed triggers so both carry
// the given channel scope and actor filter. Both halves are always attempted. A half that
// succeeded is not rolled back when the other fails; the returned error names the failed halves.
func (u *ReconcilerUseCase) Reconcile(ctx context.Context, channelScope, actorFilter []string) error {
	log.Printf("📋 Starting to reconcile reaction triggers for %d channels and %d users", len(channelScope), len(actorFilter))

	owned, err := u.ownedReactionTriggers(ctx)
	if err != nil {
		return err
	}

	tasks := make([]func() (string, error), 0, len(reconciledKinds))
	for _, kind := range reconciledKinds {
		definition := newReactionTrigger(kind, channelScope, u.actorFilterFor(kind, actorFilter))
		existing := owned[kind]
		tasks = append(tasks, func() (string, error) {
			return u.reconcileKind(ctx, definition, existing)
		})
	}

	results := usecases.FanOut(tasks)

	var errs []error
	for i, result := range results {
		if result.IsError() {
			half := halfOf(reconciledKinds[i])
			log.Printf("❌ Failed to reconcile reaction_%s trigger: %v", half, result.Error())
			errs = append(errs, &core.ReconcileError{Half: half, Cause: result.Error()})
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.Printf("📋 Completed successfully - reconciled reaction triggers %s and %s", results[0].MustGet(), results[1].MustGet())
	return nil
}

func (u *ReconcilerUseCase) reconcileKind(
	ctx context.Context,
	definition models.TriggerDefinition,
	existing []*models.Trigger,
) (string, error) {
	if len(existing) == 0 {
		created, err := u.triggersService.CreateTrigger(ctx, definition)
		if err != nil {
			return "", fmt.Errorf("failed to create trigger: %w", err)
		}
		return created.ID, nil
	}

	keep := existing[0]
	if _, err := u.triggersService.UpdateTrigger(ctx, keep.ID, definition); err != nil {
		return "", fmt.Errorf("failed to update trigger %s: %w", keep.ID, err)
	}

	var errs []error
	for _, duplicate := range existing[1:] {
		log.Printf("⚠️ Deleting duplicate %s trigger %s", duplicate.Workflow, duplicate.ID)
		if err := u.triggersService.DeleteTrigger(ctx, duplicate.ID); err != nil && !core.IsNotFoundError(err) {
			errs = append(errs, fmt.Errorf("failed to delete duplicate trigger %s: %w", duplicate.ID, err))
		}
	}
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}

	return keep.ID, nil
}

func (u *ReconcilerUseCase) ownedReactionTriggers(ctx context.Context) (map[models.EventKind][]*models.Trigger, error) {
	triggers, err := u.triggersService.ListTriggers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrRegistryUnavailable, err)
	}

	owned := make(map[models.EventKind][]*models.Trigger, len(reconciledKinds))
	for _, trigger := range triggers {
		subscription, ok := trigger.ReactionSubscription()
		if !ok {
			continue
		}
		owned[subscription.EventKind] = append(owned[subscription.EventKind], trigger)
	}

	return owned, nil
}

func (u *ReconcilerUseCase) actorFilterFor(kind models.EventKind, actorFilter []string) []string {
	switch u.actorFilterScope {
	case config.ActorFilterScopeAdded:
		if kind != models.EventKindReactionAdded {
			return nil
		}
	case config.ActorFilterScopeRemoved:
		if kind != models.EventKindReactionRemoved {
			return nil
		}
	}
	return actorFilter
}

func halfOf(kind models.EventKind) core.ReconcileHalf {
	if kind == models.EventKindReactionRemoved {
		return core.ReconcileHalfRemoved
	}
	return core.ReconcileHalfAdded
}
