package survey

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"simplesurvey/clients"
	"simplesurvey/clients/sheets"
	slackclient "simplesurvey/clients/slack"
	"simplesurvey/config"
	"simplesurvey/core"
	"simplesurvey/models"
	"simplesurvey/services/triggers"
	"simplesurvey/testutils"
	"simplesurvey/usecases/lifecycle"
	"simplesurvey/usecases/reconciler"
)

// memorySurveyThreads keeps one record per key and stage, replacing on upsert like the Postgres repository
type memorySurveyThreads struct {
	mu      sync.Mutex
	records map[string]*models.SurveyThread
}

func newMemorySurveyThreads() *memorySurveyThreads {
	return &memorySurveyThreads{records: map[string]*models.SurveyThread{}}
}

func (s *memorySurveyThreads) FindSurveyThreads(ctx context.Context, key models.ThreadKey) ([]*models.SurveyThread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []*models.SurveyThread
	for _, record := range s.records {
		if record.Key() == key {
			copied := *record
			found = append(found, &copied)
		}
	}
	return found, nil
}

func (s *memorySurveyThreads) UpsertSurveyThread(ctx context.Context, thread *models.SurveyThread) (*models.SurveyThread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := *thread
	slot := thread.Key().String() + "/" + string(thread.Stage)
	if existing, ok := s.records[slot]; ok {
		record.ID = existing.ID
	} else {
		record.ID = core.NewID("st")
	}
	s.records[slot] = &record
	copied := record
	return &copied, nil
}

func (s *memorySurveyThreads) RemoveSurveyThread(ctx context.Context, thread *models.SurveyThread) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for slot, record := range s.records {
		if record.ID == thread.ID {
			delete(s.records, slot)
		}
	}
	return nil
}

type replacedLinkTestFixture struct {
	useCase         *SurveyUseCase
	slackClient     *slackclient.MockSlackClient
	sheetsClient    *sheets.MockSheetsClient
	triggersService *triggers.MockTriggersService
	store           *memorySurveyThreads
	retractor       *lifecycle.LifecycleUseCase
	ctx             context.Context
	key             models.ThreadKey
}

func setupReplacedLinkTest(t *testing.T, policy config.SurveyStagePolicy) *replacedLinkTestFixture {
	f := &replacedLinkTestFixture{
		slackClient:     new(slackclient.MockSlackClient),
		sheetsClient:    new(sheets.MockSheetsClient),
		triggersService: new(triggers.MockTriggersService),
		store:           newMemorySurveyThreads(),
		ctx:             context.Background(),
		key: models.ThreadKey{
			ChannelID: testutils.GenerateSlackChannelID(),
			ParentTS:  testutils.GenerateSlackTS(),
			ReactorID: testutils.GenerateSlackUserID(),
		},
	}
	f.retractor = lifecycle.NewLifecycleUseCase(f.slackClient, f.triggersService, f.store)
	f.useCase = NewSurveyUseCase(
		f.slackClient,
		f.sheetsClient,
		f.triggersService,
		f.store,
		new(reconciler.MockReconcilerUseCase),
		f.retractor,
		policy,
	)

	f.slackClient.On("OpenConversation", f.ctx, f.key.ReactorID).Return("D1", nil)
	f.slackClient.On("DeleteMessage", f.ctx, mock.Anything, mock.Anything).Return(nil)
	f.triggersService.On("DeleteTrigger", f.ctx, mock.Anything).Return(nil)
	return f
}

func (f *replacedLinkTestFixture) expectCreatedTriggers(workflow string, count int) []*models.Trigger {
	created := make([]*models.Trigger, 0, count)
	for range count {
		trigger := shortcutTrigger(models.TriggerDefinition{Type: models.TriggerTypeShortcut, Workflow: workflow})
		f.triggersService.On("CreateTrigger", f.ctx, mock.MatchedBy(func(def models.TriggerDefinition) bool {
			return def.Workflow == workflow
		})).Return(trigger, nil).Once()
		created = append(created, trigger)
	}
	return created
}

func TestPromptSurvey_RedeliveredReactionRetractsEarlierPrompt(t *testing.T) {
	f := setupReplacedLinkTest(t, config.SurveyStagePolicyReplace)
	created := f.expectCreatedTriggers(models.WorkflowCreateSurvey, 2)

	f.slackClient.On("GetPermalink", f.ctx, f.key.ChannelID, f.key.ParentTS).Return("https://example.slack.com/p1", nil)
	f.slackClient.On("PostMessage", f.ctx, "D1", mock.Anything).
		Return(&clients.SlackPostMessageResponse{Channel: "D1", Timestamp: "111.1"}, nil).Once()
	f.slackClient.On("PostMessage", f.ctx, "D1", mock.Anything).
		Return(&clients.SlackPostMessageResponse{Channel: "D1", Timestamp: "222.2"}, nil).Once()

	require.NoError(t, f.useCase.PromptSurvey(f.ctx, f.key.ChannelID, f.key.ParentTS, f.key.ReactorID))
	require.NoError(t, f.useCase.PromptSurvey(f.ctx, f.key.ChannelID, f.key.ParentTS, f.key.ReactorID))

	// The first prompt is already gone before the reacji is removed
	f.triggersService.AssertCalled(t, "DeleteTrigger", f.ctx, created[0].ID)
	f.slackClient.AssertCalled(t, "DeleteMessage", f.ctx, "D1", "111.1")
	f.triggersService.AssertNotCalled(t, "DeleteTrigger", f.ctx, created[1].ID)

	require.NoError(t, f.retractor.RetractThread(f.ctx, f.key.ChannelID, f.key.ParentTS, f.key.ReactorID))

	f.triggersService.AssertCalled(t, "DeleteTrigger", f.ctx, created[1].ID)
	f.slackClient.AssertCalled(t, "DeleteMessage", f.ctx, "D1", "222.2")
	remaining, err := f.store.FindSurveyThreads(f.ctx, f.key)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestCreateSurvey_CoexistSecondSurveyRetractsEarlierSurvey(t *testing.T) {
	f := setupReplacedLinkTest(t, config.SurveyStagePolicyCoexist)
	created := f.expectCreatedTriggers(models.WorkflowAnswerSurvey, 2)
	parentURL := "https://example.slack.com/p1"

	f.sheetsClient.On("CreateSpreadsheet", f.ctx, mock.Anything, sheets.ResponsesHeader).
		Return(&clients.Spreadsheet{ID: "sheet-1", URL: "https://docs.google.com/spreadsheets/d/sheet-1"}, nil)
	f.slackClient.On("PostMessage", f.ctx, "D1", mock.Anything).
		Return(&clients.SlackPostMessageResponse{Channel: "D1", Timestamp: testutils.GenerateSlackTS()}, nil)
	f.slackClient.On("PostMessage", f.ctx, f.key.ChannelID, mock.Anything).
		Return(&clients.SlackPostMessageResponse{Channel: f.key.ChannelID, Timestamp: "333.3"}, nil).Once()
	f.slackClient.On("PostMessage", f.ctx, f.key.ChannelID, mock.Anything).
		Return(&clients.SlackPostMessageResponse{Channel: f.key.ChannelID, Timestamp: "444.4"}, nil).Once()

	require.NoError(t, f.useCase.CreateSurvey(f.ctx, f.key.ChannelID, f.key.ParentTS, parentURL, f.key.ReactorID))
	require.NoError(t, f.useCase.CreateSurvey(f.ctx, f.key.ChannelID, f.key.ParentTS, parentURL, f.key.ReactorID))

	f.triggersService.AssertCalled(t, "DeleteTrigger", f.ctx, created[0].ID)
	f.slackClient.AssertCalled(t, "DeleteMessage", f.ctx, f.key.ChannelID, "333.3")

	require.NoError(t, f.retractor.RetractThread(f.ctx, f.key.ChannelID, f.key.ParentTS, f.key.ReactorID))

	f.triggersService.AssertCalled(t, "DeleteTrigger", f.ctx, created[1].ID)
	f.slackClient.AssertCalled(t, "DeleteMessage", f.ctx, f.key.ChannelID, "444.4")
	remaining, err := f.store.FindSurveyThreads(f.ctx, f.key)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
