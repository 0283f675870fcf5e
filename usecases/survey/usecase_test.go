package survey

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"simplesurvey/clients"
	"simplesurvey/clients/sheets"
	slackclient "simplesurvey/clients/slack"
	"simplesurvey/config"
	"simplesurvey/models"
	"simplesurvey/services/surveythreads"
	"simplesurvey/services/triggers"
	"simplesurvey/testutils"
	"simplesurvey/usecases/lifecycle"
	"simplesurvey/usecases/reconciler"
)

// surveyUseCaseTestFixture encapsulates test setup and mocks
type surveyUseCaseTestFixture struct {
	useCase *SurveyUseCase
	mocks   *surveyUseCaseMocks
	ctx     context.Context
	key     models.ThreadKey
}

type surveyUseCaseMocks struct {
	slackClient          *slackclient.MockSlackClient
	sheetsClient         *sheets.MockSheetsClient
	triggersService      *triggers.MockTriggersService
	surveyThreadsService *surveythreads.MockSurveyThreadsService
	reconciler           *reconciler.MockReconcilerUseCase
	retractor            *lifecycle.MockLifecycleUseCase
}

func setupSurveyUseCaseTest(t *testing.T, policy config.SurveyStagePolicy) *surveyUseCaseTestFixture {
	mocks := &surveyUseCaseMocks{
		slackClient:          new(slackclient.MockSlackClient),
		sheetsClient:         new(sheets.MockSheetsClient),
		triggersService:      new(triggers.MockTriggersService),
		surveyThreadsService: new(surveythreads.MockSurveyThreadsService),
		reconciler:           new(reconciler.MockReconcilerUseCase),
		retractor:            new(lifecycle.MockLifecycleUseCase),
	}

	useCase := NewSurveyUseCase(
		mocks.slackClient,
		mocks.sheetsClient,
		mocks.triggersService,
		mocks.surveyThreadsService,
		mocks.reconciler,
		mocks.retractor,
		policy,
	)

	return &surveyUseCaseTestFixture{
		useCase: useCase,
		mocks:   mocks,
		ctx:     context.Background(),
		key: models.ThreadKey{
			ChannelID: testutils.GenerateSlackChannelID(),
			ParentTS:  testutils.GenerateSlackTS(),
			ReactorID: testutils.GenerateSlackUserID(),
		},
	}
}

func (f *surveyUseCaseTestFixture) expectDM(userID, dmChannelID string, matcher func(clients.SlackMessageParams) bool) {
	f.mocks.slackClient.On("OpenConversation", f.ctx, userID).Return(dmChannelID, nil)
	f.mocks.slackClient.On("PostMessage", f.ctx, dmChannelID, mock.MatchedBy(matcher)).
		Return(&clients.SlackPostMessageResponse{Channel: dmChannelID, Timestamp: testutils.GenerateSlackTS()}, nil)
}

func shortcutTrigger(definition models.TriggerDefinition) *models.Trigger {
	return &models.Trigger{
		ID:                testutils.GenerateTriggerID(),
		Owner:             "simple_survey",
		TriggerDefinition: definition,
	}
}

func buttonTriggerID(blocks []slack.Block) string {
	for _, block := range blocks {
		actions, ok := block.(*slack.ActionBlock)
		if !ok {
			continue
		}
		for _, element := range actions.Elements.ElementSet {
			if button, ok := element.(*slack.ButtonBlockElement); ok && button.ActionID == RunTriggerActionID {
				return button.Value
			}
		}
	}
	return ""
}

func TestPromptSurvey(t *testing.T) {
	fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)
	permalink := "https://example.slack.com/archives/C1/p1700000000000100"
	created := shortcutTrigger(models.TriggerDefinition{
		Type:       models.TriggerTypeShortcut,
		Workflow:   models.WorkflowCreateSurvey,
		ButtonText: "Create",
	})
	promptTS := testutils.GenerateSlackTS()

	fixture.mocks.slackClient.On("GetPermalink", fixture.ctx, fixture.key.ChannelID, fixture.key.ParentTS).Return(permalink, nil)
	fixture.mocks.triggersService.On("CreateTrigger", fixture.ctx, mock.MatchedBy(func(def models.TriggerDefinition) bool {
		return def.Type == models.TriggerTypeShortcut &&
			def.Workflow == models.WorkflowCreateSurvey &&
			def.ButtonText == "Create" &&
			def.Inputs["channel_id"] == fixture.key.ChannelID &&
			def.Inputs["parent_ts"] == fixture.key.ParentTS &&
			def.Inputs["parent_url"] == permalink &&
			def.Inputs["reactor_id"] == "{{data.user_id}}"
	})).Return(created, nil)
	fixture.mocks.slackClient.On("OpenConversation", fixture.ctx, fixture.key.ReactorID).Return("D1", nil)
	fixture.mocks.slackClient.On("PostMessage", fixture.ctx, "D1", mock.MatchedBy(func(params clients.SlackMessageParams) bool {
		return strings.Contains(params.Text, "Would you like to create a new survey") &&
			strings.Contains(params.Text, permalink) &&
			buttonTriggerID(params.Blocks) == created.ID &&
			params.ThreadTS.IsAbsent()
	})).Return(&clients.SlackPostMessageResponse{Channel: "D1", Timestamp: promptTS}, nil)
	fixture.mocks.retractor.On("RetractStage", fixture.ctx, fixture.key.ChannelID, fixture.key.ParentTS, fixture.key.ReactorID, models.SurveyStagePrompt).
		Return(nil)
	fixture.mocks.surveyThreadsService.On("UpsertSurveyThread", fixture.ctx, mock.MatchedBy(func(thread *models.SurveyThread) bool {
		return thread.Key() == fixture.key &&
			thread.Stage == models.SurveyStagePrompt &&
			thread.TriggerID == created.ID &&
			thread.TriggerTS == promptTS
	})).Return(&models.SurveyThread{ID: testutils.GenerateSurveyThreadID()}, nil)

	err := fixture.useCase.PromptSurvey(fixture.ctx, fixture.key.ChannelID, fixture.key.ParentTS, fixture.key.ReactorID)

	require.NoError(t, err)
	fixture.mocks.slackClient.AssertExpectations(t)
	fixture.mocks.triggersService.AssertExpectations(t)
	fixture.mocks.retractor.AssertExpectations(t)
	fixture.mocks.surveyThreadsService.AssertExpectations(t)
}

func TestPromptSurvey_PermalinkFailureIsReported(t *testing.T) {
	fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)

	fixture.mocks.slackClient.On("GetPermalink", fixture.ctx, fixture.key.ChannelID, fixture.key.ParentTS).
		Return("", errors.New("channel_not_found"))
	fixture.expectDM(fixture.key.ReactorID, "D1", func(params clients.SlackMessageParams) bool {
		return params.Text == "Failed to collect the message permalink: channel_not_found"
	})

	err := fixture.useCase.PromptSurvey(fixture.ctx, fixture.key.ChannelID, fixture.key.ParentTS, fixture.key.ReactorID)

	require.Error(t, err)
	fixture.mocks.slackClient.AssertExpectations(t)
	fixture.mocks.triggersService.AssertNotCalled(t, "CreateTrigger", mock.Anything, mock.Anything)
	fixture.mocks.surveyThreadsService.AssertNotCalled(t, "UpsertSurveyThread", mock.Anything, mock.Anything)
}

func TestCreateSurvey(t *testing.T) {
	tests := []struct {
		name          string
		policy        config.SurveyStagePolicy
		expectRetract bool
	}{
		{name: "replace retracts the prompt", policy: config.SurveyStagePolicyReplace, expectRetract: true},
		{name: "coexist keeps the prompt and replaces an earlier survey", policy: config.SurveyStagePolicyCoexist, expectRetract: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := setupSurveyUseCaseTest(t, tt.policy)
			parentURL := "https://example.slack.com/archives/C1/p1700000000000100"
			spreadsheet := &clients.Spreadsheet{ID: "sheet-1", URL: "https://docs.google.com/spreadsheets/d/sheet-1"}
			trigger := shortcutTrigger(models.TriggerDefinition{
				Type:       models.TriggerTypeShortcut,
				Workflow:   models.WorkflowAnswerSurvey,
				ButtonText: "Survey your thoughts",
			})
			surveyTS := testutils.GenerateSlackTS()

			fixture.mocks.sheetsClient.On("CreateSpreadsheet", fixture.ctx, "Slack Survey - "+fixture.key.ParentTS, sheets.ResponsesHeader).
				Return(spreadsheet, nil)
			fixture.mocks.triggersService.On("CreateTrigger", fixture.ctx, mock.MatchedBy(func(def models.TriggerDefinition) bool {
				return def.Workflow == models.WorkflowAnswerSurvey &&
					def.Inputs["google_spreadsheet_id"] == spreadsheet.ID &&
					def.Inputs["interactivity"] == "{{data.interactivity}}"
			})).Return(trigger, nil)
			if tt.expectRetract {
				fixture.mocks.retractor.On("RetractThread", fixture.ctx, fixture.key.ChannelID, fixture.key.ParentTS, fixture.key.ReactorID).
					Return(nil)
			} else {
				fixture.mocks.retractor.On("RetractStage", fixture.ctx, fixture.key.ChannelID, fixture.key.ParentTS, fixture.key.ReactorID, models.SurveyStageSurvey).
					Return(nil)
			}
			fixture.expectDM(fixture.key.ReactorID, "D1", func(params clients.SlackMessageParams) bool {
				return params.Text == "Feedback for <"+parentURL+"|this message> is being <"+spreadsheet.URL+"|collected here>!"
			})
			fixture.mocks.slackClient.On("PostMessage", fixture.ctx, fixture.key.ChannelID, mock.MatchedBy(func(params clients.SlackMessageParams) bool {
				return params.ThreadTS.OrEmpty() == fixture.key.ParentTS &&
					strings.Contains(params.Text, "Your feedback is requested") &&
					buttonTriggerID(params.Blocks) == trigger.ID
			})).Return(&clients.SlackPostMessageResponse{Channel: fixture.key.ChannelID, Timestamp: surveyTS}, nil)
			fixture.mocks.surveyThreadsService.On("UpsertSurveyThread", fixture.ctx, mock.MatchedBy(func(thread *models.SurveyThread) bool {
				return thread.Key() == fixture.key &&
					thread.Stage == models.SurveyStageSurvey &&
					thread.TriggerID == trigger.ID &&
					thread.TriggerTS == surveyTS
			})).Return(&models.SurveyThread{ID: testutils.GenerateSurveyThreadID()}, nil)

			err := fixture.useCase.CreateSurvey(fixture.ctx, fixture.key.ChannelID, fixture.key.ParentTS, parentURL, fixture.key.ReactorID)

			require.NoError(t, err)
			fixture.mocks.sheetsClient.AssertExpectations(t)
			fixture.mocks.slackClient.AssertExpectations(t)
			fixture.mocks.surveyThreadsService.AssertExpectations(t)
			fixture.mocks.retractor.AssertExpectations(t)
			if tt.expectRetract {
				fixture.mocks.retractor.AssertNotCalled(t, "RetractStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				fixture.mocks.retractor.AssertNotCalled(t, "RetractThread", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestCreateSurvey_SpreadsheetFailureIsReported(t *testing.T) {
	fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)

	fixture.mocks.sheetsClient.On("CreateSpreadsheet", fixture.ctx, mock.Anything, mock.Anything).
		Return(nil, errors.New("quota exceeded"))
	fixture.expectDM(fixture.key.ReactorID, "D1", func(params clients.SlackMessageParams) bool {
		return params.Text == "Failed to create the survey spreadsheet: quota exceeded"
	})

	err := fixture.useCase.CreateSurvey(fixture.ctx, fixture.key.ChannelID, fixture.key.ParentTS, "https://example.slack.com", fixture.key.ReactorID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	fixture.mocks.triggersService.AssertNotCalled(t, "CreateTrigger", mock.Anything, mock.Anything)
	fixture.mocks.retractor.AssertNotCalled(t, "RetractThread", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnswerSurvey(t *testing.T) {
	fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)
	interactivity := &models.Interactivity{Pointer: "pointer-1", UserID: "U1"}

	fixture.mocks.slackClient.On("OpenView", fixture.ctx, "pointer-1", mock.MatchedBy(func(view slack.ModalViewRequest) bool {
		return view.CallbackID == AnswerCallbackID &&
			view.PrivateMetadata == "sheet-1" &&
			view.Title.Text == "Survey your thoughts" &&
			view.Submit.Text == "Share" &&
			len(view.Blocks.BlockSet) == 3
	})).Return(nil)

	err := fixture.useCase.AnswerSurvey(fixture.ctx, interactivity, "sheet-1")

	require.NoError(t, err)
	fixture.mocks.slackClient.AssertExpectations(t)
}

func TestSaveResponse(t *testing.T) {
	fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)
	before := time.Now().UTC().Add(-time.Second)

	fixture.mocks.sheetsClient.On("AppendRow", fixture.ctx, "sheet-1", "Responses!A2:C2", mock.MatchedBy(func(row []any) bool {
		if len(row) != 3 || row[1] != "On the right track" || row[2] != "Ship it" {
			return false
		}
		submitted, err := time.Parse(time.RFC3339, row[0].(string))
		return err == nil && !submitted.Before(before.Truncate(time.Second))
	})).Return(nil).Once()

	err := fixture.useCase.SaveResponse(fixture.ctx, "sheet-1", "On the right track", "Ship it")

	require.NoError(t, err)
	fixture.mocks.sheetsClient.AssertNumberOfCalls(t, "AppendRow", 1)
}

func TestSaveResponse_Validation(t *testing.T) {
	fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)

	assert.Error(t, fixture.useCase.SaveResponse(fixture.ctx, "", "On the right track", ""))
	assert.Error(t, fixture.useCase.SaveResponse(fixture.ctx, "sheet-1", "Meh", ""))
	fixture.mocks.sheetsClient.AssertNotCalled(t, "AppendRow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenConfigurator_PrefillsCurrentFilters(t *testing.T) {
	fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)
	interactivity := &models.Interactivity{Pointer: "pointer-1", UserID: "U1"}

	fixture.mocks.reconciler.On("ListOwned", fixture.ctx).Return([]models.EventSubscription{
		{EventKind: models.EventKindReactionAdded, ChannelScope: []string{"C2", "C1"}, ActorFilter: []string{"U2"}},
		{EventKind: models.EventKindReactionRemoved, ChannelScope: []string{"C1", "C2"}, ActorFilter: []string{"U2", "U3"}},
	}, nil)

	var opened slack.ModalViewRequest
	fixture.mocks.slackClient.On("OpenView", fixture.ctx, "pointer-1", mock.Anything).
		Run(func(args mock.Arguments) { opened = args.Get(2).(slack.ModalViewRequest) }).
		Return(nil)

	err := fixture.useCase.OpenConfigurator(fixture.ctx, interactivity)

	require.NoError(t, err)
	assert.Equal(t, ConfigureCallbackID, opened.CallbackID)
	channels := opened.Blocks.BlockSet[0].(*slack.InputBlock).Element.(*slack.MultiSelectBlockElement)
	users := opened.Blocks.BlockSet[1].(*slack.InputBlock).Element.(*slack.MultiSelectBlockElement)
	assert.Equal(t, []string{"C1", "C2"}, channels.InitialChannels)
	assert.Equal(t, []string{"U2", "U3"}, users.InitialUsers)
}

func TestOpenConfigurator_RegistryFailureIsReported(t *testing.T) {
	fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)
	interactivity := &models.Interactivity{Pointer: "pointer-1", UserID: "U1"}

	fixture.mocks.reconciler.On("ListOwned", fixture.ctx).Return(nil, errors.New("registry down"))
	fixture.expectDM("U1", "D1", func(params clients.SlackMessageParams) bool {
		return strings.HasPrefix(params.Text, "Failed to collect the reaction triggers")
	})

	err := fixture.useCase.OpenConfigurator(fixture.ctx, interactivity)

	require.Error(t, err)
	fixture.mocks.slackClient.AssertNotCalled(t, "OpenView", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitConfiguration(t *testing.T) {
	fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)
	channels := []string{"C1", "C2"}
	users := []string{"U1"}

	fixture.mocks.reconciler.On("Reconcile", fixture.ctx, channels, users).Return(nil)
	fixture.mocks.slackClient.On("JoinConversation", fixture.ctx, "C1").Return(nil)
	fixture.mocks.slackClient.On("JoinConversation", fixture.ctx, "C2").Return(nil)

	view, err := fixture.useCase.SubmitConfiguration(fixture.ctx, channels, users)

	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "Simple survey", view.Title.Text)
	section := view.Blocks.BlockSet[0].(*slack.SectionBlock)
	assert.Contains(t, section.Text.Text, "You're all set!")
	fixture.mocks.slackClient.AssertNumberOfCalls(t, "JoinConversation", 2)
}

func TestSubmitConfiguration_JoinFailuresAreJoined(t *testing.T) {
	fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)
	channels := []string{"C1", "C2", "C3"}

	fixture.mocks.reconciler.On("Reconcile", fixture.ctx, channels, []string(nil)).Return(nil)
	fixture.mocks.slackClient.On("JoinConversation", fixture.ctx, "C1").Return(nil)
	fixture.mocks.slackClient.On("JoinConversation", fixture.ctx, "C2").Return(errors.New("is_archived"))
	fixture.mocks.slackClient.On("JoinConversation", fixture.ctx, "C3").Return(errors.New("method_not_supported_for_channel_type"))

	view, err := fixture.useCase.SubmitConfiguration(fixture.ctx, channels, nil)

	require.Error(t, err)
	assert.Nil(t, view)
	assert.Contains(t, err.Error(), "<#C2>")
	assert.Contains(t, err.Error(), "<#C3>")
	assert.NotContains(t, err.Error(), "<#C1>")
}

func TestSubmitConfiguration_ReconcileFailureSkipsJoins(t *testing.T) {
	fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)

	fixture.mocks.reconciler.On("Reconcile", fixture.ctx, []string{"C1"}, []string{}).Return(errors.New("registry down"))

	_, err := fixture.useCase.SubmitConfiguration(fixture.ctx, []string{"C1"}, []string{})

	require.Error(t, err)
	fixture.mocks.slackClient.AssertNotCalled(t, "JoinConversation", mock.Anything, mock.Anything)
}

func TestRunMaintenance_JoinsUnionOfChannels(t *testing.T) {
	fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)

	fixture.mocks.reconciler.On("ListOwned", fixture.ctx).Return([]models.EventSubscription{
		{EventKind: models.EventKindReactionAdded, ChannelScope: []string{"C1", "C2"}},
		{EventKind: models.EventKindReactionRemoved, ChannelScope: []string{"C2", "C3"}},
	}, nil)
	for _, channelID := range []string{"C1", "C2", "C3"} {
		fixture.mocks.slackClient.On("JoinConversation", fixture.ctx, channelID).Return(nil).Once()
	}

	err := fixture.useCase.RunMaintenance(fixture.ctx)

	require.NoError(t, err)
	fixture.mocks.slackClient.AssertExpectations(t)
	fixture.mocks.slackClient.AssertNumberOfCalls(t, "JoinConversation", 3)
}

func TestRunWorkflow(t *testing.T) {
	t.Run("remove_survey retracts the thread", func(t *testing.T) {
		fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)
		fixture.mocks.retractor.On("RetractThread", fixture.ctx, "C1", "1.1", "U1").Return(nil)

		err := fixture.useCase.RunWorkflow(fixture.ctx, models.WorkflowRemoveSurvey, map[string]string{
			"channel_id": "C1",
			"parent_ts":  "1.1",
			"reactor_id": "U1",
		}, nil)

		require.NoError(t, err)
		fixture.mocks.retractor.AssertExpectations(t)
	})

	t.Run("answer_survey requires interactivity", func(t *testing.T) {
		fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)

		err := fixture.useCase.RunWorkflow(fixture.ctx, models.WorkflowAnswerSurvey, map[string]string{
			"google_spreadsheet_id": "sheet-1",
		}, nil)

		assert.Error(t, err)
	})

	t.Run("unknown workflow", func(t *testing.T) {
		fixture := setupSurveyUseCaseTest(t, config.SurveyStagePolicyReplace)

		err := fixture.useCase.RunWorkflow(fixture.ctx, "deploy_rockets", nil, nil)

		assert.ErrorContains(t, err, "unknown workflow")
	})
}
