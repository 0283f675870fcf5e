package survey

import (
	"fmt"

	"github.com/slack-go/slack"
)

// RunTriggerActionID is the action id of buttons that run a shortcut trigger.
// The button value carries the trigger id.
const RunTriggerActionID = "run_trigger"

// Modal callback ids
const (
	ConfigureCallbackID = "configure-workflow"
	AnswerCallbackID    = "answer-survey"
)

// Block and action ids of the configurator modal
const (
	ChannelBlockID  = "channel_block"
	ChannelActionID = "channels"
	UserBlockID     = "user_block"
	UserActionID    = "users"
)

// Block and action ids of the survey form
const (
	ImpressionBlockID  = "impression_block"
	ImpressionActionID = "impression"
	CommentsBlockID    = "comments_block"
	CommentsActionID   = "comments"
)

// Impressions offered by the survey form
var Impressions = []string{
	"Looks great to me!",
	"On the right track",
	"Not sure about this..",
}

const configuredMessage = "*You're all set!*\n\nAdd a :clipboard: reaction to messages in these channels to create a survey"

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

// linkMessageBlocks renders a message with a button that runs the given shortcut trigger
func linkMessageBlocks(text, buttonText, triggerID string) []slack.Block {
	button := slack.NewButtonBlockElement(RunTriggerActionID, triggerID, plainText(buttonText))
	button.Style = slack.StylePrimary

	return []slack.Block{
		slack.NewSectionBlock(markdown(text), nil, nil),
		slack.NewActionBlock("", button),
	}
}

func promptText(parentURL string) string {
	return fmt.Sprintf("Would you like to create a new survey for <%s|this message>?", parentURL)
}

func surveyText() string {
	return "Your feedback is requested – survey now!"
}

func collectingText(parentURL, spreadsheetURL string) string {
	return fmt.Sprintf("Feedback for <%s|this message> is being <%s|collected here>!", parentURL, spreadsheetURL)
}

// answerView builds the survey form. The spreadsheet id travels in the private metadata.
func answerView(spreadsheetID string) slack.ModalViewRequest {
	options := make([]*slack.OptionBlockObject, 0, len(Impressions))
	for _, impression := range Impressions {
		options = append(options, slack.NewOptionBlockObject(impression, plainText(impression), nil))
	}

	impressionSelect := slack.NewOptionsSelectBlockElement(
		slack.OptTypeStatic,
		plainText("Select an impression"),
		ImpressionActionID,
		options...,
	)

	comments := slack.NewPlainTextInputBlockElement(nil, CommentsActionID)
	comments.Multiline = true
	commentsBlock := slack.NewInputBlock(
		CommentsBlockID,
		plainText("Comments"),
		plainText("Any additional ideas to share?"),
		comments,
	)
	commentsBlock.Optional = true

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      AnswerCallbackID,
		PrivateMetadata: spreadsheetID,
		Title:           plainText("Survey your thoughts"),
		Submit:          plainText("Share"),
		Close:           plainText("Cancel"),
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewContextBlock("", plainText("What do you think about the topic of this message?")),
				slack.NewInputBlock(ImpressionBlockID, plainText("Overall impression"), nil, impressionSelect),
				commentsBlock,
			},
		},
	}
}

// configuratorView builds the configurator modal pre-filled with the current filters
func configuratorView(channelIDs, userIDs []string) slack.ModalViewRequest {
	channels := slack.NewOptionsMultiSelectBlockElement(
		slack.MultiOptTypeChannels,
		plainText("Select channels to survey in"),
		ChannelActionID,
	)
	channels.InitialChannels = channelIDs

	users := slack.NewOptionsMultiSelectBlockElement(
		slack.MultiOptTypeUser,
		plainText("Select users that can create surveys"),
		UserActionID,
	)
	users.InitialUsers = userIDs

	usersBlock := slack.NewInputBlock(UserBlockID, plainText("Surveying users"), nil, users)
	usersBlock.Optional = true

	return slack.ModalViewRequest{
		Type:          slack.VTModal,
		CallbackID:    ConfigureCallbackID,
		NotifyOnClose: true,
		Title:         plainText("Simple Survey"),
		Submit:        plainText("Confirm"),
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewInputBlock(ChannelBlockID, plainText("Channels to survey"), nil, channels),
				usersBlock,
				slack.NewContextBlock("", plainText("Leave the users empty to let everyone in these channels create surveys")),
			},
		},
	}
}

// configuredView replaces the configurator once the triggers are in place
func configuredView() *slack.ModalViewRequest {
	return &slack.ModalViewRequest{
		Type:          slack.VTModal,
		CallbackID:    ConfigureCallbackID,
		NotifyOnClose: true,
		Title:         plainText("Simple survey"),
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewSectionBlock(markdown(configuredMessage), nil, nil),
			},
		},
	}
}
