package models

import (
	"fmt"
	"time"
)

// SurveyStage is the step of the survey process a thread is in
type SurveyStage string

const (
	// SurveyStagePrompt means only the prompt DM and its link trigger exist
	SurveyStagePrompt SurveyStage = "PROMPT"
	// SurveyStageSurvey means the threaded survey message and its link trigger exist
	SurveyStageSurvey SurveyStage = "SURVEY"
)

func (s SurveyStage) IsValid() bool {
	return s == SurveyStagePrompt || s == SurveyStageSurvey
}

// ThreadKey is the natural key of a survey thread: the reacted message plus the reacting user
type ThreadKey struct {
	ChannelID string
	ParentTS  string
	ReactorID string
}

func (k ThreadKey) Validate() error {
	if k.ChannelID == "" {
		return fmt.Errorf("channel_id cannot be empty")
	}
	if k.ParentTS == "" {
		return fmt.Errorf("parent_ts cannot be empty")
	}
	if k.ReactorID == "" {
		return fmt.Errorf("reactor_id cannot be empty")
	}
	return nil
}

func (k ThreadKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.ChannelID, k.ParentTS, k.ReactorID)
}

// SurveyThread tracks the ephemeral artifacts created for one reacted thread
type SurveyThread struct {
	ID        string      `json:"id"         db:"id"`
	ChannelID string      `json:"channel_id" db:"channel_id"`
	ParentTS  string      `json:"parent_ts"  db:"parent_ts"`
	ReactorID string      `json:"reactor_id" db:"reactor_id"`
	TriggerID string      `json:"trigger_id" db:"trigger_id"`
	TriggerTS string      `json:"trigger_ts" db:"trigger_ts"`
	Stage     SurveyStage `json:"survey_stage" db:"survey_stage"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

func (t *SurveyThread) Key() ThreadKey {
	return ThreadKey{
		ChannelID: t.ChannelID,
		ParentTS:  t.ParentTS,
		ReactorID: t.ReactorID,
	}
}
