// Package teams posts job status cards to a Microsoft Teams incoming webhook.
package teams

import (
	"github.com/relloyd/dpu/constants"
)

// TaskContext identifies the scheduler task that is reporting.
type TaskContext struct {
	DagId  string
	RunId  string
	TaskId string
}

type Fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Section struct {
	ActivityTitle    string `json:"activityTitle"`
	ActivitySubtitle string `json:"activitySubtitle"`
	Facts            []Fact `json:"facts"`
	ActivityImage    string `json:"activityImage"`
}

// MessageCard is the legacy connector card format accepted by incoming webhooks.
type MessageCard struct {
	Type       string    `json:"@type"`
	Context    string    `json:"@context"`
	ThemeColor string    `json:"themeColor"`
	Summary    string    `json:"summary"`
	Sections   []Section `json:"sections"`
}

func newCard(tc TaskContext, summary string, title string, image string) MessageCard {
	return MessageCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: constants.TeamsThemeColor,
		Summary:    summary,
		Sections: []Section{{
			ActivityTitle:    title,
			ActivitySubtitle: tc.DagId + " @ " + tc.RunId,
			Facts:            []Fact{{Name: "Task Id", Value: tc.TaskId}},
			ActivityImage:    image,
		}},
	}
}

func SuccessCard(tc TaskContext) MessageCard {
	return newCard(tc, "DBT Success", "DAG SUCCESS:", constants.TeamsSuccessImage)
}

func FailureCard(tc TaskContext) MessageCard {
	return newCard(tc, "DBT Failed", "DAG FAILED:", constants.TeamsFailureImage)
}
