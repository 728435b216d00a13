package domain

import "time"

type SlackAction string

const (
	SlackActionMessage  SlackAction = "message"
	SlackActionCommand  SlackAction = "command"
	SlackActionSchedule SlackAction = "schedule"
	SlackActionTask     SlackAction = "create_task"
	SlackActionCalendar SlackAction = "calendar_query"
	SlackActionHelp     SlackAction = "help"
)

// SlackMessage is a message posted to the simulated Slack workspace.
type SlackMessage struct {
	ID        string      `json:"id"`
	Channel   string      `json:"channel"`
	Message   string      `json:"message"`
	Action    SlackAction `json:"action"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// SlackCommandResult is the bot reply to a "@FlowPilot ..." command.
type SlackCommandResult struct {
	Text    string          `json:"text"`
	Action  SlackAction     `json:"action"`
	Event   *CalendarEvent  `json:"event,omitempty"`
	Task    *Task           `json:"task,omitempty"`
	Events  []CalendarEvent `json:"events,omitempty"`
	Message *SlackMessage   `json:"message,omitempty"`
}

// DefaultSlackChannel is used when a message names no channel.
const DefaultSlackChannel = "#general"
