package slack

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// BotMention prefixes every command addressed to the bot.
const BotMention = "@flowpilot"

// HelpText lists the supported commands.
const HelpText = "I can help with:\n" +
	"• @FlowPilot schedule meeting tomorrow\n" +
	"• @FlowPilot urgent: review budget\n" +
	"• @FlowPilot create task for Q1 review\n" +
	"• @FlowPilot what's on my calendar today"

const defaultMeetingSlot = "10:00 AM"

var timeOfDay = regexp.MustCompile(`(?i)\b(?:at\s+)?(\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`)

// IsCommand reports whether the message addresses the bot.
func IsCommand(message string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(message)), BotMention)
}

// stripMention returns the command body without the leading mention.
func stripMention(message string) string {
	m := strings.TrimSpace(message)
	if IsCommand(m) {
		m = m[len(BotMention):]
	}
	return strings.TrimSpace(strings.TrimLeft(m, " ,:"))
}

type commandKind int

const (
	cmdHelp commandKind = iota
	cmdSchedule
	cmdUrgentTask
	cmdCreateTask
	cmdCalendarQuery
)

func classify(body string) commandKind {
	lower := strings.ToLower(body)
	switch {
	case strings.Contains(lower, "schedule"):
		return cmdSchedule
	case strings.HasPrefix(lower, "urgent:"), strings.HasPrefix(lower, "urgent "):
		return cmdUrgentTask
	case strings.Contains(lower, "create task"):
		return cmdCreateTask
	case strings.Contains(lower, "calendar"):
		return cmdCalendarQuery
	default:
		return cmdHelp
	}
}

// meetingTitle strips the verb and any time of day from a schedule command.
func meetingTitle(body string) string {
	lower := strings.ToLower(body)
	idx := strings.Index(lower, "schedule")
	rest := body
	if idx >= 0 {
		rest = body[idx+len("schedule"):]
	}
	rest = strings.Join(strings.Fields(timeOfDay.ReplaceAllString(rest, "")), " ")
	if rest == "" {
		return "Meeting"
	}
	r, size := utf8.DecodeRuneInString(rest)
	return string(unicode.ToUpper(r)) + rest[size:]
}

// meetingSlot returns the first time of day in body, or "".
func meetingSlot(body string) string {
	m := timeOfDay.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return m[1]
}

// taskDescription is the text after the "urgent:" or "create task" marker,
// e.g. "create task for Q1 review" gives "Q1 review".
func taskDescription(body string) string {
	lower := strings.ToLower(body)
	rest := body
	for _, marker := range []string{"create task", "urgent:", "urgent"} {
		if idx := strings.Index(lower, marker); idx >= 0 {
			rest = body[idx+len(marker):]
			break
		}
	}
	rest = strings.TrimSpace(strings.Trim(rest, " :-"))
	for _, filler := range []string{"for ", "to "} {
		if strings.HasPrefix(strings.ToLower(rest), filler) {
			rest = strings.TrimSpace(rest[len(filler):])
			break
		}
	}
	return strings.TrimRight(rest, ".!?")
}

// taskEmail turns a task command into text for the extractor: a trailing
// period lets the verb clause match, and "urgent:" keeps its keyword.
func taskEmail(body string) string {
	text := strings.TrimSpace(body)
	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
		text += "."
	}
	return text
}
