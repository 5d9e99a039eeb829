package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Codes are grouped by category:
//
// # Selection Errors (SEL001-SEL099)
//
//	SEL001 - Invalid selection: The chosen statistic or result count is not available
//	         Action: Pick a statistic and result count from the dropdowns
//	         Patterns: "invalid selection: unknown statistic", "invalid selection: limit"
//
//	SEL002 - Invalid table filter: A column filter or sort could not be applied
//	         Action: Check the column name and filter operator
//	         Patterns: "invalid selection"
//
// # Dataset Errors (DS001-DS099)
//
//	DS001 - Missing column: A required column is missing from the dataset
//	        Patterns: "missing required column"
//
//	DS002 - Malformed dataset: A cell or row could not be read
//	        Patterns: "malformed table", "invalid number"
//
//	DS003 - Missing sheet: The configured worksheet does not exist
//	        Patterns: "sheet not found"
//
//	DS004 - Empty dataset: The dataset has no header row
//	        Patterns: "empty table"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Throttling and live sessions (RATE001, WS001-WS099)
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
//	WS001 - Too many live sessions
//	        Patterns: "too many sessions"
//
//	WS002 - Unreadable live message
//	        Patterns: "unknown message type", "invalid message"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check application logs for the
// original technical error.
//
// Patterns are matched case-insensitively using strings.Contains. The first
// matching pattern wins, so more specific patterns come first.

import "strings"

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Selection errors
	{
		pattern: "invalid selection: unknown statistic",
		msg: UserMessage{
			Message: "The chosen statistic is not available",
			Action:  "Pick a statistic from the dropdown",
			Code:    "SEL001",
		},
	},
	{
		pattern: "invalid selection: limit",
		msg: UserMessage{
			Message: "The result count must be a positive number",
			Action:  "Pick a result count from the dropdown",
			Code:    "SEL001",
		},
	},
	{
		pattern: "invalid selection",
		msg: UserMessage{
			Message: "The table filter or sort could not be applied",
			Action:  "Check the column name and filter operator",
			Code:    "SEL002",
		},
	},

	// Dataset errors
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "A required column is missing from the dataset",
			Action:  "Check the export includes Name, Team, Position and statistic columns",
			Code:    "DS001",
		},
	},
	{
		pattern: "malformed table",
		msg: UserMessage{
			Message: "The dataset contains a cell that could not be read",
			Action:  "Fix the reported line and column in the export",
			Code:    "DS002",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "The dataset contains a statistic that is not a number",
			Action:  "Fix the reported line and column in the export",
			Code:    "DS002",
		},
	},
	{
		pattern: "sheet not found",
		msg: UserMessage{
			Message: "The configured worksheet does not exist",
			Action:  "Check SEASON_SHEET and PLAYER_SHEET",
			Code:    "DS003",
		},
	},
	{
		pattern: "empty table",
		msg: UserMessage{
			Message: "The dataset is empty",
			Action:  "Export the sheet again with its header row",
			Code:    "DS004",
		},
	},

	// Request errors
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},

	// Throttling
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "too many sessions",
		msg: UserMessage{
			Message: "Too many live dashboards are open",
			Action:  "Close another tab or reload in a moment",
			Code:    "WS001",
		},
	},
	{
		pattern: "unknown message type",
		msg: UserMessage{
			Message: "The dashboard sent a message the server does not understand",
			Action:  "Reload the page",
			Code:    "WS002",
		},
	},
	{
		pattern: "invalid message",
		msg: UserMessage{
			Message: "The dashboard sent a message the server could not read",
			Action:  "Reload the page",
			Code:    "WS002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}
