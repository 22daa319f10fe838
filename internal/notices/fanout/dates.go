package fanout

import (
	"time"

	"waternotice/internal/notices/models"
)

// letterDueLeadDays is the postal allowance: a letter's effective due date
// sits ahead of the email one by the print-and-post latency, so postal
// recipients see a deadline they can still meet.
const letterDueLeadDays = 5

// longDateLayout renders dates the way notice templates print them,
// e.g. "31 March 2025".
const longDateLayout = "2 January 2006"

// dueDateFor derives the channel-specific due date. An explicit latest due
// date on the context overrides both channels (used when several periods are
// combined into one notice).
func dueDateFor(ctx models.NoticeContext, channel models.Channel) time.Time {
	if ctx.LatestDueDate != nil {
		return *ctx.LatestDueDate
	}
	if ctx.ReturnsPeriod == nil {
		return time.Time{}
	}
	due := ctx.ReturnsPeriod.DueDate
	if channel == models.ChannelLetter {
		due = due.AddDate(0, 0, -letterDueLeadDays)
	}
	return due
}

func formatLongDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(longDateLayout)
}
