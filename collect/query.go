package collect

import (
	"fmt"
	"time"
)

const (
	inputDayFormat = "2006-01-02"
	gmailDayFormat = "2006/01/02"
)

// BuildDateQuery converts an inclusive [start, end] calendar-day pair into
// Gmail's search filter. Gmail's before: token is exclusive, so the upper
// bound is the day after the requested end date. Dropping that shift would
// silently lose the last day's messages.
func BuildDateQuery(start string, end string) (string, error) {
	startDt, err := time.Parse(inputDayFormat, start)
	if err != nil {
		return "", invalidInput("Dates must be in YYYY-MM-DD format", err)
	}
	endDt, err := time.Parse(inputDayFormat, end)
	if err != nil {
		return "", invalidInput("Dates must be in YYYY-MM-DD format", err)
	}
	if endDt.Before(startDt) {
		return "", invalidInput("End date must be on or after start date", nil)
	}
	beforeExclusive := endDt.AddDate(0, 0, 1)
	return fmt.Sprintf("after:%s before:%s",
		startDt.Format(gmailDayFormat), beforeExclusive.Format(gmailDayFormat)), nil
}

// SentQuery restricts the base date filter to sent mail.
func SentQuery(dateQuery string) string {
	return dateQuery + " label:sent"
}

// ReceivedQuery restricts the base date filter to inbox mail, excluding
// sent, drafts, spam, trash and self-addressed messages.
func ReceivedQuery(dateQuery string) string {
	return dateQuery + " label:inbox -label:sent -label:drafts -label:spam -label:trash -from:me"
}
