package tools

import "time"

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// CurrentDatetime reports the local date and time in the fields the
// model is prompted to read.
func CurrentDatetime() map[string]any {
	now := nowFunc()
	return map[string]any{
		"iso":      now.Format(time.RFC3339),
		"date":     now.Format("Monday, January 2, 2006"),
		"time":     now.Format("3:04 PM"),
		"timezone": now.Format("MST"),
	}
}
