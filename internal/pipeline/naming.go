package pipeline

import (
	"strings"
	"time"
)

// Characters illegal in filenames on common filesystems are replaced
// with underscores (the colon in the timestamp being the usual one).
var filenameSanitizer = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_",
	"/", "_", `\`, "_", "|", "_", "?", "_", "*", "_",
)

// SanitizeFilename replaces characters that are invalid in filenames
// on common filesystems with underscores.
func SanitizeFilename(name string) string {
	return filenameSanitizer.Replace(name)
}

// eventTimestamp renders the event time as a sanitized filename token.
// Resolution is one second: two triggers within the same second share
// filenames, a documented limitation.
func eventTimestamp(t time.Time) string {
	return SanitizeFilename(t.Format("2006-01-02T15:04:05"))
}

// eventDate renders the calendar-date directory name for an event.
func eventDate(t time.Time) string {
	return t.Format("2006-01-02")
}
