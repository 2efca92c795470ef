package review

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
)

// jsonRecord is the on-disk JSONL shape of a review.
type jsonRecord struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Text      string            `json:"text"`
	Author    string            `json:"author"`
	Rating    *float64          `json:"rating"`
	Timestamp string            `json:"timestamp"`
	Locale    string            `json:"locale"`
	Meta      map[string]string `json:"meta"`
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// ParseTimestamp accepts RFC3339, "2006-01-02 15:04:05" or a bare date.
// An empty string yields the zero time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// LoadFromJSONL reads one review per line. Malformed lines are skipped with
// a warning. Records without an id get a stable name-based UUID derived from
// the raw line. Text is passed through CleanText.
func LoadFromJSONL(path string, log logrus.FieldLogger) ([]Record, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var records []Record
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var raw jsonRecord
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			log.WithFields(logrus.Fields{"file": path, "line": i + 1}).WithError(err).Warn("skipping malformed review")
			continue
		}
		ts, err := ParseTimestamp(raw.Timestamp)
		if err != nil {
			log.WithFields(logrus.Fields{"file": path, "line": i + 1}).WithError(err).Warn("skipping review with bad timestamp")
			continue
		}

		id := strings.TrimSpace(raw.ID)
		if id == "" {
			id = uuid.NewSHA1(uuid.NameSpaceURL, []byte(line)).String()
		}
		records = append(records, Record{
			ID:        id,
			Title:     CleanText(raw.Title),
			Text:      CleanText(raw.Text),
			Author:    raw.Author,
			Rating:    raw.Rating,
			Timestamp: ts,
			Locale:    raw.Locale,
			Meta:      raw.Meta,
		})
	}

	if len(records) == 0 {
		return nil, &internalerr.ProcessingError{Stage: "load", Field: path, Cause: internalerr.ErrNoReviews}
	}
	return records, nil
}
