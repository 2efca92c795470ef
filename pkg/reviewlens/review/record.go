// Package review holds the input record for an analysis run together with
// dataset validation, fingerprinting and loading helpers.
package review

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"
	"time"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
)

// Record is one product review.
type Record struct {
	ID        string
	Title     string
	Text      string
	Author    string
	Rating    *float64 // optional
	Timestamp time.Time
	Locale    string
	Meta      map[string]string
}

// Body returns the text fed to the parser: title and text joined as
// separate sentences.
func (r Record) Body() string {
	title := strings.TrimSpace(r.Title)
	text := strings.TrimSpace(r.Text)
	switch {
	case title == "":
		return text
	case text == "":
		return title
	}
	if !strings.ContainsAny(title[len(title)-1:], ".!?") {
		title += "."
	}
	return title + " " + text
}

// HasText reports whether the record carries review text.
func (r Record) HasText() bool {
	return strings.TrimSpace(r.Body()) != ""
}

// ValidateDataset checks the dataset-level preconditions of a run: at least
// one review, and the text and timestamp fields present in the dataset.
// Individual records with empty text are not an error here; the analyzer
// isolates them.
func ValidateDataset(records []Record) error {
	if len(records) == 0 {
		return &internalerr.ProcessingError{Stage: "validate", Cause: internalerr.ErrNoReviews}
	}

	var hasText, hasTime bool
	for _, r := range records {
		hasText = hasText || r.HasText()
		hasTime = hasTime || !r.Timestamp.IsZero()
	}
	if !hasText {
		return &internalerr.ProcessingError{Stage: "validate", Field: "text", Cause: internalerr.ErrMissingField}
	}
	if !hasTime {
		return &internalerr.ProcessingError{Stage: "validate", Field: "timestamp", Cause: internalerr.ErrMissingField}
	}
	return nil
}

// Fingerprint hashes the analysis-relevant content of a dataset in order.
func Fingerprint(records []Record) string {
	h := sha256.New()
	var buf [8]byte
	field := func(s string) {
		binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	for _, r := range records {
		field(r.ID)
		field(r.Title)
		field(r.Text)
		if r.Rating != nil {
			binary.BigEndian.PutUint64(buf[:], math.Float64bits(*r.Rating))
			h.Write([]byte{1})
			h.Write(buf[:])
		} else {
			h.Write([]byte{0})
		}
		binary.BigEndian.PutUint64(buf[:], uint64(r.Timestamp.UTC().UnixNano()))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Dedupe drops records whose ID, title, text and timestamp repeat an earlier
// record, keeping first occurrences in order.
func Dedupe(records []Record) []Record {
	seen := make(map[string]bool, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		key := r.ID + "\x00" + r.Title + "\x00" + r.Text + "\x00" + r.Timestamp.UTC().Format(time.RFC3339Nano)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
