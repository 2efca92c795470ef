package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
)

// Bucket is the width of a trend time bucket.
type Bucket string

const (
	Day     Bucket = "day"
	Week    Bucket = "week"
	Month   Bucket = "month"
	Quarter Bucket = "quarter"
)

// ParseBucket validates a bucket name. The empty string selects Month.
func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return Month, nil
	case Day, Week, Month, Quarter:
		return b, nil
	}
	return "", fmt.Errorf("%w: unknown trend bucket %q", internalerr.ErrInvalidConfig, s)
}

// Start returns the first instant of the bucket containing t, in UTC.
// Weeks start on Monday.
func (b Bucket) Start(t time.Time) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	switch b {
	case Day:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case Week:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, time.UTC)
	case Quarter:
		return time.Date(y, m-(m-1)%3, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the start of the bucket following the one starting at start.
func (b Bucket) Next(start time.Time) time.Time {
	switch b {
	case Day:
		return start.AddDate(0, 0, 1)
	case Week:
		return start.AddDate(0, 0, 7)
	case Quarter:
		return start.AddDate(0, 3, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}

// Label formats a bucket start for display.
func (b Bucket) Label(start time.Time) string {
	switch b {
	case Day:
		return start.Format("2006-01-02")
	case Week:
		y, w := start.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case Quarter:
		return fmt.Sprintf("%04d-Q%d", start.Year(), (int(start.Month())-1)/3+1)
	default:
		return start.Format("2006-01")
	}
}

// axis lists the bucket starts from the bucket holding from to the bucket
// holding to, inclusive.
func (b Bucket) axis(from, to time.Time) []time.Time {
	if to.Before(from) {
		from, to = to, from
	}
	end := b.Start(to)
	var out []time.Time
	for cur := b.Start(from); !cur.After(end); cur = b.Next(cur) {
		out = append(out, cur)
	}
	return out
}
