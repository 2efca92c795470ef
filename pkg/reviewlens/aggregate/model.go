package aggregate

import (
	"sort"
	"time"
)

// Direction is the qualitative reading of a trend slope.
type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Stable     Direction = "stable"
)

// Sentiment summarizes the polarity of a category's mention sentences.
// Positive+Neutral+Negative always equals the category's mention count.
type Sentiment struct {
	Mean     float64 `json:"mean"`
	Positive int     `json:"positive"`
	Neutral  int     `json:"neutral"`
	Negative int     `json:"negative"`
}

// BucketCount is the number of mentions in one time bucket.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// Trend is the least-squares slope of mentions per bucket.
type Trend struct {
	Slope      float64       `json:"slope"`
	Direction  Direction     `json:"direction"`
	ChangeRate float64       `json:"change_rate"` // (last - first) / first over the bucket axis
	Series     []BucketCount `json:"series,omitempty"`
}

// CategorySummary folds all mentions of one (main, sub) category.
//
// Percentage is mentions per hundred reviews. It is not capped at 100: a
// review that yields several mentions of one category counts each of them.
type CategorySummary struct {
	Main                   string    `json:"main_category"`
	Sub                    string    `json:"sub_category"`
	MentionCount           int       `json:"mention_count"`
	Percentage             float64   `json:"percentage"`
	Characteristics        []string  `json:"characteristics"`
	RepresentativeExamples []string  `json:"representative_examples"`
	Sentiment              Sentiment `json:"sentiment"`
	Trend                  Trend     `json:"trend"`
}

// ReviewError records a review that was isolated from the run.
type ReviewError struct {
	ReviewID    string `json:"review_id"`
	ReviewIndex int    `json:"review_index"`
	Stage       string `json:"stage"`
	Message     string `json:"message"`
}

// Metadata describes one analysis run.
//
// ConfidenceScore is a coverage ratio, categorized mentions over total
// reviews clipped to [0, 1], not a statistical confidence.
type Metadata struct {
	Analyzer         string        `json:"analyzer"`
	RunID            string        `json:"run_id"`
	Timestamp        time.Time     `json:"timestamp"`
	TotalReviews     int           `json:"total_reviews"`
	ProcessedReviews int           `json:"processed_reviews"`
	FailedReviews    int           `json:"failed_reviews"`
	TotalMentions    int           `json:"total_mentions"`
	ConfidenceScore  float64       `json:"confidence_score"`
	TaxonomyIdentity string        `json:"taxonomy_identity"`
	Errors           []ReviewError `json:"errors,omitempty"`
}

// AnalysisResult is the outcome of analyzing one dataset along one
// dimension. Categories are keyed "main/sub".
type AnalysisResult struct {
	Categories map[string]CategorySummary `json:"categories"`
	Metadata   Metadata                   `json:"metadata"`
}

// SortedKeys returns the category keys ordered by rank, ties by key.
// rank usually maps a key to its taxonomy declaration index.
func (r AnalysisResult) SortedKeys(rank func(key string) int) []string {
	keys := make([]string, 0, len(r.Categories))
	for k := range r.Categories {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if rank != nil {
			ri, rj := rank(keys[i]), rank(keys[j])
			if ri != rj {
				return ri < rj
			}
		}
		return keys[i] < keys[j]
	})
	return keys
}
