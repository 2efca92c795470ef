package crossref

import (
	"math"
	"testing"

	"github.com/cognicore/reviewlens/pkg/reviewlens/extract"
)

func m(review int, main, sub string) extract.Mention {
	return extract.Mention{ReviewIndex: review, Main: main, Sub: sub}
}

func TestCorrelate(t *testing.T) {
	scenario := []extract.Mention{
		m(0, "environment", "outdoor"),
		m(0, "environment", "outdoor"), // same review twice counts once
		m(1, "environment", "outdoor"),
		m(2, "environment", "indoor"),
		m(5, "activity_type", "special_occasion"),
	}
	user := []extract.Mention{
		m(0, "family", "parents"),
		m(1, "family", "parents"),
		m(2, "family", "parents"),
		m(3, "hobby", "gardener"),
	}

	got := Correlate("scenario", scenario, "user", user)
	if len(got) != 2 {
		t.Fatalf("got %d correlations: %+v", len(got), got)
	}

	// outdoor {0,1} vs parents {0,1,2}: 2/5
	if got[0].CategoryA != "environment/outdoor" || got[0].CategoryB != "family/parents" {
		t.Fatalf("first = %+v", got[0])
	}
	if got[0].Cooccurrence != 2 || math.Abs(got[0].Strength-0.4) > 1e-12 || got[0].Type != Positive {
		t.Errorf("first = %+v", got[0])
	}

	// indoor {2} vs parents {0,1,2}: 1/4
	if got[1].CategoryA != "environment/indoor" || math.Abs(got[1].Strength-0.25) > 1e-12 || got[1].Type != Weak {
		t.Errorf("second = %+v", got[1])
	}
	if got[1].DimensionA != "scenario" || got[1].DimensionB != "user" {
		t.Errorf("dimensions = %s, %s", got[1].DimensionA, got[1].DimensionB)
	}
}

func TestCorrelateEmpty(t *testing.T) {
	if got := Correlate("a", nil, "b", []extract.Mention{m(0, "x", "y")}); len(got) != 0 {
		t.Fatalf("got %+v", got)
	}
}
