package lecture

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edunote/edunote/internal/httperr"
)

func TestValidateDates_NormalizesToTime(t *testing.T) {
	body := bson.M{
		"name":      "Algebra",
		"startDate": "2026-03-01T09:00:00Z",
		"endDate":   "2026-06-30T18:00:00Z",
	}

	if err := ValidateDates(body); err != nil {
		t.Fatalf("ValidateDates failed: %v", err)
	}

	start, ok := body["startDate"].(time.Time)
	if !ok {
		t.Fatalf("startDate not normalized to time.Time: %T", body["startDate"])
	}
	end, ok := body["endDate"].(time.Time)
	if !ok {
		t.Fatalf("endDate not normalized to time.Time: %T", body["endDate"])
	}

	if !start.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start: %v", start)
	}
	if !end.After(start) {
		t.Errorf("expected end after start, got %v / %v", start, end)
	}
}

func TestValidateDates_EqualBoundsAllowed(t *testing.T) {
	body := bson.M{
		"startDate": "2026-03-01T09:00:00Z",
		"endDate":   "2026-03-01T09:00:00Z",
	}

	if err := ValidateDates(body); err != nil {
		t.Fatalf("equal bounds should validate: %v", err)
	}
}

func TestValidateDates_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		start, end  interface{}
		wantMessage string
	}{
		{
			name:        "missing timezone suffix",
			start:       "2026-03-01T09:00:00",
			end:         "2026-06-30T18:00:00Z",
			wantMessage: "2026-03-01T09:00:00~2026-06-30T18:00:00Z is not valid. Please use YYYY-MM-DDThh:mm:ssZ format",
		},
		{
			name:        "date only",
			start:       "2026-03-01",
			end:         "2026-06-30",
			wantMessage: "2026-03-01~2026-06-30 is not valid. Please use YYYY-MM-DDThh:mm:ssZ format",
		},
		{
			name:        "non-string values",
			start:       float64(20260301),
			end:         "2026-06-30T18:00:00Z",
			wantMessage: "2.0260301e+07~2026-06-30T18:00:00Z is not valid. Please use YYYY-MM-DDThh:mm:ssZ format",
		},
		{
			name:        "start after end",
			start:       "2026-06-30T18:00:00Z",
			end:         "2026-03-01T09:00:00Z",
			wantMessage: "2026-03-01T09:00:00Z must be less than 2026-06-30T18:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := bson.M{"startDate": tt.start, "endDate": tt.end}
			err := ValidateDates(body)

			var httpErr *httperr.Error
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *httperr.Error, got %v", err)
			}
			if httpErr.Status != 400 {
				t.Errorf("expected 400, got %d", httpErr.Status)
			}
			if httpErr.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", httpErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestConditions_NameOnly(t *testing.T) {
	got := Conditions(bson.M{"name": "Algebra"})

	if len(got) != 1 {
		t.Fatalf("expected 1 condition, got %d", len(got))
	}
	if got[0]["name"] != (primitive.Regex{Pattern: "Algebra"}) {
		t.Errorf("unexpected condition: %v", got[0])
	}
}

func TestConditions_DateRange(t *testing.T) {
	got := Conditions(bson.M{
		"startDate": "2026-03-01T00:00:00Z",
		"endDate":   "2026-04-01T00:00:00Z",
	})

	if len(got) != 1 {
		t.Fatalf("expected 1 condition, got %d", len(got))
	}

	rangeFilter, ok := got[0]["startDate"].(bson.M)
	if !ok {
		t.Fatalf("expected startDate range filter, got %v", got[0])
	}

	gte, ok := rangeFilter["$gte"].(time.Time)
	if !ok || !gte.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected $gte: %v", rangeFilter["$gte"])
	}
	lt, ok := rangeFilter["$lt"].(time.Time)
	if !ok || !lt.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected $lt: %v", rangeFilter["$lt"])
	}
}

func TestConditions_InvalidRangeIgnored(t *testing.T) {
	got := Conditions(bson.M{
		"startDate": "yesterday",
		"endDate":   "2026-04-01T00:00:00Z",
	})
	if len(got) != 0 {
		t.Errorf("invalid range should contribute no condition, got %v", got)
	}

	// A lone bound contributes nothing either.
	got = Conditions(bson.M{"startDate": "2026-03-01T00:00:00Z"})
	if len(got) != 0 {
		t.Errorf("single bound should contribute no condition, got %v", got)
	}
}
