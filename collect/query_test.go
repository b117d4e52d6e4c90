package collect

import (
	"errors"
	"testing"
)

func TestBuildDateQuery(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{
			name:  "month-range",
			start: "2024-01-01",
			end:   "2024-01-31",
			want:  "after:2024/01/01 before:2024/02/01",
		},
		{
			name:  "single-day",
			start: "2024-06-15",
			end:   "2024-06-15",
			want:  "after:2024/06/15 before:2024/06/16",
		},
		{
			name:  "year-rollover",
			start: "2023-12-01",
			end:   "2023-12-31",
			want:  "after:2023/12/01 before:2024/01/01",
		},
		{
			name:  "leap-day",
			start: "2024-02-28",
			end:   "2024-02-29",
			want:  "after:2024/02/28 before:2024/03/01",
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			got, err := BuildDateQuery(tc.start, tc.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("query mismatch: got %q want %q", got, tc.want)
			}
		})
	}
}

func TestBuildDateQueryBadFormat(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{name: "slashes", start: "2024/01/01", end: "2024/01/31"},
		{name: "reversed-order-format", start: "01-01-2024", end: "31-01-2024"},
		{name: "bad-month", start: "2024-13-01", end: "2024-13-02"},
		{name: "nonexistent-day", start: "2024-02-30", end: "2024-03-01"},
		{name: "empty", start: "", end: "2024-01-01"},
		{name: "bad-end", start: "2024-01-01", end: "garbage"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildDateQuery(tc.start, tc.end)
			if err == nil {
				t.Fatalf("expected error")
			}
			if KindOf(err) != InvalidInput {
				t.Fatalf("expected InvalidInput, got %v", KindOf(err))
			}
			if UserMessage(err) != "Dates must be in YYYY-MM-DD format" {
				t.Fatalf("unexpected message: %q", UserMessage(err))
			}
		})
	}
}

func TestBuildDateQueryInvertedRange(t *testing.T) {
	_, err := BuildDateQuery("2024-02-01", "2024-01-31")
	if err == nil {
		t.Fatalf("expected error")
	}
	var ce *Error
	if !errors.As(err, &ce) || ce.Kind != InvalidInput {
		t.Fatalf("expected tagged InvalidInput error, got %v", err)
	}
	if ce.Msg != "End date must be on or after start date" {
		t.Fatalf("unexpected message: %q", ce.Msg)
	}
}

func TestDirectionalQueries(t *testing.T) {
	dateQuery := "after:2024/01/01 before:2024/02/01"
	sent := SentQuery(dateQuery)
	if sent != dateQuery+" label:sent" {
		t.Fatalf("unexpected sent query: %q", sent)
	}
	received := ReceivedQuery(dateQuery)
	want := dateQuery + " label:inbox -label:sent -label:drafts -label:spam -label:trash -from:me"
	if received != want {
		t.Fatalf("unexpected received query: %q", received)
	}
}
