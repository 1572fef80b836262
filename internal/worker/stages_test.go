package worker

import (
	"testing"
	"time"

	"github.com/cratescan/api/internal/model"
)

func TestDefaultPipelineShape(t *testing.T) {
	p := DefaultPipeline()

	if len(p.Stages) != 5 {
		t.Fatalf("expected 5 stages, got %d", len(p.Stages))
	}
	if p.TotalUnits() != 11 {
		t.Errorf("expected 11 total units, got %d", p.TotalUnits())
	}
	if p.Stages[0].Name != "styles" || p.Stages[0].Units != 7 {
		t.Errorf("expected fan-out styles stage first, got %s (%d units)", p.Stages[0].Name, p.Stages[0].Units)
	}

	retryable := 0
	for _, s := range p.Stages {
		if s.Retry == nil {
			continue
		}
		retryable++
		if s.Name != "poster" {
			t.Errorf("unexpected retryable stage %s", s.Name)
		}
		if s.Retry.MaxAttempts != 3 || s.Retry.Backoff != 5*time.Second {
			t.Errorf("unexpected retry policy %+v", s.Retry)
		}
	}
	if retryable != 1 {
		t.Errorf("expected exactly one retryable stage, got %d", retryable)
	}
}

func TestMerchTitle(t *testing.T) {
	tests := []struct {
		name  string
		input model.BatchInput
		want  string
	}{
		{
			name:  "artist and title",
			input: model.BatchInput{Artist: "Nina Simone", Title: "Pastel Blues"},
			want:  "Nina Simone Pastel Blues Poster",
		},
		{
			name:  "title only",
			input: model.BatchInput{Title: "Pastel Blues"},
			want:  "Pastel Blues Poster",
		},
		{
			name:  "no metadata",
			input: model.BatchInput{},
			want:  "Scanned Sleeve Poster",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := merchTitle(tt.input, "Poster"); got != tt.want {
				t.Errorf("merchTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
