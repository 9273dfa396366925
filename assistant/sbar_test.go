package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const infantSituation = "Infant requiring cardiopulmonary resuscitation (CPR)."

func TestSummarize(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantSituation string
	}{
		{"drug interaction", "Epinephrine given to a patient on a Beta Blocker may cause hypertension.", "Potential drug interaction between epinephrine and beta blockers."},
		{"cardiac", "This could be a CARDIAC event.", "Patient presenting with chest pain and dizziness, suggesting potential cardiac event."},
		{"epinephrine alone is generic", "Administer epinephrine 0.3 mg IM.", "Patient presenting with unspecified symptoms requiring assessment."},
		{"empty", "", "Patient presenting with unspecified symptoms requiring assessment."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.text)
			assert.Equal(t, tt.wantSituation, got.Situation)
			assert.NotEmpty(t, got.Background)
			assert.NotEmpty(t, got.Assessment)
			assert.NotEmpty(t, got.Recommendation)
		})
	}
}

func TestSummarizeInfantCPR(t *testing.T) {
	got := Summarize("Steps for CPR for Infant:\n1. Check responsiveness\n2. Give 30 compressions")
	assert.Equal(t, infantSituation, got.Situation)
	assert.Equal(t, "1. Check responsiveness\n2. Give 30 compressions", got.Recommendation)

	// Matched before the cardiac rule; a single line leaves nothing to recommend.
	got = Summarize("CPR for infant in cardiac arrest")
	assert.Equal(t, infantSituation, got.Situation)
	assert.Equal(t, "", got.Recommendation)
}
