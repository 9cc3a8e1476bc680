package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStatusTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"pending to approved", ContentStatusPending, ContentStatusApproved, false},
		{"pending to rejected", ContentStatusPending, ContentStatusRejected, false},
		{"same state", ContentStatusApproved, ContentStatusApproved, false},
		{"approved is terminal", ContentStatusApproved, ContentStatusRejected, true},
		{"rejected is terminal", ContentStatusRejected, ContentStatusApproved, true},
		{"no way back to pending", ContentStatusApproved, ContentStatusPending, true},
		{"unknown target", ContentStatusPending, "archived", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatusTransition(tt.from, tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContentRecordClone(t *testing.T) {
	rec := &ContentRecord{
		Tags:       []string{"a"},
		Prediction: &TrendForecast{RecommendedTags: []string{"nft"}},
	}

	c := rec.Clone()
	c.Tags[0] = "b"
	c.Prediction.RecommendedTags[0] = "x"

	assert.Equal(t, "a", rec.Tags[0])
	assert.Equal(t, "nft", rec.Prediction.RecommendedTags[0])
	assert.False(t, rec.IsOwnedBy(""))
}
