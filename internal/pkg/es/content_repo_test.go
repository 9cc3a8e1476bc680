package es

import (
	"Mintora/internal/model"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContentES(t *testing.T) {
	rec := &model.ContentRecord{
		ID:          9,
		Title:       "Sunset",
		CreatorID:   "0xabc",
		ContentType: model.ContentTypeImage,
		Price:       decimal.RequireFromString("0.25"),
		Status:      model.ContentStatusApproved,
		CreatedAt:   time.Now(),
	}

	doc := NewContentES(rec)
	assert.Equal(t, uint64(9), doc.ID)
	assert.Equal(t, 0.25, doc.Price)
	assert.NotNil(t, doc.Tags)
}

func TestBuildSearchQueryFiltersApproved(t *testing.T) {
	q := BuildSearchQuery("sunset")
	data, err := json.Marshal(q)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"status"`)
	assert.Contains(t, s, model.ContentStatusApproved)
	assert.Contains(t, s, `"sunset"`)

	empty := BuildSearchQuery("")
	assert.Empty(t, empty.Bool.Must)
	assert.Len(t, empty.Bool.Filter, 1)
}
