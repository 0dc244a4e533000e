package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	now := time.Date(2024, 6, 3, 15, 4, 5, 0, time.UTC)

	var p Post
	p.ApplyDefaults(now)
	assert.Equal(t, DefaultTitle, p.Title)
	assert.Equal(t, DefaultCategory, p.Category)
	assert.Equal(t, "", p.Excerpt)
	assert.Equal(t, "2024-06-03", p.Date)
	assert.NotNil(t, p.Tags)
	assert.Empty(t, p.Tags)
	assert.False(t, p.Featured)
	assert.Zero(t, p.Priority)
}

func TestApplyDefaultsKeepsValues(t *testing.T) {
	p := Post{Title: " Chips ", Category: "AI", Date: "2024-01-01", Description: "short", Tags: []string{"AI", "AI"}}
	p.ApplyDefaults(time.Now())
	assert.Equal(t, "Chips", p.Title)
	assert.Equal(t, "AI", p.Category)
	assert.Equal(t, "2024-01-01", p.Date)
	assert.Equal(t, "", p.Excerpt, "description does not fill the excerpt")
	assert.Equal(t, "short", p.Description)
	assert.Equal(t, []string{"AI", "AI"}, p.Tags, "duplicates are kept")
}

func TestHasTag(t *testing.T) {
	p := Post{Tags: []string{"AI", "Business"}}
	assert.True(t, p.HasTag("ai"))
	assert.True(t, p.HasTag("BUSINESS"))
	assert.False(t, p.HasTag("bus"))
}
