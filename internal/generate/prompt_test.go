package generate

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"aiblog/internal/news"
)

func TestCombineArticles(t *testing.T) {
	got := CombineArticles([]news.Article{
		{Source: "BBC", Title: "A", Description: "da", Content: "ca", URL: "u1"},
		{Source: "CNN", Title: "B", URL: "u2"},
	}, 0)
	want := "Article 1 from BBC:\nTitle: A\nDescription: da\nContent: ca\nURL: u1\n\n" +
		"Article 2 from CNN:\nTitle: B\nDescription: \nContent: \nURL: u2"
	assert.Equal(t, want, got)
}

func TestCombineArticlesTruncatesOnRuneBoundary(t *testing.T) {
	a := news.Article{Source: "Le Monde", Title: strings.Repeat("é", 500)}
	got := CombineArticles([]news.Article{a}, 100)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 100, utf8.RuneCountInString(got))
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "AI Wins Big", CleanTitle(` "**AI Wins Big**" `))
	assert.Equal(t, "Its here", CleanTitle("It's here"))
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "Markets rally on AI.", CleanDescription(`Here is a 12-word summary: "Markets rally on AI."`))
	assert.Equal(t, "Plain text", CleanDescription("Plain text"))
	assert.Equal(t, "", CleanDescription(`here is the description: ""`))
}

func TestFallbackDescription(t *testing.T) {
	body := "one two three four five six seven eight nine ten eleven twelve thirteen\n\nnext"
	assert.Equal(t, "one two three four five six seven eight nine ten eleven twelve", FallbackDescription(body))
	assert.Equal(t, "short one", FallbackDescription("short one\n\nsecond"))
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 1, ReadTime("word"))
	assert.Equal(t, 1, ReadTime(strings.Repeat("w ", 200)))
	assert.Equal(t, 2, ReadTime(strings.Repeat("w ", 201)))
}

func TestRequests(t *testing.T) {
	b := bodyRequest("AI", "ctx")
	assert.Equal(t, 1200, b.MaxTokens)
	assert.InDelta(t, 0.7, b.Temperature, 1e-9)
	assert.Contains(t, b.Prompt, "Read these articles on AI")

	tr := titleRequest("x")
	assert.Equal(t, 20, tr.MaxTokens)
	assert.InDelta(t, 0.5, tr.Temperature, 1e-9)

	dr := descriptionRequest("x")
	assert.Equal(t, 30, dr.MaxTokens)
	assert.Equal(t, descriptionSystem, dr.System)
}
