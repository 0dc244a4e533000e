package generate

import (
	"fmt"
	"regexp"
	"strings"

	"aiblog/internal/llm"
	"aiblog/internal/news"
)

const (
	bodySystem        = "You are a news summarization assistant."
	titleSystem       = "You are an expert headline writer."
	descriptionSystem = "You are a professional copywriter."

	descriptionWords = 12
)

// CombineArticles renders the source articles into one block and cuts it
// to at most budget runes.
func CombineArticles(articles []news.Article, budget int) string {
	parts := make([]string, len(articles))
	for i, a := range articles {
		parts[i] = fmt.Sprintf("Article %d from %s:\nTitle: %s\nDescription: %s\nContent: %s\nURL: %s",
			i+1, a.Source, a.Title, a.Description, a.Content, a.URL)
	}
	return truncateRunes(strings.Join(parts, "\n\n"), budget)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func bodyRequest(topic, combined string) llm.Request {
	return llm.Request{
		System: bodySystem,
		Prompt: fmt.Sprintf("Read these articles on %s and write an ~800-word unified article using the standard markdown syntax "+
			"and add numeric or other details if you could find any for this : (\n\n%s).", topic, combined),
		MaxTokens:   1200,
		Temperature: 0.7,
	}
}

func titleRequest(body string) llm.Request {
	return llm.Request{
		System: titleSystem,
		Prompt: "Create a concise, 6-word max title for this article text without using filler words like here is; " +
			"just return me the title: " + body,
		MaxTokens:   20,
		Temperature: 0.5,
	}
}

func descriptionRequest(body string) llm.Request {
	return llm.Request{
		System: descriptionSystem,
		Prompt: "Write a pure, 12-word max summary for this article without any filler words like here is... " +
			"Just return me the description: " + body,
		MaxTokens:   30,
		Temperature: 0.7,
	}
}

var (
	quoteChars    = strings.NewReplacer(`"`, "", "'", "", "*", "")
	hereIsPreface = regexp.MustCompile(`(?i)Here is.*?:\s*`)
)

// CleanTitle drops quotes and emphasis markers.
func CleanTitle(s string) string {
	return strings.TrimSpace(quoteChars.Replace(strings.TrimSpace(s)))
}

// CleanDescription drops the first "Here is ...:" preface and quotes.
func CleanDescription(s string) string {
	s = strings.TrimSpace(s)
	if loc := hereIsPreface.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + s[loc[1]:]
	}
	return strings.TrimSpace(quoteChars.Replace(s))
}

// FallbackDescription is the first words of the body's first paragraph.
func FallbackDescription(body string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(body), "\n\n")
	words := strings.Fields(first)
	if len(words) > descriptionWords {
		words = words[:descriptionWords]
	}
	return strings.Join(words, " ")
}

// ReadTime is minutes at 200 words per minute, rounded up.
func ReadTime(body string) int {
	words := len(strings.Fields(body))
	return (words + 199) / 200
}
