package generate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "aiblog/internal/domain/errors"
	"aiblog/internal/ingest"
	"aiblog/internal/llm"
	"aiblog/internal/metrics"
	"aiblog/internal/news"
	"aiblog/internal/publish"
	"aiblog/internal/runlog"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

const sampleBody = "The AI market is booming as companies race to deploy new models.\n\nSecond paragraph about innovation."

type fakeNews struct {
	mu         sync.Mutex
	headlines  []news.Article
	headErr    error
	everything []news.Article
	everyErr   error
	calls      []string
}

func (f *fakeNews) TopHeadlines(context.Context) ([]news.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "headlines")
	return f.headlines, f.headErr
}

func (f *fakeNews) Everything(_ context.Context, q string) ([]news.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "everything:"+q)
	return f.everything, f.everyErr
}

type reply struct {
	text string
	err  error
}

// fakeLLM answers by system prompt.
type fakeLLM struct {
	mu      sync.Mutex
	replies map[string]reply
	prompts map[string]string
}

func newFakeLLM() *fakeLLM {
	return &fakeLLM{
		replies: map[string]reply{
			bodySystem:        {text: sampleBody},
			titleSystem:       {text: `"AI *Reshapes* Markets"`},
			descriptionSystem: {text: `Here is a summary: "Markets embrace AI."`},
		},
		prompts: map[string]string{},
	}
}

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts[req.System] = req.Prompt
	r := f.replies[req.System]
	return r.text, r.err
}

type fakePublisher struct {
	path, message string
	data          []byte
	err           error
	calls         int
}

func (p *fakePublisher) Publish(_ context.Context, path string, data []byte, message string) (publish.Commit, error) {
	p.calls++
	p.path, p.data, p.message = path, data, message
	if p.err != nil {
		return publish.Commit{}, p.err
	}
	return publish.Commit{SHA: "abc123"}, nil
}

type fixture struct {
	dir  string
	news *fakeNews
	llm  *fakeLLM
	pub  *fakePublisher
	m    *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		dir: filepath.Join(t.TempDir(), "blog"),
		news: &fakeNews{headlines: []news.Article{
			{Source: "BBC News", Title: "Chips", Description: "d", Content: "c", URL: "https://x/1"},
		}},
		llm: newFakeLLM(),
		pub: &fakePublisher{},
		m:   metrics.New(),
	}
}

func (f *fixture) generator(t *testing.T, mutate ...func(*Deps, *Options)) *Generator {
	t.Helper()
	d := Deps{
		News:      f.news,
		LLM:       f.llm,
		Publisher: f.pub,
		Metrics:   f.m,
		Now:       func() time.Time { return fixedNow },
		RandIntN:  func(int) int { return 41 },
	}
	o := Options{ContentDir: f.dir, PathPrefix: "blog"}
	for _, fn := range mutate {
		fn(&d, &o)
	}
	g, err := New(d, o)
	require.NoError(t, err)
	return g
}

func TestRunWritesAndPublishes(t *testing.T) {
	f := newFixture(t)
	res, err := f.generator(t).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01-ai-reshapes-markets", res.Slug)
	assert.Equal(t, "AI Reshapes Markets", res.Title)
	assert.Equal(t, "Markets embrace AI.", res.Description)
	assert.Equal(t, "Business", res.Category)
	assert.Equal(t, []string{"AI", "Innovation"}, res.Tags)
	assert.Equal(t, "https://picsum.photos/800/400?random=42", res.HeroImage)
	assert.Equal(t, 1, res.ReadTime)
	assert.True(t, res.Written)
	assert.True(t, res.Committed)
	assert.Equal(t, "abc123", res.CommitSHA)
	assert.Equal(t, filepath.Join(f.dir, "2024-06-01-ai-reshapes-markets.mdx"), res.FilePath)

	raw, err := os.ReadFile(res.FilePath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "---\ntitle: AI Reshapes Markets\n"))

	p, err := ingest.ParseFile(res.FilePath, res.Slug, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "AI Reshapes Markets", p.Title)
	assert.Equal(t, "Markets embrace AI.", p.Description)
	assert.Equal(t, "", p.Excerpt)
	assert.Equal(t, "2024-06-01", p.Date)
	assert.Equal(t, "Business", p.Category)
	assert.Equal(t, []string{"AI", "Innovation"}, p.Tags)
	assert.Equal(t, 1, p.ReadTime)
	assert.Equal(t, "Jun 01, 2024", p.PubDate)
	assert.Equal(t, res.HeroImage, p.HeroImage)
	assert.True(t, strings.HasPrefix(p.Content, "![AI Reshapes Markets](https://picsum.photos/800/400?random=42)\n\n"))
	assert.Contains(t, p.Content, sampleBody)

	assert.Equal(t, "blog/2024-06-01-ai-reshapes-markets.mdx", f.pub.path)
	assert.Equal(t, "chore: add unified news article for 2024-06-01", f.pub.message)
	assert.Equal(t, raw, f.pub.data)

	assert.Contains(t, f.llm.prompts[bodySystem], "Article 1 from BBC News:\nTitle: Chips")
	assert.Contains(t, f.llm.prompts[titleSystem], sampleBody)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.GenerateRuns.WithLabelValues(OutcomeSuccess)))
}

func TestRunTwiceYieldsTwoFiles(t *testing.T) {
	f := newFixture(t)
	g := f.generator(t)

	first, err := g.Run(context.Background())
	require.NoError(t, err)
	second, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01-ai-reshapes-markets", first.Slug)
	assert.Equal(t, "2024-06-01-ai-reshapes-markets-2", second.Slug)
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	p, err := ingest.ParseFile(second.FilePath, second.Slug, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "AI Reshapes Markets", p.Title)
}

func TestRunFallsBackToEverything(t *testing.T) {
	for name, nf := range map[string]*fakeNews{
		"headline error": {headErr: errors.New("503"), everything: []news.Article{{Source: "CNN", Title: "t"}}},
		"no headlines":   {everything: []news.Article{{Source: "CNN", Title: "t"}}},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.news = nf
			_, err := f.generator(t).Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"headlines", "everything:" + DefaultFallbackQuery}, nf.calls)
			assert.Contains(t, f.llm.prompts[bodySystem], "Article 1 from CNN:")
		})
	}
}

func TestRunNoSourceMaterial(t *testing.T) {
	for name, nf := range map[string]*fakeNews{
		"both empty":  {},
		"both failed": {headErr: errors.New("a"), everyErr: errors.New("b")},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.news = nf
			_, err := f.generator(t).Run(context.Background())
			assert.ErrorIs(t, err, domainerr.ErrNoSourceMaterial)
			assert.NoDirExists(t, f.dir)
			assert.Zero(t, f.pub.calls)
			assert.Empty(t, f.llm.prompts)
		})
	}
}

func TestRunGenerationFailure(t *testing.T) {
	for name, r := range map[string]reply{
		"error": {err: errors.New("rate limited")},
		"empty": {text: "   "},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.llm.replies[bodySystem] = r
			_, err := f.generator(t).Run(context.Background())
			assert.ErrorIs(t, err, domainerr.ErrGeneration)
			assert.NoDirExists(t, f.dir)
			assert.Zero(t, f.pub.calls)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.m.GenerateRuns.WithLabelValues(OutcomeGenerationFailed)))
		})
	}
}

func TestRunEnrichmentFallbacks(t *testing.T) {
	f := newFixture(t)
	f.llm.replies[titleSystem] = reply{err: errors.New("timeout")}
	f.llm.replies[descriptionSystem] = reply{text: `""`}

	res, err := f.generator(t).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultTopic, res.Title)
	assert.Equal(t, "The AI market is booming as companies race to deploy new models.", res.Description)
	assert.Equal(t, "2024-06-01-business-and-artificial-intelligence-news-and-current-updates", res.Slug)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.DegradedSteps.WithLabelValues("title")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.DegradedSteps.WithLabelValues("description")))
}

func TestRunPunctuationTitle(t *testing.T) {
	f := newFixture(t)
	f.llm.replies[titleSystem] = reply{text: "!!! ???"}
	res, err := f.generator(t).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01-post", res.Slug)
}

func TestRunPublishFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("bad credentials")
	res, err := f.generator(t).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.False(t, res.Committed)
	assert.Empty(t, res.CommitSHA)
}

func TestRunWriteFailureStillPublishes(t *testing.T) {
	f := newFixture(t)
	// a regular file where the content directory should be
	require.NoError(t, os.WriteFile(f.dir, []byte("x"), 0o644))

	res, err := f.generator(t).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.True(t, res.Committed)
	assert.Equal(t, "2024-06-01-ai-reshapes-markets", res.Slug)
	assert.Contains(t, string(f.pub.data), "slug: 2024-06-01-ai-reshapes-markets\n")
}

func TestRunWithoutPublisher(t *testing.T) {
	f := newFixture(t)
	res, err := f.generator(t, func(d *Deps, _ *Options) { d.Publisher = nil }).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.False(t, res.Committed)
}

func TestRunOncePerDay(t *testing.T) {
	f := newFixture(t)
	runs, err := runlog.Open(runlog.OpenOptions{Path: filepath.Join(t.TempDir(), "runs.db")})
	require.NoError(t, err)
	defer runs.Close()

	g := f.generator(t, func(d *Deps, o *Options) {
		d.Runs = runs
		o.OncePerDay = true
	})
	first, err := g.Run(context.Background())
	require.NoError(t, err)

	_, err = g.Run(context.Background())
	assert.ErrorIs(t, err, domainerr.ErrAlreadyGenerated)
	assert.Len(t, f.news.calls, 1, "no outbound call on the second run")

	recent, err := runs.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, first.Slug, recent[0].Slug)
	assert.True(t, recent[0].Written)
	assert.True(t, recent[0].Committed)
	assert.Len(t, recent[0].ContentHash, 64)
}

func TestRunLogWithoutGuardKeepsGenerating(t *testing.T) {
	f := newFixture(t)
	runs, err := runlog.Open(runlog.OpenOptions{Path: filepath.Join(t.TempDir(), "runs.db")})
	require.NoError(t, err)
	defer runs.Close()

	g := f.generator(t, func(d *Deps, _ *Options) { d.Runs = runs })
	for i := 0; i < 2; i++ {
		_, err := g.Run(context.Background())
		require.NoError(t, err)
	}
	recent, err := runs.Recent(10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestNewRequiresSourceAndCompleter(t *testing.T) {
	_, err := New(Deps{}, Options{})
	assert.ErrorIs(t, err, domainerr.ErrMissingConfig)
}
