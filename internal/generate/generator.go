// Package generate turns the day's news into one published article:
// fetch sources, summarise, enrich, write the file and commit it.
package generate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"aiblog/internal/classify"
	domainerr "aiblog/internal/domain/errors"
	"aiblog/internal/ingest"
	"aiblog/internal/llm"
	"aiblog/internal/logging"
	"aiblog/internal/metrics"
	"aiblog/internal/news"
	"aiblog/internal/publish"
	"aiblog/internal/runlog"
)

const (
	DefaultTopic         = "Business and Artificial Intelligence News and Current Updates"
	DefaultFallbackQuery = "business artificial intelligence"
	DefaultPromptBudget  = 8000

	pubDateLayout = "Jan 02, 2006"
)

// Run outcomes as counted in metrics.
const (
	OutcomeSuccess          = "success"
	OutcomeNoSource         = "no_source"
	OutcomeGenerationFailed = "generation_failed"
	OutcomeAlreadyGenerated = "already_generated"
)

type Deps struct {
	News news.Source
	LLM  llm.Completer
	// Publisher and Runs are optional.
	Publisher publish.Publisher
	Runs      *runlog.Store
	Logger    logging.Logger
	Metrics   *metrics.Metrics
	Now       func() time.Time
	// RandIntN returns a value in [0, n).
	RandIntN func(n int) int
}

type Options struct {
	Topic         string
	FallbackQuery string
	ContentDir    string
	Extension     string
	// PathPrefix is the directory inside the remote repository.
	PathPrefix   string
	PromptBudget int
	// OncePerDay refuses a second run for the same topic and day.
	OncePerDay bool
}

type Result struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	HeroImage   string   `json:"heroImage"`
	Tags        []string `json:"tags"`
	ReadTime    int      `json:"readTime"`
	FilePath    string   `json:"filePath"`
	Written     bool     `json:"written"`
	Committed   bool     `json:"committed"`
	CommitSHA   string   `json:"commitSha,omitempty"`
}

type Generator struct {
	d   Deps
	opt Options
	log logging.Logger
}

func New(d Deps, opt Options) (*Generator, error) {
	if d.News == nil || d.LLM == nil {
		return nil, fmt.Errorf("%w: news source and completion provider are required", domainerr.ErrMissingConfig)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.RandIntN == nil {
		d.RandIntN = rand.IntN
	}
	if opt.Topic == "" {
		opt.Topic = DefaultTopic
	}
	if opt.FallbackQuery == "" {
		opt.FallbackQuery = DefaultFallbackQuery
	}
	if opt.ContentDir == "" {
		opt.ContentDir = "blog"
	}
	if opt.Extension == "" {
		opt.Extension = ".mdx"
	}
	if opt.PromptBudget <= 0 {
		opt.PromptBudget = DefaultPromptBudget
	}
	return &Generator{d: d, opt: opt, log: logging.Component(d.Logger, "generate")}, nil
}

// Run executes the pipeline once. Only missing source material, a failed
// body completion, or the once-per-day guard fail the run; every later
// step degrades to a default and is logged.
func (g *Generator) Run(ctx context.Context) (Result, error) {
	now := g.d.Now().UTC()
	day := now.Format(time.DateOnly)
	log := g.log.WithField("day", day)

	if g.opt.OncePerDay && g.d.Runs != nil {
		prev, found, err := g.d.Runs.LookupDay(runlog.DayKey(day, g.opt.Topic))
		if err != nil {
			log.WithError(err).Warn("run log lookup failed")
		} else if found {
			g.d.Metrics.RunOutcome(OutcomeAlreadyGenerated)
			return Result{}, fmt.Errorf("%w: %s", domainerr.ErrAlreadyGenerated, prev.Slug)
		}
	}

	articles, err := g.fetch(ctx)
	if err != nil {
		g.d.Metrics.RunOutcome(OutcomeNoSource)
		log.WithError(err).Error("no source material")
		return Result{}, err
	}

	body, err := g.d.LLM.Complete(ctx, bodyRequest(g.opt.Topic, CombineArticles(articles, g.opt.PromptBudget)))
	if err == nil && strings.TrimSpace(body) == "" {
		err = llm.ErrEmpty
	}
	if err != nil {
		g.d.Metrics.RunOutcome(OutcomeGenerationFailed)
		log.WithError(err).Error("article generation failed")
		return Result{}, fmt.Errorf("%w: %v", domainerr.ErrGeneration, err)
	}
	body = strings.TrimSpace(body)

	var warnings []string
	degrade := func(step string, err error) {
		warnings = append(warnings, step)
		g.d.Metrics.Degraded(step)
		entry := log.WithField("step", step)
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Warn("step degraded")
	}

	title, err := g.d.LLM.Complete(ctx, titleRequest(body))
	title = CleanTitle(title)
	if err != nil || title == "" {
		degrade("title", err)
		title = g.opt.Topic
	}

	description, err := g.d.LLM.Complete(ctx, descriptionRequest(body))
	description = CleanDescription(description)
	if err != nil || description == "" {
		degrade("description", err)
		description = FallbackDescription(body)
	}

	res := Result{
		Title:       title,
		Description: description,
		Category:    classify.Category(body, classify.DefaultCategoryRules, classify.DefaultCategory),
		Tags:        classify.Tags(body, classify.DefaultTagRules),
		HeroImage:   "https://picsum.photos/800/400?random=" + strconv.Itoa(g.d.RandIntN(1000)+1),
		ReadTime:    ReadTime(body),
	}

	titleSlug := ingest.Slugify(title)
	if titleSlug == "" {
		titleSlug = "post"
	}
	base := day + "-" + titleSlug
	fm := frontMatter{
		Title:       res.Title,
		Description: res.Description,
		Date:        day,
		Category:    res.Category,
		Tags:        res.Tags,
		ReadTime:    res.ReadTime,
		PubDate:     now.Format(pubDateLayout),
		HeroImage:   res.HeroImage,
	}

	f, stem, err := reserveFile(g.opt.ContentDir, base, g.opt.Extension)
	if err != nil {
		degrade("write", err)
		stem = stemFor(g.opt.ContentDir, base, g.opt.Extension)
	}
	fm.Slug = stem
	doc, rerr := renderDocument(fm, body)
	if rerr != nil {
		// nothing was written; drop the reservation
		if f != nil {
			_ = f.Close()
			_ = os.Remove(filepath.Join(g.opt.ContentDir, stem+g.opt.Extension))
		}
		g.d.Metrics.RunOutcome(OutcomeGenerationFailed)
		return Result{}, fmt.Errorf("%w: render: %v", domainerr.ErrGeneration, rerr)
	}
	res.Slug = stem
	res.FilePath = filepath.Join(g.opt.ContentDir, stem+g.opt.Extension)
	if f != nil {
		_, werr := f.Write(doc)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			degrade("write", werr)
		} else {
			res.Written = true
		}
	}

	if g.d.Publisher != nil {
		remote := stem + g.opt.Extension
		if g.opt.PathPrefix != "" {
			remote = path.Join(g.opt.PathPrefix, remote)
		}
		commit, err := g.d.Publisher.Publish(ctx, remote, doc, "chore: add unified news article for "+day)
		if err != nil {
			degrade("publish", err)
		} else {
			res.Committed = true
			res.CommitSHA = commit.SHA
		}
	}

	if g.d.Runs != nil {
		_, err := g.d.Runs.Append(runlog.Run{
			Time:        now,
			Day:         day,
			Topic:       g.opt.Topic,
			Slug:        res.Slug,
			Title:       res.Title,
			Category:    res.Category,
			FilePath:    res.FilePath,
			ContentHash: ingest.HashBytes(doc),
			Written:     res.Written,
			Committed:   res.Committed,
			CommitSHA:   res.CommitSHA,
			Warnings:    warnings,
		})
		if err != nil {
			degrade("runlog", err)
		}
	}

	g.d.Metrics.RunOutcome(OutcomeSuccess)
	log.WithFields(logging.Fields{
		"slug":      res.Slug,
		"category":  res.Category,
		"written":   res.Written,
		"committed": res.Committed,
	}).Info("article generated")
	return res, nil
}

// fetch tries top headlines, then the keyword fallback.
func (g *Generator) fetch(ctx context.Context) ([]news.Article, error) {
	articles, err := g.d.News.TopHeadlines(ctx)
	if err == nil && len(articles) > 0 {
		return articles, nil
	}
	entry := g.log
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn("top headlines returned no articles, falling back")

	articles, err = g.d.News.Everything(ctx, g.opt.FallbackQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerr.ErrNoSourceMaterial, err)
	}
	if len(articles) == 0 {
		return nil, domainerr.ErrNoSourceMaterial
	}
	return articles, nil
}
