package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultGitHubAPI = "https://api.github.com"

type GitHubOptions struct {
	Token   string
	Owner   string
	Repo    string
	Branch  string
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// GitHub writes one file per commit through the git data API: read the
// branch tip, build a tree on top of it, commit, then move the ref.
type GitHub struct {
	token  string
	repo   string // {base}/repos/{owner}/{repo}
	branch string
	client *http.Client
}

func NewGitHub(opt GitHubOptions) *GitHub {
	base := strings.TrimRight(opt.BaseURL, "/")
	if base == "" {
		base = DefaultGitHubAPI
	}
	branch := opt.Branch
	if branch == "" {
		branch = "master"
	}
	client := opt.Client
	if client == nil {
		timeout := opt.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &GitHub{
		token:  opt.Token,
		repo:   base + "/repos/" + url.PathEscape(opt.Owner) + "/" + url.PathEscape(opt.Repo),
		branch: branch,
		client: client,
	}
}

type gitRef struct {
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

type gitCommit struct {
	SHA  string `json:"sha"`
	Tree struct {
		SHA string `json:"sha"`
	} `json:"tree"`
}

type treeEntry struct {
	Path    string `json:"path"`
	Mode    string `json:"mode"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type createTree struct {
	BaseTree string      `json:"base_tree"`
	Tree     []treeEntry `json:"tree"`
}

type createCommit struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
}

type updateRef struct {
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}

type shaOnly struct {
	SHA string `json:"sha"`
}

func (g *GitHub) Publish(ctx context.Context, path string, data []byte, message string) (Commit, error) {
	var ref gitRef
	if err := g.do(ctx, http.MethodGet, "/git/ref/heads/"+g.branch, nil, &ref); err != nil {
		return Commit{}, fmt.Errorf("get ref: %w", err)
	}
	tip := ref.Object.SHA

	var base gitCommit
	if err := g.do(ctx, http.MethodGet, "/git/commits/"+tip, nil, &base); err != nil {
		return Commit{}, fmt.Errorf("get commit: %w", err)
	}

	var tree shaOnly
	err := g.do(ctx, http.MethodPost, "/git/trees", createTree{
		BaseTree: base.Tree.SHA,
		Tree: []treeEntry{{
			Path:    path,
			Mode:    "100644",
			Type:    "blob",
			Content: string(data),
		}},
	}, &tree)
	if err != nil {
		return Commit{}, fmt.Errorf("create tree: %w", err)
	}

	var commit shaOnly
	err = g.do(ctx, http.MethodPost, "/git/commits", createCommit{
		Message: message,
		Tree:    tree.SHA,
		Parents: []string{tip},
	}, &commit)
	if err != nil {
		return Commit{}, fmt.Errorf("create commit: %w", err)
	}

	if err := g.do(ctx, http.MethodPatch, "/git/refs/heads/"+g.branch, updateRef{SHA: commit.SHA}, nil); err != nil {
		return Commit{}, fmt.Errorf("update ref: %w", err)
	}
	return Commit{SHA: commit.SHA}, nil
}

func (g *GitHub) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.repo+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &e)
		if e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, e.Message)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
