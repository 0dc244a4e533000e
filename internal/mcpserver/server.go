// Package mcpserver exposes the content store as MCP tools so assistants
// can search and read the blog.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"aiblog/internal/blog"
	"aiblog/internal/domain/content"
)

const (
	Name    = "AI Blog MCP"
	Version = "0.1.0"

	defaultSearchLimit = 10
)

type SearchPostsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type GetPostRequest struct {
	Slug string `json:"slug"`
}

type ListTagsRequest struct{}

type PostSummary struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Category    string   `json:"category"`
	Excerpt     string   `json:"excerpt"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
}

// NewServer registers search_posts, get_post and list_tags over store.
func NewServer(store *blog.Store, fields []blog.SearchField) *server.MCPServer {
	s := server.NewMCPServer(Name, Version, server.WithToolCapabilities(false))

	searchTool := mcp.NewTool("search_posts",
		mcp.WithDescription("Search blog posts by title, excerpt and tags; newest first"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive text to look for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 10)"),
		),
	)
	s.AddTool(searchTool, mcp.NewTypedToolHandler(searchPostsHandler(store, fields)))

	getTool := mcp.NewTool("get_post",
		mcp.WithDescription("Get one blog post with its markdown body"),
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("The post slug, i.e. its file name without extension"),
		),
	)
	s.AddTool(getTool, mcp.NewTypedToolHandler(getPostHandler(store)))

	tagsTool := mcp.NewTool("list_tags",
		mcp.WithDescription("List every tag with the number of posts carrying it"),
	)
	s.AddTool(tagsTool, mcp.NewTypedToolHandler(listTagsHandler(store)))

	return s
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func searchPostsHandler(store *blog.Store, fields []blog.SearchField) func(ctx context.Context, request mcp.CallToolRequest, args SearchPostsRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SearchPostsRequest) (*mcp.CallToolResult, error) {
		if args.Query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		limit := args.Limit
		if limit <= 0 {
			limit = defaultSearchLimit
		}
		posts := store.Search(args.Query, blog.SearchOptions{Fields: fields, Limit: limit})
		out := make([]PostSummary, 0, len(posts))
		for _, p := range posts {
			out = append(out, summary(p))
		}
		return jsonResult(out)
	}
}

func getPostHandler(store *blog.Store) func(ctx context.Context, request mcp.CallToolRequest, args GetPostRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetPostRequest) (*mcp.CallToolResult, error) {
		if args.Slug == "" {
			return mcp.NewToolResultError("slug is required"), nil
		}
		post, ok := store.Get(args.Slug)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("post %q not found", args.Slug)), nil
		}
		return jsonResult(post)
	}
}

func listTagsHandler(store *blog.Store) func(ctx context.Context, request mcp.CallToolRequest, args ListTagsRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ListTagsRequest) (*mcp.CallToolResult, error) {
		return jsonResult(store.Tags())
	}
}

func summary(p content.Post) PostSummary {
	return PostSummary{
		Slug:        p.Slug,
		Title:       p.Title,
		Date:        p.Date,
		Category:    p.Category,
		Excerpt:     p.Excerpt,
		Description: p.Description,
		Tags:        p.Tags,
	}
}

// ServeStdio blocks serving MCP over stdin and stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// ServeHTTP blocks serving MCP over streamable HTTP at addr.
func ServeHTTP(s *server.MCPServer, addr string) error {
	return server.NewStreamableHTTPServer(s).Start(addr)
}
