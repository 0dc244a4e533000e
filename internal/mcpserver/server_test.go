package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiblog/internal/blog"
	"aiblog/internal/domain/content"
)

func newStore(t *testing.T) *blog.Store {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"a.mdx": "---\ntitle: Alpha chips\ndate: 2024-06-01\ndescription: Alpha in short\ntags: [AI, Chips]\n---\n\nAlpha body.\n",
		"b.mdx": "---\ntitle: Beta markets\ndate: 2024-06-02\ntags: [AI]\n---\n\nBeta body.\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return blog.New(dir)
}

func call(name string, args any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Request: mcp.Request{Method: "tools/call"},
		Params:  mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func TestNewServer(t *testing.T) {
	require.NotNil(t, NewServer(newStore(t), nil))
}

func TestSearchPosts(t *testing.T) {
	h := searchPostsHandler(newStore(t), nil)
	ctx := context.Background()

	args := SearchPostsRequest{Query: "ai"}
	res, err := h(ctx, call("search_posts", args), args)
	require.NoError(t, err)
	require.False(t, res.IsError)

	var got []PostSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Slug)
	assert.Equal(t, "a", got[1].Slug)
	assert.Equal(t, "Alpha in short", got[1].Description)
	assert.Empty(t, got[1].Excerpt)

	args = SearchPostsRequest{Query: "ai", Limit: 1}
	res, err = h(ctx, call("search_posts", args), args)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Len(t, got, 1)

	args = SearchPostsRequest{}
	res, err = h(ctx, call("search_posts", args), args)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetPost(t *testing.T) {
	h := getPostHandler(newStore(t))
	ctx := context.Background()

	args := GetPostRequest{Slug: "a"}
	res, err := h(ctx, call("get_post", args), args)
	require.NoError(t, err)
	require.False(t, res.IsError)

	var post content.Post
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &post))
	assert.Equal(t, "Alpha chips", post.Title)
	assert.Contains(t, post.Content, "Alpha body.")

	for _, slug := range []string{"", "missing", "../etc/passwd"} {
		args := GetPostRequest{Slug: slug}
		res, err := h(ctx, call("get_post", args), args)
		require.NoError(t, err)
		assert.True(t, res.IsError, slug)
	}
}

func TestListTags(t *testing.T) {
	h := listTagsHandler(newStore(t))
	res, err := h(context.Background(), call("list_tags", nil), ListTagsRequest{})
	require.NoError(t, err)

	var got []content.TagCount
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, []content.TagCount{{Name: "AI", Count: 2}, {Name: "Chips", Count: 1}}, got)
}
