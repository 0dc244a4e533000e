package render

import "context"

type Renderer interface {
	RenderHome(ctx context.Context, page HomePage) ([]byte, error)
	RenderPost(ctx context.Context, page PostPage) ([]byte, error)
	RenderList(ctx context.Context, page ListPage) ([]byte, error)
	RenderTagsPage(ctx context.Context, page TagsPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
}
