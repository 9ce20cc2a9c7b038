package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/veldt-dev/veldt/pkg/serverfn"
)

// Post is a blog post with its full content.
type Post struct {
	Slug    string    `json:"slug"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
	Content string    `json:"content"`
}

// PostMetadata is a post without its content, for listings.
type PostMetadata struct {
	Slug  string    `json:"slug"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// posts is the demo content. A real site would load these from a
// store.
var posts = map[string]Post{
	"hello-world": {
		Slug:    "hello-world",
		Title:   "Hello, World",
		Date:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Content: "The first post, rendered on the edge and hydrated in the browser.",
	},
	"streaming-ssr": {
		Slug:    "streaming-ssr",
		Title:   "Streaming SSR",
		Date:    time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Content: "Suspense boundaries stream their content after the shell, so slow data never blocks first paint.",
	},
	"server-functions": {
		Slug:    "server-functions",
		Title:   "Server Functions",
		Date:    time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
		Content: "Typed functions registered on the worker, callable from the client over plain HTTP.",
	},
}

func init() {
	serverfn.MustRegister("list_post_metadata", serverfn.EncodingGetJSON, ListPostMetadata)
	serverfn.MustRegister("get_post", serverfn.EncodingGetCbor, GetPost)
}

// ListPostMetadata returns all posts, newest first, without content.
func ListPostMetadata(ctx context.Context, _ struct{}) ([]PostMetadata, error) {
	out := make([]PostMetadata, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostMetadata{Slug: p.Slug, Title: p.Title, Date: p.Date})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// GetPostArgs selects a post by slug.
type GetPostArgs struct {
	Slug string `json:"slug"`
}

// GetPost returns one post by slug.
func GetPost(ctx context.Context, args GetPostArgs) (Post, error) {
	post, ok := posts[args.Slug]
	if !ok {
		return Post{}, fmt.Errorf("no post with slug %q", args.Slug)
	}
	return post, nil
}
