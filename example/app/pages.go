// Package app holds the example site: a counter, a small blog, and
// the server functions both are built on.
package app

import (
	"context"
	"strings"

	"github.com/veldt-dev/veldt/pkg/edge"
	"github.com/veldt-dev/veldt/pkg/render"
	"github.com/veldt-dev/veldt/pkg/vdom"
)

// Home renders the landing page: the counter plus a streamed list of
// recent posts.
func Home(rc *edge.RequestContext) *render.PageData {
	body := vdom.Div(
		vdom.Class("page"),
		nav(),
		vdom.H1(vdom.Text("Veldt on the edge")),
		Counter(),
		vdom.H2(vdom.Text("Recent posts")),
		render.Suspense(
			vdom.P(vdom.Class("loading"), vdom.Text("Loading posts...")),
			func(ctx context.Context) (*vdom.VNode, error) {
				metas, err := ListPostMetadata(ctx, struct{}{})
				if err != nil {
					return nil, err
				}
				return postList(metas), nil
			},
		),
	)

	return pageData(rc, "Veldt Example", body)
}

// BlogIndex renders the full post listing.
func BlogIndex(rc *edge.RequestContext) *render.PageData {
	body := vdom.Div(
		vdom.Class("page"),
		nav(),
		vdom.H1(vdom.Text("Blog")),
		render.Suspense(
			vdom.P(vdom.Class("loading"), vdom.Text("Loading posts...")),
			func(ctx context.Context) (*vdom.VNode, error) {
				metas, err := ListPostMetadata(ctx, struct{}{})
				if err != nil {
					return nil, err
				}
				return postList(metas), nil
			},
		),
	)

	return pageData(rc, "Blog", body)
}

// BlogPost renders a single post. An unknown slug turns into a 404
// via the response options.
func BlogPost(rc *edge.RequestContext) *render.PageData {
	slug := strings.TrimPrefix(rc.Request.URL.Path, "/blog/")

	body := vdom.Div(
		vdom.Class("page"),
		nav(),
		render.Suspense(
			vdom.P(vdom.Class("loading"), vdom.Text("Loading post...")),
			func(ctx context.Context) (*vdom.VNode, error) {
				post, err := GetPost(ctx, GetPostArgs{Slug: slug})
				if err != nil {
					if inner := edge.FromContext(ctx); inner != nil {
						inner.Response.SetStatus(404)
					}
					return vdom.P(vdom.Text("No such post.")), nil
				}
				return vdom.Fragment(
					vdom.H1(vdom.Text(post.Title)),
					vdom.P(vdom.Class("date"), vdom.Text(post.Date.Format("January 2, 2006"))),
					vdom.P(vdom.Text(post.Content)),
				), nil
			},
			render.Block(),
		),
	)

	return pageData(rc, "Blog", body)
}

func nav() *vdom.VNode {
	return vdom.Header(
		vdom.A(vdom.Href("/"), vdom.Text("Home")),
		vdom.Text(" · "),
		vdom.A(vdom.Href("/blog"), vdom.Text("Blog")),
	)
}

func postList(metas []PostMetadata) *vdom.VNode {
	return vdom.Ul(
		vdom.Class("posts"),
		vdom.Map(metas, func(m PostMetadata) *vdom.VNode {
			return vdom.Li(
				vdom.Key(m.Slug),
				vdom.A(vdom.Href("/blog/"+m.Slug), vdom.Text(m.Title)),
				vdom.Text(" — "+m.Date.Format("Jan 2, 2006")),
			)
		}),
	)
}

func pageData(rc *edge.RequestContext, title string, body *vdom.VNode) *render.PageData {
	return &render.PageData{
		Title:       title,
		Body:        body,
		StyleSheets: []string{rc.Resolver.Asset("style.css")},
		Meta: []render.MetaTag{
			{Name: "description", Content: "Veldt example site"},
		},
	}
}
