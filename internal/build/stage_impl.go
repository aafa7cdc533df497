package build

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
	"git.home.luguber.info/inful/blogbuilder/internal/templates"
)

// Page kinds, used as metrics labels.
const (
	PageKindPost       = "post"
	PageKindPostsIndex = "posts_index"
	PageKindHomepage   = "homepage"
	PageKindAbout      = "about"
	PageKindFeed       = "feed"
)

func stagePrepareTemplates(_ context.Context, bs *BuildState) error {
	c, err := templates.NewComposer(bs.Templates, bs.AssetVersion)
	if err != nil {
		return err
	}
	bs.Composer = c
	return nil
}

// stageCompilePosts compiles all documents concurrently. Each worker writes
// only its own slot; Wait is the barrier after which the collection is
// complete. A failure skips documents after it in input order, so the
// reported error is always the earliest failing document.
func stageCompilePosts(ctx context.Context, bs *BuildState) error {
	n := len(bs.Documents)
	posts := make([]docmodel.Post, n)
	errs := make([]error, n)

	var firstFailed atomic.Int64
	firstFailed.Store(int64(n))
	markFailed := func(i int) {
		for {
			cur := firstFailed.Load()
			if int64(i) >= cur || firstFailed.CompareAndSwap(cur, int64(i)) {
				return
			}
		}
	}

	limit := bs.builder.concurrency()
	bs.builder.recorder.SetConcurrency(limit)

	var g errgroup.Group
	g.SetLimit(limit)
	for i, doc := range bs.Documents {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			if int64(i) > firstFailed.Load() {
				return nil
			}
			t0 := time.Now()
			post, err := bs.builder.processor.Compile(ctx, doc)
			bs.builder.recorder.ObservePostDuration(time.Since(t0))
			if err != nil {
				errs[i] = err
				markFailed(i)
				return nil
			}
			posts[i] = post
			bs.logger.Debug("Compiled post", logfields.Path(doc.RelPath), logfields.Slug(post.Slug))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return newCanceledStageError(StageCompilePosts, err)
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	bs.Posts = posts
	bs.builder.recorder.SetPosts(len(posts))
	bs.Report.Posts = summarize(posts)
	return nil
}

func stageRegisterSlugs(_ context.Context, bs *BuildState) error {
	reg := slug.NewRegistry()
	for _, p := range bs.Posts {
		if err := reg.Claim(p.Slug, p.SourcePath); err != nil {
			owner, _ := reg.Owner(p.Slug)
			return errors.ValidationError("duplicate slug").WithCause(err).
				WithContext("slug", p.Slug).
				WithContext("path", p.SourcePath).
				WithContext("conflict", owner).
				Build()
		}
	}
	return nil
}

func stageGeneratePages(ctx context.Context, bs *BuildState) error {
	gen := site.NewGenerator(bs.Composer, bs.builder.cfg.Site)
	pages := make([]page, 0, len(bs.Posts)+4)
	for _, p := range bs.Posts {
		if err := ctx.Err(); err != nil {
			return err
		}
		pages = append(pages, page{kind: PageKindPost, Output: gen.PostPage(p)})
	}

	postsIndex, err := gen.PostsIndex(bs.Posts)
	if err != nil {
		return err
	}
	home, err := gen.Homepage(bs.Posts)
	if err != nil {
		return err
	}
	feed, err := gen.Feed(bs.Posts)
	if err != nil {
		return err
	}
	pages = append(pages,
		page{kind: PageKindPostsIndex, Output: postsIndex},
		page{kind: PageKindHomepage, Output: home},
		page{kind: PageKindAbout, Output: gen.About()},
		page{kind: PageKindFeed, Output: feed},
	)
	bs.pages = pages
	return nil
}

func stageWriteOutput(ctx context.Context, bs *BuildState) error {
	for _, p := range bs.pages {
		if err := bs.Sink.Write(ctx, p.Path, p.Data); err != nil {
			return err
		}
		bs.builder.recorder.IncPagesWritten(p.kind)
		bs.Report.Pages++
	}
	return nil
}

func summarize(posts []docmodel.Post) []PostSummary {
	out := make([]PostSummary, len(posts))
	for i, p := range posts {
		out[i] = PostSummary{
			Slug:        p.Slug,
			Source:      p.SourcePath,
			Title:       p.Title,
			Date:        p.DateISO,
			Minutes:     p.Minutes,
			Fingerprint: p.Fingerprint,
		}
	}
	return out
}
