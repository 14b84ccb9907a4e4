package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/docver"
	"golang.org/x/sync/errgroup"
)

// MenuBuilder builds a version's navigation tree from directory listings.
type MenuBuilder struct {
	Source docver.ContentSource

	// Concurrency bounds concurrent front-matter fetches.
	Concurrency int

	Logger *slog.Logger
}

// titleJob fetches a document's front-matter into a menu node.
type titleJob struct {
	path  string
	apply func(docver.Attributes)
}

// GetMenu builds the menu tree of a version. Directory order and entry order
// follow the source. Returns ENOTFOUND if the version has no root directory.
func (b *MenuBuilder) GetMenu(ctx context.Context, version string) (*docver.MenuDir, error) {
	root := &docver.MenuDir{Files: []*docver.MenuFile{}}

	var jobs []titleJob
	queue := []*docver.MenuDir{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := b.Source.ListDirectory(ctx, version, dir.Path)
		if err != nil {
			// Directories removed while walking are left empty.
			if dir != root && docver.ErrorCode(err) == docver.ENOTFOUND {
				continue
			}
			return nil, fmt.Errorf("list %q@%s: %w", dir.Path, version, err)
		}

		for _, e := range entries {
			switch {
			case e.IsDir:
				child := &docver.MenuDir{
					Path:  e.Path,
					Title: Humanize(e.Name),
					Files: []*docver.MenuFile{},
				}
				dir.Dirs = append(dir.Dirs, child)
				queue = append(queue, child)

			case e.IsIndex():
				dir.HasIndex = true
				jobs = append(jobs, titleJob{path: e.Path, apply: func(a docver.Attributes) {
					if a.Title != "" {
						dir.Title = a.Title
					}
				}})

			default:
				f := &docver.MenuFile{Path: e.Path, Title: Humanize(e.Name)}
				dir.Files = append(dir.Files, f)
				jobs = append(jobs, titleJob{path: e.Path, apply: func(a docver.Attributes) {
					f.Attributes = a
					if a.Title != "" {
						f.Title = a.Title
					}
				}})
			}
		}
	}

	if err := b.fetchTitles(ctx, version, jobs); err != nil {
		return nil, err
	}
	return root, nil
}

// fetchTitles loads front-matter for every job. Each job writes only to its
// own node, so jobs run concurrently without locking.
func (b *MenuBuilder) fetchTitles(ctx context.Context, version string, jobs []titleJob) error {
	g, ctx := errgroup.WithContext(ctx)
	limit := b.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g.SetLimit(limit)

	for _, job := range jobs {
		g.Go(func() error {
			doc, err := b.Source.GetDocument(ctx, version, job.path)
			switch docver.ErrorCode(err) {
			case "":
				job.apply(doc.Attributes)
				return nil
			case docver.ENOTFOUND:
				return nil
			case docver.EINVALID:
				// An unparseable document keeps its fallback title.
				if b.Logger != nil {
					b.Logger.Warn("invalid document in menu", "version", version, "path", job.path, "err", err)
				}
				return nil
			default:
				return fmt.Errorf("get document %s@%s: %w", job.path, version, err)
			}
		})
	}
	return g.Wait()
}
