package quill

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/oyalcin/quill/content"
)

// SyncResult summarizes one pass of file→index synchronization.
type SyncResult struct {
	Created int
	Updated int
	Deleted int
	Skipped int
	Errors  []error
}

func (r SyncResult) String() string {
	return fmt.Sprintf("created=%d updated=%d deleted=%d skipped=%d errors=%d",
		r.Created, r.Updated, r.Deleted, r.Skipped, len(r.Errors))
}

// Sync walks the content directory and reconciles the post index with
// it: new files are inserted, changed files (by checksum) re-rendered
// and updated, unchanged files skipped, and index rows whose source
// file disappeared are deleted. A document that fails to parse or
// render is reported in Errors without aborting the rest of the pass.
// Orphan rows are only deleted on a clean load: a file that is
// temporarily malformed must not cascade into losing its index row.
func (a *App) Sync(ctx context.Context) (SyncResult, error) {
	var res SyncResult

	docs, loadErrs, err := a.loader.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("quill: load content: %w", err)
	}
	res.Errors = append(res.Errors, loadErrs...)

	existing, err := a.Store.Checksums()
	if err != nil {
		return res, fmt.Errorf("quill: read index checksums: %w", err)
	}

	for _, doc := range docs {
		sum := hex.EncodeToString(doc.Checksum)
		prev, known := existing[doc.Slug]
		delete(existing, doc.Slug)

		if known && prev == sum {
			res.Skipped++
			continue
		}

		post, err := a.buildPost(doc)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		if err := a.Store.SavePost(post, sum); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("quill: index %s: %w", doc.Slug, err))
			continue
		}
		if known {
			res.Updated++
		} else {
			res.Created++
		}
	}

	// Whatever is left in the map has no source file anymore.
	if len(loadErrs) == 0 {
		for slug := range existing {
			if err := a.Store.DeletePost(slug); err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("quill: delete orphan %s: %w", slug, err))
				continue
			}
			res.Deleted++
		}
	}

	if res.Created+res.Updated+res.Deleted > 0 {
		a.Cache.Invalidate()
	}
	return res, nil
}

// buildPost renders a document and assembles the indexed Post.
func (a *App) buildPost(doc *content.Document) (Post, error) {
	html, toc, err := a.renderer.Render(doc.Body)
	if err != nil {
		return Post{}, fmt.Errorf("quill: render %s: %w", doc.Slug, err)
	}
	fm := doc.Frontmatter
	return Post{
		Slug:        doc.Slug,
		Title:       fm.Title,
		Description: fm.Description,
		PublishDate: fm.PublishDate,
		UpdatedDate: fm.UpdatedDate,
		Tags:        content.PublicTags(fm.Tags),
		Category:    fm.Category,
		Series:      fm.Series(),
		Cover:       fm.Cover,
		Link:        "/blog/" + doc.Slug,
		Body:        string(doc.Body),
		HTML:        string(html),
		TOC:         toc,
		Draft:       fm.Draft,
	}, nil
}
