package files_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zulqarnainhdr514/storage-management/internal/files"
)

func TestCategorize(t *testing.T) {
	t.Parallel()

	cases := map[string]files.Category{
		"report.pdf":       files.CategoryDocument,
		"notes.DOCX":       files.CategoryDocument,
		"design.sketch":    files.CategoryDocument,
		"photo.jpg":        files.CategoryImage,
		"icon.SVG":         files.CategoryImage,
		"clip.mp4":         files.CategoryVideo,
		"track.mp3":        files.CategoryAudio,
		"archive.zip":      files.CategoryOther,
		"binary":           files.CategoryOther,
		"weird.tar.gz":     files.CategoryOther,
		"presentation.ppt": files.CategoryDocument,
	}
	for name, want := range cases {
		assert.Equal(t, want, files.Categorize(name), "filename %q", name)
	}
}

func TestExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pdf", files.Extension("report.PDF"))
	assert.Equal(t, "gz", files.Extension("archive.tar.gz"))
	assert.Equal(t, "", files.Extension("noext"))
}

func TestRecord_VisibleTo(t *testing.T) {
	t.Parallel()

	rec := &files.Record{
		OwnerID:    "acct-1",
		SharedWith: []string{"friend@example.com"},
	}

	assert.True(t, rec.VisibleTo("acct-1", "owner@example.com"))
	assert.True(t, rec.VisibleTo("acct-2", "friend@example.com"))
	assert.False(t, rec.VisibleTo("acct-2", "stranger@example.com"))
}
