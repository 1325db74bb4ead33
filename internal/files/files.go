// Package files manages uploaded file metadata and the operations users
// perform on their files: upload, browse, rename, share, and delete.
// Binary content lives in blob storage; this package owns the metadata
// records and visibility rules.
package files

import (
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Category groups files by broad media type for browsing and usage
// breakdowns.
type Category string

const (
	CategoryDocument Category = "document"
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryOther    Category = "other"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryDocument, CategoryImage, CategoryVideo, CategoryAudio, CategoryOther:
		return true
	}
	return false
}

var extensionCategories = map[string]Category{
	// Documents
	"pdf": CategoryDocument, "doc": CategoryDocument, "docx": CategoryDocument,
	"txt": CategoryDocument, "xls": CategoryDocument, "xlsx": CategoryDocument,
	"csv": CategoryDocument, "rtf": CategoryDocument, "ods": CategoryDocument,
	"ppt": CategoryDocument, "pptx": CategoryDocument, "odp": CategoryDocument,
	"md": CategoryDocument, "html": CategoryDocument, "htm": CategoryDocument,
	"odt": CategoryDocument, "epub": CategoryDocument, "pages": CategoryDocument,
	"fig": CategoryDocument, "psd": CategoryDocument, "ai": CategoryDocument,
	"indd": CategoryDocument, "xd": CategoryDocument, "sketch": CategoryDocument,
	"afdesign": CategoryDocument, "afphoto": CategoryDocument,

	// Images
	"jpg": CategoryImage, "jpeg": CategoryImage, "png": CategoryImage,
	"gif": CategoryImage, "bmp": CategoryImage, "svg": CategoryImage,
	"webp": CategoryImage, "heic": CategoryImage, "tiff": CategoryImage,
	"ico": CategoryImage, "avif": CategoryImage,

	// Video
	"mp4": CategoryVideo, "avi": CategoryVideo, "mov": CategoryVideo,
	"mkv": CategoryVideo, "webm": CategoryVideo, "flv": CategoryVideo,
	"wmv": CategoryVideo, "m4v": CategoryVideo, "3gp": CategoryVideo,

	// Audio
	"mp3": CategoryAudio, "wav": CategoryAudio, "ogg": CategoryAudio,
	"flac": CategoryAudio, "aac": CategoryAudio, "m4a": CategoryAudio,
	"wma": CategoryAudio, "aiff": CategoryAudio, "alac": CategoryAudio,
}

// Categorize maps a filename to its category by extension. Unknown and
// missing extensions fall into CategoryOther.
func Categorize(filename string) Category {
	ext := Extension(filename)
	if ext == "" {
		return CategoryOther
	}
	if cat, ok := extensionCategories[ext]; ok {
		return cat
	}
	return CategoryOther
}

// Extension returns the lowercase extension of filename without the
// leading dot, or "" if there is none.
func Extension(filename string) string {
	ext := filepath.Ext(filename)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Record is a stored file's metadata document.
type Record struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID    string        `bson:"ownerId" json:"ownerId"`
	Name       string        `bson:"name" json:"name"`
	Key        string        `bson:"key" json:"-"`
	URL        string        `bson:"url" json:"url"`
	Category   Category      `bson:"category" json:"category"`
	Extension  string        `bson:"extension" json:"extension"`
	Size       int64         `bson:"size" json:"size"`
	SharedWith []string      `bson:"sharedWith" json:"sharedWith"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether the record belongs to the given account.
func (r *Record) OwnedBy(accountID string) bool {
	return r.OwnerID == accountID
}

// VisibleTo reports whether the record may be read by the given account
// or email address.
func (r *Record) VisibleTo(accountID, email string) bool {
	if r.OwnedBy(accountID) {
		return true
	}
	for _, shared := range r.SharedWith {
		if shared == email {
			return true
		}
	}
	return false
}

// Sort orders supported by List.
const (
	SortNewest      = "createdAt-desc"
	SortOldest      = "createdAt-asc"
	SortNameAsc     = "name-asc"
	SortNameDesc    = "name-desc"
	SortSizeLargest = "size-desc"
	SortSizeLowest  = "size-asc"
)

// ListParams filters and orders a file listing.
type ListParams struct {
	Category Category
	Search   string
	Sort     string
	Limit    int64
}

// CategoryUsage is the per-category slice of a usage summary.
type CategoryUsage struct {
	Category Category  `bson:"_id" json:"category"`
	Size     int64     `bson:"size" json:"size"`
	Count    int64     `bson:"count" json:"count"`
	Latest   time.Time `bson:"latest" json:"latest"`
}

// Usage aggregates storage consumption for one owner.
type Usage struct {
	Used       int64           `json:"used"`
	Quota      int64           `json:"quota"`
	Categories []CategoryUsage `json:"categories"`
}
