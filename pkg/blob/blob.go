// Package blob publishes generated bundles and hands back a download reference.
//
// Backends:
//   - [DataURL]: the reference is a data: URL carrying the bundle itself
//   - [FileStore]: bundles are written under a directory and served by zbuilder
//   - [MongoStore]: bundles are stored as MongoDB documents and served by zbuilder
//   - [S3Store]: bundles are uploaded to an S3-compatible bucket; the reference
//     is a presigned GET URL
//
// Stores that zbuilder serves itself implement [Store]; their reference is
// <base_url>/downloads/<id>.
package blob

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentType is the media type of published bundles.
const ContentType = "text/javascript; charset=utf-8"

// ErrNotFound is returned when no blob has the requested ID.
var ErrNotFound = errors.New("blob not found")

// Blob is a published bundle.
type Blob struct {
	ID          string    `json:"id" bson:"_id"`
	Filename    string    `json:"filename" bson:"filename"`
	ContentType string    `json:"content_type" bson:"content_type"`
	Data        []byte    `json:"-" bson:"data"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Publisher stores a bundle and returns a reference the user can download it from.
type Publisher interface {
	Publish(ctx context.Context, filename string, data []byte) (ref string, err error)
}

// Store is a Publisher whose blobs zbuilder serves at /downloads/{id}.
type Store interface {
	Publisher
	Get(ctx context.Context, id string) (*Blob, error)
	Close() error
}

// NewID returns a fresh blob ID.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id could have come from NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// DownloadURL joins baseURL and the download route for id. An empty baseURL
// yields a path relative to the server root.
func DownloadURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/downloads/" + id
}

func newBlob(filename string, data []byte) *Blob {
	return &Blob{
		ID:          NewID(),
		Filename:    filename,
		ContentType: ContentType,
		Data:        data,
		CreatedAt:   time.Now().UTC(),
	}
}
