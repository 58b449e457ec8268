package storage

import (
	"context"
	"io"
	"path"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

// GCS uploads files to a Google Cloud Storage bucket.
type GCS struct {
	Client *storage.Client
	Bucket string
	Prefix string
}

func NewGCS(client *storage.Client, bucket string) *GCS {
	return &GCS{Client: client, Bucket: bucket, Prefix: "bootcamps"}
}

// Save uploads r as Prefix/name and returns the public URL.
func (g *GCS) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, g.Client, g.Bucket, path.Join(g.Prefix, name), contentType, r)
}
