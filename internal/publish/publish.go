// Package publish hands exported course files to a blob sink so they can be
// shared outside the editor.
package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/courseio"
)

// Sink stores published course files.
type Sink interface {
	// Put stores data under key and returns where it can be found.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Driver() string
}

// NewSink builds the sink selected by cfg.Driver.
func NewSink(ctx context.Context, cfg config.PublishConfig) (Sink, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "fs":
		return NewFS(cfg.FS.Dir)
	case "s3":
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown publish driver %q", cfg.Driver)
	}
}

// Course encodes f and puts it on sink under its export file name.
func Course(ctx context.Context, sink Sink, f courseio.File, compress bool) (string, error) {
	data, err := courseio.Marshal(f, compress)
	if err != nil {
		return "", err
	}
	key := courseio.FileName(f.ExportTime(), compress)
	loc, err := sink.Put(ctx, key, data, courseio.ContentType(compress))
	if err != nil {
		return "", fmt.Errorf("failed to publish %s to %s: %w", key, sink.Driver(), err)
	}
	return loc, nil
}
