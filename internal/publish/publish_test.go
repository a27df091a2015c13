package publish

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/courseio"
	"github.com/conecourse/editor/pkg/core"
)

func sample() courseio.File {
	return courseio.Build([]core.Cone{
		{ID: 1, Position: core.LatLng{Lat: 39.95, Lng: -75.16}},
		{ID: 2, Position: core.LatLng{Lat: 39.9501, Lng: -75.16}, Kind: core.Pointer, Angle: 90},
	}, nil, courseio.Meta{MapZoom: 19, Time: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)})
}

func TestFS_PublishCourse(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewSink(context.Background(), config.PublishConfig{Driver: "fs", FS: config.FSConfig{Dir: dir}})
	require.NoError(t, err)
	assert.Equal(t, "fs", sink.Driver())

	loc, err := Course(context.Background(), sink, sample(), false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "autocross_course_2024-01-15T10-30-00-000Z.json"), loc)

	got, err := courseio.ReadFile(loc)
	require.NoError(t, err)
	assert.Len(t, got.Cones, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFS_KeyCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFS(dir)
	require.NoError(t, err)

	loc, err := sink.Put(context.Background(), "../../etc/course.json", []byte("{}"), "application/json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "course.json"), loc)
}

func TestNewSink_Unknown(t *testing.T) {
	_, err := NewSink(context.Background(), config.PublishConfig{Driver: "ftp"})
	assert.Error(t, err)
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), config.S3Config{})
	assert.Error(t, err)
}

type putRecorder struct {
	mu          sync.Mutex
	method      string
	path        string
	contentType string
	body        []byte
}

func (r *putRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.method = req.Method
	r.path = req.URL.Path
	r.contentType = req.Header.Get("Content-Type")
	if req.Body != nil {
		r.body, _ = io.ReadAll(req.Body)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Etag": {"\"etag123\""}},
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Request:    req,
	}, nil
}

func TestS3_PublishCourse(t *testing.T) {
	rec := &putRecorder{}
	sink, err := NewS3(context.Background(), config.S3Config{
		Bucket:       "courses-bucket",
		Prefix:       "events/",
		Region:       "us-east-1",
		Endpoint:     "https://mock.s3.local",
		AccessKey:    "AKIA",
		SecretKey:    "SECRET",
		UsePathStyle: true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rec}
	})
	require.NoError(t, err)

	loc, err := Course(context.Background(), sink, sample(), false)
	require.NoError(t, err)

	assert.Equal(t, "s3://courses-bucket/events/autocross_course_2024-01-15T10-30-00-000Z.json", loc)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/courses-bucket/events/autocross_course_2024-01-15T10-30-00-000Z.json", rec.path)
	assert.Equal(t, "application/json", rec.contentType)
	assert.True(t, strings.Contains(string(rec.body), `"pointer_cone"`))
}
