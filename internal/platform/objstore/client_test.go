package objstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type putCall struct {
	key         string
	contentType string
	body        []byte
}

type fakeAPI struct {
	createErr error
	putErr    error

	createCalls int
	puts        []putCall
}

func (f *fakeAPI) CreateBucket(_ context.Context, _ *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts = append(f.puts, putCall{key: *in.Key, contentType: *in.ContentType, body: body})
	return &s3.PutObjectOutput{}, nil
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestArchiveRunUploadsEachFile(t *testing.T) {
	fake := &fakeAPI{}
	a := &Archiver{s3: fake, bucket: "reports", prefix: "vnetmesh/prod"}

	html := writeTemp(t, "run.html", "<html></html>")
	jsonDoc := writeTemp(t, "run.json", `{"ok":true}`)

	require.NoError(t, a.ArchiveRun(context.Background(), html, jsonDoc))
	require.Len(t, fake.puts, 2)

	assert.Equal(t, "vnetmesh/prod/run.html", fake.puts[0].key)
	assert.Equal(t, "text/html; charset=utf-8", fake.puts[0].contentType)
	assert.Equal(t, []byte("<html></html>"), fake.puts[0].body)

	assert.Equal(t, "vnetmesh/prod/run.json", fake.puts[1].key)
	assert.Equal(t, "application/json", fake.puts[1].contentType)
}

func TestArchiveRunMissingFileFails(t *testing.T) {
	a := &Archiver{s3: &fakeAPI{}, bucket: "reports"}
	err := a.ArchiveRun(context.Background(), filepath.Join(t.TempDir(), "absent.html"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read report file")
}

func TestEnsureBucketToleratesExisting(t *testing.T) {
	fake := &fakeAPI{createErr: &smithy.GenericAPIError{Code: "BucketAlreadyOwnedByYou"}}
	a := &Archiver{s3: fake, bucket: "reports"}

	assert.NoError(t, a.EnsureBucket(context.Background()))
	assert.Equal(t, 1, fake.createCalls)
}

func TestEnsureBucketPropagatesOtherErrors(t *testing.T) {
	fake := &fakeAPI{createErr: &smithy.GenericAPIError{Code: "AccessDenied"}}
	a := &Archiver{s3: fake, bucket: "reports"}

	err := a.EnsureBucket(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create bucket reports")
}

func TestContentTypeFallback(t *testing.T) {
	assert.Equal(t, "application/octet-stream", contentTypeFor("run.txt"))
}
