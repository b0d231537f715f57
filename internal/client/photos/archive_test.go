package photos

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sittersafe/carelog/internal/logging"
)

type objectFake struct {
	put       []s3.PutObjectInput
	deleted   []string
	putErr    error
	deleteErr error
}

func (f *objectFake) PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.put = append(f.put, *in)
	return &s3.PutObjectOutput{}, nil
}

func (f *objectFake) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *in.Key)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func newArchive(fake *objectFake) *S3Archive {
	return NewWithAPI(fake, "photos", "owner-1", logging.NewNopLogger())
}

func dataURL(mediaType string, payload []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

func TestArchive_UploadsDecodedPhoto(t *testing.T) {
	fake := &objectFake{}
	a := newArchive(fake)
	payload := []byte("not really a png")

	err := a.Archive(context.Background(), "p1", dataURL("image/png", payload))
	require.NoError(t, err)

	require.Len(t, fake.put, 1)
	in := fake.put[0]
	assert.Equal(t, "photos", *in.Bucket)
	assert.Equal(t, "owners/owner-1/p1.png", *in.Key)
	assert.Equal(t, "image/png", *in.ContentType)

	body, err := io.ReadAll(in.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, body)
}

func TestArchive_SkipsPlainURLs(t *testing.T) {
	fake := &objectFake{}
	a := newArchive(fake)

	err := a.Archive(context.Background(), "p1", "https://cdn.example.com/p1.jpg")
	require.NoError(t, err)
	assert.Empty(t, fake.put)
}

func TestArchive_RejectsUnknownMediaType(t *testing.T) {
	a := newArchive(&objectFake{})

	err := a.Archive(context.Background(), "p1", dataURL("image/gif", []byte("x")))
	require.Error(t, err)
}

func TestArchive_RejectsBadBase64(t *testing.T) {
	a := newArchive(&objectFake{})

	err := a.Archive(context.Background(), "p1", "data:image/png;base64,@@@@")
	require.Error(t, err)
}

func TestArchive_UploadFailurePropagates(t *testing.T) {
	fake := &objectFake{putErr: errors.New("bucket gone")}
	a := newArchive(fake)

	err := a.Archive(context.Background(), "p1", dataURL("image/jpeg", []byte("x")))
	require.Error(t, err)
}

func TestRemove_TriesEveryKnownExtension(t *testing.T) {
	fake := &objectFake{}
	a := newArchive(fake)

	require.NoError(t, a.Remove(context.Background(), "p1"))
	assert.Equal(t, []string{
		"owners/owner-1/p1.jpg",
		"owners/owner-1/p1.jpeg",
		"owners/owner-1/p1.png",
		"owners/owner-1/p1.webp",
	}, fake.deleted)
}

func TestRemove_SwallowsObjectErrors(t *testing.T) {
	fake := &objectFake{deleteErr: errors.New("no such key")}
	a := newArchive(fake)

	require.NoError(t, a.Remove(context.Background(), "p1"))
	assert.Len(t, fake.deleted, 4, "every extension is still attempted")
}
