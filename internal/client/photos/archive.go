// Package photos mirrors profile photos into S3-compatible object storage.
// The archive is a secondary copy next to the inline data URL kept in the
// profile record itself; every operation here is best-effort and the caller
// treats failures as soft.
package photos

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sittersafe/carelog/internal/logging"
)

// ObjectAPI is the slice of the S3 client the archive needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Settings carries the object storage connection parameters. Endpoint is
// optional; when set it points the client at a MinIO or Supabase storage
// endpoint instead of AWS proper.
type Settings struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

var extByMediaType = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// knownExts is every extension Archive may have written for a profile.
var knownExts = []string{"jpg", "jpeg", "png", "webp"}

// S3Archive stores photos under owners/<owner>/<profile>.<ext>.
type S3Archive struct {
	api     ObjectAPI
	bucket  string
	ownerID string
	log     logging.Logger
}

// New builds an archive backed by a real S3 client.
func New(ctx context.Context, ownerID string, st Settings, log logging.Logger) (*S3Archive, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(st.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			st.AccessKey,
			st.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading object storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if st.Endpoint != "" {
			o.BaseEndpoint = aws.String(st.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewWithAPI(client, st.Bucket, ownerID, log), nil
}

// NewWithAPI builds an archive over an existing client, for tests.
func NewWithAPI(api ObjectAPI, bucket, ownerID string, log logging.Logger) *S3Archive {
	return &S3Archive{api: api, bucket: bucket, ownerID: ownerID, log: log}
}

// Archive uploads an inline data-URL photo. Photos that are already plain
// URLs have nothing to archive and are skipped.
func (a *S3Archive) Archive(ctx context.Context, profileID, photo string) error {
	data, mediaType, err := decodeDataURL(photo)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	ext, ok := extByMediaType[mediaType]
	if !ok {
		return fmt.Errorf("unsupported photo media type %q", mediaType)
	}

	key := a.key(profileID, ext)
	_, err = a.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mediaType),
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return nil
}

// Remove deletes every object the profile may have. The extension at upload
// time is not tracked, so all known ones are tried; per-object failures are
// logged and swallowed.
func (a *S3Archive) Remove(ctx context.Context, profileID string) error {
	for _, ext := range knownExts {
		key := a.key(profileID, ext)
		_, err := a.api.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(a.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			a.log.Debug(ctx, "photo object delete failed", "key", key, "error", err)
		}
	}
	return nil
}

func (a *S3Archive) key(profileID, ext string) string {
	return path.Join("owners", a.ownerID, profileID+"."+ext)
}

// decodeDataURL splits a data:<mediatype>;base64,<payload> URL. A (nil, "",
// nil) return means the input is not a data URL at all.
func decodeDataURL(photo string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(photo, "data:")
	if !ok {
		return nil, "", nil
	}
	mediaType, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, "", fmt.Errorf("photo data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decoding photo payload: %w", err)
	}
	return data, mediaType, nil
}
