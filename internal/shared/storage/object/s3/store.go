package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"brainplan/internal/shared/storage/object"
)

// API is the subset of the S3 client the store calls.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Options configures where attachments land in the bucket.
type Options struct {
	Bucket string
	// Prefix is prepended to every key, e.g. "brainplan/dev".
	Prefix string
	// KMSKeyID selects SSE-KMS; empty falls back to SSE-S3.
	KMSKeyID string
}

// Store archives attachments in an S3 bucket.
type Store struct {
	api  API
	opts Options
}

// New loads the default AWS credential chain and returns a Store.
func New(ctx context.Context, region string, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewWithClient(s3.NewFromConfig(cfg), opts)
}

// NewWithClient wraps an existing client.
func NewWithClient(api API, opts Options) (*Store, error) {
	opts.Bucket = strings.TrimSpace(opts.Bucket)
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	opts.Prefix = strings.Trim(strings.TrimSpace(opts.Prefix), "/")
	opts.KMSKeyID = strings.TrimSpace(opts.KMSKeyID)
	return &Store{api: api, opts: opts}, nil
}

// Save uploads r under a fresh key and records the client file name as
// object metadata.
func (s *Store) Save(ctx context.Context, namespace string, fileName string, r io.Reader) (object.Object, error) {
	key, err := object.NewKey(namespace, fileName)
	if err != nil {
		return object.Object{}, err
	}
	contentType, body, err := object.Sniff(r)
	if err != nil {
		return object.Object{}, err
	}
	size, err := s.upload(ctx, key, contentType, body, map[string]string{"original-name": fileName})
	if err != nil {
		return object.Object{}, err
	}
	return object.Object{Key: key, Size: size, ContentType: contentType}, nil
}

func (s *Store) SaveWithKey(ctx context.Context, key string, contentType string, r io.Reader) (int64, error) {
	return s.upload(ctx, key, contentType, r, nil)
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := s.fullKey(key)
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(full),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get s3://%s/%s: %w", s.opts.Bucket, full, err)
	}
	return out.Body, nil
}

func (s *Store) upload(ctx context.Context, key, contentType string, r io.Reader, meta map[string]string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	full := s.fullKey(key)
	body := &meter{r: r}

	in := &s3.PutObjectInput{
		Bucket:               aws.String(s.opts.Bucket),
		Key:                  aws.String(full),
		Body:                 body,
		ContentType:          aws.String(contentType),
		Metadata:             meta,
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	}
	if s.opts.KMSKeyID != "" {
		in.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		in.SSEKMSKeyId = aws.String(s.opts.KMSKeyID)
	}
	if _, err := s.api.PutObject(ctx, in); err != nil {
		return 0, fmt.Errorf("s3 put s3://%s/%s: %w", s.opts.Bucket, full, err)
	}
	return body.n, nil
}

func (s *Store) fullKey(key string) string {
	key = strings.TrimLeft(key, "/")
	switch {
	case s.opts.Prefix == "":
		return key
	case key == "":
		return s.opts.Prefix
	default:
		return s.opts.Prefix + "/" + key
	}
}

// meter counts bytes as the SDK streams the body.
type meter struct {
	r io.Reader
	n int64
}

func (m *meter) Read(p []byte) (int, error) {
	n, err := m.r.Read(p)
	m.n += int64(n)
	return n, err
}

var _ object.Store = (*Store)(nil)
