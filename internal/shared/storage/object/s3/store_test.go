package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	puts    []*s3.PutObjectInput
	bodies  map[string]string
	failPut error
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.bodies == nil {
		f.bodies = map[string]string{}
	}
	f.bodies[aws.ToString(in.Key)] = string(data)
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.bodies[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestFullKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "ns/idea.md", want: "ns/idea.md"},
		{name: "simple prefix", prefix: "attachments", key: "ns/idea.md", want: "attachments/ns/idea.md"},
		{name: "prefix and key slashes", prefix: " /attachments/ ", key: "/ns/idea.md", want: "attachments/ns/idea.md"},
		{name: "nested prefix", prefix: "brainplan/dev", key: "ns/idea.md.extracted.txt", want: "brainplan/dev/ns/idea.md.extracted.txt"},
		{name: "empty key", prefix: "attachments", key: "", want: "attachments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store, err := NewWithClient(&fakeAPI{}, Options{Bucket: "b", Prefix: tt.prefix})
			require.NoError(t, err)
			assert.Equal(t, tt.want, store.fullKey(tt.key))
		})
	}
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(t.Context(), "eu-central-1", Options{Bucket: "  "})
	assert.Error(t, err)
	_, err = NewWithClient(&fakeAPI{}, Options{})
	assert.Error(t, err)
}

func TestSaveUploadsWithMetadataAndEncryption(t *testing.T) {
	api := &fakeAPI{}
	store, err := NewWithClient(api, Options{Bucket: "ideas", Prefix: "dev"})
	require.NoError(t, err)

	obj, err := store.Save(t.Context(), "session-1", "notes.txt", strings.NewReader("hello world"))
	require.NoError(t, err)

	assert.Equal(t, int64(len("hello world")), obj.Size)
	assert.True(t, strings.HasPrefix(obj.ContentType, "text/plain"))
	require.Len(t, api.puts, 1)
	put := api.puts[0]
	assert.Equal(t, "ideas", aws.ToString(put.Bucket))
	assert.Equal(t, "dev/"+obj.Key, aws.ToString(put.Key))
	assert.Equal(t, "notes.txt", put.Metadata["original-name"])
	assert.Equal(t, s3types.ServerSideEncryptionAes256, put.ServerSideEncryption)

	rc, err := store.Open(t.Context(), obj.Key)
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "hello world", string(body))
}

func TestSaveWithKeyUsesKMSWhenConfigured(t *testing.T) {
	api := &fakeAPI{}
	store, err := NewWithClient(api, Options{Bucket: "ideas", KMSKeyID: " key-1 "})
	require.NoError(t, err)

	n, err := store.SaveWithKey(t.Context(), "ns/a.txt.extracted.txt", "text/plain; charset=utf-8", strings.NewReader("text"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	put := api.puts[0]
	assert.Equal(t, s3types.ServerSideEncryptionAwsKms, put.ServerSideEncryption)
	assert.Equal(t, "key-1", aws.ToString(put.SSEKMSKeyId))
	assert.Nil(t, put.Metadata)
}

func TestUploadErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	store, err := NewWithClient(&fakeAPI{failPut: boom}, Options{Bucket: "ideas"})
	require.NoError(t, err)

	_, err = store.SaveWithKey(t.Context(), "k", "text/plain", strings.NewReader("x"))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "s3://ideas/k")

	_, err = store.Open(t.Context(), "missing")
	var nsk *s3types.NoSuchKey
	assert.ErrorAs(t, err, &nsk)
}
