package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanKey(t *testing.T) {
	for _, bad := range []string{"", "/", "../etc/passwd", "a/../../b", "."} {
		_, err := cleanKey(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}
	k, err := cleanKey("/products//12/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, "products/12/cover.jpg", k)
}

func TestLocalDisk(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d := NewLocal(root, "http://cdn.test/storage/")

	require.NoError(t, d.Put(ctx, "products/1/a.jpg", strings.NewReader("img"), "image/jpeg"))
	data, err := os.ReadFile(filepath.Join(root, "products", "1", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	ok, err := d.Exists(ctx, "products/1/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://cdn.test/storage/products/1/a.jpg", d.URL("products/1/a.jpg"))

	require.NoError(t, d.Delete(ctx, "products/1/a.jpg"))
	require.NoError(t, d.Delete(ctx, "products/1/a.jpg"))
	ok, _ = d.Exists(ctx, "products/1/a.jpg")
	assert.False(t, ok)

	assert.ErrorIs(t, d.Put(ctx, "../escape", strings.NewReader("x"), ""), ErrInvalidPath)
}

type fakeS3 struct {
	objects map[string]string
	types   map[string]string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, _ := io.ReadAll(in.Body)
	f.objects[*in.Key] = string(b)
	if in.ContentType != nil {
		f.types[*in.Key] = *in.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if *in.Key == "boom" {
		return nil, errors.New("network down")
	}
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Disk(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string]string{}, types: map[string]string{}}
	d := &S3{client: fake, bucket: "b", baseURL: "https://b.s3.us-east-1.amazonaws.com"}

	require.NoError(t, d.Put(ctx, "/products/2/x.png", strings.NewReader("png"), "image/png"))
	assert.Equal(t, "png", fake.objects["products/2/x.png"])
	assert.Equal(t, "image/png", fake.types["products/2/x.png"])

	ok, err := d.Exists(ctx, "products/2/x.png")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, d.Delete(ctx, "products/2/x.png"))
	ok, err = d.Exists(ctx, "products/2/x.png")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = d.Exists(ctx, "boom")
	assert.Error(t, err)
	assert.Equal(t, "https://b.s3.us-east-1.amazonaws.com/products/2/x.png", d.URL("products/2/x.png"))
}
