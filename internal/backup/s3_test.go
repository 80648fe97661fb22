package backup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saitej-a/Innobyte-services/internal/config"
	"github.com/saitej-a/Innobyte-services/internal/logging"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string][]byte)}
}

func (f *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeBucket) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &s3.ListObjectsV2Output{}
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
		}
	}
	return out, nil
}

func writeBackupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range Tables {
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName(name)), []byte(name+"-data"), 0o600))
	}
	return dir
}

func TestPushPull_RoundTrip(t *testing.T) {
	bucket := newFakeBucket()
	remote := NewS3Remote(bucket, "ledger", logging.Nop())
	ctx := context.Background()

	prefix, err := remote.Push(ctx, writeBackupDir(t))
	require.NoError(t, err)
	assert.Regexp(t, `^backups/[0-9a-f-]{36}/$`, prefix)
	assert.Len(t, bucket.objects, 3)

	// unrelated object under the same prefix is ignored
	bucket.objects[prefix+"notes.txt"] = []byte("x")

	out := filepath.Join(t.TempDir(), "restore")
	paths, err := remote.Pull(ctx, strings.TrimSuffix(prefix, "/"), out)
	require.NoError(t, err)
	assert.Len(t, paths, 3)

	data, err := os.ReadFile(filepath.Join(out, "transactions.csv"))
	require.NoError(t, err)
	assert.Equal(t, "transactions-data", string(data))
}

func TestPush_PrefixesAreUnique(t *testing.T) {
	assert.NotEqual(t, NewBackupPrefix(), NewBackupPrefix())
}

func TestPush_UploadError(t *testing.T) {
	bucket := newFakeBucket()
	bucket.putErr = errors.New("access denied")

	_, err := NewS3Remote(bucket, "ledger", logging.Nop()).Push(context.Background(), writeBackupDir(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestPull_EmptyPrefix(t *testing.T) {
	_, err := NewS3Remote(newFakeBucket(), "ledger", logging.Nop()).
		Pull(context.Background(), "backups/missing/", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no backup files")
}

func TestNewS3Client_CustomEndpoint(t *testing.T) {
	c, err := NewS3Client(context.Background(), config.S3Config{
		Bucket:    "ledger",
		Region:    "eu-west-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)

	opts := c.Options()
	assert.Equal(t, "eu-west-1", opts.Region)
	assert.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)

	creds, err := opts.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minio", creds.AccessKeyID)
}

func TestNewS3Client_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no profile")
	}

	_, err := NewS3Client(context.Background(), config.S3Config{Region: "us-east-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profile")
}
