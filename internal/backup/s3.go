package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/saitej-a/Innobyte-services/internal/config"
	"github.com/saitej-a/Innobyte-services/internal/filex"
	"github.com/saitej-a/Innobyte-services/internal/logging"
)

// ObjectAPI is the part of *s3.Client the remote uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// S3Remote stores backup directories under backups/<uuid>/ in one bucket.
type S3Remote struct {
	client ObjectAPI
	bucket string
	log    logging.Logger
}

func NewS3Remote(client ObjectAPI, bucket string, log logging.Logger) *S3Remote {
	return &S3Remote{client: client, bucket: bucket, log: log}
}

// NewS3Client builds a client from cfg. Static credentials are used when
// both keys are set; otherwise the default AWS chain applies. A custom
// endpoint (MinIO and friends) switches to path-style addressing.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewBackupPrefix returns a fresh key prefix for one backup.
func NewBackupPrefix() string {
	return fmt.Sprintf("backups/%s/", uuid.New())
}

// Push uploads the table files found in dir under a new prefix and returns
// that prefix. Uploads run concurrently; the first failure cancels the rest.
func (r *S3Remote) Push(ctx context.Context, dir string) (string, error) {
	prefix := NewBackupPrefix()

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range Tables {
		local := filepath.Join(dir, FileName(name))
		if _, err := os.Stat(local); err != nil {
			continue
		}
		key := prefix + FileName(name)

		g.Go(func() error {
			return r.upload(gctx, local, key)
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	r.log.Info(ctx, "backup pushed", "bucket", r.bucket, "prefix", prefix)
	return prefix, nil
}

// Pull downloads every table file stored under prefix into dir.
func (r *S3Remote) Pull(ctx context.Context, prefix, dir string) ([]string, error) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}

	out, err := r.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	wanted := make(map[string]bool, len(Tables))
	for _, name := range Tables {
		wanted[FileName(name)] = true
	}

	var keys []string
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		if wanted[path.Base(key)] {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no backup files under %s", prefix)
	}

	paths := make([]string, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		paths[i] = filepath.Join(dir, path.Base(key))
		g.Go(func() error {
			return r.download(gctx, key, paths[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.log.Info(ctx, "backup pulled", "bucket", r.bucket, "prefix", prefix, "files", len(paths))
	return paths, nil
}

func (r *S3Remote) upload(ctx context.Context, local, key string) error {
	f, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("open %s: %w", local, err)
	}
	defer f.Close()

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (r *S3Remote) download(ctx context.Context, key, local string) error {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	return filex.WriteFileAtomic(local, data, 0o600)
}
