package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Config identifies the bucket and credentials for the object-store
// backend. EndpointURL supports S3-compatible stores (MinIO, R2, Spaces).
type S3Config struct {
	Bucket      string
	Region      string
	EndpointURL string
	AccessKey   string
	SecretKey   string
	// Prefix is an optional key prefix placed in front of every logical
	// path, letting several sites share one bucket.
	Prefix string
}

// S3Store implements Store over an S3-compatible bucket. The client is
// safe for concurrent use and is reused across requests.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

var _ Store = (*S3Store)(nil)

// NewS3Store builds an S3Store from cfg. When AccessKey/SecretKey are set
// they are used as static credentials; otherwise the SDK's default chain
// applies (instance roles, env, shared config).
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, NewUnavailableError("s3", "LoadConfig", 0, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// Path-style addressing is what MinIO and friends expect.
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// key maps a logical path to an object key.
func (s *S3Store) key(p string) (string, error) {
	clean, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return clean, nil
	}
	if clean == "" {
		return s.prefix, nil
	}
	return s.prefix + "/" + clean, nil
}

// rel strips the configured prefix back off a returned object key.
func (s *S3Store) rel(key string) string {
	if s.prefix != "" {
		key = strings.TrimPrefix(key, s.prefix+"/")
	}
	return key
}

func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return true
		}
	}
	return false
}

func (s *S3Store) Get(ctx context.Context, path string) ([]byte, error) {
	key, err := s.key(path)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotExist
		}
		return nil, NewUnavailableError("s3", "Get", 0, err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, out.Body); err != nil {
		return nil, NewUnavailableError("s3", "Get", 0, err)
	}
	return buf.Bytes(), nil
}

func (s *S3Store) GetText(ctx context.Context, path string) (string, error) {
	data, err := s.Get(ctx, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *S3Store) Put(ctx context.Context, path string, data []byte) error {
	key, err := s.key(path)
	if err != nil {
		return err
	}
	// A single PutObject is atomic on the object-store side: readers see
	// the previous version or this one.
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return NewUnavailableError("s3", "Put", 0, err)
	}
	return nil
}

func (s *S3Store) PutText(ctx context.Context, path string, text string) error {
	return s.Put(ctx, path, []byte(text))
}

func (s *S3Store) Exists(ctx context.Context, path string) (bool, error) {
	key, err := s.key(path)
	if err != nil {
		return false, err
	}
	if key == "" || key == s.prefix {
		// The bucket root always "exists"; reachability problems surface
		// on the first real operation as UnavailableError.
		return true, nil
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, NewUnavailableError("s3", "Exists", 0, err)
	}
	return true, nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]Entry, error) {
	key, err := s.key(prefix)
	if err != nil {
		return nil, err
	}
	keyPrefix := key
	if keyPrefix != "" {
		keyPrefix += "/"
	}

	entries := []Entry{}
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(keyPrefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, NewUnavailableError("s3", "List", 0, err)
		}
		for _, cp := range page.CommonPrefixes {
			p := strings.TrimSuffix(aws.ToString(cp.Prefix), "/")
			entries = append(entries, Entry{Path: s.rel(p), IsDir: true})
		}
		for _, obj := range page.Contents {
			k := aws.ToString(obj.Key)
			if k == keyPrefix {
				// Skip the zero-byte directory marker itself.
				continue
			}
			e := Entry{Path: s.rel(k), Size: aws.ToInt64(obj.Size)}
			if obj.LastModified != nil {
				e.LastModified = *obj.LastModified
			}
			entries = append(entries, e)
		}
	}
	sortEntries(entries)
	return entries, nil
}

func (s *S3Store) Delete(ctx context.Context, path string) error {
	key, err := s.key(path)
	if err != nil {
		return err
	}
	// DeleteObject on a missing key succeeds, which matches the contract.
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return NewUnavailableError("s3", "Delete", 0, err)
	}
	return nil
}

func (s *S3Store) CreateDir(ctx context.Context, path string) error {
	key, err := s.key(path)
	if err != nil {
		return err
	}
	if key == "" {
		return nil
	}
	// Object stores have no directories; drop a conventional zero-byte
	// marker so the prefix shows up in listings.
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key + "/"),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return NewUnavailableError("s3", "CreateDir", 0, err)
	}
	return nil
}

func (s *S3Store) DeleteDir(ctx context.Context, path string) error {
	key, err := s.key(path)
	if err != nil {
		return err
	}
	if key == "" {
		return ErrInvalidPath
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(key + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return NewUnavailableError("s3", "DeleteDir", 0, err)
		}
		if len(page.Contents) == 0 {
			continue
		}
		objs := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			objs = append(objs, types.ObjectIdentifier{Key: obj.Key})
		}
		_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: objs, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return NewUnavailableError("s3", "DeleteDir", 0, err)
		}
	}
	return nil
}

// String identifies the backend in logs.
func (s *S3Store) String() string {
	if s.prefix != "" {
		return "s3:" + s.bucket + "/" + s.prefix
	}
	return "s3:" + s.bucket
}
