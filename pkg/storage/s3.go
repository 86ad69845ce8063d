package storage

import (
	"context"
	"errors"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/transport/http"
	"k8s.io/utils/pointer"
	loraserveerrors "loraserve.io/loraserve/pkg/errors"
)

type S3Options struct {
	URL       string `json:"url,omitempty"`
	Region    string `json:"region,omitempty"`
	Bucket    string `json:"bucket,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
	AccessKey string `json:"accessKey,omitempty"`
	SecretKey string `json:"secretKey,omitempty"`
	PathStyle bool   `json:"pathStyle,omitempty"`
}

func NewDefaultS3Options() *S3Options {
	return &S3Options{
		Bucket:    "loraserve",
		Region:    "us-east-1",
		PathStyle: false,
	}
}

var _ Provider = &S3Provider{}

type S3Provider struct {
	Bucket string
	Prefix string
	Client *s3.Client
}

func NewS3Provider(ctx context.Context, options *S3Options) (*S3Provider, error) {
	loadopts := []func(*config.LoadOptions) error{
		config.WithRegion(options.Region),
	}
	if options.AccessKey != "" {
		loadopts = append(loadopts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKey, options.SecretKey, ""),
		))
	}
	if options.URL != "" {
		loadopts = append(loadopts, config.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(
				func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{URL: options.URL}, nil
				},
			),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadopts...)
	if err != nil {
		return nil, err
	}
	s3cli := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = options.PathStyle
	})
	return &S3Provider{
		Bucket: options.Bucket,
		Prefix: options.Prefix,
		Client: s3cli,
	}, nil
}

func (m *S3Provider) Put(ctx context.Context, path string, content Content) error {
	uploadobj := &s3.PutObjectInput{
		Bucket:        aws.String(m.Bucket),
		Key:           m.prefixedKey(path),
		Body:          content.Content,
		ContentLength: content.ContentLength,
		ContentType:   aws.String(content.ContentType),
	}
	if _, err := manager.NewUploader(m.Client).Upload(ctx, uploadobj); err != nil {
		return loraserveerrors.NewInternalError(err)
	}
	return nil
}

func (m *S3Provider) Get(ctx context.Context, path string) (*Content, error) {
	getobjout, err := m.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.Bucket),
		Key:    m.prefixedKey(path),
	})
	if err != nil {
		if IsS3NotFound(err) {
			return nil, os.ErrNotExist
		}
		return nil, err
	}
	return &Content{
		Content:       getobjout.Body,
		ContentType:   pointer.StringDeref(getobjout.ContentType, ""),
		ContentLength: getobjout.ContentLength,
	}, nil
}

func (m *S3Provider) Exists(ctx context.Context, path string) (bool, error) {
	_, err := m.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(m.Bucket),
		Key:    m.prefixedKey(path),
	})
	if err != nil {
		if IsS3NotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *S3Provider) Stat(ctx context.Context, path string) (ObjectMeta, error) {
	headobjout, err := m.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(m.Bucket),
		Key:    m.prefixedKey(path),
	})
	if err != nil {
		if IsS3NotFound(err) {
			return ObjectMeta{}, os.ErrNotExist
		}
		return ObjectMeta{}, err
	}
	return ObjectMeta{
		Name:         path,
		Size:         headobjout.ContentLength,
		LastModified: derefTime(headobjout.LastModified),
		ContentType:  pointer.StringDeref(headobjout.ContentType, ""),
	}, nil
}

func (m *S3Provider) List(ctx context.Context, path string, recursive bool) ([]ObjectMeta, error) {
	prefix := *m.prefixedKey(path)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	listinput := &s3.ListObjectsInput{
		Bucket: aws.String(m.Bucket),
		Prefix: aws.String(prefix),
	}
	if !recursive {
		listinput.Delimiter = aws.String("/")
	}
	var result []ObjectMeta
	for {
		listobjout, err := m.Client.ListObjects(ctx, listinput)
		if err != nil {
			return nil, err
		}
		for _, obj := range listobjout.Contents {
			result = append(result, ObjectMeta{
				Name:         strings.TrimPrefix(*obj.Key, prefix),
				Size:         obj.Size,
				LastModified: derefTime(obj.LastModified),
			})
		}
		if !listobjout.IsTruncated {
			break
		}
		listinput.Marker = listobjout.NextMarker
	}
	return result, nil
}

func (m *S3Provider) ListDirs(ctx context.Context, path string) ([]string, error) {
	prefix := *m.prefixedKey(path)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	listinput := &s3.ListObjectsInput{
		Bucket:    aws.String(m.Bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	}
	var dirs []string
	for {
		listobjout, err := m.Client.ListObjects(ctx, listinput)
		if err != nil {
			return nil, err
		}
		for _, cp := range listobjout.CommonPrefixes {
			leaf := strings.TrimSuffix(strings.TrimPrefix(*cp.Prefix, prefix), "/")
			if leaf != "" {
				dirs = append(dirs, leaf)
			}
		}
		if !listobjout.IsTruncated {
			break
		}
		listinput.Marker = listobjout.NextMarker
	}
	return dirs, nil
}

func (m *S3Provider) Remove(ctx context.Context, path string, recursive bool) error {
	if !recursive {
		_, err := m.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.Bucket),
			Key:    m.prefixedKey(path),
		})
		return err
	}
	prefix := m.prefixedKey(path)
	if !strings.HasSuffix(*prefix, "/") {
		*prefix += "/"
	}
	output, err := m.Client.ListObjects(ctx, &s3.ListObjectsInput{
		Bucket: aws.String(m.Bucket),
		Prefix: prefix,
	})
	if err != nil {
		return err
	}
	if len(output.Contents) == 0 {
		return nil
	}
	objectids := make([]s3types.ObjectIdentifier, 0, len(output.Contents))
	for _, object := range output.Contents {
		objectids = append(objectids, s3types.ObjectIdentifier{Key: object.Key})
	}
	_, err = m.Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(m.Bucket),
		Delete: &s3types.Delete{Objects: objectids},
	})
	return err
}

func IsS3NotFound(err error) bool {
	var apie *http.ResponseError
	if errors.As(err, &apie) {
		return apie.HTTPStatusCode() == 404
	}
	return false
}

func (m *S3Provider) prefixedKey(key string) *string {
	return aws.String(path.Join(m.Prefix, key))
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
