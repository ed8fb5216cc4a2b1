package s3

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/relloyd/dpu/errs"
)

const serviceName = "s3"

func NewBasicClient(sess client.ConfigProvider, bucket, prefix string) BasicClient {
	return NewBasicClientWithAPI(s3.New(sess), bucket, prefix)
}

func NewBasicClientWithAPI(api s3iface.S3API, bucket, prefix string) BasicClient {
	return &basicClient{
		bucket:     bucket,
		prefix:     prefix,
		api:        api,
		downloader: s3manager.NewDownloaderWithClient(api),
	}
}

type basicClient struct {
	bucket     string
	prefix     string
	api        s3iface.S3API
	downloader *s3manager.Downloader
}

func (s *basicClient) List(ctx context.Context, key string) (keys []string, err error) {
	keys = make([]string, 0, 1000)
	lastKey := ""
	for {
		params := &s3.ListObjectsInput{
			Bucket:  aws.String(s.bucket),
			Marker:  aws.String(lastKey),
			MaxKeys: aws.Int64(1000),
			Prefix:  aws.String(s.getKeyWithPrefix(key)),
		}
		resp, err := s.api.ListObjectsWithContext(ctx, params)
		if err != nil {
			return nil, errs.External(serviceName, "list", err)
		}
		for _, v := range resp.Contents {
			keys = append(keys, aws.StringValue(v.Key))
		}
		if len(keys) > 0 {
			lastKey = keys[len(keys)-1]
		}
		if !aws.BoolValue(resp.IsTruncated) {
			break
		}
	}
	return
}

func (s *basicClient) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := s.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getKeyWithPrefix(key)),
	})
	if err != nil {
		if awsErr, ok := err.(awserr.Error); ok && awsErr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrKeyNotFound
		}
		return nil, errs.External(serviceName, "get", err)
	}
	defer res.Body.Close()
	b, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, errs.External(serviceName, "get", err)
	}
	return b, nil
}

func (s *basicClient) Put(ctx context.Context, key string, data []byte) error {
	return s.BufferPut(ctx, key, bytes.NewReader(data))
}

func (s *basicClient) BufferPut(ctx context.Context, key string, dataBuf io.ReadSeeker) error {
	_, err := s.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getKeyWithPrefix(key)),
		Body:   dataBuf,
	})
	return errs.External(serviceName, "put", err)
}

func (s *basicClient) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getKeyWithPrefix(key)),
	})
	return errs.External(serviceName, "delete", err)
}

func (s *basicClient) Download(ctx context.Context, key string, w io.WriterAt) (int64, error) {
	n, err := s.downloader.DownloadWithContext(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getKeyWithPrefix(key)),
	})
	if err != nil {
		if awsErr, ok := err.(awserr.Error); ok && awsErr.Code() == s3.ErrCodeNoSuchKey {
			return 0, ErrKeyNotFound
		}
		return 0, errs.External(serviceName, "download", err)
	}
	return n, nil
}

func (s *basicClient) getKeyWithPrefix(key string) string {
	if s.prefix != "" {
		return strings.TrimRight(s.prefix, "/") + "/" + key // ensure trailing slash after prefix.
	} else {
		return key
	}
}

// Exists returns true if at least one object has key as its prefix.
func Exists(ctx context.Context, l Lister, key string) (bool, error) {
	keys, err := l.List(ctx, key)
	if err != nil {
		return false, err
	}
	return len(keys) > 0, nil
}
