package fileshare

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/relloyd/dpu/aws/s3"
	"github.com/relloyd/dpu/logger"
)

// ObjectStore is the part of the S3 client used for transfers.
type ObjectStore interface {
	s3.Downloader
	s3.BufferPutter
}

// S3Transfer moves files between S3 buckets and a file share.
type S3Transfer struct {
	Log     logger.Logger
	Share   FileShare
	Objects func(bucket string) ObjectStore
}

// S3ToShare downloads s3://bucket/key to a temp file and uploads it to share/folder/name.
// The remote name defaults to the last element of key.
func (x *S3Transfer) S3ToShare(ctx context.Context, bucket string, key string, share string, folder string, name string) error {
	if name == "" {
		name = path.Base(key)
	}
	f, err := ioutil.TempFile("", "dpu-share")
	if err != nil {
		return errors.Wrap(err, "error creating temp file")
	}
	defer os.Remove(f.Name())
	n, err := x.Objects(bucket).Download(ctx, key, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrapf(err, "error downloading s3://%v/%v", bucket, key)
	}
	x.Log.Debug("downloaded ", n, " bytes from s3://", bucket, "/", key)
	return x.Share.Upload(ctx, share, f.Name(), folder, name)
}

// ShareToS3 reads share/remotePath and puts it to s3://bucket/key.
func (x *S3Transfer) ShareToS3(ctx context.Context, share string, remotePath string, bucket string, key string) error {
	buf := &bytes.Buffer{}
	n, err := x.Share.Download(ctx, share, remotePath, buf)
	if err != nil {
		return err
	}
	if err = x.Objects(bucket).BufferPut(ctx, key, bytes.NewReader(buf.Bytes())); err != nil {
		return errors.Wrapf(err, "error writing s3://%v/%v", bucket, key)
	}
	x.Log.Info("copied ", n, " bytes from ", share, "/", remotePath, " to s3://", bucket, "/", key)
	return nil
}
