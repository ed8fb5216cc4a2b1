package email

import (
	"context"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/relloyd/dpu/aws/s3"
	"github.com/relloyd/dpu/aws/ses"
	"github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/logger"
)

// ObjectFetcher is the part of the S3 client needed for attachments.
type ObjectFetcher interface {
	s3.Lister
	s3.Downloader
}

type Sender struct {
	Log         logger.Logger
	SES         ses.RawSender
	Objects     func(bucket string) ObjectFetcher
	IdentityArn string // defaults to constants.EmailSourceArnDefault.
}

// Send sends one email to all recipients and returns the SES message id.
func (s *Sender) Send(ctx context.Context, m Message) (string, error) {
	raw, err := BuildMessage(m)
	if err != nil {
		return "", errors.Wrap(err, "error building email")
	}
	arn := s.IdentityArn
	if arn == "" {
		arn = constants.EmailSourceArnDefault
	}
	id, err := s.SES.SendRawEmail(ctx, ses.RawEmail{From: m.From, IdentityArn: arn, To: m.To, Data: raw})
	if err != nil {
		return "", err
	}
	s.Log.Info("sent email ", id, " to ", len(m.To), " recipients")
	return id, nil
}

// SendWithS3Attachments downloads each key that exists in bucket and attaches it to m.
// Missing keys are skipped. When nothing could be attached the bodies are prefixed with a no-data note.
func (s *Sender) SendWithS3Attachments(ctx context.Context, m Message, bucket string, keys []string) (string, error) {
	dir, err := ioutil.TempDir("", "dpu-email")
	if err != nil {
		return "", errors.Wrap(err, "error creating temp dir for attachments")
	}
	defer os.RemoveAll(dir)
	objects := s.Objects(bucket)
	attachments := make([]string, 0, len(keys))
	for _, key := range keys {
		ok, err := s3.Exists(ctx, objects, key)
		if err != nil {
			return "", err
		}
		if !ok {
			s.Log.Warn("skipping missing attachment s3://", bucket, "/", key)
			continue
		}
		p := filepath.Join(dir, path.Base(key))
		if err = download(ctx, objects, key, p); err != nil {
			return "", err
		}
		attachments = append(attachments, p)
	}
	m.Attachments = append(append([]string{}, m.Attachments...), attachments...)
	if len(attachments) == 0 {
		m = withNoDataNote(m)
	}
	return s.Send(ctx, m)
}

func download(ctx context.Context, d s3.Downloader, key string, p string) error {
	f, err := os.Create(p)
	if err != nil {
		return errors.Wrapf(err, "error creating %v", p)
	}
	defer f.Close()
	if _, err = d.Download(ctx, key, f); err != nil {
		return errors.Wrapf(err, "error downloading %v", key)
	}
	return nil
}

func withNoDataNote(m Message) Message {
	if m.Text == "" && m.Html == "" {
		m.Text = constants.EmailNoDataPrefix
		return m
	}
	if m.Text != "" {
		m.Text = constants.EmailNoDataPrefix + m.Text
	}
	if m.Html != "" {
		m.Html = constants.EmailNoDataPrefix + m.Html
	}
	return m
}
