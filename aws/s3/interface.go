//go:generate mockgen -package mocks -destination mocks/interface.go -source=interface.go
package s3

import (
	"context"
	"errors"
	"io"
)

var ErrKeyNotFound = errors.New("key not found")

type BasicClient interface {
	Lister
	Getter
	Putter
	BufferPutter
	Deleter
	Downloader
}

type Lister interface {
	List(ctx context.Context, key string) (keys []string, err error)
}

type Getter interface {
	// Get returns ErrKeyNotFound if the given key doesn't exist.
	Get(ctx context.Context, key string) (data []byte, err error)
}

type Putter interface {
	Put(ctx context.Context, key string, data []byte) (err error)
}

// BufferPutter can be used to put a file to S3 since File implements Read and Seek.
type BufferPutter interface {
	BufferPut(ctx context.Context, key string, buf io.ReadSeeker) (err error)
}

type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Downloader writes an object to w, which is usually an *os.File.
type Downloader interface {
	Download(ctx context.Context, key string, w io.WriterAt) (n int64, err error)
}
