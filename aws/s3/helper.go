package s3

import (
	"fmt"
	"net/url"
	"strings"
)

// Location is a bucket and key pair.
type Location struct {
	Bucket string `errorTxt:"bucket name" mandatory:"yes"`
	Key    string `errorTxt:"object key"`
}

func (l Location) String() string {
	return fmt.Sprintf("s3://%v/%v", l.Bucket, l.Key)
}

// ParseUrl expects s to be of the form [s3://]<bucket>/<key>
// It returns a Location populated with the components of s.
func ParseUrl(s string) (retval Location, err error) {
	expectedScheme := "s3"
	if !strings.Contains(s, "://") {
		s = expectedScheme + "://" + s
	}
	s3url, err := url.Parse(s)
	if err != nil {
		return retval, fmt.Errorf("error parsing S3 URL: %v", err)
	}
	if s3url.Scheme != expectedScheme {
		return retval, fmt.Errorf("expected S3 URL scheme %q but got %q", expectedScheme, s3url.Scheme)
	}
	retval.Bucket = s3url.Host
	if retval.Bucket == "" {
		return retval, fmt.Errorf("failed to parse bucket name from %q", s)
	}
	retval.Key = strings.TrimLeft(s3url.Path, "/")
	return
}
