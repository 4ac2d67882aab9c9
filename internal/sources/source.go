package sources

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"

	"parcel/internal/utils"
)

// RemoteFile is the narrow view of an opened remote object: the
// header-derived metadata plus the body stream. The download loop never
// sees the underlying client's response shape.
type RemoteFile struct {
	Name string
	Size int64 // 0 when the remote did not report a size
	Body io.ReadCloser
}

type Source interface {
	Open(ctx context.Context, rawURL string) (*RemoteFile, error)
}

// Registry dispatches URLs to the source that can serve their scheme.
type Registry struct {
	httpSource Source
	s3Source   Source
}

func NewRegistry(httpCfg utils.HTTPClientConfig) *Registry {
	return &Registry{
		httpSource: NewHTTPSource(httpCfg),
		s3Source:   &S3Source{},
	}
}

func (r *Registry) Open(ctx context.Context, rawURL string) (*RemoteFile, error) {
	if strings.HasPrefix(rawURL, "s3://") {
		return r.s3Source.Open(ctx, rawURL)
	}
	return r.httpSource.Open(ctx, rawURL)
}

// FileNameFromURL derives a usable file name from the last path segment
// of the URL, for remotes that name their payload no other way.
func FileNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		return ""
	}
	return utils.SanitizeFileName(name)
}
