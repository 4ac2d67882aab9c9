package sources

import (
	"context"
	"mime"
	"net/http"

	"parcel/internal/utils"
)

type HTTPSource struct {
	client *utils.HTTPClient
}

func NewHTTPSource(cfg utils.HTTPClientConfig) *HTTPSource {
	return &HTTPSource{client: utils.NewHTTPClient(cfg)}
}

func (h *HTTPSource) Open(ctx context.Context, rawURL string) (*RemoteFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &utils.NetworkError{URL: rawURL, Err: err}
	}
	req.Header.Set("Connection", "keep-alive")
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &utils.NetworkError{URL: rawURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &utils.NetworkError{URL: rawURL, Status: resp.StatusCode}
	}
	size := resp.ContentLength
	if size < 0 {
		size = 0
	}
	name := fileNameFromDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = FileNameFromURL(rawURL)
	}
	return &RemoteFile{
		Name: name,
		Size: size,
		Body: resp.Body,
	}, nil
}

// fileNameFromDisposition extracts the file name from a
// Content-Disposition header. ParseMediaType decodes RFC 2231
// filename* parameters into the filename key.
func fileNameFromDisposition(contentDisposition string) string {
	if contentDisposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil {
		return ""
	}
	if fn := params["filename"]; fn != "" {
		return utils.SanitizeFileName(fn)
	}
	return ""
}
