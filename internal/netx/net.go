// Package netx holds HTTP helpers for talking to object storage through
// presigned URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ProgressFunc receives the number of bytes sent so far and the total size.
type ProgressFunc func(sent, total int64)

// HTTPClient is the client used for presigned transfers.
var HTTPClient = &http.Client{}

type progressReader struct {
	r        io.Reader
	sent     int64
	total    int64
	progress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.progress != nil {
			p.progress(p.sent, p.total)
		}
	}
	return n, err
}

// UploadToPresignedURL PUTs size bytes read from r to url. progress, when not
// nil, is called as the body is consumed.
func UploadToPresignedURL(ctx context.Context, url, contentType string, r io.Reader, size int64, progress ProgressFunc) error {
	body := &progressReader{r: r, total: size, progress: progress}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
