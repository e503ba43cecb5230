package client

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/campushire/internal/netx"
)

// UploadEvent is one step of an upload. The last event on the channel has
// Done set and carries either the download URL or the error.
type UploadEvent struct {
	Progress float64
	URL      string
	Err      error
	Done     bool
}

type Uploader struct {
	blobs BlobClient
	put   func(ctx context.Context, url, contentType string, r io.Reader, size int64, progress netx.ProgressFunc) error
}

func NewUploader(blobs BlobClient) *Uploader {
	return &Uploader{blobs: blobs, put: netx.UploadToPresignedURL}
}

// Upload stores size bytes from r at path in the blob store. The returned
// channel is closed after the final event. Once ctx is done and nobody reads,
// the final event is dropped and the channel is closed without it.
func (u *Uploader) Upload(ctx context.Context, path, contentType string, r io.Reader, size int64) <-chan UploadEvent {
	ch := make(chan UploadEvent, 8)

	send := func(ev UploadEvent) {
		if ev.Done {
			select {
			case ch <- ev:
			case <-ctx.Done():
			}
			return
		}
		select {
		case ch <- ev:
		case <-ctx.Done():
		default:
			// a slow reader only misses intermediate progress
		}
	}

	go func() {
		defer close(ch)

		url, err := u.upload(ctx, path, contentType, r, size, send)
		if err != nil {
			send(UploadEvent{Err: err, Done: true})
			return
		}
		send(UploadEvent{Progress: 1, URL: url, Done: true})
	}()

	return ch
}

func (u *Uploader) upload(ctx context.Context, path, contentType string, r io.Reader, size int64, send func(UploadEvent)) (string, error) {
	putURL, err := u.blobs.PresignUpload(ctx, path)
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}

	send(UploadEvent{Progress: 0})
	err = u.put(ctx, putURL, contentType, r, size, func(sent, total int64) {
		if total <= 0 {
			return
		}
		p := float64(sent) / float64(total)
		if p > 1 {
			p = 1
		}
		send(UploadEvent{Progress: p})
	})
	if err != nil {
		return "", err
	}

	url, err := u.blobs.PresignDownload(ctx, path)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}
