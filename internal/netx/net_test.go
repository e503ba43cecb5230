package netx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadToPresignedURL(t *testing.T) {
	file := []byte("%PDF-1.4 resume")

	t.Run("success 200 OK", func(t *testing.T) {
		var gotBody []byte
		var gotCT string
		var gotMethod string
		var gotLen int64

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotLen = r.ContentLength
			body, _ := io.ReadAll(r.Body)
			_ = r.Body.Close()
			gotBody = body
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		var last, total int64
		calls := 0
		err := UploadToPresignedURL(context.Background(), ts.URL+"/resumes/u1.pdf?X-Amz-Signature=abc",
			"application/pdf", bytes.NewReader(file), int64(len(file)),
			func(sent, tot int64) {
				calls++
				if sent < last {
					t.Errorf("progress went backwards: %d < %d", sent, last)
				}
				last, total = sent, tot
			})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotMethod != http.MethodPut {
			t.Fatalf("method = %q, want PUT", gotMethod)
		}
		if gotCT != "application/pdf" {
			t.Fatalf("Content-Type = %q, want application/pdf", gotCT)
		}
		if gotLen != int64(len(file)) {
			t.Fatalf("ContentLength = %d, want %d", gotLen, len(file))
		}
		if !bytes.Equal(gotBody, file) {
			t.Fatalf("body = %q, want %q", string(gotBody), string(file))
		}
		if calls == 0 || last != int64(len(file)) || total != int64(len(file)) {
			t.Fatalf("progress: calls=%d last=%d total=%d", calls, last, total)
		}
	})

	t.Run("default content type", func(t *testing.T) {
		var gotCT string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCT = r.Header.Get("Content-Type")
			_, _ = io.Copy(io.Discard, r.Body)
		}))
		defer ts.Close()

		if err := UploadToPresignedURL(context.Background(), ts.URL, "", bytes.NewReader(file), int64(len(file)), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotCT != "application/octet-stream" {
			t.Fatalf("Content-Type = %q, want application/octet-stream", gotCT)
		}
	})

	t.Run("non-200 -> error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer ts.Close()

		err := UploadToPresignedURL(context.Background(), ts.URL, "", bytes.NewReader(file), int64(len(file)), nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "upload failed: 403") {
			t.Fatalf("error = %q, want to contain 403", err.Error())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := UploadToPresignedURL(ctx, ts.URL, "", bytes.NewReader(file), int64(len(file)), nil)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		err := UploadToPresignedURL(context.Background(), ts.URL, "", bytes.NewReader(file), int64(len(file)), nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !isNetOpError(err) {
			if strings.Contains(err.Error(), "upload failed") {
				t.Fatalf("got wrong kind of error: %v", err)
			}
		}
	})
}

type netOpErrorLike interface {
	error
	Timeout() bool
	Temporary() bool
}

func isNetOpError(err error) bool {
	var target netOpErrorLike
	return errors.As(err, &target)
}
