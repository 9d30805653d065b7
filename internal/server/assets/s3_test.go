package assets

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/movievault/internal/logging"
)

type fakeS3 struct {
	putKeys    []string
	putErr     error
	deleteKeys []string
	deleteErr  error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.putKeys = append(f.putKeys, *params.Key)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleteKeys = append(f.deleteKeys, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func newS3StoreWithFake(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	f := &fakeS3{}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &S3Store{
		client:  f,
		bucket:  "catalog",
		baseURL: "http://cdn.local/assets",
		logger:  logger,
	}, f
}

func TestS3Save_PutsObjectUnderCategory(t *testing.T) {
	s, f := newS3StoreWithFake(t)

	url, err := s.Save(context.Background(), []byte("img"), ".png", "img")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if len(f.putKeys) != 1 || !strings.HasPrefix(f.putKeys[0], "img/") {
		t.Fatalf("unexpected object keys: %v", f.putKeys)
	}
	if !strings.HasPrefix(url, "http://cdn.local/assets/img/") {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestS3Delete_EmptyURLIsNoop(t *testing.T) {
	s, f := newS3StoreWithFake(t)

	if err := s.Delete(context.Background(), "", "img"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(f.deleteKeys) != 0 {
		t.Fatalf("no delete expected, got %v", f.deleteKeys)
	}
}

func TestS3Replace_DeleteFailureDoesNotBlockSave(t *testing.T) {
	s, f := newS3StoreWithFake(t)
	f.deleteErr = errors.New("backend down")

	url, err := s.Replace(context.Background(), []byte("img"), ".png", "img",
		"http://cdn.local/assets/img/old.png")
	if err != nil {
		t.Fatalf("Replace must survive a failed delete, got %v", err)
	}
	if url == "" || len(f.putKeys) != 1 {
		t.Fatalf("new object must still be saved, keys=%v", f.putKeys)
	}
}

func TestS3Save_PropagatesPutError(t *testing.T) {
	s, f := newS3StoreWithFake(t)
	f.putErr = errors.New("forbidden")

	if _, err := s.Save(context.Background(), []byte("img"), ".png", "img"); err == nil {
		t.Fatalf("expected error from failed put")
	}
}
