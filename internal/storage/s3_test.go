package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	lastPut  *s3.PutObjectInput
	lastCopy *s3.CopyObjectInput
	lastHead *s3.HeadObjectInput
	headErr  error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastPut = params
	if params.Body != nil {
		_, _ = io.ReadAll(params.Body)
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.lastCopy = params
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.lastHead = params
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestKeyConstruction(t *testing.T) {
	u := NewWithClient("bucket", "vispeak", &fakeS3{})
	if got := u.KeyForStem("receipt-01", "receipt-01.wav"); got != "vispeak/receipt-01/receipt-01.wav" {
		t.Fatalf("KeyForStem mismatch: %s", got)
	}
	if got := u.KeyForLatest("receipt-01.wav"); got != "vispeak/latest/receipt-01.wav" {
		t.Fatalf("KeyForLatest mismatch: %s", got)
	}
}

func TestUploadAndCopy(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "receipt-01.wav")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	fake := &fakeS3{}
	u := NewWithClient("bucket", "vispeak", fake)
	ctx := context.Background()

	key := u.KeyForStem("receipt-01", "receipt-01.wav")
	if err := u.UploadFile(ctx, key, path, "audio/wav"); err != nil {
		t.Fatalf("UploadFile error: %v", err)
	}
	if fake.lastPut == nil || fake.lastPut.Key == nil || *fake.lastPut.Key != key {
		t.Fatalf("expected PutObject with key %q", key)
	}

	if err := u.CopyToLatest(ctx, key, "receipt-01.wav", "audio/wav"); err != nil {
		t.Fatalf("CopyToLatest error: %v", err)
	}
	if fake.lastCopy == nil || fake.lastCopy.Key == nil || *fake.lastCopy.Key != "vispeak/latest/receipt-01.wav" {
		t.Fatalf("expected CopyObject to latest key")
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()

	fake := &fakeS3{}
	u := NewWithClient("bucket", "vispeak", fake)
	ok, err := u.Exists(ctx, "vispeak/receipt-01/receipt-01.wav")
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !ok {
		t.Fatalf("expected object to exist")
	}
	if fake.lastHead == nil || *fake.lastHead.Key != "vispeak/receipt-01/receipt-01.wav" {
		t.Fatalf("expected HeadObject with artifact key")
	}

	fake.headErr = &types.NotFound{}
	ok, err = u.Exists(ctx, "vispeak/receipt-01/receipt-01.wav")
	if err != nil {
		t.Fatalf("not-found should not be an error: %v", err)
	}
	if ok {
		t.Fatalf("expected object to be missing")
	}

	fake.headErr = errors.New("network down")
	if _, err := u.Exists(ctx, "vispeak/receipt-01/receipt-01.wav"); err == nil {
		t.Fatalf("expected non-classified error to propagate")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&types.NoSuchKey{}) {
		t.Fatalf("NoSuchKey should classify as not found")
	}
	if !IsNotFound(&types.NotFound{}) {
		t.Fatalf("NotFound should classify as not found")
	}
	if IsNotFound(errors.New("network down")) {
		t.Fatalf("generic error should not classify as not found")
	}
}
