package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	objects  map[string][]byte
	putFails int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putFails > 0 {
		f.putFails--
		return nil, fmt.Errorf("transient upstream error")
	}
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*input.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*input.Key]
	if !ok {
		return nil, fmt.Errorf("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func testStore(fake *fakeS3) *Store {
	return &Store{cfg: Config{Bucket: "hemma-test"}, client: fake}
}

func TestUploadGetDelete(t *testing.T) {
	fake := newFakeS3()
	store := testStore(fake)
	ctx := context.Background()

	key := NewKey(1, "tarta.jpg")
	if err := store.Upload(ctx, key, "image/jpeg", []byte("bilddata")); err != nil {
		t.Fatalf("upload: %v", err)
	}

	data, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "bilddata" {
		t.Errorf("round trip mismatch: %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := fake.objects[key]; ok {
		t.Error("object still present after delete")
	}
}

func TestUploadRetriesTransientFailures(t *testing.T) {
	fake := newFakeS3()
	fake.putFails = 2
	store := testStore(fake)

	key := NewKey(2, "midsommar.png")
	if err := store.Upload(context.Background(), key, "image/png", []byte("x")); err != nil {
		t.Fatalf("upload should survive two transient failures: %v", err)
	}
	if _, ok := fake.objects[key]; !ok {
		t.Error("object missing after retried upload")
	}
}

func TestNewKey(t *testing.T) {
	key := NewKey(7, "kalas bild.JPEG")
	if !strings.HasPrefix(key, "images/7/") {
		t.Errorf("key %q missing household prefix", key)
	}
	if !strings.HasSuffix(key, ".JPEG") {
		t.Errorf("key %q lost the extension", key)
	}
	if key == NewKey(7, "kalas bild.JPEG") {
		t.Error("two uploads of the same file should get distinct keys")
	}
}

func TestDisabledStore(t *testing.T) {
	store := New(Config{})
	if store.Enabled() {
		t.Fatal("zero config should leave storage disabled")
	}
	if err := store.Upload(context.Background(), "k", "image/png", nil); err == nil {
		t.Error("upload on a disabled store should error")
	}
	if _, err := store.Get(context.Background(), "k"); err == nil {
		t.Error("get on a disabled store should error")
	}
}
