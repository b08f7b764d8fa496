package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	s := &S3Storage{client: fake, bucket: "clinic"}

	if err := s.Upload(context.Background(), "recalls/2024-07-11.csv", []byte("a,b\n"), "text/csv"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if aws.ToString(fake.in.Bucket) != "clinic" || aws.ToString(fake.in.Key) != "recalls/2024-07-11.csv" {
		t.Fatalf("unexpected target %s/%s", aws.ToString(fake.in.Bucket), aws.ToString(fake.in.Key))
	}
	if aws.ToString(fake.in.ContentType) != "text/csv" {
		t.Fatalf("unexpected content type")
	}
	if fake.in.ACL != types.ObjectCannedACLPrivate {
		t.Fatalf("exports must be private")
	}
	if string(fake.body) != "a,b\n" {
		t.Fatalf("unexpected body %q", fake.body)
	}
}

func TestUploadWrapsError(t *testing.T) {
	cause := errors.New("access denied")
	s := &S3Storage{client: &fakeS3{err: cause}, bucket: "clinic"}

	err := s.Upload(context.Background(), "k", nil, "text/csv")
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
