package archive

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	puts     []*s3.PutObjectInput
	bodies   []string
	putErr   error
	pages    [][]string
	calls    int
	prefixes []string
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(params.Body)
	f.puts = append(f.puts, params)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.prefixes = append(f.prefixes, aws.ToString(params.Prefix))

	page := f.pages[f.calls]
	f.calls++

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(f.calls < len(f.pages))}
	for _, key := range page {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	if f.calls < len(f.pages) {
		out.NextContinuationToken = aws.String("next")
	}
	return out, nil
}

func newTestArchiver(svc *fakeS3) *S3Archiver {
	a := newS3Archiver(svc, "exports-bucket")
	a.now = func() time.Time { return time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC) }
	return a
}

func TestKey(t *testing.T) {
	a := newTestArchiver(&fakeS3{})

	key := a.Key("readings", "readings_export.csv")
	if !strings.HasPrefix(key, "exports/readings/2024/03/09/") {
		t.Errorf("Unexpected key prefix: %s", key)
	}
	if !strings.HasSuffix(key, "-readings_export.csv") {
		t.Errorf("Unexpected key suffix: %s", key)
	}

	if a.Key("readings", "readings_export.csv") == key {
		t.Error("Expected every key to be unique")
	}
}

func TestUpload(t *testing.T) {
	svc := &fakeS3{}
	a := newTestArchiver(svc)

	key, err := a.Upload(context.Background(), "sensors", "sensors_export.csv", []byte("ID,Model\n1,DHT22\n"))
	if err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}

	if len(svc.puts) != 1 {
		t.Fatalf("Expected one PutObject call, got %d", len(svc.puts))
	}
	put := svc.puts[0]
	if aws.ToString(put.Bucket) != "exports-bucket" || aws.ToString(put.Key) != key {
		t.Errorf("Unexpected target %s/%s", aws.ToString(put.Bucket), aws.ToString(put.Key))
	}
	if aws.ToString(put.ContentType) != "text/csv" {
		t.Errorf("Expected text/csv, got %s", aws.ToString(put.ContentType))
	}
	if put.Metadata["export-kind"] != "sensors" {
		t.Errorf("Expected kind metadata, got %v", put.Metadata)
	}
	if svc.bodies[0] != "ID,Model\n1,DHT22\n" {
		t.Errorf("Unexpected body %q", svc.bodies[0])
	}
}

func TestUpload_Error(t *testing.T) {
	boom := errors.New("access denied")
	a := newTestArchiver(&fakeS3{putErr: boom})

	if _, err := a.Upload(context.Background(), "sensors", "sensors_export.csv", nil); !errors.Is(err, boom) {
		t.Errorf("Expected wrapped upload error, got %v", err)
	}
}

func TestList_Paginates(t *testing.T) {
	svc := &fakeS3{pages: [][]string{{"exports/readings/a.csv", "exports/readings/b.csv"}, {"exports/readings/c.csv"}}}
	a := newTestArchiver(svc)

	keys, err := a.List(context.Background(), "readings")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}

	expected := []string{"exports/readings/a.csv", "exports/readings/b.csv", "exports/readings/c.csv"}
	if !reflect.DeepEqual(keys, expected) {
		t.Errorf("Expected %v, got %v", expected, keys)
	}
	if svc.prefixes[0] != "exports/readings/" {
		t.Errorf("Expected kind prefix, got %s", svc.prefixes[0])
	}
}
