package s3

import (
	"bytes"
	"context"
	"crypto/md5" // #nosec G501 -- S3 ETags are MD5 digests
	"encoding/hex"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// FakeAPI is an in-memory implementation of API for tests. ListObjectsV2
// returns at most PageSize objects per call so callers exercise pagination.
type FakeAPI struct {
	PageSize int
	// Err, when set, is returned by every call.
	Err error

	mu      sync.Mutex
	objects map[string]fakeObject
}

type fakeObject struct {
	body        []byte
	contentType string
	metadata    map[string]string
	modified    time.Time
}

// NewFakeAPI returns an empty fake bucket.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{PageSize: 2, objects: make(map[string]fakeObject)}
}

// NewMockForTests returns a Store backed by a fresh FakeAPI.
func NewMockForTests() *Store {
	return NewWithClient(NewFakeAPI(), "mock-bucket")
}

func (f *FakeAPI) lookup(key *string) (fakeObject, error) {
	if f.Err != nil {
		return fakeObject{}, f.Err
	}
	obj, ok := f.objects[aws.ToString(key)]
	if !ok {
		return fakeObject{}, &types.NotFound{}
	}
	return obj, nil
}

func etag(body []byte) *string {
	sum := md5.Sum(body) // #nosec G401
	return aws.String(`"` + hex.EncodeToString(sum[:]) + `"`)
}

// HeadObject implements API.
func (f *FakeAPI) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, err := f.lookup(in.Key)
	if err != nil {
		return nil, err
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(obj.body))),
		ContentType:   aws.String(obj.contentType),
		ETag:          etag(obj.body),
		Metadata:      obj.metadata,
		LastModified:  aws.Time(obj.modified),
	}, nil
}

// GetObject implements API.
func (f *FakeAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, err := f.lookup(in.Key)
	if err != nil {
		if _, missing := err.(*types.NotFound); missing {
			return nil, &types.NoSuchKey{}
		}
		return nil, err
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.body)),
		ContentLength: aws.Int64(int64(len(obj.body))),
		ContentType:   aws.String(obj.contentType),
		ETag:          etag(obj.body),
		Metadata:      obj.metadata,
		LastModified:  aws.Time(obj.modified),
	}, nil
}

// PutObject implements API.
func (f *FakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	md := make(map[string]string, len(in.Metadata))
	for k, v := range in.Metadata {
		md[k] = v
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = fakeObject{
		body:        body,
		contentType: aws.ToString(in.ContentType),
		metadata:    md,
		modified:    time.Now().UTC(),
	}
	return &s3.PutObjectOutput{ETag: etag(body)}, nil
}

// DeleteObject implements API.
func (f *FakeAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

// ListObjectsV2 implements API. Continuation tokens are decimal offsets.
func (f *FakeAPI) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := aws.ToString(in.Prefix)
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		n, err := strconv.Atoi(*in.ContinuationToken)
		if err != nil {
			return nil, err
		}
		start = n
	}
	end := len(keys)
	if f.PageSize > 0 && start+f.PageSize < end {
		end = start + f.PageSize
	}
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		obj := f.objects[k]
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			Size:         aws.Int64(int64(len(obj.body))),
			ETag:         etag(obj.body),
			LastModified: aws.Time(obj.modified),
		})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}
