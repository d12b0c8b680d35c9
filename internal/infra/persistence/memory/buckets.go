package memory

import (
	"encoding/json"
	"fmt"
)

// Bucket names used by snapshotting backends, one JSON payload per bucket.
const (
	BucketClaims    = "claims"
	BucketDocuments = "documents"
)

// Buckets lists every bucket in persistence order.
var Buckets = []string{BucketClaims, BucketDocuments}

// EncodeBucket marshals one bucket of the snapshot.
func (s Snapshot) EncodeBucket(bucket string) ([]byte, error) {
	switch bucket {
	case BucketClaims:
		return json.Marshal(s.Claims)
	case BucketDocuments:
		return json.Marshal(s.Documents)
	default:
		return nil, fmt.Errorf("unknown bucket %q", bucket)
	}
}

// DecodeBucket fills one bucket of the snapshot from payload. Unknown
// buckets are ignored so that older databases keep loading.
func (s *Snapshot) DecodeBucket(bucket string, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	var target any
	switch bucket {
	case BucketClaims:
		target = &s.Claims
	case BucketDocuments:
		target = &s.Documents
	default:
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode %s: %w", bucket, err)
	}
	return nil
}
