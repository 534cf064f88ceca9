package s3

import (
	"bytes"
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ErrConflict is returned when a conditional write finds the object already
// present.
var ErrConflict = errors.New("s3: object already exists")

// ExpressStore is a Store on an S3 Express One Zone directory bucket
// (bucket names end with --azid--x-s3).
//
// Directory buckets accept conditional writes, which PutIfNotExists uses to
// publish blobs exactly once.
type ExpressStore struct {
	*Store
}

// NewExpressStore creates a store on a directory bucket.
func NewExpressStore(client Client, bucket, rootPrefix string, opts ...Option) *ExpressStore {
	return &ExpressStore{Store: NewStore(client, bucket, rootPrefix, opts...)}
}

// PutIfNotExists writes data only if name does not exist yet. It returns
// ErrConflict otherwise.
func (s *ExpressStore) PutIfNotExists(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		if isConflict(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func isConflict(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}
