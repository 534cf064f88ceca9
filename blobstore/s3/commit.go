package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/jagged/blobstore"
)

// PointerName is the base name of the blobs a CommitStore keeps in
// DynamoDB instead of S3.
const PointerName = "CURRENT"

// ErrConcurrentModification is returned when another writer committed the
// same pointer version first.
var ErrConcurrentModification = errors.New("s3: concurrent modification detected")

// DDBClient is the subset of *dynamodb.Client used by CommitStore.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// CommitStore stores blobs in S3 and commit pointers in DynamoDB.
//
// S3 offers no compare-and-swap, so two writers saving the same container
// could both replace its CURRENT pointer. CommitStore turns every write of a
// blob named CURRENT into a conditional DynamoDB insert of the next version;
// the loser gets ErrConcurrentModification. All other blobs go to S3.
//
// Table schema:
//   - Partition key: pointer (string), the base URI joined with the blob name
//   - Sort key: version (number), increasing from 1
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name jagged-commits \
//	  --attribute-definitions AttributeName=pointer,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=pointer,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type CommitStore struct {
	*Store
	ddb     DDBClient
	table   string
	baseURI string
}

// NewCommitStore wraps store. baseURI namespaces the pointers, typically
// "s3://bucket/prefix".
func NewCommitStore(store *Store, ddb DDBClient, table, baseURI string) *CommitStore {
	return &CommitStore{Store: store, ddb: ddb, table: table, baseURI: baseURI}
}

func isPointer(name string) bool {
	return path.Base(name) == PointerName
}

func (s *CommitStore) pointer(name string) string {
	return s.baseURI + "|" + name
}

// Open reads the latest committed version of a pointer, or opens an S3 blob.
func (s *CommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if !isPointer(name) {
		return s.Store.Open(ctx, name)
	}
	version, target, err := s.latest(ctx, name)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, blobstore.ErrNotFound
	}
	return &pointerBlob{content: []byte(target)}, nil
}

// Put commits the next version of a pointer, or uploads an S3 blob.
func (s *CommitStore) Put(ctx context.Context, name string, data []byte) error {
	if !isPointer(name) {
		return s.Store.Put(ctx, name, data)
	}
	version, _, err := s.latest(ctx, name)
	if err != nil {
		return err
	}
	return s.commit(ctx, name, version+1, string(data))
}

// Create buffers pointer writes until Close and streams other blobs to S3.
func (s *CommitStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if !isPointer(name) {
		return s.Store.Create(ctx, name)
	}
	return &pointerWriter{commit: func(data []byte) error { return s.Put(ctx, name, data) }}, nil
}

// Delete removes every version of a pointer, or an S3 blob.
func (s *CommitStore) Delete(ctx context.Context, name string) error {
	if !isPointer(name) {
		return s.Store.Delete(ctx, name)
	}
	items, err := s.query(ctx, name, 0)
	if err != nil {
		return err
	}
	for _, item := range items {
		_, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.table),
			Key: map[string]types.AttributeValue{
				"pointer": item["pointer"],
				"version": item["version"],
			},
		})
		if err != nil {
			return fmt.Errorf("delete pointer %s: %w", name, err)
		}
	}
	return nil
}

func (s *CommitStore) query(ctx context.Context, name string, limit int32) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("pointer = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: s.pointer(name)},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}
	resp, err := s.ddb.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query pointer %s: %w", name, err)
	}
	return resp.Items, nil
}

// latest returns the highest committed version and its target, or version 0.
func (s *CommitStore) latest(ctx context.Context, name string) (uint64, string, error) {
	items, err := s.query(ctx, name, 1)
	if err != nil || len(items) == 0 {
		return 0, "", err
	}
	item := items[0]
	v, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", fmt.Errorf("pointer %s: invalid version attribute", name)
	}
	target, ok := item["target"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", fmt.Errorf("pointer %s: invalid target attribute", name)
	}
	version, err := strconv.ParseUint(v.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("pointer %s: %w", name, err)
	}
	return version, target.Value, nil
}

func (s *CommitStore) commit(ctx context.Context, name string, version uint64, target string) error {
	_, err := s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			"pointer": &types.AttributeValueMemberS{Value: s.pointer(name)},
			"version": &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			"target":  &types.AttributeValueMemberS{Value: target},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("commit pointer %s: %w", name, err)
	}
	return nil
}

type pointerBlob struct {
	content []byte
}

func (b *pointerBlob) Close() error { return nil }

func (b *pointerBlob) Size() int64 { return int64(len(b.content)) }

func (b *pointerBlob) Bytes() ([]byte, error) { return b.content, nil }

func (b *pointerBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if off >= int64(len(b.content)) {
		return 0, io.EOF
	}
	n := copy(p, b.content[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *pointerBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	size := int64(len(b.content))
	off = min(max(off, 0), size)
	end := min(off+max(length, 0), size)
	return io.NopCloser(bytes.NewReader(b.content[off:end])), nil
}

type pointerWriter struct {
	buf    bytes.Buffer
	commit func([]byte) error
	done   bool
}

func (w *pointerWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *pointerWriter) Sync() error { return nil }

func (w *pointerWriter) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	return w.commit(w.buf.Bytes())
}
