package cloud

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/alerting"
)

type fakeDynamo struct {
	items map[string]map[string]dtypes.AttributeValue
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	key := in.Item["stateKey"].(*dtypes.AttributeValueMemberS).Value
	f.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	key := in.Key["stateKey"].(*dtypes.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[key]}, nil
}

func TestDynamoKV_RoundTrip(t *testing.T) {
	kv := &DynamoKV{svc: &fakeDynamo{items: map[string]map[string]dtypes.AttributeValue{}}, table: "DashboardState"}
	ctx := context.Background()

	if _, err := kv.Load(ctx, alerting.StorageKey); !errors.Is(err, alerting.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := kv.Save(ctx, alerting.StorageKey, []byte(`{"version":0}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := kv.Load(ctx, alerting.StorageKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"version":0}` {
		t.Errorf("unexpected document %s", got)
	}
}

type fakeS3 struct {
	objects map[string][]byte
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func TestS3KV_RoundTrip(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	kv := &S3KV{svc: fake, bucket: "biogas-dashboard-state"}
	ctx := context.Background()

	if _, err := kv.Load(ctx, alerting.StorageKey); !errors.Is(err, alerting.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := kv.Save(ctx, alerting.StorageKey, []byte(`{"state":{}}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := fake.objects["state/custom-alerts-storage.json"]; !ok {
		t.Fatalf("expected object under state/ prefix, have %v", fake.objects)
	}
	got, err := kv.Load(ctx, alerting.StorageKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"state":{}}` {
		t.Errorf("unexpected document %s", got)
	}
}

func TestS3KV_WrapsTransportErrors(t *testing.T) {
	cause := errors.New("throttled")
	kv := &S3KV{svc: &fakeS3{err: cause}, bucket: "b"}

	_, err := kv.Load(context.Background(), "k")
	if !errors.Is(err, cause) || errors.Is(err, alerting.ErrKeyNotFound) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}
