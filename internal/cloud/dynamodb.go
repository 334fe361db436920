package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/alerting"
)

// dynamoAPI is the subset of the DynamoDB client used here.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoKV stores dashboard state documents as items of one DynamoDB
// table keyed by stateKey.
type DynamoKV struct {
	svc   dynamoAPI
	table string
}

// NewDynamoKV creates a DynamoDB-backed persister with AWS SDK v2
func NewDynamoKV(ctx context.Context, region, table string) (*DynamoKV, error) {
	// Load AWS configuration from environment/credentials
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &DynamoKV{
		svc:   dynamodb.NewFromConfig(cfg),
		table: table,
	}, nil
}

// stateItem represents the DynamoDB structure of a stored document
type stateItem struct {
	StateKey  string `dynamodbav:"stateKey"`
	Value     string `dynamodbav:"value"`
	UpdatedAt int64  `dynamodbav:"updatedAt"`
}

func (c *DynamoKV) Load(ctx context.Context, key string) ([]byte, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key: map[string]types.AttributeValue{
			"stateKey": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	}

	result, err := c.svc.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get item from DynamoDB: %w", err)
	}
	if len(result.Item) == 0 {
		return nil, alerting.ErrKeyNotFound
	}

	var item stateItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state item: %w", err)
	}
	return []byte(item.Value), nil
}

func (c *DynamoKV) Save(ctx context.Context, key string, data []byte) error {
	item, err := attributevalue.MarshalMap(stateItem{
		StateKey:  key,
		Value:     string(data),
		UpdatedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal state item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	}

	if _, err := c.svc.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to put item in DynamoDB: %w", err)
	}
	return nil
}
