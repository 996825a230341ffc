package toll

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the subset of the DynamoDB client the store needs.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore uses origin_hash as partition key and destination_hash as sort key.
// expires_epoch mirrors ExpiresAt so a table TTL can be enabled on it as well.
type DynamoStore struct {
	client    DynamoDBAPI
	tableName string
}

func NewDynamoStore(client DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName}
}

type dynamoItem struct {
	Entry
	ExpiresEpoch int64 `dynamodbav:"expires_epoch"`
}

func dynamoKey(k Key) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"origin_hash":      &ddbtypes.AttributeValueMemberS{Value: k.OriginHash},
		"destination_hash": &ddbtypes.AttributeValueMemberS{Value: k.DestinationHash},
	}
}

func (d *DynamoStore) Get(ctx context.Context, key Key) (*Entry, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.tableName),
		Key:            dynamoKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get toll cache: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrCacheMiss
	}
	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal toll cache entry: %w", err)
	}
	return &item.Entry, nil
}

func (d *DynamoStore) Upsert(ctx context.Context, e Entry) error {
	item, err := attributevalue.MarshalMap(dynamoItem{Entry: e, ExpiresEpoch: e.ExpiresAt.Unix()})
	if err != nil {
		return fmt.Errorf("marshal toll cache entry: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("upsert toll cache: %w", err)
	}
	return nil
}

func (d *DynamoStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64
	var startKey map[string]ddbtypes.AttributeValue
	for {
		out, err := d.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:            aws.String(d.tableName),
			FilterExpression:     aws.String("expires_epoch < :now"),
			ProjectionExpression: aws.String("origin_hash, destination_hash"),
			ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
				":now": &ddbtypes.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return deleted, fmt.Errorf("scan expired toll cache: %w", err)
		}
		for _, item := range out.Items {
			_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName: aws.String(d.tableName),
				Key: map[string]ddbtypes.AttributeValue{
					"origin_hash":      item["origin_hash"],
					"destination_hash": item["destination_hash"],
				},
			})
			if err != nil {
				return deleted, fmt.Errorf("delete expired toll cache: %w", err)
			}
			deleted++
		}
		if len(out.LastEvaluatedKey) == 0 {
			return deleted, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
