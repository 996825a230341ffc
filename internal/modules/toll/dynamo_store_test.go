package toll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDynamoDBClient mocks the DynamoDB client
type MockDynamoDBClient struct {
	mock.Mock
}

func (m *MockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

func (m *MockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

func (m *MockDynamoDBClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*dynamodb.ScanOutput), args.Error(1)
}

func (m *MockDynamoDBClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*dynamodb.DeleteItemOutput), args.Error(1)
}

func TestDynamoStore_Upsert(t *testing.T) {
	mockClient := new(MockDynamoDBClient)
	store := NewDynamoStore(mockClient, "toll-cache")

	e := Entry{
		OriginHash: "o", DestinationHash: "d", TollAmount: 35.5, Currency: "EUR",
		Source: SourceGoogleAPI, FetchedAt: fixed, ExpiresAt: fixed.Add(DefaultTTL),
	}
	mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.PutItemInput) bool {
		epoch, ok := input.Item["expires_epoch"].(*ddbtypes.AttributeValueMemberN)
		hash, okHash := input.Item["origin_hash"].(*ddbtypes.AttributeValueMemberS)
		return *input.TableName == "toll-cache" && ok && okHash && hash.Value == "o" &&
			epoch.Value == "1772445600"
	})).Return(&dynamodb.PutItemOutput{}, nil)

	require.NoError(t, store.Upsert(context.Background(), e))
	mockClient.AssertExpectations(t)
}

func TestDynamoStore_GetHitAndMiss(t *testing.T) {
	mockClient := new(MockDynamoDBClient)
	store := NewDynamoStore(mockClient, "toll-cache")

	item, err := attributevalue.MarshalMap(dynamoItem{
		Entry: Entry{
			OriginHash: "o", DestinationHash: "d", TollAmount: 12.4, Currency: "EUR",
			Source: SourceGoogleAPI, FetchedAt: fixed, ExpiresAt: fixed.Add(time.Hour),
		},
		ExpiresEpoch: fixed.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.GetItemInput) bool {
		v, ok := input.Key["destination_hash"].(*ddbtypes.AttributeValueMemberS)
		return ok && v.Value == "d"
	})).Return(&dynamodb.GetItemOutput{Item: item}, nil).Once()
	mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

	got, err := store.Get(context.Background(), Key{OriginHash: "o", DestinationHash: "d"})
	require.NoError(t, err)
	assert.Equal(t, 12.4, got.TollAmount)
	assert.True(t, got.ExpiresAt.Equal(fixed.Add(time.Hour)))

	_, err = store.Get(context.Background(), Key{OriginHash: "o", DestinationHash: "zz"})
	assert.ErrorIs(t, err, ErrCacheMiss)
	mockClient.AssertExpectations(t)
}

func TestDynamoStore_GetError(t *testing.T) {
	mockClient := new(MockDynamoDBClient)
	store := NewDynamoStore(mockClient, "toll-cache")
	mockClient.On("GetItem", mock.Anything, mock.Anything).
		Return((*dynamodb.GetItemOutput)(nil), errors.New("throttled"))

	_, err := store.Get(context.Background(), Key{OriginHash: "o", DestinationHash: "d"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestDynamoStore_DeleteExpiredPages(t *testing.T) {
	mockClient := new(MockDynamoDBClient)
	store := NewDynamoStore(mockClient, "toll-cache")

	keyItem := func(o, d string) map[string]ddbtypes.AttributeValue {
		return map[string]ddbtypes.AttributeValue{
			"origin_hash":      &ddbtypes.AttributeValueMemberS{Value: o},
			"destination_hash": &ddbtypes.AttributeValueMemberS{Value: d},
		}
	}

	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ExclusiveStartKey == nil
	})).Return(&dynamodb.ScanOutput{
		Items:            []map[string]ddbtypes.AttributeValue{keyItem("a", "b"), keyItem("c", "d")},
		LastEvaluatedKey: keyItem("c", "d"),
	}, nil).Once()
	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ExclusiveStartKey != nil
	})).Return(&dynamodb.ScanOutput{
		Items: []map[string]ddbtypes.AttributeValue{keyItem("e", "f")},
	}, nil).Once()
	mockClient.On("DeleteItem", mock.Anything, mock.Anything).Return(&dynamodb.DeleteItemOutput{}, nil).Times(3)

	n, err := store.DeleteExpired(context.Background(), fixed)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	mockClient.AssertExpectations(t)
}
