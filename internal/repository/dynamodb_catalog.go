package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"dataset-agent/internal/domain"
)

const (
	pkCatalog      = "CATALOG"
	skPrefixRecord = "DATASET#"
)

// dynamodbAPI is the minimal DynamoDB interface required by Loader.
// Defined here for testability.
type dynamodbAPI interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Loader reads the dataset catalog from a DynamoDB table. The table is a
// deployment convenience for updating the catalog without a release; once
// loaded, the records are treated as immutable for the process lifetime.
type Loader struct {
	api       dynamodbAPI
	tableName string
}

// New creates a catalog Loader.
func New(api dynamodbAPI, tableName string) (*Loader, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Loader{api: api, tableName: tableName}, nil
}

// LoadCatalog queries every DATASET# item and returns the records in sort-key
// order, following pagination until the table is exhausted.
func (l *Loader) LoadCatalog(ctx context.Context) ([]domain.DatasetRecord, error) {
	var records []domain.DatasetRecord
	var startKey map[string]types.AttributeValue

	for {
		out, err := l.api.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(l.tableName),
			KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk":     &types.AttributeValueMemberS{Value: pkCatalog},
				":prefix": &types.AttributeValueMemberS{Value: skPrefixRecord},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("repository: LoadCatalog query: %w", err)
		}

		for _, item := range out.Items {
			rec, err := itemToRecord(item)
			if err != nil {
				return nil, fmt.Errorf("repository: LoadCatalog unmarshal: %w", err)
			}
			records = append(records, rec)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return records, nil
}

// SeedCatalog writes the given records, one item per record. Intended for the
// one-shot seed command, not for runtime use.
func (l *Loader) SeedCatalog(ctx context.Context, records []domain.DatasetRecord) error {
	for _, rec := range records {
		if strings.TrimSpace(rec.ID) == "" {
			return errors.New("repository: SeedCatalog: record id is required")
		}
		_, err := l.api.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(l.tableName),
			Item:      recordItem(rec),
		})
		if err != nil {
			return fmt.Errorf("repository: SeedCatalog put %q: %w", rec.ID, err)
		}
	}
	return nil
}

func recordItem(rec domain.DatasetRecord) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":          &types.AttributeValueMemberS{Value: pkCatalog},
		"SK":          &types.AttributeValueMemberS{Value: skPrefixRecord + rec.ID},
		"id":          &types.AttributeValueMemberS{Value: rec.ID},
		"title":       &types.AttributeValueMemberS{Value: rec.Title},
		"description": &types.AttributeValueMemberS{Value: rec.Description},
		"url":         &types.AttributeValueMemberS{Value: rec.URL},
		"category":    &types.AttributeValueMemberS{Value: string(rec.Category)},
	}
}

// itemToRecord converts a DynamoDB attribute map to a DatasetRecord.
func itemToRecord(item map[string]types.AttributeValue) (domain.DatasetRecord, error) {
	id, err := strAttr(item, "id")
	if err != nil {
		return domain.DatasetRecord{}, err
	}
	title, err := strAttr(item, "title")
	if err != nil {
		return domain.DatasetRecord{}, err
	}
	url, err := strAttr(item, "url")
	if err != nil {
		return domain.DatasetRecord{}, err
	}
	category, err := strAttr(item, "category")
	if err != nil {
		return domain.DatasetRecord{}, err
	}
	description, _ := strAttr(item, "description") // allow empty

	return domain.DatasetRecord{
		ID:          id,
		Title:       title,
		Description: description,
		URL:         url,
		Category:    domain.Category(category),
	}, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}
