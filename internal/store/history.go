package store

import (
	"context"
	"fmt"
	"time"

	"kondate-planner/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	historyKey = "date"

	// maxBatchAttempts bounds how often unprocessed keys are re-requested.
	maxBatchAttempts = 5
)

type HistoryStore struct {
	client  DynamoAPI
	table   string
	backoff time.Duration
}

func NewHistoryStore(client DynamoAPI, table string) *HistoryStore {
	return &HistoryStore{client: client, table: table, backoff: 50 * time.Millisecond}
}

// WithBackoff sets the base delay before re-requesting unprocessed keys.
func (s *HistoryStore) WithBackoff(d time.Duration) *HistoryStore {
	s.backoff = d
	return s
}

func (s *HistoryStore) Table() string {
	return s.table
}

// Get returns nil without error when no menu is stored for date.
func (s *HistoryStore) Get(ctx context.Context, date string) (*models.MenuHistory, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            stringKey(historyKey, date),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get history %s: %w", date, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	record, err := decodeHistory(out.Item)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Put upserts the record for its date.
func (s *HistoryStore) Put(ctx context.Context, record models.MenuHistory) error {
	return s.put(ctx, record, false)
}

// PutIfAbsent writes only when no record exists for the date and returns
// ErrAlreadyExists otherwise.
func (s *HistoryStore) PutIfAbsent(ctx context.Context, record models.MenuHistory) error {
	return s.put(ctx, record, true)
}

func (s *HistoryStore) put(ctx context.Context, record models.MenuHistory, mustNotExist bool) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("encode history %s: %w", record.Date, err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}
	if mustNotExist {
		input.ConditionExpression = aws.String("attribute_not_exists(#pk)")
		input.ExpressionAttributeNames = map[string]string{"#pk": historyKey}
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		if isConditionFailed(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("put history %s: %w", record.Date, err)
	}
	return nil
}

// BatchGet fetches the records for dates, BatchGetLimit keys per request.
// Dates without a record are skipped. The result is in no particular order.
func (s *HistoryStore) BatchGet(ctx context.Context, dates []string) ([]models.MenuHistory, error) {
	records := make([]models.MenuHistory, 0, len(dates))

	for _, group := range chunk(dedupe(dates), BatchGetLimit) {
		keys := make([]map[string]types.AttributeValue, 0, len(group))
		for _, date := range group {
			keys = append(keys, stringKey(historyKey, date))
		}
		request := map[string]types.KeysAndAttributes{
			s.table: {Keys: keys},
		}

		for attempt := 0; pendingKeys(request) > 0; attempt++ {
			if attempt == maxBatchAttempts {
				return nil, fmt.Errorf("batch get history: %d keys still unprocessed after %d attempts",
					pendingKeys(request), maxBatchAttempts)
			}
			if attempt > 0 {
				if err := sleep(ctx, s.backoff*time.Duration(1<<(attempt-1))); err != nil {
					return nil, fmt.Errorf("batch get history: %w", err)
				}
			}

			out, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return nil, fmt.Errorf("batch get history: %w", err)
			}
			for _, item := range out.Responses[s.table] {
				record, err := decodeHistory(item)
				if err != nil {
					return nil, err
				}
				records = append(records, record)
			}
			request = out.UnprocessedKeys
		}
	}
	return records, nil
}

// List scans the whole table.
func (s *HistoryStore) List(ctx context.Context) ([]models.MenuHistory, error) {
	records := make([]models.MenuHistory, 0)
	err := scanAll(ctx, s.client, s.table, func(item map[string]types.AttributeValue) error {
		record, err := decodeHistory(item)
		if err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	return records, nil
}

func (s *HistoryStore) Delete(ctx context.Context, date string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       stringKey(historyKey, date),
	})
	if err != nil {
		return fmt.Errorf("delete history %s: %w", date, err)
	}
	return nil
}

func decodeHistory(item map[string]types.AttributeValue) (models.MenuHistory, error) {
	var record models.MenuHistory
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return record, fmt.Errorf("decode history: %w", err)
	}
	if record.Recipes == nil {
		record.Recipes = []string{}
	}
	return record, nil
}

func pendingKeys(request map[string]types.KeysAndAttributes) int {
	n := 0
	for _, ka := range request {
		n += len(ka.Keys)
	}
	return n
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
