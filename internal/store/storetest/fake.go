// Package storetest provides an in-memory stand-in for the DynamoDB calls the
// stores make.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type item = map[string]types.AttributeValue

// FakeDynamo keeps tables as maps keyed by a single string partition key.
// Only attribute_not_exists conditions are understood.
type FakeDynamo struct {
	mu     sync.Mutex
	keys   map[string]string
	tables map[string]map[string]item

	// PageSize limits Scan pages; zero returns everything in one page.
	PageSize int
	// DeferKeys leaves this many keys unprocessed on the next BatchGetItem.
	DeferKeys int
	// Errors injects a failure per operation name, e.g. "PutItem".
	Errors map[string]error

	Calls map[string]int
}

// NewFakeDynamo takes table name to partition key attribute name.
func NewFakeDynamo(keys map[string]string) *FakeDynamo {
	tables := make(map[string]map[string]item, len(keys))
	for table := range keys {
		tables[table] = make(map[string]item)
	}
	return &FakeDynamo{
		keys:   keys,
		tables: tables,
		Errors: make(map[string]error),
		Calls:  make(map[string]int),
	}
}

// Seed stores v (marshalled with attributevalue) directly.
func (f *FakeDynamo) Seed(table string, v interface{}) {
	av, err := attributevalue.MarshalMap(v)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, key, err := f.table(table, av)
	if err != nil {
		panic(err)
	}
	t[key] = av
}

// Len reports the number of items in table.
func (f *FakeDynamo) Len(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table])
}

func (f *FakeDynamo) begin(op string) error {
	f.Calls[op]++
	return f.Errors[op]
}

func (f *FakeDynamo) table(name string, key item) (map[string]item, string, error) {
	t, ok := f.tables[name]
	if !ok {
		return nil, "", &types.ResourceNotFoundException{Message: aws.String("table not found: " + name)}
	}
	attr := f.keys[name]
	s, ok := key[attr].(*types.AttributeValueMemberS)
	if !ok {
		return nil, "", fmt.Errorf("ValidationException: missing key %s", attr)
	}
	return t, s.Value, nil
}

func (f *FakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("GetItem"); err != nil {
		return nil, err
	}
	t, key, err := f.table(aws.ToString(in.TableName), in.Key)
	if err != nil {
		return nil, err
	}
	return &dynamodb.GetItemOutput{Item: t[key]}, nil
}

func (f *FakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("PutItem"); err != nil {
		return nil, err
	}
	t, key, err := f.table(aws.ToString(in.TableName), in.Item)
	if err != nil {
		return nil, err
	}
	cond := aws.ToString(in.ConditionExpression)
	if strings.HasPrefix(cond, "attribute_not_exists") {
		if _, exists := t[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	t[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *FakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("DeleteItem"); err != nil {
		return nil, err
	}
	t, key, err := f.table(aws.ToString(in.TableName), in.Key)
	if err != nil {
		return nil, err
	}
	delete(t, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

// Scan returns items in key order and honours PageSize and ExclusiveStartKey.
func (f *FakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Scan"); err != nil {
		return nil, err
	}
	name := aws.ToString(in.TableName)
	t, ok := f.tables[name]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("table not found: " + name)}
	}

	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		_, after, err := f.table(name, in.ExclusiveStartKey)
		if err != nil {
			return nil, err
		}
		start = sort.SearchStrings(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}

	end := len(keys)
	if f.PageSize > 0 && start+f.PageSize < end {
		end = start + f.PageSize
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, t[k])
	}
	out.Count = int32(len(out.Items))
	if end < len(keys) {
		out.LastEvaluatedKey = item{f.keys[name]: &types.AttributeValueMemberS{Value: keys[end-1]}}
	}
	return out, nil
}

// BatchGetItem rejects requests over 100 keys like DynamoDB does.
func (f *FakeDynamo) BatchGetItem(_ context.Context, in *dynamodb.BatchGetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("BatchGetItem"); err != nil {
		return nil, err
	}

	total := 0
	for _, ka := range in.RequestItems {
		total += len(ka.Keys)
	}
	if total > 100 {
		return nil, fmt.Errorf("ValidationException: too many items requested for the BatchGetItem call")
	}

	out := &dynamodb.BatchGetItemOutput{
		Responses:       make(map[string][]item),
		UnprocessedKeys: make(map[string]types.KeysAndAttributes),
	}
	for name, ka := range in.RequestItems {
		keys := ka.Keys
		if f.DeferKeys > 0 {
			n := f.DeferKeys
			if n > len(keys) {
				n = len(keys)
			}
			out.UnprocessedKeys[name] = types.KeysAndAttributes{Keys: keys[len(keys)-n:]}
			keys = keys[:len(keys)-n]
			f.DeferKeys = 0
		}
		for _, key := range keys {
			t, k, err := f.table(name, key)
			if err != nil {
				return nil, err
			}
			if found, ok := t[k]; ok {
				out.Responses[name] = append(out.Responses[name], found)
			}
		}
	}
	return out, nil
}
