package store

import (
	"context"
	"fmt"

	"kondate-planner/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const recipeKey = "recipe_id"

type RecipeStore struct {
	client DynamoAPI
	table  string
}

func NewRecipeStore(client DynamoAPI, table string) *RecipeStore {
	return &RecipeStore{client: client, table: table}
}

func (s *RecipeStore) Table() string {
	return s.table
}

// Get returns nil without error when the recipe does not exist.
func (s *RecipeStore) Get(ctx context.Context, recipeID string) (*models.Recipe, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       stringKey(recipeKey, recipeID),
	})
	if err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", recipeID, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var recipe models.Recipe
	if err := attributevalue.UnmarshalMap(out.Item, &recipe); err != nil {
		return nil, fmt.Errorf("decode recipe %s: %w", recipeID, err)
	}
	normalizeRecipe(&recipe)
	return &recipe, nil
}

// List scans the whole table.
func (s *RecipeStore) List(ctx context.Context) ([]models.Recipe, error) {
	recipes := make([]models.Recipe, 0)
	err := scanAll(ctx, s.client, s.table, func(item map[string]types.AttributeValue) error {
		var recipe models.Recipe
		if err := attributevalue.UnmarshalMap(item, &recipe); err != nil {
			return fmt.Errorf("decode recipe: %w", err)
		}
		normalizeRecipe(&recipe)
		recipes = append(recipes, recipe)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan recipes: %w", err)
	}
	return recipes, nil
}

// Put upserts a recipe.
func (s *RecipeStore) Put(ctx context.Context, recipe models.Recipe) error {
	return s.put(ctx, recipe, false)
}

// Create writes a recipe only if its id is unused, else ErrAlreadyExists.
func (s *RecipeStore) Create(ctx context.Context, recipe models.Recipe) error {
	return s.put(ctx, recipe, true)
}

func (s *RecipeStore) put(ctx context.Context, recipe models.Recipe, mustNotExist bool) error {
	item, err := attributevalue.MarshalMap(recipe)
	if err != nil {
		return fmt.Errorf("encode recipe %s: %w", recipe.RecipeID, err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}
	if mustNotExist {
		input.ConditionExpression = aws.String("attribute_not_exists(#pk)")
		input.ExpressionAttributeNames = map[string]string{"#pk": recipeKey}
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		if isConditionFailed(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("put recipe %s: %w", recipe.RecipeID, err)
	}
	return nil
}

func (s *RecipeStore) Delete(ctx context.Context, recipeID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       stringKey(recipeKey, recipeID),
	})
	if err != nil {
		return fmt.Errorf("delete recipe %s: %w", recipeID, err)
	}
	return nil
}

// normalizeRecipe replaces NULL lists with empty ones so responses always
// carry arrays.
func normalizeRecipe(r *models.Recipe) {
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
}
