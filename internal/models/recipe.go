// internal/models/recipe.go
package models

// DefaultCategory is assigned to recipes created without one.
const DefaultCategory = "未分類"

// DefaultCookingTime is the cooking time in minutes assumed when none is given.
const DefaultCookingTime = 30

// Recipe is one item of the recipes table, keyed by recipe_id.
type Recipe struct {
	RecipeID     string   `json:"recipe_id" dynamodbav:"recipe_id" yaml:"recipe_id"`
	Name         string   `json:"name" dynamodbav:"name" yaml:"name"`
	Category     string   `json:"category" dynamodbav:"category" yaml:"category"`
	CookingTime  int      `json:"cooking_time" dynamodbav:"cooking_time" yaml:"cooking_time"`
	Ingredients  []string `json:"ingredients" dynamodbav:"ingredients" yaml:"ingredients"`
	Instructions string   `json:"instructions,omitempty" dynamodbav:"instructions,omitempty" yaml:"instructions"`
	RecipeURL    string   `json:"recipe_url,omitempty" dynamodbav:"recipe_url,omitempty" yaml:"recipe_url"`
	Tags         []string `json:"tags" dynamodbav:"tags" yaml:"tags"`
	CreatedAt    string   `json:"created_at" dynamodbav:"created_at" yaml:"-"`
	UpdatedAt    string   `json:"updated_at" dynamodbav:"updated_at" yaml:"-"`
}
