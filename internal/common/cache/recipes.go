// internal/common/cache/recipes.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/models"

	"github.com/redis/go-redis/v9"
)

const RecipesKey = "recipes:all"

// RecipeSource is the authoritative recipe listing, normally the DynamoDB
// recipe store.
type RecipeSource interface {
	List(ctx context.Context) ([]models.Recipe, error)
}

// RecipeCache is a read-through cache in front of a full recipe scan. Redis
// failures are logged and the source is read directly, so the cache can
// never turn a working request into a failed one.
type RecipeCache struct {
	source RecipeSource
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRecipeCache(source RecipeSource, client *redis.Client, ttl time.Duration, log logger.Logger) *RecipeCache {
	return &RecipeCache{
		source: source,
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"cacheKey": RecipesKey}),
	}
}

func (c *RecipeCache) List(ctx context.Context) ([]models.Recipe, error) {
	val, err := c.redis.Get(ctx, RecipesKey).Result()
	switch {
	case err == nil:
		var recipes []models.Recipe
		if jsonErr := json.Unmarshal([]byte(val), &recipes); jsonErr == nil {
			return recipes, nil
		}
		c.logger.Warn("Discarding unreadable cache entry", nil)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("Recipe cache read failed", map[string]interface{}{"error": err})
	}

	recipes, err := c.source.List(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(recipes)
	if err != nil {
		return recipes, nil
	}
	if err := c.redis.Set(ctx, RecipesKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Recipe cache write failed", map[string]interface{}{"error": err})
	}
	return recipes, nil
}

// Invalidate drops the cached listing after the recipe table changes.
func (c *RecipeCache) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, RecipesKey).Err()
}
