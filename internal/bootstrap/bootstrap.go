// Package bootstrap builds the collaborators and handlers shared by the
// Lambda function, the worker host and the CLI.
package bootstrap

import (
	"context"
	"encoding/json"
	"time"

	awsx "kondate-planner/internal/common/aws"
	"kondate-planner/internal/common/cache"
	"kondate-planner/internal/common/config"
	"kondate-planner/internal/common/logger"
	gethistory "kondate-planner/internal/handlers/agent/get-history"
	getrecipes "kondate-planner/internal/handlers/agent/get-recipes"
	savemenu "kondate-planner/internal/handlers/agent/save-menu"
	suggestmenu "kondate-planner/internal/handlers/agent/suggest-menu"
	createrecipe "kondate-planner/internal/handlers/api/create-recipe"
	getrecipe "kondate-planner/internal/handlers/api/get-recipe"
	listrecipes "kondate-planner/internal/handlers/api/list-recipes"
	menuhistory "kondate-planner/internal/handlers/api/menu-history"
	"kondate-planner/internal/invocation"
	"kondate-planner/internal/menu"
	"kondate-planner/internal/store"
	"kondate-planner/internal/suggest"

	"github.com/aws/aws-lambda-go/events"
	"github.com/redis/go-redis/v9"
)

// AgentAction serves raw agent events and Zeebe jobs.
type AgentAction interface {
	Handle(ctx context.Context, event json.RawMessage) (interface{}, error)
	ExecuteJob(ctx context.Context, p invocation.Parameters) (interface{}, error)
}

// HTTPAction serves HTTP API (payload v2) requests.
type HTTPAction interface {
	HandleHTTP(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)
}

// Dependencies are created once per process and shared by every handler.
type Dependencies struct {
	Config  *config.Config
	Logger  logger.Logger
	Recipes *store.RecipeStore
	History *store.HistoryStore
	Menus   *menu.Service
	// Cache is nil unless cache.enabled is set.
	Cache *cache.RecipeCache
	// Publisher is nil unless notifications.sns.enabled is set.
	Publisher awsx.EventPublisher
	Model     suggest.Model
	Suggester *suggest.Suggester

	redis *redis.Client
}

// New loads AWS settings and wires the stores, cache, publisher and model.
// Nothing here dials out except the optional Redis ping.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*Dependencies, error) {
	awsCfg, err := awsx.LoadConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}

	dynamo := awsx.NewDynamoDB(awsCfg, cfg.AWS)
	d := &Dependencies{
		Config:  cfg,
		Logger:  log,
		Recipes: store.NewRecipeStore(dynamo, cfg.Tables.Recipes),
		History: store.NewHistoryStore(dynamo, cfg.Tables.History),
		Model:   awsx.NewBedrockClientFromConfig(awsCfg, cfg.Bedrock),
	}

	if cfg.Notifications.SNS.Enabled {
		d.Publisher = awsx.NewSNSPublisherFromConfig(awsCfg, cfg.Notifications.SNS.TopicARN)
	}

	if cfg.Cache.Enabled {
		d.redis = cache.NewRedis(cfg.Cache)
		if err := cache.Ping(ctx, d.redis); err != nil {
			log.Warn("Recipe cache unreachable, reads fall through to DynamoDB", map[string]interface{}{"error": err.Error()})
		}
		d.Cache = cache.NewRecipeCache(d.Recipes, d.redis, time.Duration(cfg.Cache.TTL)*time.Second, log)
	}

	d.wire()
	return d, nil
}

// wire builds the menu service and suggester from the collaborators already
// set on d.
func (d *Dependencies) wire() {
	var catalog menu.RecipeCatalog = d.Recipes
	if d.Cache != nil {
		catalog = d.Cache
	}
	d.Menus = menu.NewService(d.History, catalog, menu.WithLocation(d.Config.Location()))
	d.Suggester = suggest.NewSuggester(d.Menus, d.Model)
}

// AgentActions maps task type to handler for the agent and Zeebe transports.
func (d *Dependencies) AgentActions() map[string]AgentAction {
	cfg := d.Config
	return map[string]AgentAction{
		savemenu.TaskType:    savemenu.NewHandler(savemenu.LoadConfig(cfg), d.Menus, d.Publisher, d.Logger),
		gethistory.TaskType:  gethistory.NewHandler(gethistory.LoadConfig(cfg), d.Menus, d.Logger),
		getrecipes.TaskType:  getrecipes.NewHandler(getrecipes.LoadConfig(cfg), d.Menus, d.Logger),
		suggestmenu.TaskType: d.suggestHandler(),
	}
}

// HTTPActions maps task type to handler for the HTTP API.
func (d *Dependencies) HTTPActions() map[string]HTTPAction {
	var invalidator createrecipe.CacheInvalidator
	if d.Cache != nil {
		invalidator = d.Cache
	}
	return map[string]HTTPAction{
		listrecipes.TaskType:  listrecipes.NewHandler(d.Menus, d.Logger),
		getrecipe.TaskType:    getrecipe.NewHandler(d.Recipes, d.Logger),
		createrecipe.TaskType: createrecipe.NewHandler(d.Recipes, invalidator, d.Logger),
		menuhistory.TaskType:  menuhistory.NewHandler(d.Menus, d.Publisher, d.Logger),
		suggestmenu.TaskType:  d.suggestHandler(),
	}
}

func (d *Dependencies) suggestHandler() *suggestmenu.Handler {
	return suggestmenu.NewHandler(suggestmenu.LoadConfig(d.Config), d.Suggester, d.Logger)
}

func (d *Dependencies) Close() error {
	if d.redis != nil {
		return d.redis.Close()
	}
	return nil
}
