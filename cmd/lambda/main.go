// cmd/lambda/main.go
package main

import (
	"context"

	"kondate-planner/internal/bootstrap"
	"kondate-planner/internal/common/config"
	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/common/observability"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	// Collaborators are created once per execution environment and reused
	// across invocations.
	deps, err := bootstrap.New(context.Background(), cfg, log)
	if err != nil {
		zapLog.Fatal("failed to initialise dependencies", zap.Error(err))
	}
	defer deps.Close()

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	dispatcher, err := bootstrap.NewDispatcher(cfg.Lambda.Handler, deps.AgentActions(), deps.HTTPActions(), obs)
	if err != nil {
		zapLog.Fatal("no handler configured", zap.String("handler", cfg.Lambda.Handler), zap.Error(err))
	}

	zapLog.Info("Lambda handler ready",
		zap.String("handler", cfg.Lambda.Handler),
		zap.String("recipesTable", cfg.Tables.Recipes),
		zap.String("historyTable", cfg.Tables.History),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	lambda.Start(dispatcher.Handle)
}
