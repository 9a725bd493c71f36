// Command wishlist-api serves the wishlist API, either as an AWS Lambda
// function behind API Gateway or as a standalone HTTP server.
//
// Run locally against DynamoDB Local:
//
//	WISHAPP_RUNTIME=http WISHAPP_DYNAMO__ENDPOINT=http://localhost:8000 \
//	WISHAPP_DYNAMO__CREATE_TABLE=true go run ./cmd/wishlist-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/morgaesis/wishapp/api"
	"github.com/morgaesis/wishapp/httpapi"
	"github.com/morgaesis/wishapp/internal/config"
	"github.com/morgaesis/wishapp/internal/logging"
	"github.com/morgaesis/wishapp/lambdaapi"
	"github.com/morgaesis/wishapp/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "wishlist-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	conf, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(conf.Logging, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newStore(ctx, conf, logger)
	if err != nil {
		return err
	}

	router := api.NewRouter(&api.RouterConfig{
		Handlers:      api.NewHandlers(s, logger),
		StagePrefixes: conf.Routing.StagePrefixes,
		Logger:        logger,
	})

	if conf.UseLambda() {
		logger.Info("starting lambda handler", "env", conf.Env, "backend", conf.Backend)
		lambda.StartWithOptions(lambdaapi.NewHandler(router, logger).Invoke, lambda.WithContext(ctx))
		return nil
	}

	h := httpapi.NewHandler(&httpapi.Config{
		Router:       router,
		Logger:       logger,
		MaxBodyBytes: conf.Server.MaxBodyBytes,
		RateLimit:    conf.Server.RateLimit,
		RateBurst:    conf.Server.RateBurst,
		Metrics:      conf.Server.Metrics,
	})
	srv := httpapi.NewServer(httpapi.ServerConfig{
		Addr:            conf.Server.Addr,
		ReadTimeout:     conf.Server.ReadTimeout,
		WriteTimeout:    conf.Server.WriteTimeout,
		IdleTimeout:     conf.Server.IdleTimeout,
		ShutdownTimeout: conf.Server.ShutdownTimeout,
	}, h, logger)

	logger.Info("starting http server", "env", conf.Env, "backend", conf.Backend, "addr", conf.Server.Addr)
	return srv.Run(ctx)
}

func newStore(ctx context.Context, conf *config.Config, logger *slog.Logger) (store.Store, error) {
	if conf.Backend == config.BackendMemory {
		logger.Warn("using in-memory store; data is lost on exit")
		return store.NewMemory(), nil
	}

	sc := conf.StoreConfig()
	client, err := store.NewClient(ctx, sc)
	if err != nil {
		return nil, err
	}
	d := store.NewDynamo(client, sc, logger)

	if conf.Dynamo.CreateTable {
		tableCtx, cancel := context.WithTimeout(ctx, 3*time.Minute)
		defer cancel()
		if err := d.EnsureTable(tableCtx); err != nil {
			return nil, err
		}
	}

	logger.Info("using dynamodb store", "table", d.TableName(), "endpoint", sc.Endpoint)
	return d, nil
}
