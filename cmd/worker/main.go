package main

import (
	"context"
	"log/slog"
	"os"

	"kalaghar/config"
	"kalaghar/internal/delivery"
	"kalaghar/internal/delivery/worker"
	"kalaghar/internal/delivery/worker/handler"
	"kalaghar/internal/domain/service"
	"kalaghar/internal/domain/store"
	logs "kalaghar/internal/infra/log"
	"kalaghar/internal/infra/notification"
	"kalaghar/internal/infra/persistence/docstore"
	"kalaghar/internal/infra/persistence/firestore"
	"kalaghar/internal/infra/persistence/memory"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		newStore,
	)
}

// newStore selects the document store driver. Firestore when a project is
// configured, an in-memory store otherwise.
func newStore(lc fx.Lifecycle, ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store.Store, error) {
	client, err := firestore.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		logger.Info("Firestore not configured, using in-memory store")

		return store.New(memory.NewDriver()), nil
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return store.New(firestore.NewDriver(client)), nil
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			docstore.NewUserRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newFirebaseService,
		),
	)
}

// newFirebaseService creates the push delivery client. The worker cannot run
// without it.
func newFirebaseService(ctx context.Context, cfg *config.Config) (service.NotificationService, error) {
	if cfg.Firebase == nil || cfg.Firebase.CredentialsPath == "" {
		return nil, errors.New("firebase credentials are required for the worker")
	}

	return notification.NewFirebaseService(ctx, cfg.Firebase.CredentialsPath)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPushHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
