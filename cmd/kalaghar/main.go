package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"kalaghar/config"
	"kalaghar/internal/delivery"
	"kalaghar/internal/delivery/http"
	"kalaghar/internal/delivery/http/middleware"
	"kalaghar/internal/delivery/http/router/handler"
	"kalaghar/internal/domain/service"
	"kalaghar/internal/domain/store"
	"kalaghar/internal/infra/ai"
	"kalaghar/internal/infra/auth"
	logs "kalaghar/internal/infra/log"
	"kalaghar/internal/infra/media"
	"kalaghar/internal/infra/persistence/docstore"
	"kalaghar/internal/infra/persistence/firestore"
	"kalaghar/internal/infra/persistence/memory"
	"kalaghar/internal/infra/pubsub"
	"kalaghar/internal/infra/qrcode"
	"kalaghar/internal/usecase/impl"

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
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
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
		pubsub.NewEventPublisher,
		media.NewBlobStorage,
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
			docstore.NewProductRepository,
			docstore.NewIdeaRepository,
			docstore.NewOrderRepository,
			docstore.NewInvestmentRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			newTextGenerator,
			newSessionStore,
			newQRCodeService,
		),
	)
}

// newTextGenerator exposes the AI client through its service interface.
func newTextGenerator(cfg *config.Config, logger *slog.Logger) service.TextGenerator {
	return ai.NewClient(cfg, logger)
}

// newSessionStore creates the assistant conversation store.
func newSessionStore(cfg *config.Config) *ai.SessionStore {
	ttl := 24 * time.Hour
	if cfg.AI != nil && cfg.AI.SessionTTL > 0 {
		ttl = cfg.AI.SessionTTL
	}

	return ai.NewSessionStore(ttl)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewProductService,
			impl.NewIdeaService,
			impl.NewOrderService,
			impl.NewInvestmentService,
			impl.NewAIService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewProductHandler,
			handler.NewIdeaHandler,
			handler.NewOrderHandler,
			handler.NewInvestmentHandler,
			handler.NewAIHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
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
