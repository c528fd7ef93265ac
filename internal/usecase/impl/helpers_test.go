package impl_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"kalaghar/config"
	"kalaghar/internal/domain/entity"
	"kalaghar/internal/domain/service"
	"kalaghar/internal/domain/store"
	"kalaghar/internal/infra/persistence/docstore"
	"kalaghar/internal/infra/persistence/memory"
	"kalaghar/internal/usecase"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 4, AccessTokenTTL: time.Hour},
		AI:   &config.AIConfig{RequestTimeout: time.Second, SessionTTL: time.Hour},
		Pricing: &config.PricingConfig{
			TaxRate:               0.08,
			FlatShippingFee:       15,
			FreeShippingThreshold: 100,
		},
		QRCode: &config.QRCodeConfig{BaseURL: "https://kalaghar.example"},
	}
}

func newTestStore() *store.Store {
	return store.New(memory.NewDriver())
}

func seedArtisanProduct(ctx context.Context, s *store.Store, artisanID uuid.UUID, price float64, quantity int) *entity.Product {
	product := &entity.Product{
		ID:        uuid.New(),
		ArtisanID: artisanID,
		Name:      "Indigo Scarf",
		Category:  entity.CategoryTextiles,
		Price:     price,
		Inventory: entity.Inventory{Quantity: quantity},
		Status:    entity.ProductActive,
	}
	if err := docstore.NewProductRepository(s).Create(ctx, product); err != nil {
		panic(err)
	}

	return product
}

// fakePublisher records every published order event.
type fakePublisher struct {
	mu     sync.Mutex
	events []service.OrderEvent
}

func (p *fakePublisher) PublishOrderEvent(_ context.Context, event service.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) published() []service.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]service.OrderEvent, len(p.events))
	copy(out, p.events)

	return out
}

// fakeHasher is a transparent stand-in for bcrypt.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("hash mismatch")
	}

	return nil
}

// fakeTokenService issues predictable tokens.
type fakeTokenService struct{}

func (fakeTokenService) GenerateAccessToken(userID uuid.UUID, role entity.Role) (string, error) {
	return fmt.Sprintf("token:%s:%s", userID, role), nil
}

func (fakeTokenService) ValidateToken(token string) (*service.TokenClaims, error) {
	return nil, fmt.Errorf("not implemented")
}

// scriptedGenerator replays canned model replies in order.
type scriptedGenerator struct {
	mu      sync.Mutex
	replies []string
	calls   int
	prompts []string
}

func (g *scriptedGenerator) next(prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prompts = append(g.prompts, prompt)
	if g.calls >= len(g.replies) {
		return "", fmt.Errorf("no scripted reply for call %d", g.calls)
	}
	reply := g.replies[g.calls]
	g.calls++

	return reply, nil
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	return g.next(prompt)
}

func (g *scriptedGenerator) Chat(_ context.Context, messages []service.ChatMessage) (string, error) {
	last := ""
	if len(messages) > 0 {
		last = messages[len(messages)-1].Text
	}

	return g.next(last)
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.calls
}

func asCaller(userID uuid.UUID, role entity.Role) usecase.Caller {
	return usecase.Caller{UserID: userID, Role: role}
}
