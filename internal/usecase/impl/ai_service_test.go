package impl_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalaghar/internal/domain/entity"
	domainerrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/errors"
	"kalaghar/internal/infra/ai"
	"kalaghar/internal/infra/persistence/docstore"
	"kalaghar/internal/usecase"
	"kalaghar/internal/usecase/impl"
)

func newAIService(generator *scriptedGenerator) usecase.AIUsecase {
	s := newTestStore()

	return impl.NewAIService(impl.AIServiceParams{
		Generator:      generator,
		Sessions:       ai.NewSessionStore(time.Hour),
		ProductRepo:    docstore.NewProductRepository(s),
		OrderRepo:      docstore.NewOrderRepository(s),
		InvestmentRepo: docstore.NewInvestmentRepository(s),
		Config:         testConfig(),
		Logger:         slog.New(slog.DiscardHandler),
	})
}

func TestGenerateDescriptionParsesFencedJSON(t *testing.T) {
	t.Parallel()

	generator := &scriptedGenerator{replies: []string{
		"Here you go:\n```json\n{\"description\": \"A hand-dyed indigo scarf.\", \"tags\": [\"indigo\", \"handwoven\"]}\n```",
	}}
	svc := newAIService(generator)

	out, err := svc.GenerateDescription(context.Background(), &usecase.GenerateDescriptionInput{
		ProductName: "Indigo Scarf",
		Category:    "textiles",
	})
	require.NoError(t, err)
	assert.Equal(t, "A hand-dyed indigo scarf.", out.Description)
	assert.Equal(t, []string{"indigo", "handwoven"}, out.Tags)
}

func TestGenerateDescriptionInvalidReply(t *testing.T) {
	t.Parallel()

	generator := &scriptedGenerator{replies: []string{"sorry, I cannot help with that"}}
	svc := newAIService(generator)

	_, err := svc.GenerateDescription(context.Background(), &usecase.GenerateDescriptionInput{ProductName: "Clay Bowl"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAIInvalidFormat))
}

func TestSuggestPriceParsesBareObject(t *testing.T) {
	t.Parallel()

	generator := &scriptedGenerator{replies: []string{
		`Based on comparable listings {"minPrice": 20, "maxPrice": 40, "recommendedPrice": 28.5, "reasoning": "material cost plus labor"} is fair.`,
	}}
	svc := newAIService(generator)

	out, err := svc.SuggestPrice(context.Background(), &usecase.SuggestPriceInput{
		ProductName:  "Clay Bowl",
		MaterialCost: 6,
		HoursOfWork:  3,
	})
	require.NoError(t, err)
	assert.InDelta(t, 28.5, out.RecommendedPrice, 1e-9)
	assert.InDelta(t, 20, out.MinPrice, 1e-9)
}

func TestTrendsReport(t *testing.T) {
	t.Parallel()

	generator := &scriptedGenerator{replies: []string{
		"```json\n{\"summary\": \"Pottery demand is up.\", \"trends\": [{\"name\": \"Raku\", \"description\": \"crackle glaze\", \"demand\": \"rising\"}]}\n```",
	}}
	svc := newAIService(generator)

	out, err := svc.Trends(context.Background(), "pottery")
	require.NoError(t, err)
	assert.Equal(t, "Pottery demand is up.", out.Summary)
	require.Len(t, out.Trends, 1)
	assert.Equal(t, "rising", out.Trends[0].Demand)
}

func TestFundingReportRoleGate(t *testing.T) {
	t.Parallel()

	generator := &scriptedGenerator{replies: []string{
		"```json\n{\"summary\": \"No funding yet.\", \"recommendations\": [\"propose a preorder campaign\"]}\n```",
	}}
	svc := newAIService(generator)

	_, err := svc.FundingReport(context.Background(), asCaller(uuid.New(), entity.RoleBuyer))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	out, err := svc.FundingReport(context.Background(), asCaller(uuid.New(), entity.RoleArtisan))
	require.NoError(t, err)
	assert.Equal(t, "No funding yet.", out.Summary)
}

func TestAssistantPlainReply(t *testing.T) {
	t.Parallel()

	generator := &scriptedGenerator{replies: []string{
		"The scarf ships within a week.",
		"You asked about the scarf's shipping earlier.",
	}}
	svc := newAIService(generator)
	caller := asCaller(uuid.New(), entity.RoleBuyer)

	out, err := svc.Assistant(context.Background(), caller, &usecase.AssistantInput{Message: "When does the scarf ship?"})
	require.NoError(t, err)
	assert.Equal(t, "The scarf ships within a week.", out.Reply)
	assert.Equal(t, 1, generator.callCount())

	// The next turn carries the stored history.
	_, err = svc.Assistant(context.Background(), caller, &usecase.AssistantInput{Message: "What did I ask before?"})
	require.NoError(t, err)
	assert.Equal(t, 2, generator.callCount())
}

func TestAssistantRunsTool(t *testing.T) {
	t.Parallel()

	generator := &scriptedGenerator{replies: []string{
		`{"tool": "platform_updates", "args": {}}`,
		"Recently we added QR share codes and push notifications.",
	}}
	svc := newAIService(generator)
	caller := asCaller(uuid.New(), entity.RoleBuyer)

	out, err := svc.Assistant(context.Background(), caller, &usecase.AssistantInput{Message: "anything new on the platform?"})
	require.NoError(t, err)
	assert.Equal(t, "Recently we added QR share codes and push notifications.", out.Reply)
	assert.Equal(t, 2, generator.callCount())

	// The tool result was fed back as the last turn before the final reply.
	require.Len(t, generator.prompts, 2)
	assert.Contains(t, generator.prompts[1], "Tool result:")
	assert.Contains(t, generator.prompts[1], "QR share codes")
}

func TestAssistantRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	svc := newAIService(&scriptedGenerator{})

	_, err := svc.Assistant(context.Background(), asCaller(uuid.New(), entity.RoleBuyer), &usecase.AssistantInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}
