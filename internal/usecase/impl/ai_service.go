package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/fx"

	"kalaghar/config"
	deliverycontext "kalaghar/internal/delivery/context"
	"kalaghar/internal/domain/entity"
	domainerrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/domain/repository"
	"kalaghar/internal/domain/service"
	"kalaghar/internal/errors"
	"kalaghar/internal/infra/ai"
	"kalaghar/internal/usecase"
)

const assistantPreamble = `You are the KalaGhar shopping assistant for a handmade-goods marketplace.
You can call tools by replying with ONLY a JSON object of the form
{"tool": "<name>", "args": {}}.
Available tools:
- "performance_dashboard": the caller's product and order figures.
- "platform_updates": recent platform announcements.
- "event_search": craft fairs and market events, args: {"query": "<text>"}.
When no tool is needed, answer in plain text.`

// aiService implements the AIUsecase interface.
type aiService struct {
	generator      service.TextGenerator
	sessions       *ai.SessionStore
	productRepo    repository.ProductRepository
	orderRepo      repository.OrderRepository
	investmentRepo repository.InvestmentRepository
	httpClient     *http.Client
	eventSearchURL string
	logger         *slog.Logger
}

// AIServiceParams holds dependencies for AIService, injected by Fx.
type AIServiceParams struct {
	fx.In

	Generator      service.TextGenerator
	Sessions       *ai.SessionStore
	ProductRepo    repository.ProductRepository
	OrderRepo      repository.OrderRepository
	InvestmentRepo repository.InvestmentRepository
	Config         *config.Config
	Logger         *slog.Logger
}

// NewAIService is the constructor for aiService.
func NewAIService(params AIServiceParams) usecase.AIUsecase {
	return &aiService{
		generator:      params.Generator,
		sessions:       params.Sessions,
		productRepo:    params.ProductRepo,
		orderRepo:      params.OrderRepo,
		investmentRepo: params.InvestmentRepo,
		httpClient:     &http.Client{Timeout: params.Config.AI.RequestTimeout},
		eventSearchURL: params.Config.AI.EventSearchURL,
		logger:         params.Logger,
	}
}

func (srv *aiService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// generateInto prompts the model and decodes the JSON object in its reply.
func (srv *aiService) generateInto(ctx context.Context, prompt string, out any) error {
	text, err := srv.generator.Generate(ctx, prompt)
	if err != nil {
		return errors.Wrap(err, "generation failed")
	}

	raw, err := ai.ExtractJSON(text)
	if err != nil {
		srv.log(ctx).Warn("Model reply held no JSON object", slog.Int("replyLength", len(text)))

		return errors.Wrap(err, "failed to extract JSON from model reply")
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return errors.Wrap(domainerrors.ErrAIInvalidFormat, err.Error())
	}

	return nil
}

// GenerateDescription asks the model for a product description and tags.
func (srv *aiService) GenerateDescription(ctx context.Context, input *usecase.GenerateDescriptionInput) (*usecase.DescriptionOutput, error) {
	if input.ProductName == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("product name is required")
	}

	prompt := fmt.Sprintf(`Write a warm, authentic product description for a handmade item.
Product: %s
Category: %s
Materials: %s
Region: %s
Keywords: %s
Reply with ONLY a JSON object: {"description": "...", "tags": ["..."]}.`,
		input.ProductName, input.Category, input.Materials, input.Region,
		strings.Join(input.Keywords, ", "))

	var out usecase.DescriptionOutput
	if err := srv.generateInto(ctx, prompt, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// SuggestPrice asks the model for a price range and recommendation.
func (srv *aiService) SuggestPrice(ctx context.Context, input *usecase.SuggestPriceInput) (*usecase.PriceSuggestion, error) {
	if input.ProductName == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("product name is required")
	}

	prompt := fmt.Sprintf(`Suggest a fair retail price in USD for a handmade item.
Product: %s
Category: %s
Material cost: %.2f
Hours of work: %.1f
Region: %s
Reply with ONLY a JSON object: {"minPrice": 0, "maxPrice": 0, "recommendedPrice": 0, "reasoning": "..."}.`,
		input.ProductName, input.Category, input.MaterialCost, input.HoursOfWork, input.Region)

	var out usecase.PriceSuggestion
	if err := srv.generateInto(ctx, prompt, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Trends asks the model for a market trend report for a craft category.
func (srv *aiService) Trends(ctx context.Context, category string) (*usecase.TrendReport, error) {
	if category == "" {
		category = "handmade goods"
	}

	prompt := fmt.Sprintf(`Summarize current market trends for the "%s" craft category.
Reply with ONLY a JSON object:
{"summary": "...", "trends": [{"name": "...", "description": "...", "demand": "rising|steady|falling"}]}.`,
		category)

	var out usecase.TrendReport
	if err := srv.generateInto(ctx, prompt, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// FundingReport summarizes the caller's investment standing.
func (srv *aiService) FundingReport(ctx context.Context, caller usecase.Caller) (*usecase.FundingReport, error) {
	query := repository.InvestmentQuery{Limit: 50}
	switch caller.Role {
	case entity.RoleArtisan:
		artisanID := caller.UserID
		query.ArtisanID = &artisanID
	case entity.RoleInvestor:
		investorID := caller.UserID
		query.InvestorID = &investorID
	default:
		if !caller.IsAdmin() {
			return nil, errors.Wrap(domainerrors.ErrForbidden, "funding reports are for artisans and investors")
		}
	}

	investments, err := srv.investmentRepo.List(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load investments for funding report")
	}

	var sb strings.Builder
	for _, inv := range investments {
		fmt.Fprintf(&sb, "- type=%s status=%s principal=%.2f raised=%.2f target=%.2f remaining=%.2f\n",
			inv.Type, inv.Status, inv.Principal,
			inv.FundingProgress.AmountRaised, inv.FundingProgress.TargetAmount,
			inv.Repayment.RemainingBalance)
	}
	if sb.Len() == 0 {
		sb.WriteString("- none\n")
	}

	prompt := fmt.Sprintf(`Assess this funding position on a handmade-goods marketplace.
Investments:
%s
Reply with ONLY a JSON object: {"summary": "...", "recommendations": ["..."]}.`, sb.String())

	var out usecase.FundingReport
	if err := srv.generateInto(ctx, prompt, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// PersonalInsights summarizes the caller's activity on the platform.
func (srv *aiService) PersonalInsights(ctx context.Context, caller usecase.Caller) (*usecase.InsightsReport, error) {
	activity, err := srv.describeActivity(ctx, caller)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Give this %s on a handmade-goods marketplace personalized insights.
Activity:
%s
Reply with ONLY a JSON object: {"summary": "...", "suggestions": ["..."]}.`, caller.Role, activity)

	var out usecase.InsightsReport
	if err := srv.generateInto(ctx, prompt, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Assistant runs one turn of the tool-using shopping assistant conversation.
func (srv *aiService) Assistant(ctx context.Context, caller usecase.Caller, input *usecase.AssistantInput) (*usecase.AssistantOutput, error) {
	if input.Message == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("message must not be empty")
	}

	history := srv.sessions.History(caller.UserID)
	userTurn := service.ChatMessage{Role: "user", Text: input.Message}

	messages := make([]service.ChatMessage, 0, len(history)+2)
	messages = append(messages, service.ChatMessage{Role: "user", Text: assistantPreamble})
	messages = append(messages, history...)
	messages = append(messages, userTurn)

	reply, err := srv.generator.Chat(ctx, messages)
	if err != nil {
		return nil, errors.Wrap(err, "assistant turn failed")
	}

	if call, ok := parseToolCall(reply); ok {
		result := srv.runTool(ctx, caller, call)
		messages = append(messages,
			service.ChatMessage{Role: "model", Text: reply},
			service.ChatMessage{Role: "user", Text: "Tool result:\n" + result + "\nAnswer the user in plain text."})

		reply, err = srv.generator.Chat(ctx, messages)
		if err != nil {
			return nil, errors.Wrap(err, "assistant tool turn failed")
		}
	}

	srv.sessions.Append(caller.UserID, userTurn, service.ChatMessage{Role: "model", Text: reply})

	return &usecase.AssistantOutput{Reply: reply}, nil
}

type toolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// parseToolCall detects a tool invocation in a model reply.
func parseToolCall(reply string) (toolCall, bool) {
	raw, err := ai.ExtractJSON(reply)
	if err != nil {
		return toolCall{}, false
	}

	var call toolCall
	if err := json.Unmarshal([]byte(raw), &call); err != nil || call.Tool == "" {
		return toolCall{}, false
	}

	return call, true
}

func (srv *aiService) runTool(ctx context.Context, caller usecase.Caller, call toolCall) string {
	switch call.Tool {
	case "performance_dashboard":
		return srv.performanceDashboard(ctx, caller)
	case "platform_updates":
		return platformUpdates()
	case "event_search":
		query, _ := call.Args["query"].(string)

		return srv.eventSearch(ctx, query)
	default:
		return fmt.Sprintf("unknown tool %q", call.Tool)
	}
}

// performanceDashboard summarizes the caller's product and order figures.
func (srv *aiService) performanceDashboard(ctx context.Context, caller usecase.Caller) string {
	activity, err := srv.describeActivity(ctx, caller)
	if err != nil {
		srv.log(ctx).Warn("Performance dashboard lookup failed", slog.Any("error", err))

		return "dashboard data is unavailable right now"
	}

	return activity
}

// describeActivity builds a plain-text activity summary used in prompts.
func (srv *aiService) describeActivity(ctx context.Context, caller usecase.Caller) (string, error) {
	var sb strings.Builder

	if caller.Role == entity.RoleArtisan {
		productCount, err := srv.productRepo.CountByArtisan(ctx, caller.UserID)
		if err != nil {
			return "", errors.Wrap(err, "failed to count products")
		}
		orders, err := srv.orderRepo.ListByArtisan(ctx, caller.UserID, 20, 0)
		if err != nil {
			return "", errors.Wrap(err, "failed to load artisan orders")
		}

		fmt.Fprintf(&sb, "- listed products: %d\n- recent orders containing their items: %d\n", productCount, len(orders))
		for _, order := range orders {
			fmt.Fprintf(&sb, "- order %s status=%s total=%.2f\n", order.OrderNumber, order.Status, order.Pricing.Total)
		}

		return sb.String(), nil
	}

	orders, err := srv.orderRepo.ListByBuyer(ctx, caller.UserID, 20, 0)
	if err != nil {
		return "", errors.Wrap(err, "failed to load buyer orders")
	}

	fmt.Fprintf(&sb, "- orders placed: %d\n", len(orders))
	for _, order := range orders {
		fmt.Fprintf(&sb, "- order %s status=%s total=%.2f\n", order.OrderNumber, order.Status, order.Pricing.Total)
	}

	return sb.String(), nil
}

func platformUpdates() string {
	return strings.Join([]string{
		"- Crowdfunding repayment schedules now appear on investment pages.",
		"- QR share codes are available on every product page.",
		"- Order status notifications are delivered via push.",
	}, "\n")
}

// eventSearch queries the external craft-event service. An unconfigured URL
// disables the lookup.
func (srv *aiService) eventSearch(ctx context.Context, query string) string {
	if srv.eventSearchURL == "" {
		return "event search is not available"
	}

	endpoint := srv.eventSearchURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "event search request could not be built"
	}

	resp, err := srv.httpClient.Do(req)
	if err != nil {
		srv.log(ctx).Warn("Event search failed", slog.Any("error", err))

		return "event search is unreachable right now"
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("event search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "event search response could not be read"
	}

	return string(body)
}
