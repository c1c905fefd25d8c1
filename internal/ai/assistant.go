// Package ai is the shop assistant: a Gemini chat that answers questions
// about stock, customer balances and cashier sales by calling read-only tools.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/config"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	defaultModel = "gemini-2.0-flash-001"

	// rounds of tool calls allowed before giving up on an answer
	maxToolRounds = 5
)

var ErrNoAnswer = errors.New("assistant returned no answer")

const systemPrompt = `Today is %s. You are the back-office assistant of a grocery shop.

RULES:
1. READ ONLY: you can look things up but never change stock, prices, invoices or balances. If asked to, say it must be done in the app.
2. PRODUCTS: for price, cost or stock of a product call 'check_inventory' (pass part of the name as query) and answer from its JSON.
3. REORDER: for what needs reordering call 'get_low_stock'.
4. CUSTOMERS: for who owes money call 'get_customer_balances'. Positive remaining means the customer owes the shop.
5. SALES: for sales, returns or revenue call 'get_cashier_report' with dates as YYYY-MM-DD.
Answer in the language of the question. Amounts are in the shop's currency.`

// Assistant owns one Gemini client. It is safe for concurrent use; each Ask
// opens its own chat session.
type Assistant struct {
	client *genai.Client
	model  string
	tools  *Toolbox
	log    *zap.Logger
	now    func() time.Time
}

// NewAssistant connects to Gemini with the configured API key.
func NewAssistant(ctx context.Context, cfg config.AIConfig, tools *Toolbox, log *zap.Logger) (*Assistant, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Assistant{client: client, model: model, tools: tools, log: log, now: time.Now}, nil
}

func (a *Assistant) Close() error {
	return a.client.Close()
}

// Ask sends the question and keeps answering tool calls until the model replies with text.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	model := a.client.GenerativeModel(a.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fmt.Sprintf(systemPrompt, a.now().Format("2006-01-02")))},
	}
	model.Tools = []*genai.Tool{{FunctionDeclarations: a.tools.Declarations()}}

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(question))
	if err != nil {
		return "", fmt.Errorf("ask gemini: %w", err)
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			return replyText(resp)
		}
		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			a.log.Debug("assistant tool call", zap.String("tool", call.Name), zap.Any("args", call.Args))
			parts = append(parts, genai.FunctionResponse{Name: call.Name, Response: a.tools.Call(ctx, call)})
		}
		if resp, err = session.SendMessage(ctx, parts...); err != nil {
			return "", fmt.Errorf("send tool results: %w", err)
		}
	}
	return replyText(resp)
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoAnswer
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", ErrNoAnswer
	}
	return b.String(), nil
}
