// Package openrouter classifies transactions through the OpenRouter API,
// which speaks the OpenAI chat-completion protocol. It is the fallback for
// transactions no rule matched.
package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"fintidy"
)

var logger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "openrouter").Logger()

// DefaultBaseURL is the public OpenRouter endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// requestTimeout bounds a single completion call.
const requestTimeout = 2 * time.Minute

// ErrNoAPIKey is returned when the environment carries no OpenRouter key.
var ErrNoAPIKey = errors.New("OPENROUTER_API_KEY not set")

// Config is the client configuration, read from the environment.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LoadConfig reads the configuration from the environment, loading a .env
// file first when one exists.
func LoadConfig() (Config, error) {
	_ = godotenv.Load() // a missing .env file is fine

	cfg := Config{
		APIKey:  os.Getenv("OPENROUTER_API_KEY"),
		BaseURL: getenv("OPENROUTER_BASE_URL", DefaultBaseURL),
		Model:   getenv("OPENROUTER_MODEL", "anthropic/claude-3.5-haiku"),
	}
	if cfg.APIKey == "" {
		return Config{}, ErrNoAPIKey
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Client asks a model to pick a category leaf for each transaction.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a client for the configured OpenRouter endpoint.
func New(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: cfg.Model,
	}
}

// ClassifyBatch sends the transactions in one request and returns the model's
// verdicts as fingerprint -> category leaf path. Verdicts for unknown
// fingerprints or categories outside the allowed leaves are dropped with a
// warning, so a confused model can never corrupt the ledger.
func (c *Client) ClassifyBatch(ctx context.Context, txs []fintidy.Transaction, leaves []string) (map[string]string, error) {
	if len(txs) == 0 {
		return map[string]string{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	prompt := buildPrompt(txs, leaves)
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openrouter completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openrouter returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	logger.Debug().Str("model", resp.Model).Str("response", raw).Msg("completion received")

	verdicts, err := parseVerdicts(raw)
	if err != nil {
		return nil, err
	}
	return filterVerdicts(verdicts, txs, leaves), nil
}

const systemMessage = "You are a personal finance categorization engine. " +
	"You reply with minified JSON only. No comments, no markdown."

// buildPrompt pins the category whitelist and the reply schema, then lists
// one transaction per line.
func buildPrompt(txs []fintidy.Transaction, leaves []string) string {
	var b strings.Builder
	b.WriteString("Assign each transaction below to exactly one category.\n\n")
	b.WriteString("RULES:\n")
	b.WriteString("- A category MUST be exactly one of the allowed paths. Never invent new categories.\n")
	b.WriteString("- Negative amounts are spending, positive amounts are income or reimbursements.\n")
	b.WriteString("- A positive peer-to-peer credit that settles a bill is a reimbursement, not salary.\n")
	b.WriteString("- When unsure between siblings, pick the sibling named \"uncategorized\".\n")
	b.WriteString("- Reply with one minified JSON object mapping id to category path. Nothing else.\n\n")

	b.WriteString("ALLOWED CATEGORIES:\n")
	for _, leaf := range leaves {
		b.WriteString(leaf)
		b.WriteString("\n")
	}

	b.WriteString("\nTRANSACTIONS (id | date | amount | description | account | bank category):\n")
	for _, tx := range txs {
		fmt.Fprintf(&b, "%s | %s | %s | %s | %s | %s\n",
			tx.ContentKey(), tx.Date, tx.Amount.Decimal(), tx.Description, tx.Account, tx.Category)
	}
	return b.String()
}

// parseVerdicts decodes the model reply, tolerating markdown fences the
// instructions forbid but models still emit.
func parseVerdicts(raw string) (map[string]string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var verdicts map[string]string
	if err := json.Unmarshal([]byte(cleaned), &verdicts); err != nil {
		logger.Error().Err(err).Str("raw", raw).Msg("cannot parse model reply")
		return nil, fmt.Errorf("cannot parse model reply as JSON: %w", err)
	}
	return verdicts, nil
}

// filterVerdicts keeps only verdicts about transactions we asked for and
// categories we allow.
func filterVerdicts(verdicts map[string]string, txs []fintidy.Transaction, leaves []string) map[string]string {
	asked := make(map[string]bool, len(txs))
	for _, tx := range txs {
		asked[tx.ContentKey()] = true
	}
	allowed := make(map[string]bool, len(leaves))
	for _, leaf := range leaves {
		allowed[leaf] = true
	}

	kept := make(map[string]string, len(verdicts))
	for id, category := range verdicts {
		if !asked[id] {
			logger.Warn().Str("id", id).Msg("dropping verdict for unknown transaction")
			continue
		}
		if !allowed[category] {
			logger.Warn().Str("id", id).Str("category", category).Msg("dropping verdict outside the category tree")
			continue
		}
		kept[id] = category
	}
	return kept
}
