package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxerrors"
)

// HTTPProviderConfig configures an HTTPProvider. Grounded on the teacher's
// per-provider config structs in pkg/config/llm.go, trimmed to the fields a
// generic chat-completions-style adapter needs.
type HTTPProviderConfig struct {
	ProviderName string
	BaseURL      string
	APIKey       string
	Model        string
	Timeout      time.Duration
}

// HTTPProvider is a skeleton adapter for a real OpenAI/Anthropic-style
// chat-completions endpoint: it shows the wire shape (request encoding,
// response decoding, failure-kind mapping) without this core depending on
// a live network call to build or test (SPEC_FULL.md §4.9). A production
// deployment supplies a BaseURL/APIKey and swaps requestBody/parseResponse
// for the target provider's actual schema.
type HTTPProvider struct {
	cfg    HTTPProviderConfig
	client *http.Client
}

// NewHTTPProvider constructs an HTTPProvider using cfg.Timeout as the
// HTTP client timeout bounding every request.
func NewHTTPProvider(cfg HTTPProviderConfig) *HTTPProvider {
	return &HTTPProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *HTTPProvider) Name() string { return p.cfg.ProviderName }

type httpChatRequest struct {
	Model       string           `json:"model"`
	Messages    []httpChatMsg    `json:"messages"`
	Tools       []map[string]any `json:"tools,omitempty"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Temperature float64          `json:"temperature,omitempty"`
}

type httpChatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type httpChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Send issues a chat-completions-style HTTP request. Transport failures
// (dial/connection errors) and 5xx responses surface as
// ProviderUnavailable; a malformed response body, an error payload, or a
// reply with no choices surfaces as InvalidRequest; a context deadline or
// client timeout surfaces as Timeout. Other status codes are not checked:
// their body is decoded like a 2xx reply.
func (p *HTTPProvider) Send(ctx context.Context, messages []Message, tools []ToolDefinition, opts SendOptions) (Response, error) {
	converted := CoalesceAdjacentSameRole(MergeConsecutiveSystem(messages))

	body := httpChatRequest{
		Model:       p.cfg.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Tools:       ToolsToJSONSchema(tools),
	}
	for _, m := range converted {
		body.Messages = append(body.Messages, httpChatMsg{Role: string(m.Role), Content: m.Text()})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, mxerrors.Wrap(mxerrors.InvalidRequest, "llm.HTTPProvider.Send", "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return Response{}, mxerrors.Wrap(mxerrors.InvalidRequest, "llm.HTTPProvider.Send", "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		var te interface{ Timeout() bool }
		if ctx.Err() != nil || (errors.As(err, &te) && te.Timeout()) {
			return Response{}, mxerrors.Wrap(mxerrors.Timeout, "llm.HTTPProvider.Send", "request deadline exceeded", err)
		}
		return Response{}, mxerrors.Wrap(mxerrors.ProviderUnavailable, "llm.HTTPProvider.Send", "transport failure", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, mxerrors.Wrap(mxerrors.ProviderUnavailable, "llm.HTTPProvider.Send", "failed to read response body", err)
	}

	if resp.StatusCode >= 500 {
		return Response{}, mxerrors.New(mxerrors.ProviderUnavailable, "llm.HTTPProvider.Send", "provider returned "+resp.Status)
	}

	var decoded httpChatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Response{}, mxerrors.Wrap(mxerrors.InvalidRequest, "llm.HTTPProvider.Send", "malformed provider response", err)
	}
	if decoded.Error != nil {
		return Response{}, mxerrors.New(mxerrors.InvalidRequest, "llm.HTTPProvider.Send", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return Response{}, mxerrors.New(mxerrors.InvalidRequest, "llm.HTTPProvider.Send", "provider returned no choices")
	}

	choice := decoded.Choices[0]
	return Response{
		ID:         decoded.ID,
		Role:       RoleAssistant,
		Content:    []ContentItem{Text(choice.Message.Content)},
		Model:      decoded.Model,
		StopReason: mapFinishReason(choice.FinishReason),
		Usage: Usage{
			Input:  decoded.Usage.PromptTokens,
			Output: decoded.Usage.CompletionTokens,
			Total:  decoded.Usage.TotalTokens,
		},
	}, nil
}

func mapFinishReason(reason string) StopReason {
	switch reason {
	case "tool_calls":
		return StopToolUse
	case "length":
		return StopMaxTokens
	case "stop":
		return StopEndTurn
	default:
		return StopEndTurn
	}
}
