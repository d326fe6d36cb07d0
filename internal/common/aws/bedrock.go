// internal/common/aws/bedrock.go
package aws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	appconfig "kondate-planner/internal/common/config"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

var ErrEmptyCompletion = errors.New("EMPTY_COMPLETION")

// ModelInvoker is the part of *bedrockruntime.Client the Bedrock client needs.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// TextModel turns a prompt into the model's text reply.
type TextModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Messages         []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// BedrockClient calls an Anthropic model through the Bedrock messages API.
type BedrockClient struct {
	api              ModelInvoker
	modelID          string
	anthropicVersion string
	maxTokens        int
}

func NewBedrockClient(api ModelInvoker, cfg appconfig.BedrockConfig) *BedrockClient {
	return &BedrockClient{
		api:              api,
		modelID:          cfg.ModelID,
		anthropicVersion: cfg.AnthropicVersion,
		maxTokens:        cfg.MaxTokens,
	}
}

func NewBedrockClientFromConfig(awsCfg awssdk.Config, cfg appconfig.BedrockConfig) *BedrockClient {
	return NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg)
}

func (b *BedrockClient) ModelID() string { return b.modelID }

// Complete sends prompt as a single user message and returns the text of
// the first content block.
func (b *BedrockClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := marshalCompact(messagesRequest{
		AnthropicVersion: b.anthropicVersion,
		MaxTokens:        b.maxTokens,
		Messages:         []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	out, err := b.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     awssdk.String(b.modelID),
		ContentType: awssdk.String("application/json"),
		Accept:      awssdk.String("application/json"),
		Body:        []byte(body),
	})
	if err != nil {
		return "", fmt.Errorf("invoke model %s: %w", b.modelID, err)
	}

	var resp messagesResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}
	if len(resp.Content) == 0 || strings.TrimSpace(resp.Content[0].Text) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Content[0].Text, nil
}

func marshalCompact(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
