// Package claude adapts the Anthropic SDK to the agent engine interface.
package claude

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/opencivic/civicassist/agent"
	"github.com/opencivic/civicassist/message"
)

// Config holds Claude provider configuration.
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int64
}

// Provider implements agent.Engine over the Anthropic messages API.
type Provider struct {
	config *Config
	client anthropic.Client
}

// New creates a Claude provider using the official SDK.
func New(config *Config) *Provider {
	if config.Model == "" {
		config.Model = "claude-sonnet-4-5-20250929"
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 4096
	}

	options := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}

	return &Provider{
		config: config,
		client: anthropic.NewClient(options...),
	}
}

// Generate implements agent.Engine.
func (p *Provider) Generate(ctx context.Context, req *agent.GenerateRequest) (*message.Message, error) {
	if req == nil {
		return nil, fmt.Errorf("generate request cannot be nil")
	}

	conversation := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case message.RoleUser:
			conversation = append(conversation,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case message.RoleAssistant:
			conversation = append(conversation, assistantMessage(msg))
		case message.RoleTool:
			conversation = append(conversation, anthropic.NewUserMessage(
				anthropic.ContentBlockParamUnion{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: msg.ToolID,
						Content: []anthropic.ToolResultBlockParamContentUnion{
							{OfText: &anthropic.TextBlockParam{Text: msg.Content}},
						},
					},
				}))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		Messages:  conversation,
		MaxTokens: p.config.MaxTokens,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	if len(req.Tools) > 0 {
		claudeTools := make([]anthropic.ToolUnionParam, 0, len(req.Tools))
		for _, t := range req.Tools {
			toolJSON, err := json.Marshal(t)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal tool: %w", err)
			}
			var toolParam anthropic.ToolParam
			if err := json.Unmarshal(toolJSON, &toolParam); err != nil {
				return nil, fmt.Errorf("failed to unmarshal tool param: %w", err)
			}
			claudeTools = append(claudeTools, anthropic.ToolUnionParam{OfTool: &toolParam})
		}
		params.Tools = claudeTools
	}

	apiMessage, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("claude API error: %w", err)
	}

	var responseText string
	toolCalls := make([]message.ToolCall, 0)
	for _, content := range apiMessage.Content {
		switch content.Type {
		case "text":
			responseText += content.Text
		case "tool_use":
			var args map[string]any
			if err := json.Unmarshal(content.Input, &args); err != nil {
				return nil, fmt.Errorf("failed to parse tool input: %w", err)
			}
			toolCalls = append(toolCalls, message.ToolCall{
				ID:   content.ID,
				Name: content.Name,
				Args: args,
			})
		}
	}

	responseMsg := message.NewMessage(message.RoleAssistant, responseText)
	if len(toolCalls) > 0 {
		responseMsg.ToolCalls = toolCalls
	}
	return responseMsg, nil
}

// assistantMessage rebuilds an assistant turn, restoring its tool_use
// blocks so the API accepts the following tool_result messages.
func assistantMessage(msg *message.Message) anthropic.MessageParam {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(msg.ToolCalls))
	if msg.Content != "" {
		blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
	}
	for _, call := range msg.ToolCalls {
		blocks = append(blocks, anthropic.ContentBlockParamUnion{
			OfToolUse: &anthropic.ToolUseBlockParam{
				ID:    call.ID,
				Name:  call.Name,
				Input: call.Args,
			},
		})
	}
	return anthropic.NewAssistantMessage(blocks...)
}
