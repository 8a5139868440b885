package anthropic

import (
	"context"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/taqh/notra-sub001/clients"
)

// AgentClient implements clients.AgentClient on top of the Anthropic Messages
// API. One RunAgent call drives a tool loop with a hard step budget: the model
// can only reach the tools it is handed, and the loop terminates after
// MaxSteps rounds no matter what the model asks for next.
type AgentClient struct {
	client anthropic.Client
	model  anthropic.Model
}

const defaultMaxTokens = 4096

// NewAgentClient creates a new Anthropic-backed agent client
func NewAgentClient(apiKey string) clients.AgentClient {
	return &AgentClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.ModelClaudeSonnet4_20250514,
	}
}

// RunAgent executes one bounded tool-loop run
func (c *AgentClient) RunAgent(ctx context.Context, params clients.RunAgentParams) (*clients.AgentResult, error) {
	if params.MaxSteps <= 0 {
		return nil, fmt.Errorf("max steps must be positive")
	}

	toolParams := make([]anthropic.ToolUnionParam, 0, len(params.Tools))
	toolsByName := make(map[string]clients.AgentTool, len(params.Tools))
	for _, tool := range params.Tools {
		toolsByName[tool.Name] = tool
		toolParams = append(toolParams, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: tool.InputSchema,
				},
			},
		})
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(params.Prompt)),
	}

	result := &clients.AgentResult{}

	for step := 0; step < params.MaxSteps; step++ {
		message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     c.model,
			MaxTokens: defaultMaxTokens,
			System:    []anthropic.TextBlockParam{{Text: params.System}},
			Messages:  messages,
			Tools:     toolParams,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to call model: %w", err)
		}

		result.InputTokens += message.Usage.InputTokens
		result.OutputTokens += message.Usage.OutputTokens

		var toolResults []anthropic.ContentBlockParamUnion
		for _, block := range message.Content {
			switch variant := block.AsAny().(type) {
			case anthropic.TextBlock:
				result.FinalText = variant.Text
			case anthropic.ToolUseBlock:
				input := []byte(variant.JSON.Input.Raw())
				result.ToolCalls = append(result.ToolCalls, clients.AgentToolCall{
					Name:  variant.Name,
					Input: input,
				})

				output, toolErr := dispatchTool(toolsByName, variant.Name, input)
				isError := false
				if toolErr != nil {
					log.Printf("⚠️ Tool %s returned error: %v", variant.Name, toolErr)
					output = toolErr.Error()
					isError = true
				}
				toolResults = append(toolResults, anthropic.NewToolResultBlock(variant.ID, output, isError))
			}
		}

		if message.StopReason != anthropic.StopReasonToolUse || len(toolResults) == 0 {
			return result, nil
		}

		messages = append(messages, message.ToParam(), anthropic.NewUserMessage(toolResults...))
	}

	log.Printf("⚠️ Agent run exhausted step budget after %d steps", params.MaxSteps)
	return result, nil
}

func dispatchTool(tools map[string]clients.AgentTool, name string, input []byte) (string, error) {
	tool, ok := tools[name]
	if !ok {
		return "", fmt.Errorf("tool %q is not available in this run", name)
	}
	return tool.Handler(input)
}
