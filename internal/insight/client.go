package insight

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// Client implements Model on the OpenAI Responses API.
type Client struct {
	oai   *openai.Client
	model string
}

func NewClient(apiKey, model string, opts ...option.RequestOption) *Client {
	c := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &Client{oai: &c, model: model}
}

func (c *Client) Complete(ctx context.Context, instructions, input string) (string, error) {
	params := responses.ResponseNewParams{
		Model:        c.model,
		Instructions: openai.String(instructions),
		Input:        responses.ResponseNewParamsInputUnion{OfString: openai.String(input)},
	}
	resp, err := callWithRetry(ctx, c.oai, params)
	if err != nil {
		return "", err
	}
	return resp.OutputText(), nil
}

func (c *Client) CompleteJSON(ctx context.Context, schemaName string, schema map[string]any, instructions, input string) (string, error) {
	params := responses.ResponseNewParams{
		Model:        c.model,
		Instructions: openai.String(instructions),
		Input:        responses.ResponseNewParamsInputUnion{OfString: openai.String(input)},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   schemaName,
					Schema: schema,
					Strict: openai.Bool(true),
					Type:   "json_schema",
				},
			},
		},
	}
	resp, err := callWithRetry(ctx, c.oai, params)
	if err != nil {
		return "", err
	}
	return resp.OutputText(), nil
}

func (c *Client) Stream(ctx context.Context, instructions string, turns []Turn, onDelta func(string)) (string, error) {
	items := make([]responses.ResponseInputItemUnionParam, 0, len(turns))
	for _, t := range turns {
		role := responses.EasyInputMessageRoleUser
		if t.Role == "assistant" {
			role = responses.EasyInputMessageRoleAssistant
		}
		items = append(items, responses.ResponseInputItemParamOfMessage(t.Text, role))
	}

	params := responses.ResponseNewParams{
		Model:        c.model,
		Instructions: openai.String(instructions),
		Input:        responses.ResponseNewParamsInputUnion{OfInputItemList: items},
	}

	stream := c.oai.Responses.NewStreaming(ctx, params)
	defer stream.Close()

	var full strings.Builder
	for stream.Next() {
		ev := stream.Current()
		if ev.Type == "response.output_text.delta" {
			delta := ev.Delta.OfString
			full.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return "", err
	}
	return full.String(), nil
}

func callWithRetry(ctx context.Context, client *openai.Client, params responses.ResponseNewParams) (*responses.Response, error) {
	waits := []time.Duration{2 * time.Second, 10 * time.Second}

	var lastErr error
	for attempt := 0; attempt <= len(waits); attempt++ {
		resp, err := client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if attempt == len(waits) || !isTransient(err) {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(waits[attempt]):
		}
	}
	return nil, lastErr
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many requests") ||
		strings.Contains(s, "500") ||
		strings.Contains(s, "server_error") ||
		strings.Contains(s, "internal server error")
}
