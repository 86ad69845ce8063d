package bench

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
)

// completionRequest is the pass-through payload the wrapped server expects on
// its invocation route. The adapter name goes in the model field.
type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature"`
}

const DefaultMaxTokens = 128

// HTTPInvoker posts completion requests straight to the serving container's
// invocation route. Used against local or self-hosted endpoints.
type HTTPInvoker struct {
	URL       string
	MaxTokens int
	Client    *http.Client
}

var _ Invoker = &HTTPInvoker{}

func NewHTTPInvoker(url string) *HTTPInvoker {
	return &HTTPInvoker{
		URL:       url,
		MaxTokens: DefaultMaxTokens,
		// per call deadlines come from the runner's context
		Client: &http.Client{Timeout: 0},
	}
}

func (h *HTTPInvoker) Invoke(ctx context.Context, adapter string, prompt string) error {
	body, err := json.Marshal(completionRequest{
		Model:       adapter,
		Prompt:      prompt,
		MaxTokens:   h.MaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(msg))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// RuntimeAPI is the slice of the platform runtime client the invoker uses.
type RuntimeAPI interface {
	InvokeEndpoint(ctx context.Context, in *sagemakerruntime.InvokeEndpointInput, opts ...func(*sagemakerruntime.Options)) (*sagemakerruntime.InvokeEndpointOutput, error)
}

// EndpointInvoker sends requests through the hosting platform's signed
// invocation API instead of raw HTTP.
type EndpointInvoker struct {
	EndpointName string
	MaxTokens    int
	API          RuntimeAPI
}

var _ Invoker = &EndpointInvoker{}

func NewEndpointInvoker(ctx context.Context, region, endpointName string) (*EndpointInvoker, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &EndpointInvoker{
		EndpointName: endpointName,
		MaxTokens:    DefaultMaxTokens,
		API:          sagemakerruntime.NewFromConfig(cfg),
	}, nil
}

func (e *EndpointInvoker) Invoke(ctx context.Context, adapter string, prompt string) error {
	body, err := json.Marshal(completionRequest{
		Model:       adapter,
		Prompt:      prompt,
		MaxTokens:   e.MaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return err
	}
	_, err = e.API.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(e.EndpointName),
		ContentType:  aws.String("application/json"),
		Accept:       aws.String("application/json"),
		Body:         body,
	})
	return err
}
