/*
Package ai contains the gateway to the hosted generative model.

This file defines the Generator abstraction over a single model call and its
Gemini-backed implementation. Keeping the call surface behind an interface
lets the gateway's failure policies be exercised without network access.
*/
package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks a turn written by the person using the platform.
	RoleUser Role = "user"

	// RoleModel marks a turn produced by the generative model.
	RoleModel Role = "model"
)

// Turn is one entry of an ordered conversation transcript.
type Turn struct {
	Role Role
	Text string
}

// Request describes a single generation call. Turns must be ordered oldest
// first; the final turn is the one awaiting a reply.
type Request struct {
	// System is an optional system instruction applied to the whole call.
	System string

	// Turns is the ordered content of the call. Single-shot operations pass
	// exactly one user turn.
	Turns []Turn

	// ResponseSchema, when set, constrains the response to JSON matching the
	// schema. The response MIME type is forced to application/json.
	ResponseSchema *genai.Schema

	// Temperature overrides the model default when non-nil.
	Temperature *float32

	// DisableThinking turns off model reasoning for latency-sensitive calls.
	DisableThinking bool
}

// Generator issues one call against a generative model and returns the raw
// response text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeminiGenerator implements Generator against the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator constructs a Gemini-backed Generator using the given API
// key and model identifier.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
	}, nil
}

// Generate performs a single GenerateContent call and returns the concatenated
// response text. No retries and no explicit timeout: cancellation is the
// caller's context, everything else is the transport's default behavior.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.Turns))
	for _, turn := range req.Turns {
		role := genai.Role(genai.RoleUser)
		if turn.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}

	config := &genai.GenerateContentConfig{
		Temperature: req.Temperature,
	}

	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	if req.ResponseSchema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = req.ResponseSchema
	}

	if req.DisableThinking {
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](0),
		}
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", err
	}

	return res.Text(), nil
}
