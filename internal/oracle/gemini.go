package oracle

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/start_adventure.txt
var startAdventurePrompt string

//go:embed prompts/narrate_turn.txt
var narrateTurnPrompt string

//go:embed prompts/system_request.txt
var systemRequestPrompt string

// Engine is the Gemini-backed implementation of all four oracle contracts.
type Engine struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	imageModel *genai.GenerativeModel
}

// NewEngine creates a Gemini engine. The text model narrates; the image
// model illustrates.
func NewEngine(ctx context.Context, apiKey, model, imageModel string) (*Engine, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &Engine{
		client:     client,
		model:      client.GenerativeModel(model),
		imageModel: client.GenerativeModel(imageModel),
	}, nil
}

func (e *Engine) Close() {
	e.client.Close()
}

// StartAdventure implements Starter.
func (e *Engine) StartAdventure(ctx context.Context, prompt string) (*Opening, error) {
	text, err := e.generate(ctx, "start_adventure", startAdventurePrompt, struct {
		Prompt string
	}{Prompt: prompt})
	if err != nil {
		return nil, err
	}

	var opening Opening
	if err := yaml.Unmarshal([]byte(text), &opening); err != nil {
		return nil, fmt.Errorf("failed to parse opening YAML: %v\nOutput was: %s", err, text)
	}
	if len(opening.Narration) == 0 {
		return nil, fmt.Errorf("oracle returned an opening with no narration")
	}
	return &opening, nil
}

// NarrateTurn implements Narrator.
func (e *Engine) NarrateTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	data := struct {
		TurnRequest
		QuestTitle     string
		QuestObjective string
	}{TurnRequest: req}
	if req.Quest != nil {
		data.QuestTitle = req.Quest.Title
		data.QuestObjective = req.Quest.Objective
	}

	text, err := e.generate(ctx, "narrate_turn", narrateTurnPrompt, data)
	if err != nil {
		return nil, err
	}

	var resp TurnResponse
	if err := yaml.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse turn YAML: %v\nOutput was: %s", err, text)
	}
	return &resp, nil
}

// SystemRequest implements System.
func (e *Engine) SystemRequest(ctx context.Context, in SystemInput) (*SystemResponse, error) {
	data := struct {
		SystemInput
		QuestTitle     string
		QuestObjective string
	}{SystemInput: in}
	if in.Quest != nil {
		data.QuestTitle = in.Quest.Title
		data.QuestObjective = in.Quest.Objective
	}

	text, err := e.generate(ctx, "system_request", systemRequestPrompt, data)
	if err != nil {
		return nil, err
	}

	var resp SystemResponse
	if err := yaml.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse system YAML: %v\nOutput was: %s", err, text)
	}
	return &resp, nil
}

// Illustrate implements Illustrator. The result is a data URI.
func (e *Engine) Illustrate(ctx context.Context, sceneDescription string) (string, error) {
	prompt := "Generate a digital painting style image for a fantasy text-based adventure game. Scene: " + sceneDescription
	resp, err := e.imageModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok {
				return "data:" + blob.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(blob.Data), nil
			}
		}
	}
	return "", fmt.Errorf("no image returned from Gemini")
}

// generate executes a prompt template, calls the text model, and returns the
// response stripped of any markdown code fences.
func (e *Engine) generate(ctx context.Context, name, promptText string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(promptText)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	resp, err := e.model.GenerateContent(ctx, genai.Text(buf.String()))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}

	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}

	return stripFences(string(text)), nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```yaml")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
