package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"franchiseops/internal/manual"
)

// ManualInput is the material of one recipe manual. Image holds the raw
// bytes of a photographed or scanned page.
type ManualInput struct {
	Text     string
	Image    []byte
	MimeType string
	FileName string
}

type manualResponse struct {
	Ingredients []struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
	} `json:"ingredients"`
}

const manualSystemPrompt = `You read franchise kitchen recipe manuals and list their ingredients as JSON.
- Read any attached image of the manual page before answering.
- Keep ingredient names exactly as written, in the original language.
- Copy quantities and units as written; use 0 and "" when none are given.
- Respond with strictly valid JSON using this schema:
{
  "ingredients": [
    {"name": string, "quantity": number, "unit": string}
  ]
}
- Never include explanations, markdown, or commentary outside of the JSON payload.`

// ExtractManualLines asks the model to list the ingredient lines of a manual.
func (c *Client) ExtractManualLines(ctx context.Context, input ManualInput) ([]manual.Line, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" && len(input.Image) == 0 {
		return nil, errors.New("ai: manual extraction requires text or an image")
	}

	content := []map[string]any{}
	var prompt strings.Builder
	prompt.WriteString("List the ingredients of this recipe manual.")
	if input.FileName != "" {
		fmt.Fprintf(&prompt, " File: %s.", input.FileName)
	}
	if text != "" {
		prompt.WriteString("\n\nManual text:\n")
		prompt.WriteString(text)
	}
	content = append(content, map[string]any{"type": "text", "text": prompt.String()})

	if len(input.Image) > 0 {
		mime := strings.TrimSpace(input.MimeType)
		if !strings.HasPrefix(mime, "image/") {
			mime = "image/jpeg"
		}
		content = append(content, map[string]any{
			"type": "image_url",
			"image_url": map[string]string{
				"url": "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(input.Image),
			},
		})
	}

	reply, err := c.performChatCompletion(ctx, []map[string]any{
		{"role": "system", "content": manualSystemPrompt},
		{"role": "user", "content": content},
	})
	if err != nil {
		return nil, err
	}

	var parsed manualResponse
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return nil, fmt.Errorf("ai: parse manual payload: %w", err)
	}

	lines := make([]manual.Line, 0, len(parsed.Ingredients))
	for _, ingredient := range parsed.Ingredients {
		name := strings.TrimSpace(ingredient.Name)
		if name == "" {
			continue
		}
		quantity := ingredient.Quantity
		if quantity < 0 {
			quantity = 0
		}
		lines = append(lines, manual.Line{
			Name:     name,
			Quantity: quantity,
			Unit:     strings.ToLower(strings.TrimSpace(ingredient.Unit)),
			Raw:      name,
		})
	}
	return lines, nil
}
