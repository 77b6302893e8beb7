package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeneratedPosts is the parsed output of one generation run: one caption
// per platform plus an optional short video script.
type GeneratedPosts struct {
	Facebook    string
	Instagram   string
	Twitter     string
	VideoScript string
}

// Client generates social post sets from a prompt via the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// Generate runs the prompt and parses the tagged sections out of the
// response. The prompt instructs the model to wrap each caption in
// <facebook>, <instagram>, <twitter> and <video> tags.
func (c *Client) Generate(ctx context.Context, prompt string) (*GeneratedPosts, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("empty model response")
	}

	posts := ParseTaggedPosts(text)
	if posts.Facebook == "" && posts.Instagram == "" && posts.Twitter == "" {
		return nil, fmt.Errorf("no platform sections in model response")
	}
	return posts, nil
}
