// Package gemini implements the recommendation service on Google's Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	"github.com/bhanu79755/Shopbuy/internal/recommend"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// catalogDescriptionLimit caps each description sent with the similar-products
// prompt.
const catalogDescriptionLimit = 100

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("gemini: empty response")

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client calls Gemini with JSON response schemas.
type Client struct {
	models generator
	model  string
}

var _ recommend.Service = (*Client)(nil)

// New creates a Gemini-backed client.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newClient(client.Models, model), nil
}

func newClient(g generator, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{models: g, model: model}
}

// InterpretQuery asks the model to extract search criteria from query.
func (c *Client) InterpretQuery(ctx context.Context, query string, categories []string) (recommend.Interpretation, error) {
	var out recommend.Interpretation
	err := c.generate(ctx, interpretPrompt(query, categories), interpretSchema(categories), &out)
	return out, err
}

// SimilarProducts asks the model to pick four catalog products like product.
func (c *Client) SimilarProducts(ctx context.Context, product domain.Product, catalog []domain.Product) ([]int64, error) {
	prompt, err := similarPrompt(product, catalog)
	if err != nil {
		return nil, err
	}
	var out []int64
	err = c.generate(ctx, prompt, similarSchema(), &out)
	return out, err
}

// RelatedProducts asks the model for four fictional products inspired by the
// browsing history.
func (c *Client) RelatedProducts(ctx context.Context, history []domain.Product) ([]recommend.Suggestion, error) {
	var out []recommend.Suggestion
	err := c.generate(ctx, relatedPrompt(history), relatedSchema(), &out)
	return out, err
}

func (c *Client) generate(ctx context.Context, prompt string, schema *genai.Schema, dst any) error {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		return fmt.Errorf("gemini decode response: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Prompts
// ---------------------------------------------------------------------------

func interpretPrompt(query string, categories []string) string {
	list := strings.Join(categories, ", ")
	return fmt.Sprintf(`Analyze the following user search query for an e-commerce site and extract structured search criteria.
The available product categories are: %s.
If the query mentions a category, it must be one of the available categories. If it doesn't match, set category to null.
Extract a general search term (like "laptop" from "budget-friendly gaming laptops under 500 dollars").
Extract a minimum and maximum price in US dollars if specified.

User Query: %q

Respond with only the JSON object.`, list, query)
}

type catalogEntry struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func similarPrompt(product domain.Product, catalog []domain.Product) (string, error) {
	entries := make([]catalogEntry, 0, len(catalog))
	for _, p := range catalog {
		if p.ID == product.ID {
			continue
		}
		entries = append(entries, catalogEntry{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Description: truncate(p.Description, catalogDescriptionLimit),
		})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode catalog: %w", err)
	}
	return fmt.Sprintf(`Based on the following product:
- Name: %s
- Category: %s
- Description: %s

From the product catalog provided below, find the 4 most similar products.
Consider products in the same category or related categories that a user might also be interested in.

Product Catalog:
%s

Return a JSON array containing only the integer IDs of the 4 recommended products. Example: [12, 3, 18, 5]`,
		product.Name, product.Category, product.Description, data), nil
}

func relatedPrompt(history []domain.Product) string {
	names := make([]string, len(history))
	for i, p := range history {
		names[i] = p.Name
	}
	return fmt.Sprintf(`Based on a user's interest in the following products: %s,
suggest 4 other fictional but realistic-sounding products they might like for an e-commerce website.
Do not suggest products that are too similar to the ones provided. Broaden the recommendations to related categories.
For each product, provide a name, a price in US dollars, a short, compelling description, and a plausible category.`,
		strings.Join(names, ", "))
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ---------------------------------------------------------------------------
// Response schemas
// ---------------------------------------------------------------------------

func interpretSchema(categories []string) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"searchTerm": {
				Type:        genai.TypeString,
				Description: "A concise search term derived from the query. Should be a noun or noun phrase.",
			},
			"category": {
				Type:        genai.TypeString,
				Nullable:    genai.Ptr(true),
				Description: "One of the provided categories: " + strings.Join(categories, ", ") + " or null if not applicable.",
			},
			"minPrice": {
				Type:        genai.TypeNumber,
				Nullable:    genai.Ptr(true),
				Description: "The minimum price mentioned, or null if not specified.",
			},
			"maxPrice": {
				Type:        genai.TypeNumber,
				Nullable:    genai.Ptr(true),
				Description: "The maximum price mentioned, or null if not specified.",
			},
		},
		Required: []string{"searchTerm", "category", "minPrice", "maxPrice"},
	}
}

func similarSchema() *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeInteger},
	}
}

func relatedSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {
					Type:        genai.TypeString,
					Description: "The name of the recommended product.",
				},
				"price": {
					Type:        genai.TypeNumber,
					Description: "The price of the product in US dollars.",
				},
				"description": {
					Type:        genai.TypeString,
					Description: "A short, compelling description of the product.",
				},
				"category": {
					Type:        genai.TypeString,
					Description: "The category of the product (e.g., Electronics, Home, Apparel).",
				},
			},
			Required: []string{"name", "price", "description", "category"},
		},
	}
}
