package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/bhanu79755/Shopbuy/internal/domain"
)

type fakeGenerator struct {
	text   string
	err    error
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(f.text, genai.RoleModel)},
		},
	}, nil
}

func catalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Starlight Laptop X15", Category: "Electronics", Description: strings.Repeat("a", 150)},
		{ID: 2, Name: "Aura Smartwatch", Category: "Electronics", Description: "watch"},
		{ID: 5, Name: "The Echoes of Time", Category: "Books", Description: "novel"},
	}
}

func TestNewClient_DefaultModel(t *testing.T) {
	c := newClient(&fakeGenerator{}, "")
	assert.Equal(t, DefaultModel, c.model)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), "", "")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// InterpretQuery
// ---------------------------------------------------------------------------

func TestInterpretQuery_DecodesCriteria(t *testing.T) {
	gen := &fakeGenerator{text: `{"searchTerm":"laptop","category":"Electronics","minPrice":null,"maxPrice":500}`}
	c := newClient(gen, "test-model")

	got, err := c.InterpretQuery(context.Background(), "cheap laptop under $500", []string{"Books", "Electronics"})
	require.NoError(t, err)

	assert.Equal(t, "laptop", got.SearchTerm)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Electronics", *got.Category)
	assert.Nil(t, got.MinPrice)
	require.NotNil(t, got.MaxPrice)
	assert.InDelta(t, 500.0, *got.MaxPrice, 0.001)

	assert.Equal(t, "test-model", gen.model)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	assert.Equal(t, genai.TypeObject, gen.config.ResponseSchema.Type)
	assert.Contains(t, gen.prompt, "Books, Electronics")
	assert.Contains(t, gen.prompt, "cheap laptop under $500")
}

func TestInterpretQuery_TransportError(t *testing.T) {
	c := newClient(&fakeGenerator{err: errors.New("boom")}, "")
	_, err := c.InterpretQuery(context.Background(), "q", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestInterpretQuery_MalformedJSON(t *testing.T) {
	c := newClient(&fakeGenerator{text: `{"searchTerm":`}, "")
	_, err := c.InterpretQuery(context.Background(), "q", nil)
	require.Error(t, err)
}

func TestInterpretQuery_EmptyText(t *testing.T) {
	c := newClient(&fakeGenerator{text: "  "}, "")
	_, err := c.InterpretQuery(context.Background(), "q", nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

// ---------------------------------------------------------------------------
// SimilarProducts
// ---------------------------------------------------------------------------

func TestSimilarProducts_PromptExcludesCurrentAndTruncates(t *testing.T) {
	gen := &fakeGenerator{text: `[2, 5]`}
	c := newClient(gen, "")

	all := catalog()
	ids, err := c.SimilarProducts(context.Background(), all[1], all)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, ids)

	assert.NotContains(t, gen.prompt, `"id":2,`)
	assert.Contains(t, gen.prompt, `"id":1,`)
	assert.Contains(t, gen.prompt, strings.Repeat("a", 100))
	assert.NotContains(t, gen.prompt, strings.Repeat("a", 101))
	assert.Equal(t, genai.TypeArray, gen.config.ResponseSchema.Type)
	assert.Equal(t, genai.TypeInteger, gen.config.ResponseSchema.Items.Type)
}

func TestSimilarProducts_WrongShape(t *testing.T) {
	c := newClient(&fakeGenerator{text: `{"ids":[1]}`}, "")
	_, err := c.SimilarProducts(context.Background(), catalog()[0], catalog())
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// RelatedProducts
// ---------------------------------------------------------------------------

func TestRelatedProducts_Decodes(t *testing.T) {
	gen := &fakeGenerator{text: `[{"name":"Desk Lamp","price":39.99,"description":"bright","category":"Home"}]`}
	c := newClient(gen, "")

	got, err := c.RelatedProducts(context.Background(), catalog()[:2])
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Desk Lamp", got[0].Name)
	assert.InDelta(t, 39.99, got[0].Price, 0.0001)

	assert.Contains(t, gen.prompt, "Starlight Laptop X15, Aura Smartwatch")
	assert.ElementsMatch(t, []string{"name", "price", "description", "category"}, gen.config.ResponseSchema.Items.Required)
}

func TestTruncate_Runes(t *testing.T) {
	assert.Equal(t, "héll", truncate("héllo", 4))
	assert.Equal(t, "ok", truncate("ok", 4))
}
