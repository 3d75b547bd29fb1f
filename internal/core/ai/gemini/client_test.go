package gemini

import (
	"testing"

	"smartpantry/internal/core/ai/provider"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGenaiSchema(t *testing.T) {
	in := &provider.Schema{
		Type: provider.TypeArray,
		Items: &provider.Schema{
			Type: provider.TypeObject,
			Properties: map[string]*provider.Schema{
				"title":           {Type: provider.TypeString},
				"matchPercentage": {Type: provider.TypeNumber},
				"step":            {Type: provider.TypeInteger},
				"isPantryItem":    {Type: provider.TypeBoolean},
			},
			Required: []string{"title"},
		},
	}

	out := toGenaiSchema(in)
	require.NotNil(t, out)
	assert.Equal(t, genai.TypeArray, out.Type)
	require.NotNil(t, out.Items)
	assert.Equal(t, genai.TypeObject, out.Items.Type)
	assert.Equal(t, []string{"title"}, out.Items.Required)
	assert.Equal(t, genai.TypeString, out.Items.Properties["title"].Type)
	assert.Equal(t, genai.TypeNumber, out.Items.Properties["matchPercentage"].Type)
	assert.Equal(t, genai.TypeInteger, out.Items.Properties["step"].Type)
	assert.Equal(t, genai.TypeBoolean, out.Items.Properties["isPantryItem"].Type)

	assert.Nil(t, toGenaiSchema(nil))
}

func TestTextOf(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`[{"id":`), genai.Text(`"1"}]`)}}},
		},
	}
	assert.Equal(t, `[{"id":"1"}]`, textOf(resp))

	assert.Equal(t, "", textOf(nil))
	assert.Equal(t, "", textOf(&genai.GenerateContentResponse{}))
}

func TestImageOf(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{
				genai.Text("here is your photo"),
				genai.Blob{MIMEType: "image/jpeg", Data: []byte("abc")},
			}}},
		},
	}

	img := imageOf(resp)
	require.NotNil(t, img)
	assert.Equal(t, "data:image/jpeg;base64,YWJj", img.DataURI())

	textOnly := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("sorry")}}},
		},
	}
	assert.Nil(t, imageOf(textOnly))
	assert.Nil(t, imageOf(nil))
}
