package usecase_test

import (
	"testing"

	"council-rag/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptInput() usecase.PromptInput {
	page := 4
	year := 2025
	return usecase.PromptInput{
		Query:         "Quels sont les projets pour 2025?",
		PromptVersion: "conseil-v1",
		Contexts: []usecase.PromptContext{
			{
				ChunkID:  "chunk-1",
				Filename: "pv_conseil_2025-03.pdf",
				Page:     &page,
				Year:     &year,
				Score:    0.846,
				Excerpt:  "Le conseil approuve <enfin> le budget participatif.",
			},
		},
	}
}

func TestXMLPromptBuilder_Build(t *testing.T) {
	builder := usecase.NewXMLPromptBuilder()

	messages, err := builder.Build(promptInput())

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "user", messages[1].Role)

	assert.Contains(t, messages[0].Content, "<instructions>")
	assert.Contains(t, messages[0].Content, "<format>")

	assert.Contains(t, messages[1].Content, `<context version="conseil-v1">`)
	assert.Contains(t, messages[1].Content, "<chunk_id>chunk-1</chunk_id>")
	assert.Contains(t, messages[1].Content, "<filename>pv_conseil_2025-03.pdf</filename>")
	assert.Contains(t, messages[1].Content, "<page>4</page>")
	assert.Contains(t, messages[1].Content, "<year>2025</year>")
	assert.Contains(t, messages[1].Content, "<query>Quels sont les projets pour 2025?</query>")
}

func TestXMLPromptBuilder_EscapesMarkup(t *testing.T) {
	builder := usecase.NewXMLPromptBuilder()

	messages, err := builder.Build(promptInput())

	require.NoError(t, err)
	assert.Contains(t, messages[1].Content, "&lt;enfin&gt;")
	assert.NotContains(t, messages[1].Content, "<enfin>")
}

func TestXMLPromptBuilder_AdditionalInstructions(t *testing.T) {
	builder := usecase.NewXMLPromptBuilder("Réponds en deux phrases maximum.")

	messages, err := builder.Build(promptInput())

	require.NoError(t, err)
	assert.Contains(t, messages[0].Content, "deux phrases maximum")
}

func TestXMLPromptBuilder_RequiresVersionAndContexts(t *testing.T) {
	builder := usecase.NewXMLPromptBuilder()

	input := promptInput()
	input.PromptVersion = ""
	_, err := builder.Build(input)
	assert.Error(t, err)

	input = promptInput()
	input.Contexts = nil
	_, err = builder.Build(input)
	assert.Error(t, err)
}
