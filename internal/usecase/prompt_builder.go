package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"council-rag/internal/domain"
)

// PromptContext transports the metadata needed when composing the
// generation prompt.
type PromptContext struct {
	ChunkID  string
	Filename string
	Page     *int
	Year     *int
	Score    float64
	Excerpt  string
}

// PromptInput contains the pieces that feed into the prompt builder.
type PromptInput struct {
	Query         string
	PromptVersion string
	Contexts      []PromptContext
}

// PromptBuilder builds the chat messages sent to the LLM.
type PromptBuilder interface {
	Build(input PromptInput) ([]domain.Message, error)
}

// XMLPromptBuilder creates structured prompts that separate context,
// instructions, query, and output format.
type XMLPromptBuilder struct {
	additionalInstructions []string
}

// NewXMLPromptBuilder creates a prompt builder with optional extra
// instructions appended.
func NewXMLPromptBuilder(additionalInstructions ...string) PromptBuilder {
	return &XMLPromptBuilder{
		additionalInstructions: additionalInstructions,
	}
}

// Build renders the messages for the chat API.
func (b *XMLPromptBuilder) Build(input PromptInput) ([]domain.Message, error) {
	if input.PromptVersion == "" {
		return nil, fmt.Errorf("prompt version is required")
	}
	if len(input.Contexts) == 0 {
		return nil, fmt.Errorf("at least one context is required")
	}

	var sysSb strings.Builder
	sysSb.WriteString("<instructions>\n")

	instructions := []string{
		"Tu es un assistant qui répond aux questions sur les délibérations du conseil municipal en te basant UNIQUEMENT sur les extraits fournis dans <context>.",
		"1. Analyse attentivement les documents du <context>.",
		"2. Réponds à la <query> en français, en utilisant strictement les faits du <context>.",
		"3. IMPORTANT : ne mets \"fallback\": true QUE s'il n'existe absolument AUCUNE information pertinente dans le contexte. S'il existe la moindre information pertinente, tu DOIS répondre, même partiellement.",
		"4. Cite tes sources : la liste \"citations\" de ta sortie JSON doit contenir chaque chunk_id utilisé dans ta réponse.",
		"5. N'ajoute aucune connaissance extérieure et n'invente aucun fait.",
		"6. Si l'année d'un document est indiquée, privilégie les documents les plus proches de l'année mentionnée dans la question.",
		"7. Respecte EXACTEMENT le format JSON décrit ci-dessous.",
	}

	for _, inst := range append(instructions, b.additionalInstructions...) {
		sysSb.WriteString("  <line>")
		sysSb.WriteString(escape(inst))
		sysSb.WriteString("</line>\n")
	}
	sysSb.WriteString("</instructions>\n\n")

	sysSb.WriteString("<format>\n")
	sysSb.WriteString("JSON: {\n")
	sysSb.WriteString("  \"answer\": \"texte de la réponse...\",\n")
	sysSb.WriteString("  \"citations\": [{\"chunk_id\":\"...\", \"filename\":\"...\", \"page\":1}],\n")
	sysSb.WriteString("  \"fallback\": false,\n")
	sysSb.WriteString("  \"reason\": \"\"\n")
	sysSb.WriteString("}\n")
	sysSb.WriteString("</format>\n")

	var userSb strings.Builder
	userSb.WriteString(fmt.Sprintf("<context version=%q>\n", escape(input.PromptVersion)))
	for _, ctx := range input.Contexts {
		userSb.WriteString("  <document>\n")
		writeTag(&userSb, "chunk_id", ctx.ChunkID)
		writeTag(&userSb, "filename", ctx.Filename)
		if ctx.Page != nil {
			writeTag(&userSb, "page", strconv.Itoa(*ctx.Page))
		}
		if ctx.Year != nil {
			writeTag(&userSb, "year", strconv.Itoa(*ctx.Year))
		}
		writeTag(&userSb, "score", fmt.Sprintf("%.6f", ctx.Score))
		writeTag(&userSb, "excerpt", ctx.Excerpt)
		userSb.WriteString("  </document>\n")
	}
	userSb.WriteString("</context>\n\n")
	userSb.WriteString("<query>")
	userSb.WriteString(escape(input.Query))
	userSb.WriteString("</query>\n")

	return []domain.Message{
		{Role: "system", Content: sysSb.String()},
		{Role: "user", Content: userSb.String()},
	}, nil
}

func writeTag(sb *strings.Builder, tag, value string) {
	sb.WriteString("    <")
	sb.WriteString(tag)
	sb.WriteString(">")
	sb.WriteString(escape(value))
	sb.WriteString("</")
	sb.WriteString(tag)
	sb.WriteString(">\n")
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
