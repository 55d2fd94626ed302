package ocr

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/nahidn4p/PDF-OCR-Extract-Tool/internal/gcp"
)

// contentGenerator is satisfied by *genai.GenerativeModel.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini transcribes page images with a Vertex AI generative model.
type Gemini struct {
	model     contentGenerator
	languages []string
	closer    io.Closer
}

// NewGemini creates a Gemini engine. closer, if non-nil, is closed with the engine.
func NewGemini(model contentGenerator, languages []string, closer io.Closer) *Gemini {
	return &Gemini{model: model, languages: languages, closer: closer}
}

func (g *Gemini) Name() string { return EngineGemini }

// Recognize sends the PNG page image to the model and splits the transcription into lines.
func (g *Gemini) Recognize(ctx context.Context, image []byte) ([]string, error) {
	prompt := genai.Text(fmt.Sprintf(gcp.OCRUserPrompt, strings.Join(LanguageNames(g.languages), " and ")))
	resp, err := g.model.GenerateContent(ctx, genai.ImageData("png", image), prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content from gemini: %w", err)
	}

	if reason, blocked := blockedReason(resp); blocked {
		return nil, fmt.Errorf("gemini response blocked: %s", reason)
	}

	text := extractText(resp)
	if isRefusal(text) {
		return nil, fmt.Errorf("gemini response indicates refusal: %q", text)
	}

	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}

// Close releases the underlying Vertex AI client.
func (g *Gemini) Close() error {
	if g.closer != nil {
		return g.closer.Close()
	}
	return nil
}

var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

// isRefusal reports whether the whole response is a single refusal sentence.
// Multi-line text, or text that only contains a phrase, is page content.
func isRefusal(text string) bool {
	if text == "" || strings.Contains(text, "\n") {
		return false
	}
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.HasPrefix(lower, phrase) {
			return true
		}
	}
	return false
}

// blockedReason reports a prompt or candidate stopped by a content filter.
func blockedReason(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil {
		return "", false
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != genai.BlockedReasonUnspecified {
		return fmt.Sprintf("prompt: %v %s", fb.BlockReason, fb.BlockReasonMessage), true
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", false
	}
	switch r := resp.Candidates[0].FinishReason; r {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonBlocklist,
		genai.FinishReasonProhibitedContent, genai.FinishReasonSpii:
		return fmt.Sprintf("candidate: %v", r), true
	}
	return "", false
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}

	text := strings.TrimSpace(b.String())
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.Trim(text, "\n")
}
