package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// DefaultOCRModel is the Gemini model used for page transcription.
const DefaultOCRModel = "gemini-1.5-pro"

// --- OCR Model Prompts ---
const OCRSystemPrompt = "You are an optical character recognition engine. You transcribe the text of scanned book pages exactly as printed, line by line, without translating, correcting or summarising anything."

// OCRUserPrompt takes the language names of the page as its single argument.
const OCRUserPrompt = `You will be provided with the image of one scanned page written in %s.

Follow these instructions to transcribe it:

Lines: Output every printed line of text on its own line, top to bottom, in reading order.
Fidelity: Keep spelling, punctuation and script exactly as printed. Do not translate or fix grammar.
Non-text: Ignore pictures, decorations and page borders. Do not describe them.
Empty pages: If the page contains no text, return an empty response.

Return ONLY the transcribed lines. Do not include any preambles like "Here is the text" or surround the output with backtick fences.`

// VertexClient holds the pre-configured generative models for our app.
type VertexClient struct {
	OCRModel   *genai.GenerativeModel
	baseClient *genai.Client
}

// NewVertexClient creates a new client holding the OCR model.
func NewVertexClient(ctx context.Context, projectID, region, modelName string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}
	if modelName == "" {
		modelName = DefaultOCRModel
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	// --- Configure the OCR model ---
	ocrModel := baseClient.GenerativeModel(modelName)
	ocrModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(OCRSystemPrompt)},
	}
	ocrModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "text/plain",
		Temperature:      genai.Ptr[float32](0.0), // Deterministic transcription
	}
	ocrModel.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}

	return &VertexClient{
		OCRModel:   ocrModel,
		baseClient: baseClient,
	}, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
