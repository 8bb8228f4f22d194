package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HuggingFaceClient calls the HuggingFace Inference API to run a diffusion
// model (Stable Diffusion XL by default). The API returns the image bytes
// directly in the response body.
type HuggingFaceClient struct {
	apiToken   string
	model      string
	httpClient *http.Client
}

// NewHuggingFaceClient creates a client for the given inference model.
func NewHuggingFaceClient(apiToken, model string, timeout time.Duration) *HuggingFaceClient {
	return &HuggingFaceClient{
		apiToken: apiToken,
		model:    model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (h *HuggingFaceClient) ProviderName() string { return "huggingface" }

// hfRequest is the Inference API payload for text-to-image models.
type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	NegativePrompt    string  `json:"negative_prompt,omitempty"`
	NumInferenceSteps int     `json:"num_inference_steps,omitempty"`
	GuidanceScale     float64 `json:"guidance_scale,omitempty"`
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

func (h *HuggingFaceClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	payload := hfRequest{
		Inputs: EnhancePrompt(prompt),
		Parameters: hfParameters{
			NegativePrompt:    NegativePrompt,
			NumInferenceSteps: 30,
			GuidanceScale:     7.5,
			Width:             1024,
			Height:            1024,
		},
		Options: hfOptions{
			WaitForModel: true,
			UseCache:     false,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("https://api-inference.huggingface.co/models/%s", h.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling inference API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference API returned HTTP %d", resp.StatusCode)
	}

	// The API answers with JSON on errors and warm-up notices even when the
	// status is 200, so content type is the real success signal.
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "image") {
		return nil, fmt.Errorf("inference API returned %s instead of an image", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20)) // 20MB limit
	if err != nil {
		return nil, fmt.Errorf("reading image body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("inference API returned an empty image")
	}

	return data, nil
}
