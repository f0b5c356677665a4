// internal/deepl/client.go
package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal DeepL REST API client covering the single translate
// call this pipeline needs.
type Client struct {
	apiURL     string
	authKey    string
	httpClient *http.Client
}

// NewClient creates a DeepL client. apiURL selects the free or pro endpoint,
// e.g. https://api-free.deepl.com.
func NewClient(apiURL, authKey string) *Client {
	return &Client{
		apiURL:  apiURL,
		authKey: authKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type translateRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
}

type translateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate translates text into targetLang (a DeepL language code such as
// "NB" for Norwegian Bokmål).
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Text:       []string{text},
		TargetLang: targetLang,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v2/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.authKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result translateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Translations) == 0 {
		return "", fmt.Errorf("empty translations in response")
	}

	return result.Translations[0].Text, nil
}
