// File: internal/infra/notify/whatsapp.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"membership-billing/internal/config"
	"membership-billing/internal/domain/ports/adapter"
)

var _ adapter.ChannelSender = (*whatsappSender)(nil)

// whatsappSender posts to a WhatsApp Business API gateway.
type whatsappSender struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewWhatsAppSender(cfg config.WhatsAppConfig) *whatsappSender {
	return &whatsappSender{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{},
	}
}

func (s *whatsappSender) Name() string { return "whatsapp" }

type whatsappResponse struct {
	Sent   bool   `json:"sent"`
	Error  string `json:"error"`
	MsgRef string `json:"message_ref"`
}

func (s *whatsappSender) Send(ctx context.Context, recipientID string, payload adapter.RenderedPayload) (bool, error) {
	requestData := map[string]interface{}{
		"to":   recipientID,
		"type": "text",
		"text": map[string]string{"body": payload.Body},
	}
	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return false, fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := s.baseURL + "/messages"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response body: %w", err)
	}

	var response whatsappResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return false, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}
	if !response.Sent {
		return false, fmt.Errorf("whatsapp gateway error: %s", response.Error)
	}
	return true, nil
}
