package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"barberbook-service/internal/domain/repository"
	"barberbook-service/pkg/logger"
)

// WhatsappRepository sends outbound texts through the WhatsApp service
type WhatsappRepository struct {
	logger      logger.Logger
	baseURL     string
	bearerToken string
	companyID   string
	agentID     string
	sendDelay   time.Duration
	client      *http.Client
}

// NewWhatsappRepository creates a new WhatsApp repository. sendDelay is the
// mandated pause after each send to respect outbound rate limits.
func NewWhatsappRepository(baseURL, bearerToken, companyID, agentID string, sendDelay time.Duration, logger logger.Logger) repository.MessengerRepository {
	return &WhatsappRepository{
		logger:      logger,
		baseURL:     baseURL,
		bearerToken: bearerToken,
		companyID:   companyID,
		agentID:     agentID,
		sendDelay:   sendDelay,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type sendTextMessage struct {
	CompanyID   string `json:"companyId"`
	AgentID     string `json:"agentId"`
	PhoneNumber string `json:"phoneNumber"`
	Message     struct {
		Text string `json:"text"`
	} `json:"message"`
	Type string `json:"type"`
}

// SendText sends a text message to the user handle
func (r *WhatsappRepository) SendText(ctx context.Context, userID, text string) error {
	msg := sendTextMessage{
		CompanyID:   r.companyID,
		AgentID:     r.agentID,
		PhoneNumber: userID,
		Type:        "text",
	}
	msg.Message.Text = text

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/messages/send-text", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("whatsapp service returned status %d: %v", resp.StatusCode, errorBody)
	}

	r.logger.Debug("Message sent", "userId", userID, "length", len(text))

	// Outbound rate limit
	time.Sleep(r.sendDelay)

	return nil
}
