package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/example/pixelcart/internal/models"
)

// TelegramService sends order notifications to an admin chat.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// NotifyNewOrder sends an order summary to the admin chat. A missing chat
// ID makes this a no-op.
func (s *TelegramService) NotifyNewOrder(order *models.Order, customerEmail string) error {
	if s.adminChatID == "" {
		return nil
	}

	var itemsList strings.Builder
	for i, item := range order.Items {
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x $%.2f = $%.2f\n",
			i+1,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.LineTotal,
		))
	}

	message := fmt.Sprintf(`<b>🛒 NEW ORDER</b>
<b>Order:</b> %s
<b>Customer:</b> %s %s (%s)
<b>Items:</b>
%s
<b>Subtotal:</b> $%.2f
<b>Shipping:</b> $%.2f
<b>Tax:</b> $%.2f
<b>Total:</b> $%.2f
<b>Payment:</b> %s`,
		order.OrderNumber,
		order.ShippingFirstName,
		order.ShippingLastName,
		customerEmail,
		itemsList.String(),
		order.Subtotal,
		order.Shipping,
		order.Tax,
		order.Total,
		order.PaymentMethod,
	)

	return s.SendMessage(s.adminChatID, strings.TrimSpace(message))
}
