package gmailclient

import (
	"encoding/base64"
	"fmt"
	"time"

	"google.golang.org/api/gmail/v1"
)

// Minimum interval between sends, to stay under Gmail API quotas. The bulk
// processor applies its own coarser rate limiting on top of this.
const sendInterval = 3 * time.Second

// Send sends a message to the given address with the specified subject and
// body. The address may be a plain email or a carrier SMS relay address
// (digits@carrier-domain). Throttles requests to respect Gmail rate limits.
func (c *Client) Send(to, subject, body string) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	// Check if we need to wait before sending
	if !c.lastSendTime.IsZero() {
		elapsed := time.Since(c.lastSendTime)
		if elapsed < sendInterval {
			time.Sleep(sendInterval - elapsed)
		}
	}

	headers := fmt.Sprintf("To: %s\r\nSubject: %s\r\n", to, subject)
	if c.sender != "" {
		headers = fmt.Sprintf("From: %s\r\n", c.sender) + headers
	}
	message := headers + "\r\n" + body

	// Gmail wants the raw RFC 2822 message base64url encoded
	encodedMessage := base64.URLEncoding.EncodeToString([]byte(message))

	gmailMessage := &gmail.Message{
		Raw: encodedMessage,
	}

	_, err := c.service.Users.Messages.Send(c.userID, gmailMessage).Do()
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	c.lastSendTime = time.Now()

	return nil
}
