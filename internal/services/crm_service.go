package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/zipacres/zipacres-api/internal/models"
)

// CRMNotifier announces new registrations to the external CRM. The call
// is best effort: it runs after the registration response is committed
// and a failure only logs, it never affects the primary operation.
type CRMNotifier interface {
	NotifyRegistration(user *models.User)
}

type webhookCRM struct {
	url    string
	client *http.Client
}

// NewWebhookCRM creates a CRMNotifier posting to the given webhook URL.
// An empty URL disables notification entirely.
func NewWebhookCRM(url string) CRMNotifier {
	return &webhookCRM{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *webhookCRM) NotifyRegistration(user *models.User) {
	if c.url == "" {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event": "user.registered",
		"name":  user.Name,
		"email": user.Email,
		"phone": user.Phone,
		"role":  user.Role,
	})
	if err != nil {
		log.WithError(err).Warn("CRM payload marshal failed")
		return
	}

	resp, err := c.client.Post(c.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.WithError(err).WithField("webhook", c.url).Warn("CRM webhook call failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.WithFields(log.Fields{
			"webhook": c.url,
			"status":  resp.StatusCode,
		}).Warn("CRM webhook rejected registration event")
	}
}
