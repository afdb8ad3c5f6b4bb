package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gespro/gespro-api/internal/constant"
	"github.com/gespro/gespro-api/internal/mailer"
	"github.com/gespro/gespro-api/internal/model"
	"github.com/gespro/gespro-api/internal/queue"
	"github.com/gespro/gespro-api/internal/repository"
	"go.uber.org/zap"
)

// Recipient is one user a workflow event is delivered to.
type Recipient struct {
	UserID   string
	FullName string
	Email    string
}

// Event is a document workflow occurrence to fan out: one in-app
// notification row per recipient plus one queued mail job each.
type Event struct {
	Type         constant.NotificationType
	ProjectID    string
	ProjectName  string
	DocumentID   string
	DocumentName string
	Recipients   []Recipient
}

// Notifier delivers workflow events. Delivery is best effort: failures are
// logged and never propagate to the request that triggered the event.
type Notifier struct {
	logger *zap.SugaredLogger
	repo   *repository.Repository
	queue  *queue.RabbitMQ
	appURL string
}

func NewNotifier(logger *zap.SugaredLogger, repo *repository.Repository, q *queue.RabbitMQ, appURL string) *Notifier {
	return &Notifier{
		logger: logger,
		repo:   repo,
		queue:  q,
		appURL: appURL,
	}
}

// Message renders the human-readable text for a workflow event.
func Message(eventType constant.NotificationType, documentName, projectName string) string {
	switch eventType {
	case constant.NotificationDocumentUploaded:
		return fmt.Sprintf("A new document %q was uploaded to project %q", documentName, projectName)
	case constant.NotificationDocumentNewVersion:
		return fmt.Sprintf("A new version of %q was uploaded in project %q", documentName, projectName)
	case constant.NotificationSignaturePending:
		return fmt.Sprintf("Your signature is requested on %q in project %q", documentName, projectName)
	case constant.NotificationDocumentFullySigned:
		return fmt.Sprintf("Document %q in project %q has been signed by all parties", documentName, projectName)
	case constant.NotificationDocumentRejected:
		return fmt.Sprintf("Document %q in project %q was rejected", documentName, projectName)
	default:
		return fmt.Sprintf("Activity on document %q in project %q", documentName, projectName)
	}
}

// ActionLink is the in-app path a notification points at.
func ActionLink(projectId, documentId string) string {
	return fmt.Sprintf("/projects/%s/documents/%s", projectId, documentId)
}

// Notify persists the in-app notifications and publishes one mail job per
// recipient. Errors are logged and swallowed.
func (n *Notifier) Notify(ctx context.Context, event Event) {
	if len(event.Recipients) == 0 {
		return
	}

	message := Message(event.Type, event.DocumentName, event.ProjectName)
	actionLink := ActionLink(event.ProjectID, event.DocumentID)

	notifications := make([]*model.Notification, 0, len(event.Recipients))
	for _, recipient := range event.Recipients {
		notifications = append(notifications, &model.Notification{
			UserID:     recipient.UserID,
			Type:       event.Type,
			Message:    message,
			ActionLink: actionLink,
		})
	}

	if err := n.repo.Notification.CreateMany(ctx, nil, notifications); err != nil {
		n.logger.Errorf("Failed to create notifications for event %s on document %s: %v", event.Type, event.DocumentID, err)
	}

	if n.queue == nil {
		return
	}

	for _, recipient := range event.Recipients {
		if recipient.Email == "" {
			continue
		}

		payload, err := queue.NewNotificationJobPayload(recipient.Email, mailer.NotificationData{
			RecipientName: recipient.FullName,
			Message:       message,
			ProjectName:   event.ProjectName,
			DocumentName:  event.DocumentName,
			ActionURL:     n.appURL + actionLink,
		})
		if err != nil {
			n.logger.Errorf("Failed to build mail job for %s: %v", recipient.Email, err)
			continue
		}

		body, err := json.Marshal(payload)
		if err != nil {
			n.logger.Errorf("Failed to marshal mail job for %s: %v", recipient.Email, err)
			continue
		}

		if err := n.queue.Publish(queue.QueueNotificationMail, body); err != nil {
			n.logger.Errorf("Failed to publish mail job for %s: %v", recipient.Email, err)
		}
	}
}
