package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gespro/gespro-api/internal/config"
	"github.com/gespro/gespro-api/internal/mailer"
	"github.com/gespro/gespro-api/internal/repository"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type NotificationConsumerContext struct {
	Config     *config.Config
	Logger     *zap.SugaredLogger
	Repository *repository.Repository
	Mailer     mailer.Client
}

// NotificationJobPayload is the unit of work published when a workflow event
// needs an email. The in-app notification row is written synchronously; only
// the mail delivery goes through the queue.
type NotificationJobPayload struct {
	ToEmail      string                  `json:"to_email"`
	TemplateFile mailer.MailTemplateFile `json:"template_file"`
	Data         json.RawMessage         `json:"data"`
	CreatedAt    string                  `json:"created_at"`
	Try          int                     `json:"try" default:"0"`
}

func NewNotificationJobPayload(toEmail string, data mailer.NotificationData) (NotificationJobPayload, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return NotificationJobPayload{}, fmt.Errorf("failed to marshal data: %w", err)
	}

	return NotificationJobPayload{
		ToEmail:      toEmail,
		TemplateFile: mailer.TemplateNotification,
		Data:         dataBytes,
		Try:          0,
		CreatedAt:    time.Now().Format(time.RFC3339),
	}, nil
}

type NotificationJobHandler func(ctx context.Context, jobPayload NotificationJobPayload, app *NotificationConsumerContext) (bool, error)

func (r *RabbitMQ) ConsumeNotificationJob(ctx context.Context, handler NotificationJobHandler, maxWorker int, app *NotificationConsumerContext) error {
	msgs, err := r.Consume(QueueNotificationMail)
	if err != nil {
		return fmt.Errorf("failed to start consuming notification jobs: %w", err)
	}

	for i := 0; i < maxWorker; i++ {
		go func(workerNumber int) {
			runNotificationWorker(ctx, r, workerNumber, msgs, handler, app)
		}(i + 1)
	}

	return nil
}

func runNotificationWorker(ctx context.Context, rabbitMQ *RabbitMQ, workerNumber int, msgs <-chan amqp091.Delivery, handler NotificationJobHandler, app *NotificationConsumerContext) {
	for {
		select {
		case <-ctx.Done():
			log.Printf("[Notification Worker %d] Shutting down", workerNumber)
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Printf("[Notification Worker %d] Message channel closed", workerNumber)
				return
			}
			processNotificationJob(ctx, rabbitMQ, workerNumber, msg, handler, app)
		}
	}
}

func processNotificationJob(ctx context.Context, rabbitMQ *RabbitMQ, workerNumber int, msg amqp091.Delivery, handler NotificationJobHandler, app *NotificationConsumerContext) {
	if msg.Body == nil {
		log.Printf("[Notification Worker %d] Received empty message body", workerNumber)
		rabbitMQ.Nack(msg, false)
		return
	}

	var jobPayload NotificationJobPayload
	if err := json.Unmarshal(msg.Body, &jobPayload); err != nil {
		log.Printf("[Notification Worker %d] Invalid payload: %v", workerNumber, err)
		rabbitMQ.Nack(msg, false)
		return
	}

	workerPrefix := fmt.Sprintf("[Notification Worker %d: Retry %d]", workerNumber, jobPayload.Try)

	shouldRequeue, err := handler(ctx, jobPayload, app)
	if err != nil {
		log.Printf("%s Handler error processing notification job for recipient: %s: %v",
			workerPrefix, jobPayload.ToEmail, err)

		if !shouldRequeue || jobPayload.Try >= MAX_QUEUE_RETRY {
			log.Printf("%s Not requeuing notification job for recipient: %s after error (retry: %d, shouldRequeue: %v)",
				workerPrefix, jobPayload.ToEmail, jobPayload.Try, shouldRequeue)
			rabbitMQ.Nack(msg, false)
			return
		}

		requeueNotificationJob(rabbitMQ, workerPrefix, msg, jobPayload)
		return
	}

	log.Printf("%s Successfully processed notification job for recipient: %s",
		workerPrefix, jobPayload.ToEmail)
	rabbitMQ.Ack(msg)
}

func requeueNotificationJob(rabbitMQ *RabbitMQ, workerPrefix string, msg amqp091.Delivery, jobPayload NotificationJobPayload) {
	jobPayload.Try++
	payloadBytes, err := json.Marshal(jobPayload)
	if err != nil {
		log.Printf("%s Failed to marshal notification payload for requeue: %v", workerPrefix, err)
		rabbitMQ.Nack(msg, false)
		return
	}

	if err := rabbitMQ.Publish(QueueNotificationMail, payloadBytes); err != nil {
		log.Printf("%s Failed to requeue notification job for recipient: %s: %v",
			workerPrefix, jobPayload.ToEmail, err)
		rabbitMQ.Nack(msg, false)
		return
	}

	log.Printf("%s Requeued notification job for recipient: %s", workerPrefix, jobPayload.ToEmail)
	rabbitMQ.Ack(msg)
}
