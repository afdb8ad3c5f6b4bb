package mailer

import "embed"

const (
	FROM_NAME = "GesPro"
	MAX_RETRY = 3
)

// MailTemplateFile is a path into the embedded templates directory. Each
// template defines a "subject" and a "body" block.
type MailTemplateFile string

const (
	TemplateNotification MailTemplateFile = "templates/notification.tmpl"
)

//go:embed "templates"
var FS embed.FS

// NotificationData carries the fields rendered into the notification mail
// template.
type NotificationData struct {
	RecipientName string `json:"recipientName"`
	Message       string `json:"message"`
	ProjectName   string `json:"projectName"`
	DocumentName  string `json:"documentName"`
	ActionURL     string `json:"actionUrl"`
}

type Client interface {
	Send(templateFile MailTemplateFile, toEmail string, data any) (int, error)
}
