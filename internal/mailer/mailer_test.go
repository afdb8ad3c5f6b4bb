package mailer

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
)

func TestNotificationTemplateRenders(t *testing.T) {
	tmpl, err := template.ParseFS(FS, string(TemplateNotification))
	if err != nil {
		t.Fatalf("failed to parse notification template: %v", err)
	}

	data := NotificationData{
		RecipientName: "Laura Fernandez",
		Message:       "A new version of \"Service Agreement\" was uploaded to project \"Office Renovation\"",
		ProjectName:   "Office Renovation",
		DocumentName:  "Service Agreement",
		ActionURL:     "http://localhost:3000/projects/p1/documents/d1",
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		t.Fatalf("failed to execute subject block: %v", err)
	}
	if !strings.Contains(subject.String(), "GesPro") {
		t.Errorf("subject %q does not mention the app name", subject.String())
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		t.Fatalf("failed to execute body block: %v", err)
	}
	for _, want := range []string{"Laura Fernandez", "Office Renovation", "Service Agreement", data.ActionURL} {
		if !strings.Contains(body.String(), want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}
