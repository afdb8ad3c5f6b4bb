package notification

import (
	"strings"
	"testing"

	"github.com/gespro/gespro-api/internal/constant"
)

func TestMessage(t *testing.T) {
	cases := []struct {
		name      string
		eventType constant.NotificationType
		want      string
	}{
		{
			name:      "document uploaded",
			eventType: constant.NotificationDocumentUploaded,
			want:      `A new document "Contract" was uploaded to project "Renovation"`,
		},
		{
			name:      "new version",
			eventType: constant.NotificationDocumentNewVersion,
			want:      `A new version of "Contract" was uploaded in project "Renovation"`,
		},
		{
			name:      "signature pending",
			eventType: constant.NotificationSignaturePending,
			want:      `Your signature is requested on "Contract" in project "Renovation"`,
		},
		{
			name:      "fully signed",
			eventType: constant.NotificationDocumentFullySigned,
			want:      `Document "Contract" in project "Renovation" has been signed by all parties`,
		},
		{
			name:      "rejected",
			eventType: constant.NotificationDocumentRejected,
			want:      `Document "Contract" in project "Renovation" was rejected`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Message(tc.eventType, "Contract", "Renovation")
			if got != tc.want {
				t.Errorf("Message() = %q, want %q", got, tc.want)
			}
		})
	}

	t.Run("unknown type falls back to generic text", func(t *testing.T) {
		got := Message(constant.NotificationType("something_else"), "Contract", "Renovation")
		if !strings.Contains(got, "Contract") || !strings.Contains(got, "Renovation") {
			t.Errorf("fallback message %q does not mention document and project", got)
		}
	})
}

func TestActionLink(t *testing.T) {
	got := ActionLink("p1", "d1")
	want := "/projects/p1/documents/d1"
	if got != want {
		t.Errorf("ActionLink() = %q, want %q", got, want)
	}
}
