package mailer

import (
	"fmt"
	"strings"
	"time"

	"ictportal/pkg/types"
)

// Message is one outbound receipt email.
type Message struct {
	ToName  string
	ToAddr  string
	Subject string
	Body    string
}

// Service delivers messages best-effort. Implementations must never
// block the caller or surface delivery failures; the submission's
// success contract does not include the email.
type Service interface {
	Send(msg Message)
}

// BuildReceipt composes the confirmation sent to the submitter,
// including links to any stored uploads.
func BuildReceipt(sub *types.Submission, uploads []types.MediaUpload, baseURL string) Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Dear %s,\n\n", sub.ContactPerson)
	b.WriteString("Thank you for submitting your ICT infrastructure assessment.\n\n")
	b.WriteString("Submission Details:\n")
	fmt.Fprintf(&b, "School: %s\n", sub.SchoolName)
	fmt.Fprintf(&b, "Submission Date: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	if len(uploads) > 0 {
		b.WriteString("Uploaded Files:\n")
		for _, up := range uploads {
			fmt.Fprintf(&b, "- %s: %s/uploads/%s\n", up.Kind, strings.TrimRight(baseURL, "/"), up.Path)
		}
		b.WriteString("\n")
	}

	b.WriteString("Your submission is being reviewed by our team.\n\n")
	b.WriteString("Best regards,\nICT Assessment Portal Team")

	return Message{
		ToName:  sub.ContactPerson,
		ToAddr:  sub.ContactEmail,
		Subject: "ICT Assessment Submission Received - " + sub.SchoolName,
		Body:    b.String(),
	}
}
