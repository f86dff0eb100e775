package mail

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"

	"puravida/internal/domain"
)

const contactHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; border-bottom: 2px solid #10b981; padding-bottom: 10px;">New Contact Form Submission</h2>
  <div style="background: #f9f9f9; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #10b981; margin-top: 0;">Contact Details</h3>
    <p><strong>Name:</strong> {{.Msg.Name}}</p>
    <p><strong>Email:</strong> {{.Msg.Email}}</p>
    <p><strong>Subject:</strong> {{.Msg.Subject}}</p>
  </div>
  <div style="background: #ffffff; padding: 20px; border: 1px solid #e5e5e5; border-radius: 8px;">
    <h3 style="color: #10b981; margin-top: 0;">Message</h3>
    <p style="line-height: 1.6; white-space: pre-wrap;">{{.Msg.Message}}</p>
  </div>
  <p style="margin-top: 20px; font-size: 14px; color: #666;">This message was sent from the {{.Site}} contact form.</p>
</div>
`

const contactText = `New Contact Form Submission

Name: {{.Msg.Name}}
Email: {{.Msg.Email}}
Subject: {{.Msg.Subject}}

Message:
{{.Msg.Message}}

This message was sent from the {{.Site}} contact form.
`

var (
	contactHTMLTmpl = htmltemplate.Must(htmltemplate.New("contact.html").Parse(contactHTML))
	contactTextTmpl = texttemplate.Must(texttemplate.New("contact.txt").Parse(contactText))
)

// ContactEmail renders the notification for a contact form submission.
// The visitor's address becomes Reply-To; From and To are the site's.
func ContactEmail(site, from, to string, msg domain.ContactMessage) (Message, error) {
	data := struct {
		Site string
		Msg  domain.ContactMessage
	}{site, msg}

	var h, t bytes.Buffer
	if err := contactHTMLTmpl.Execute(&h, data); err != nil {
		return Message{}, err
	}
	if err := contactTextTmpl.Execute(&t, data); err != nil {
		return Message{}, err
	}
	return Message{
		From:    from,
		To:      to,
		ReplyTo: msg.Email,
		Subject: "Contact Form: " + msg.Subject,
		Text:    t.String(),
		HTML:    h.String(),
	}, nil
}
