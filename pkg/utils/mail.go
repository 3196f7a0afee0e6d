package utils

import (
	"context"
	"fmt"
	"html"

	"github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const receiptSubject = "Your transfer was confirmed"

// Receipt describes a confirmed transfer for the receipt mail.
type Receipt struct {
	From    string
	To      string
	Amount  string
	Keyword string
	Message string
	TxHash  string
}

type Mailer interface {
	SendReceipt(ctx context.Context, r Receipt) error
}

// RenderReceipt builds the HTML body of a receipt mail.
func RenderReceipt(r Receipt) string {
	row := func(label, value string) string {
		return fmt.Sprintf(`<tr>
  <td style="font-family:Arial,sans-serif;font-size:16px;color:#555;padding:6px 0;">%s:</td>
  <td style="font-family:Arial,sans-serif;font-size:16px;color:#111;font-weight:bold;padding:6px 0;">%s</td>
</tr>
`, label, html.EscapeString(value))
	}

	return fmt.Sprintf(`<body style="margin:0;padding:0;background:#f6f6f6;">
<table width="100%%" cellpadding="0" cellspacing="0" border="0" style="max-width:600px;background:#f3f2f0;border-radius:28px;">
<tr><td style="padding:32px;">
<h1 style="margin:0 0 12px 0;font-family:Arial,sans-serif;font-size:32px;color:#111;">Transfer confirmed</h1>
<table cellpadding="0" cellspacing="0" border="0" style="width:100%%;margin-bottom:24px;">
%s%s%s%s%s%s</table>
</td></tr>
</table>
</body>`,
		row("From", r.From),
		row("To", r.To),
		row("Amount (ETH)", r.Amount),
		row("Keyword", r.Keyword),
		row("Message", r.Message),
		row("Transaction", r.TxHash),
	)
}

// MailjetMailer отправляет квитанции через Mailjet
type MailjetMailer struct {
	client *mailjet.Client
	from   string
	to     string
}

func NewMailjetMailer(apiKey, secretKey, from, to string) *MailjetMailer {
	return &MailjetMailer{
		client: mailjet.NewMailjetClient(apiKey, secretKey),
		from:   from,
		to:     to,
	}
}

func (m *MailjetMailer) SendReceipt(ctx context.Context, r Receipt) error {
	messages := &mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{Email: m.from},
			To: &mailjet.RecipientsV31{
				{Email: m.to},
			},
			Subject:  receiptSubject,
			HTMLPart: RenderReceipt(r),
		},
	}}
	res, err := m.client.SendMailV31(messages)
	if err != nil {
		return errors.Wrap(err, "mailjet send")
	}
	logrus.WithField("tx_hash", r.TxHash).Debugf("Mailjet response: %+v", res)
	return nil
}

// SMTPMailer отправляет квитанции через SMTP
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewSMTPMailer(host string, port int, username, password, from, to string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		to:     to,
	}
}

func (m *SMTPMailer) SendReceipt(ctx context.Context, r Receipt) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", receiptSubject)
	msg.SetBody("text/html", RenderReceipt(r))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return errors.Wrap(err, "smtp send")
	}
	return nil
}
