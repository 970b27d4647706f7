// Package notify's EmailNotifier delivers a user's resolved digest by
// SMTP, using a STARTTLS/direct-TLS dual-mode client and
// multipart/alternative HTML+text template rendering for a per-user
// batch of NewsItems.
package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/models"
)

// SMTPConfig holds SMTP server configuration for email delivery, all
// fields populated from environment variables with sensible defaults.
type SMTPConfig struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func SMTPConfigFromEnv() SMTPConfig {
	return SMTPConfig{
		Host:      getEnvOrDefault("SMTP_HOST", "localhost"),
		Port:      getEnvOrDefault("SMTP_PORT", "587"),
		Username:  getEnvOrDefault("SMTP_USERNAME", ""),
		Password:  getEnvOrDefault("SMTP_PASSWORD", ""),
		FromEmail: getEnvOrDefault("SMTP_FROM_EMAIL", "digest@localhost"),
		FromName:  getEnvOrDefault("SMTP_FROM_NAME", "News Digest"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// EmailNotifier renders and sends a digest email for users who have an
// email address on file. Users without one are skipped, not errored,
// since email is one of several notification channels.
type EmailNotifier struct {
	config SMTPConfig
}

func NewEmailNotifier(config SMTPConfig) *EmailNotifier {
	return &EmailNotifier{config: config}
}

type digestData struct {
	Items       []itemData
	GeneratedAt time.Time
	ItemCount   int
}

type itemData struct {
	Title       string
	Excerpt     string
	URL         string
	Source      string
	PublishedAt time.Time
}

func (n *EmailNotifier) NotifyDigest(ctx context.Context, user *models.User, items []*models.NewsItem) error {
	if user.Email == nil || *user.Email == "" {
		return nil
	}

	data := digestData{GeneratedAt: time.Now(), ItemCount: len(items)}
	for _, it := range items {
		link := ""
		if it.Link != nil {
			link = *it.Link
		}
		data.Items = append(data.Items, itemData{
			Title:       it.Title,
			Excerpt:     excerpt(it.Content, 280),
			URL:         link,
			Source:      it.Source,
			PublishedAt: it.PublishedAt,
		})
	}

	htmlBody, textBody, err := n.renderEmail(data)
	if err != nil {
		return apperr.Internal(fmt.Errorf("render digest email: %w", err))
	}

	subject := fmt.Sprintf("Your news digest - %d stories", len(items))
	message := n.buildMIMEMessage(*user.Email, subject, textBody, htmlBody)

	if err := n.sendSMTPWithTLS(n.config.FromEmail, []string{*user.Email}, []byte(message)); err != nil {
		return apperr.Transient(fmt.Errorf("send digest email to user %d: %w", user.ID, err))
	}
	log.Printf("notify: sent digest email to user %d (%d items)", user.ID, len(items))
	return nil
}

func excerpt(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return strings.TrimSpace(s[:maxLen]) + "..."
}

const htmlDigestTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 700px; margin: 0 auto; padding: 20px; }
.header { background: linear-gradient(135deg, #2d6cdf 0%, #1a3f91 100%); color: white; padding: 24px; border-radius: 10px; margin-bottom: 24px; text-align: center; }
.item { border: 1px solid #e9ecef; border-radius: 8px; padding: 16px; margin-bottom: 12px; }
.item-title a { color: #1a3f91; text-decoration: none; font-weight: 600; }
.item-meta { font-size: 0.85em; color: #666; margin-bottom: 8px; }
.footer { text-align: center; padding: 16px; color: #999; font-size: 0.85em; }
</style>
</head>
<body>
<div class="header"><h1>Your Digest</h1><p>{{.ItemCount}} stories selected for you</p></div>
{{range .Items}}
<div class="item">
  <div class="item-title"><a href="{{.URL}}" target="_blank">{{.Title}}</a></div>
  <div class="item-meta">{{.Source}} &middot; {{.PublishedAt.Format "Jan 2, 2006"}}</div>
  <div>{{.Excerpt}}</div>
</div>
{{end}}
<div class="footer">Generated {{.GeneratedAt.Format "Monday, January 2, 2006 at 3:04 PM"}}</div>
</body>
</html>`

const textDigestTemplate = `
Your Digest
===========================
{{.ItemCount}} stories selected for you

{{range $i, $item := .Items}}{{add $i 1}}. {{$item.Title}}
   {{$item.Source}} | {{$item.PublishedAt.Format "Jan 2, 2006"}}
   {{$item.Excerpt}}
   {{$item.URL}}

{{end}}
Generated {{.GeneratedAt.Format "Monday, January 2, 2006 at 3:04 PM"}}
`

func (n *EmailNotifier) renderEmail(data digestData) (string, string, error) {
	funcMap := template.FuncMap{"add": func(a, b int) int { return a + b }}

	htmlTmpl, err := template.New("html").Funcs(funcMap).Parse(htmlDigestTemplate)
	if err != nil {
		return "", "", err
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}

	textTmpl, err := template.New("text").Funcs(funcMap).Parse(textDigestTemplate)
	if err != nil {
		return "", "", err
	}
	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", err
	}

	return htmlBuf.String(), textBuf.String(), nil
}

func (n *EmailNotifier) buildMIMEMessage(to, subject, textBody, htmlBody string) string {
	boundary := fmt.Sprintf("boundary-digest-%d", time.Now().UnixNano())
	return fmt.Sprintf(`From: %s <%s>
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="%s"

--%s
Content-Type: text/plain; charset=UTF-8
Content-Transfer-Encoding: 7bit

%s

--%s
Content-Type: text/html; charset=UTF-8
Content-Transfer-Encoding: 7bit

%s

--%s--
`, n.config.FromName, n.config.FromEmail, to, subject, boundary, boundary, textBody, boundary, htmlBody, boundary)
}

// sendSMTPWithTLS picks STARTTLS (port 587) or direct TLS (any other
// port, most commonly 465) based on the configured port.
func (n *EmailNotifier) sendSMTPWithTLS(from string, to []string, msg []byte) error {
	addr := n.config.Host + ":" + n.config.Port
	auth := smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)

	if n.config.Port == "587" {
		return n.sendWithSTARTTLS(from, to, msg, auth, addr)
	}
	return n.sendWithDirectTLS(from, to, msg, auth, addr)
}

func (n *EmailNotifier) sendWithSTARTTLS(from string, to []string, msg []byte, auth smtp.Auth, addr string) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsConfig := &tls.Config{InsecureSkipVerify: false, ServerName: n.config.Host}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("start TLS: %w", err)
	}
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	return n.sendMessage(client, from, to, msg)
}

func (n *EmailNotifier) sendWithDirectTLS(from string, to []string, msg []byte, auth smtp.Auth, addr string) error {
	tlsConfig := &tls.Config{InsecureSkipVerify: false, ServerName: n.config.Host}
	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("connect to SMTP server with TLS: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, n.config.Host)
	if err != nil {
		return fmt.Errorf("create SMTP client: %w", err)
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	return n.sendMessage(client, from, to, msg)
}

func (n *EmailNotifier) sendMessage(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	for _, recipient := range to {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("set recipient %s: %w", recipient, err)
		}
	}
	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data writer: %w", err)
	}
	defer writer.Close()
	if _, err := writer.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
