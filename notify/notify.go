package notify

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/devyboy/scraper-plus-plus/config"
	"github.com/devyboy/scraper-plus-plus/models"
)

// Sender delivers one message. Fire-and-forget from the pipeline's
// perspective.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

// Mailer is the SMTP-backed Sender.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *Mailer) Send(to, subject, htmlBody, textBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

// Dispatcher decides whether a job's terminal state warrants mail and
// contains every send failure: a broken mailer can never change a job's
// already-persisted status.
type Dispatcher struct {
	sender Sender
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// JobSucceeded mails a summary, but only when something new landed and
// an owner is configured. Zero new rows stays quiet.
func (d *Dispatcher) JobSucceeded(job *models.Job, newCount int) {
	if d.sender == nil || job.OwnerEmail == "" || newCount == 0 {
		return
	}

	subject := fmt.Sprintf("Listing tracker: %d new listings", newCount)
	text := fmt.Sprintf("Your monitoring job found %d new listings.\n\nSource: %s\nSheet: %s\n",
		newCount, job.SourceURL, job.SheetRef)
	html := fmt.Sprintf(
		`<p>Your monitoring job found <b>%d</b> new listings.</p><p>Source: <a href="%s">%s</a><br>Sheet: %s</p>`,
		newCount, job.SourceURL, job.SourceURL, job.SheetRef)

	if err := d.sender.Send(job.OwnerEmail, subject, html, text); err != nil {
		log.Printf("Warning: summary email for job %s failed: %v", job.ID, err)
	}
}

// JobFailed mails the failure reason when an owner is configured.
func (d *Dispatcher) JobFailed(job *models.Job, runErr error) {
	if d.sender == nil || job.OwnerEmail == "" {
		return
	}

	subject := "Listing tracker: job failed"
	text := fmt.Sprintf("Your monitoring job failed.\n\nSource: %s\nError: %v\n", job.SourceURL, runErr)
	html := fmt.Sprintf(`<p>Your monitoring job failed.</p><p>Source: %s<br>Error: %v</p>`, job.SourceURL, runErr)

	if err := d.sender.Send(job.OwnerEmail, subject, html, text); err != nil {
		log.Printf("Warning: error email for job %s failed: %v", job.ID, err)
	}
}
