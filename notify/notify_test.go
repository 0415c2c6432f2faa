package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/devyboy/scraper-plus-plus/models"
)

type recordingSender struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to, subject, html, text string
}

func (s *recordingSender) Send(to, subject, htmlBody, textBody string) error {
	s.sent = append(s.sent, sentMail{to, subject, htmlBody, textBody})
	return s.err
}

func ownedJob() *models.Job {
	return &models.Job{
		ID:         "j1",
		SourceURL:  "https://www.example.com/homes/",
		SheetRef:   "sheet-1",
		OwnerEmail: "owner@example.com",
	}
}

func TestJobSucceeded_SendsSummary(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender)

	d.JobSucceeded(ownedJob(), 4)

	if len(sender.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.to != "owner@example.com" {
		t.Fatalf("unexpected recipient %q", mail.to)
	}
	if !strings.Contains(mail.subject, "4 new listings") {
		t.Fatalf("unexpected subject %q", mail.subject)
	}
	if !strings.Contains(mail.text, "sheet-1") {
		t.Fatalf("text body missing sheet ref: %q", mail.text)
	}
}

func TestJobSucceeded_ZeroNewRowsStaysQuiet(t *testing.T) {
	sender := &recordingSender{}
	NewDispatcher(sender).JobSucceeded(ownedJob(), 0)
	if len(sender.sent) != 0 {
		t.Fatalf("expected no mail, got %d", len(sender.sent))
	}
}

func TestJobSucceeded_NoOwner(t *testing.T) {
	sender := &recordingSender{}
	job := ownedJob()
	job.OwnerEmail = ""
	NewDispatcher(sender).JobSucceeded(job, 5)
	if len(sender.sent) != 0 {
		t.Fatalf("expected no mail, got %d", len(sender.sent))
	}
}

func TestJobFailed_SendsReason(t *testing.T) {
	sender := &recordingSender{}
	NewDispatcher(sender).JobFailed(ownedJob(), errors.New("scrape failed after 3 attempts"))

	if len(sender.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].text, "scrape failed after 3 attempts") {
		t.Fatalf("body missing failure reason: %q", sender.sent[0].text)
	}
}

func TestSendFailureIsContained(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp: connection refused")}
	d := NewDispatcher(sender)

	// Must not panic or propagate.
	d.JobSucceeded(ownedJob(), 1)
	d.JobFailed(ownedJob(), errors.New("boom"))
}

func TestNilSender(t *testing.T) {
	d := NewDispatcher(nil)
	d.JobSucceeded(ownedJob(), 1)
	d.JobFailed(ownedJob(), errors.New("boom"))
}
