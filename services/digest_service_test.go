package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"autoshop-backend/logger"
	"autoshop-backend/models"

	"github.com/google/uuid"
)

type mockSender struct {
	to, body string
	err      error
}

func (m *mockSender) Send(ctx context.Context, to, body string) (string, error) {
	m.to, m.body = to, body
	if m.err != nil {
		return "", m.err
	}
	return "SM123", nil
}

type mockDigestLogs struct {
	entries []*models.DigestLog
}

func (m *mockDigestLogs) CreateDigestLog(ctx context.Context, entry *models.DigestLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

func digestDoc(kind models.DocumentKind, status models.DocumentStatus, day time.Time, lines ...models.LineItem) models.Document {
	return models.Document{ID: uuid.New(), Kind: kind, Status: status, IssuedOn: day, LineItems: lines}
}

func TestBuildDigestMessage(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	docs := []models.Document{
		digestDoc(models.KindInvoice, models.StatusIssued, day, billable("2", "50")),
		digestDoc(models.KindInvoice, models.StatusDraft, day, billable("1", "10.05")),
		digestDoc(models.KindQuotation, models.StatusDraft, day, billable("1", "999")),
	}

	got := BuildDigestMessage(day, docs, DefaultTaxRate)
	want := "Daily summary 2024-03-05\n" +
		"Invoices: 2 (1 draft, 1 issued)\n" +
		"Quotations: 1 (1 draft, 0 issued)\n" +
		"Invoiced total: 121.06"
	if got != want {
		t.Errorf("message =\n%s\nwant\n%s", got, want)
	}
}

func TestSendDailyDigestLogsDelivery(t *testing.T) {
	now := time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)
	store := newMemoryDocumentStore()
	today := digestDoc(models.KindInvoice, models.StatusIssued, models.DateOnly(now), billable("1", "100"))
	yesterday := digestDoc(models.KindInvoice, models.StatusIssued, models.DateOnly(now.AddDate(0, 0, -1)), billable("1", "100"))
	store.docs[today.ID] = today
	store.docs[yesterday.ID] = yesterday

	sender := &mockSender{}
	logs := &mockDigestLogs{}
	svc := NewDigestService(store, logs, sender, DigestOptions{
		To:       "+61400000000",
		TaxRate:  DefaultTaxRate,
		Location: time.UTC,
		Now:      func() time.Time { return now },
	}, logger.Nop())

	if err := svc.SendDailyDigest(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sender.to != "+61400000000" || !strings.Contains(sender.body, "Invoices: 1 (0 draft, 1 issued)") {
		t.Errorf("sent %q to %s", sender.body, sender.to)
	}
	if len(logs.entries) != 1 || logs.entries[0].Status != "sent" || logs.entries[0].ProviderID != "SM123" {
		t.Errorf("log entries = %+v", logs.entries)
	}
}

func TestSendDailyDigestLogsFailure(t *testing.T) {
	boom := errors.New("twilio down")
	logs := &mockDigestLogs{}
	svc := NewDigestService(newMemoryDocumentStore(), logs, &mockSender{err: boom}, DigestOptions{
		To:       "+61400000000",
		Location: time.UTC,
	}, logger.Nop())

	if err := svc.SendDailyDigest(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(logs.entries) != 1 || logs.entries[0].Status != "failed" || logs.entries[0].ErrorMessage != "twilio down" {
		t.Errorf("log entries = %+v", logs.entries)
	}
}

func TestStartSchedulerRejectsBadSchedule(t *testing.T) {
	svc := NewDigestService(newMemoryDocumentStore(), &mockDigestLogs{}, &mockSender{}, DigestOptions{
		Schedule: "every evening",
	}, logger.Nop())
	if err := svc.StartScheduler(); err == nil {
		svc.Stop()
		t.Fatal("expected an error for a malformed schedule")
	}
}
