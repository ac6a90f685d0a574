// services/digest_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autoshop-backend/models"
	"autoshop-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const DefaultDigestSchedule = "0 18 * * *"

// SMSSender delivers a text message and returns the provider's message id.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSid, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// DigestSource lists the documents issued in a window, line items loaded.
type DigestSource interface {
	ListDocumentsIssuedBetween(ctx context.Context, start, end time.Time) ([]models.Document, error)
}

type DigestLogStore interface {
	CreateDigestLog(ctx context.Context, entry *models.DigestLog) error
}

type DigestOptions struct {
	To       string
	Schedule string
	TaxRate  decimal.Decimal
	Location *time.Location
	Now      func() time.Time
}

// DigestService texts the shop owner a summary of the day's invoices and
// quotations on a cron schedule. Every attempt is written to the digest log;
// failures are not retried.
type DigestService struct {
	source DigestSource
	logs   DigestLogStore
	sender SMSSender
	opts   DigestOptions
	cron   *cron.Cron
	log    zerolog.Logger
}

func NewDigestService(source DigestSource, logs DigestLogStore, sender SMSSender, opts DigestOptions, log zerolog.Logger) *DigestService {
	if opts.Schedule == "" {
		opts.Schedule = DefaultDigestSchedule
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &DigestService{
		source: source,
		logs:   logs,
		sender: sender,
		opts:   opts,
		log:    log.With().Str("component", "digest").Logger(),
	}
}

func (s *DigestService) StartScheduler() error {
	s.cron = cron.New(cron.WithLocation(s.opts.Location))
	if _, err := s.cron.AddFunc(s.opts.Schedule, func() {
		if err := s.SendDailyDigest(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("daily digest failed")
		}
	}); err != nil {
		return fmt.Errorf("digest schedule %q: %w", s.opts.Schedule, err)
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.opts.Schedule).Msg("digest scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running digest to finish.
func (s *DigestService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func (s *DigestService) SendDailyDigest(ctx context.Context) error {
	day := s.opts.Now().In(s.opts.Location)
	start, end := utils.DayRange(models.DateOnly(day))

	docs, err := s.source.ListDocumentsIssuedBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("load documents for %s: %w", start.Format(utils.DateLayout), err)
	}
	message := BuildDigestMessage(start, docs, s.opts.TaxRate)

	entry := &models.DigestLog{
		Day:       start,
		Recipient: s.opts.To,
		Message:   message,
		Channel:   "sms",
		Status:    "sent",
		SentAt:    s.opts.Now(),
	}
	sid, sendErr := s.sender.Send(ctx, s.opts.To, message)
	if sendErr != nil {
		entry.Status = "failed"
		entry.ErrorMessage = sendErr.Error()
		s.log.Error().Err(sendErr).Str("to", s.opts.To).Msg("failed to send digest")
	} else {
		entry.ProviderID = sid
		s.log.Info().Str("to", s.opts.To).Str("sid", sid).Int("documents", len(docs)).Msg("digest sent")
	}

	if err := s.logs.CreateDigestLog(ctx, entry); err != nil {
		s.log.Error().Err(err).Msg("failed to log digest")
	}
	return sendErr
}

type digestCounts struct {
	drafts, issued int
	total          decimal.Decimal
}

// BuildDigestMessage summarises a day's documents per kind. The total is the
// sum of the invoices' grand totals, tax included.
func BuildDigestMessage(day time.Time, docs []models.Document, taxRate decimal.Decimal) string {
	counts := map[models.DocumentKind]*digestCounts{
		models.KindInvoice:   {total: decimal.Zero},
		models.KindQuotation: {total: decimal.Zero},
	}
	for _, doc := range docs {
		c, ok := counts[doc.Kind]
		if !ok {
			continue
		}
		if doc.Status == models.StatusIssued {
			c.issued++
		} else {
			c.drafts++
		}
		c.total = c.total.Add(ComputeTotals(doc.LineItems, taxRate).Total.Decimal)
	}

	inv, qt := counts[models.KindInvoice], counts[models.KindQuotation]
	var b strings.Builder
	fmt.Fprintf(&b, "Daily summary %s\n", day.Format(utils.DateLayout))
	fmt.Fprintf(&b, "Invoices: %d (%d draft, %d issued)\n", inv.drafts+inv.issued, inv.drafts, inv.issued)
	fmt.Fprintf(&b, "Quotations: %d (%d draft, %d issued)\n", qt.drafts+qt.issued, qt.drafts, qt.issued)
	fmt.Fprintf(&b, "Invoiced total: %s", models.NewMoney(inv.total))
	return b.String()
}
