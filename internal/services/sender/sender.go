// Package sender отправляет письма о скором окончании пробного периода.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/jobhunter/internal/lib/sl"
	"github.com/magabrotheeeer/jobhunter/internal/lib/smtp"
	"github.com/magabrotheeeer/jobhunter/internal/models"
	"github.com/magabrotheeeer/jobhunter/internal/services/trial"
)

// Transport открывает SMTP-сессию.
type Transport interface {
	Connect() (smtp.Client, error)
	From() string
}

// SenderService превращает уведомления из очереди в письма.
type SenderService struct {
	transport Transport
	baseURL   string
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService. В baseURL передаётся публичный адрес API,
// к которому приклеивается относительная ссылка на оплату.
func NewSenderService(transport Transport, baseURL string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       log,
	}
}

// HandleTrialExpiring обрабатывает тело сообщения из очереди trial_expiring.
// Нечитаемое сообщение логируется и подтверждается: повторная доставка его не исправит.
func (s *SenderService) HandleTrialExpiring(body []byte) error {
	var note models.TrialNotification
	if err := json.Unmarshal(body, &note); err != nil {
		s.log.Error("dropping malformed notification", sl.Err(err))
		return nil
	}
	if note.Email == "" {
		s.log.Error("dropping notification without email")
		return nil
	}
	return s.SendTrialExpiring(note)
}

// SendTrialExpiring отправляет письмо со ссылкой на оплату.
func (s *SenderService) SendTrialExpiring(note models.TrialNotification) error {
	const op = "services.sender.SendTrialExpiring"

	subject := "Your JobHunterPro free trial ends soon"
	body := fmt.Sprintf(
		"Hello!\r\n\r\n"+
			"Your JobHunterPro free trial ends on %s UTC.\r\n"+
			"To keep your job search automation running, choose a payment option here:\r\n%s\r\n\r\n"+
			"Monthly: %s. Annual: %s.\r\n",
		note.TrialExpires.UTC().Format(time.RFC1123),
		s.upgradeLink(note.UpgradeURL),
		trial.PriceMonthly,
		trial.PriceAnnual,
	)

	if err := s.sendEmail([]string{note.Email}, subject, body); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("trial expiring email sent", sl.Email(note.Email))
	return nil
}

func (s *SenderService) upgradeLink(upgradeURL string) string {
	if strings.HasPrefix(upgradeURL, "http://") || strings.HasPrefix(upgradeURL, "https://") {
		return upgradeURL
	}
	return s.baseURL + upgradeURL
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.From()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Debug("smtp client close", sl.Err(err))
		}
	}()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("rcpt to: %w", err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("quit: %w", err)
	}
	return nil
}
