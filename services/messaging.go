package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"inkstudio-backend/metrics"
	"inkstudio-backend/models"
	"inkstudio-backend/utils"

	"github.com/skip2/go-qrcode"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ChannelWhatsApp = "whatsapp"
	ChannelLink     = "link"

	brazilCountryCode = "55"
	displayDateLayout = "02/01/2006"
)

// WhatsAppLink builds a wa.me click-to-chat link. Numbers without the Brazilian
// country code get it prepended.
func WhatsAppLink(phone, message string) string {
	digits := internationalDigits(phone)
	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link
}

func internationalDigits(phone string) string {
	digits := utils.PhoneDigits(phone)
	if strings.HasPrefix(digits, brazilCountryCode) && (len(digits) == 12 || len(digits) == 13) {
		return digits
	}
	return brazilCountryCode + digits
}

// MessageFor renders the Portuguese text for a message kind.
func MessageFor(kind string, appt *models.Appointment) (string, error) {
	switch kind {
	case models.ReminderConfirmation:
		return fmt.Sprintf("Olá %s! Seu agendamento para %s foi realizado com sucesso para %s às %s. Aguardamos você!",
			appt.ClientName, appt.Service, time.Time(appt.Date).Format(displayDateLayout), appt.Time), nil
	case models.ReminderDayBefore:
		return fmt.Sprintf("Olá %s! Lembrando que seu agendamento para %s é amanhã às %s. Aguardamos você!",
			appt.ClientName, appt.Service, appt.Time), nil
	case models.ReminderHourBefore:
		return fmt.Sprintf("Olá %s! Seu agendamento para %s é em 1 hora! Aguardamos você!",
			appt.ClientName, appt.Service), nil
	default:
		return "", &ValidationError{Fields: map[string]string{"kind": "unknown message kind"}}
	}
}

// QRCodePNG encodes content as a PNG QR code of size pixels.
func QRCodePNG(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, size)
}

// Delivery describes where a message went.
type Delivery struct {
	Channel   string
	Reference string
}

type Messenger interface {
	Send(ctx context.Context, phone, body string) (Delivery, error)
}

// LinkMessenger does not send anything; it only produces the wa.me link for staff to
// open by hand.
type LinkMessenger struct {
	logger *zap.Logger
}

func NewLinkMessenger(logger *zap.Logger) *LinkMessenger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkMessenger{logger: logger}
}

func (m *LinkMessenger) Send(_ context.Context, phone, body string) (Delivery, error) {
	link := WhatsAppLink(phone, body)
	m.logger.Debug("whatsapp link prepared", zap.String("link", link))
	return Delivery{Channel: ChannelLink, Reference: link}, nil
}

// TwilioMessenger sends WhatsApp messages through the Twilio API.
type TwilioMessenger struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioMessenger(accountSid, authToken, fromNumber string) *TwilioMessenger {
	return &TwilioMessenger{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: fromNumber,
	}
}

func (m *TwilioMessenger) Send(_ context.Context, phone, body string) (Delivery, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + internationalDigits(phone))
	params.SetFrom("whatsapp:" + m.from)
	params.SetBody(body)

	resp, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return Delivery{Channel: ChannelWhatsApp}, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	delivery := Delivery{Channel: ChannelWhatsApp}
	if resp.Sid != nil {
		delivery.Reference = *resp.Sid
	}
	return delivery, nil
}

// Notifier renders, sends and logs appointment messages.
type Notifier struct {
	db        *gorm.DB
	messenger Messenger
	logger    *zap.Logger

	Now func() time.Time
}

func NewNotifier(db *gorm.DB, messenger Messenger, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if messenger == nil {
		messenger = NewLinkMessenger(logger)
	}
	return &Notifier{db: db, messenger: messenger, logger: logger, Now: time.Now}
}

// Notify sends one message of kind about appt and records the attempt in reminder_logs.
// The send error is returned; a failure to write the log is only logged.
func (n *Notifier) Notify(ctx context.Context, appt *models.Appointment, kind string) error {
	body, err := MessageFor(kind, appt)
	if err != nil {
		return err
	}

	delivery, sendErr := n.messenger.Send(ctx, appt.ContactPhone, body)
	entry := models.ReminderLog{
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		Kind:          kind,
		Message:       body,
		Status:        "sent",
		Channel:       delivery.Channel,
		Reference:     delivery.Reference,
		SentAt:        n.Now(),
	}
	if sendErr != nil {
		entry.Status = "failed"
		entry.ErrorMessage = sendErr.Error()
		n.logger.Warn("failed to send appointment message",
			zap.String("appointment_id", appt.ID.String()),
			zap.String("kind", kind),
			zap.Error(sendErr))
	}
	metrics.RecordReminder(kind, entry.Status)

	if err := n.db.WithContext(ctx).Create(&entry).Error; err != nil {
		n.logger.Error("failed to log reminder",
			zap.String("appointment_id", appt.ID.String()),
			zap.Error(err))
	}
	return sendErr
}
