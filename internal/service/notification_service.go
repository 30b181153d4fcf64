package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/pkg/logger"
	"nutri-coach-be/internal/repository/unitofwork"
	"nutri-coach-be/internal/websocket"
	"nutri-coach-be/pkg/events"
	pktNats "nutri-coach-be/pkg/nats"
)

// MailDispatchTopic is the in-process topic the mail worker consumes.
const MailDispatchTopic = "mail.dispatch"

// NotificationDelivery is how real-time pushes reach the client. Implemented
// by the websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification websocket.Notification)
	Broadcast(notification websocket.Notification)
}

// NotificationService turns bus events into queued emails and in-app pushes.
// Every event produces at most one mail entry; the send itself happens in the
// mail worker.
type NotificationService struct {
	uowFactory    unitofwork.RepositoryFactory
	subscriber    *pktNats.Subscriber
	delivery      NotificationDelivery
	mailBus       *gochannel.GoChannel
	templateCache *gocache.Cache
	logger        logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	sub *pktNats.Subscriber,
	delivery NotificationDelivery,
	mailBus *gochannel.GoChannel,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		uowFactory:    uowFactory,
		subscriber:    sub,
		delivery:      delivery,
		mailBus:       mailBus,
		templateCache: gocache.New(10*time.Minute, 30*time.Minute),
		logger:        log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	payload := event.Payload()

	template, err := s.lookupTemplate(ctx, typeCode)
	if err != nil {
		return err
	}
	if template == nil {
		// No template means no email for this event type. Not an error.
		s.logger.Debug("NotificationService", "No template for event", map[string]interface{}{"type": typeCode})
		return nil
	}

	toEmail, _ := payload["client_email"].(string)
	toName, _ := payload["client_name"].(string)
	if toEmail == "" {
		s.logger.Warn("NotificationService", "Event without recipient, skipping mail", map[string]interface{}{"type": typeCode})
		return nil
	}

	subject := renderTemplate(template.Subject, payload)
	body := renderTemplate(template.BodyHtml, payload)

	entryPayload := map[string]interface{}{
		"subject":   subject,
		"body_html": body,
	}
	for k, v := range payload {
		entryPayload[k] = v
	}

	entry := &entity.MailEntry{
		To:      toEmail,
		ToName:  toName,
		Type:    typeCode,
		Payload: entryPayload,
		Status:  entity.MailStatusPending,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MailRepository().Create(ctx, entry); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}

	if err := s.dispatch(entry.Id); err != nil {
		// The entry stays pending; the requeue sweep will pick it up.
		s.logger.Warn("NotificationService", "Mail dispatch publish failed", map[string]interface{}{
			"mail_id": entry.Id, "error": err.Error(),
		})
	}

	s.pushInApp(typeCode, payload)

	return nil
}

func (s *NotificationService) dispatch(mailId uuid.UUID) error {
	msg := message.NewMessage(watermill.NewUUID(), []byte(mailId.String()))
	return s.mailBus.Publish(MailDispatchTopic, msg)
}

// pushInApp delivers the real-time counterpart of the email, when the event
// carries a target user.
func (s *NotificationService) pushInApp(typeCode string, payload map[string]interface{}) {
	if s.delivery == nil {
		return
	}

	rawUserId, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(rawUserId)
	if err != nil {
		return
	}

	s.delivery.Send(userId, websocket.Notification{
		Id:        uuid.New(),
		Type:      typeCode,
		Title:     humanizeEventType(typeCode),
		Body:      "",
		Data:      payload,
		CreatedAt: time.Now(),
	})
}

// lookupTemplate reads through the cache. A missing template is cached too,
// so unknown event types don't hammer the database.
func (s *NotificationService) lookupTemplate(ctx context.Context, code string) (*entity.MailTemplate, error) {
	if cached, found := s.templateCache.Get(code); found {
		if cached == nil {
			return nil, nil
		}
		return cached.(*entity.MailTemplate), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	template, err := uow.MailRepository().FindTemplateByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if template == nil {
		s.templateCache.Set(code, nil, gocache.DefaultExpiration)
		return nil, nil
	}

	s.templateCache.Set(code, template, gocache.DefaultExpiration)
	return template, nil
}

// renderTemplate substitutes {key} placeholders from the payload.
func renderTemplate(tpl string, payload map[string]interface{}) string {
	out := tpl
	for key, value := range payload {
		placeholder := "{" + key + "}"
		if !strings.Contains(out, placeholder) {
			continue
		}
		out = strings.ReplaceAll(out, placeholder, stringify(value))
	}
	return out
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.2f", t)
	case int:
		return fmt.Sprintf("%d", t)
	case time.Time:
		return t.Format("02-01-2006")
	default:
		raw, _ := json.Marshal(v)
		return string(raw)
	}
}

func humanizeEventType(code string) string {
	out := strings.Join(strings.Split(strings.ToLower(code), "_"), " ")
	if out == "" {
		return code
	}
	return strings.ToUpper(out[:1]) + out[1:]
}
