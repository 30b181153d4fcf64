package service

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"nutri-coach-be/internal/entity"
	"nutri-coach-be/internal/pkg/logger"
	"nutri-coach-be/internal/pkg/mailer"
	"nutri-coach-be/internal/repository/specification"
	"nutri-coach-be/internal/repository/unitofwork"
)

type IMailWorkerService interface {
	Consume(ctx context.Context) error

	// RequeuePending re-dispatches entries that lost their in-process
	// trigger, e.g. after a restart. Called from the scheduler.
	RequeuePending(ctx context.Context) (int, error)
}

type mailWorkerService struct {
	pubSub       *gochannel.GoChannel
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewMailWorkerService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IMailWorkerService {
	return &mailWorkerService{
		pubSub:       pubSub,
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       log,
	}
}

func (s *mailWorkerService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, MailDispatchTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *mailWorkerService) processMessage(ctx context.Context, msg *message.Message) {
	mailId, err := uuid.Parse(string(msg.Payload))
	if err != nil {
		s.logger.Error("MailWorker", "Invalid mail id in message", map[string]interface{}{"payload": string(msg.Payload)})
		// Ack malformed messages to prevent infinite retry.
		msg.Ack()
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// The claim is the exactly-once gate: a duplicate trigger loses the
	// conditional update and drops out here.
	claimed, err := uow.MailRepository().Claim(ctx, mailId)
	if err != nil {
		s.logger.Error("MailWorker", "Claim failed", map[string]interface{}{"mail_id": mailId, "error": err.Error()})
		msg.Nack()
		return
	}
	if !claimed {
		msg.Ack()
		return
	}

	entry, err := uow.MailRepository().FindOne(ctx, specification.ByID{ID: mailId})
	if err != nil || entry == nil {
		s.logger.Error("MailWorker", "Claimed entry not found", map[string]interface{}{"mail_id": mailId})
		msg.Ack()
		return
	}

	subject, _ := entry.Payload["subject"].(string)
	body, _ := entry.Payload["body_html"].(string)

	if err := s.emailService.Send(entry.To, entry.ToName, subject, body); err != nil {
		s.logger.Error("MailWorker", "Send failed", map[string]interface{}{"mail_id": mailId, "error": err.Error()})
		if merr := uow.MailRepository().MarkFailed(ctx, mailId, err.Error()); merr != nil {
			s.logger.Error("MailWorker", "MarkFailed failed", map[string]interface{}{"mail_id": mailId, "error": merr.Error()})
		}
		msg.Ack()
		return
	}

	if err := uow.MailRepository().MarkSent(ctx, mailId); err != nil {
		s.logger.Error("MailWorker", "MarkSent failed", map[string]interface{}{"mail_id": mailId, "error": err.Error()})
	}
	s.logger.Info("MailWorker", "Mail sent", map[string]interface{}{"mail_id": mailId, "to": entry.To, "type": entry.Type})
	msg.Ack()
}

func (s *mailWorkerService) RequeuePending(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	pending, err := uow.MailRepository().FindAll(ctx,
		specification.Filter("status", string(entity.MailStatusPending)),
	)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-2 * time.Minute)
	requeued := 0
	for _, entry := range pending {
		// Entries younger than the cutoff likely still have a live trigger.
		if entry.CreatedAt.After(cutoff) {
			continue
		}
		msg := message.NewMessage(watermill.NewUUID(), []byte(entry.Id.String()))
		if err := s.pubSub.Publish(MailDispatchTopic, msg); err != nil {
			s.logger.Warn("MailWorker", "Requeue publish failed", map[string]interface{}{"mail_id": entry.Id, "error": err.Error()})
			continue
		}
		requeued++
	}

	if requeued > 0 {
		s.logger.Info("MailWorker", "Requeued pending mails", map[string]interface{}{"count": requeued})
	}
	return requeued, nil
}
