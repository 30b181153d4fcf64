package bootstrap

import (
	"context"
	"log"
	"time"

	"nutri-coach-be/internal/config"
	"nutri-coach-be/internal/controller"
	"nutri-coach-be/internal/handler"
	"nutri-coach-be/internal/pkg/logger"
	"nutri-coach-be/internal/pkg/mailer"
	"nutri-coach-be/internal/repository/unitofwork"
	"nutri-coach-be/internal/service"
	"nutri-coach-be/internal/websocket"
	"nutri-coach-be/pkg/meetings"
	"nutri-coach-be/pkg/payments"

	pktNats "nutri-coach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController        controller.IAuthController
	UserController        controller.IUserController
	AppointmentController controller.IAppointmentController
	AdminController       controller.IAdminController
	InvoiceController     controller.IInvoiceController
	ProgramController     controller.IProgramController
	IntakeController      controller.IIntakeController

	// Background Services (Exposed for main.go to run)
	MailWorkerService service.IMailWorkerService
	Cron              *cron.Cron

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.MailLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Microsoft Teams meeting links are optional; without credentials the
	// portal books appointments with no join URL.
	var meetingClient meetings.IMeetingClient
	if cfg.Teams.Enabled {
		meetingClient = meetings.NewTeamsClient(meetings.TeamsConfig{
			TenantId:     cfg.Teams.TenantId,
			ClientId:     cfg.Teams.ClientId,
			ClientSecret: cfg.Teams.ClientSecret,
			OrganizerId:  cfg.Teams.OrganizerId,
		})
	} else {
		log.Println("[INFO] Teams integration disabled, appointments will have no join links")
	}

	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Printf("[WARN] Unknown timezone %q, falling back to local time", cfg.App.Timezone)
		location = time.Local
	}

	// 3. Services
	authService := service.NewAuthService(uowFactory, cfg.App.JwtSecret)
	userService := service.NewUserService(uowFactory)

	var paymentGateway payments.Gateway
	if cfg.Payment.MidtransServerKey != "" {
		paymentGateway = payments.NewSnapGateway(payments.SnapConfig{
			ServerKey:  cfg.Payment.MidtransServerKey,
			Production: cfg.Payment.Production,
			ClientURL:  cfg.App.ClientURL,
		})
	} else {
		sysLogger.Warn("Bootstrap", "Midtrans server key not set, payable invoices will be rejected", nil)
	}

	invoiceService := service.NewInvoiceService(uowFactory, paymentGateway, natsPub, sysLogger, service.InvoiceServiceConfig{
		MidtransServerKey: cfg.Payment.MidtransServerKey,
	})

	appointmentService := service.NewAppointmentService(
		uowFactory,
		invoiceService,
		meetingClient,
		natsPub,
		sysLogger,
		location,
	)

	programService := service.NewProgramService(uowFactory, invoiceService, natsPub, sysLogger)
	intakeService := service.NewIntakeService(uowFactory)

	// 3.5 Notification System
	notifService := service.NewNotificationService(uowFactory, natsSub, wsHub, pubSub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	mailWorker := service.NewMailWorkerService(pubSub, uowFactory, emailService, wsLogger)

	// Handler
	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	// 3.8 Scheduled Jobs
	scheduler := cron.New(cron.WithLocation(location))
	mustSchedule(scheduler, cfg.Billing.SweepCron, "billing sweep", func() {
		result, err := programService.RunBillingSweep(context.Background())
		if err != nil {
			sysLogger.Error("Cron", "Billing sweep failed", map[string]interface{}{"error": err.Error()})
			return
		}
		sysLogger.Info("Cron", "Billing sweep finished", map[string]interface{}{
			"users_visited":    result.UsersVisited,
			"invoices_created": result.InvoicesCreated,
			"completed":        result.Completed,
			"downgraded":       result.Downgraded,
			"errors":           result.Errors,
		})
	})
	mustSchedule(scheduler, cfg.Billing.ReminderCron, "daily reminders", func() {
		reminded, err := appointmentService.SendDailyReminders(context.Background())
		if err != nil {
			sysLogger.Error("Cron", "Appointment reminder run failed", map[string]interface{}{"error": err.Error()})
		} else {
			sysLogger.Info("Cron", "Appointment reminders dispatched", map[string]interface{}{"count": reminded})
		}

		sent, err := invoiceService.SendReminders(context.Background())
		if err != nil {
			sysLogger.Error("Cron", "Invoice reminder run failed", map[string]interface{}{"error": err.Error()})
			return
		}
		sysLogger.Info("Cron", "Invoice reminders dispatched", map[string]interface{}{"count": sent})
	})
	mustSchedule(scheduler, "*/5 * * * *", "mail requeue", func() {
		requeued, err := mailWorker.RequeuePending(context.Background())
		if err != nil {
			sysLogger.Error("Cron", "Mail requeue failed", map[string]interface{}{"error": err.Error()})
			return
		}
		if requeued > 0 {
			sysLogger.Info("Cron", "Requeued stuck mail entries", map[string]interface{}{"count": requeued})
		}
	})

	// 4. Controllers
	return &Container{
		AuthController:        controller.NewAuthController(authService),
		UserController:        controller.NewUserController(userService),
		AppointmentController: controller.NewAppointmentController(appointmentService),
		AdminController:       controller.NewAdminController(appointmentService, programService, userService),
		InvoiceController:     controller.NewInvoiceController(invoiceService),
		ProgramController:     controller.NewProgramController(programService),
		IntakeController:      controller.NewIntakeController(intakeService),

		MailWorkerService: mailWorker,
		Cron:              scheduler,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}

func mustSchedule(scheduler *cron.Cron, spec, name string, job func()) {
	if _, err := scheduler.AddFunc(spec, job); err != nil {
		log.Fatalf("[FATAL] Invalid cron spec %q for %s: %v", spec, name, err)
	}
}
