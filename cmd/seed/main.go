package main

import (
	"log"
	"os"

	"nutri-coach-be/internal/model"
	"nutri-coach-be/pkg/database"
	"nutri-coach-be/pkg/events"

	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Mail Templates...")

	templates := []model.MailTemplate{
		{
			Code:     events.TypeAppointmentBooked,
			Subject:  "Your appointment request for {date} at {timeslot}",
			BodyHtml: "<p>Hi {client_name},</p><p>We received your {type} appointment request for <b>{date} at {timeslot}</b>. You will get a confirmation as soon as your coach approves it.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeAppointmentConfirmed,
			Subject:  "Appointment confirmed: {date} at {timeslot}",
			BodyHtml: "<p>Hi {client_name},</p><p>Your {type} appointment on <b>{date} at {timeslot}</b> is confirmed. The video call link is available in your portal.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeAppointmentCancelled,
			Subject:  "Appointment cancelled: {date} at {timeslot}",
			BodyHtml: "<p>Hi {client_name},</p><p>Your appointment on {date} at {timeslot} has been cancelled. You can book a new slot in your portal.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeAppointmentNoShow,
			Subject:  "Missed appointment on {date}",
			BodyHtml: "<p>Hi {client_name},</p><p>You missed your appointment on {date} at {timeslot}. A no-show fee may apply; please check your invoices.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeAppointmentReminder,
			Subject:  "Reminder: your appointment tomorrow at {timeslot}",
			BodyHtml: "<p>Hi {client_name},</p><p>A quick reminder of your {type} appointment tomorrow, {date} at <b>{timeslot}</b>. The video call link is in your portal.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeRescheduleProposed,
			Subject:  "New time proposed for your appointment",
			BodyHtml: "<p>Hi {client_name},</p><p>Your coach proposed to move your appointment to <b>{date} at {timeslot}</b>. Please accept the new time in your portal, or pick another slot.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeRescheduleConfirmed,
			Subject:  "Appointment moved to {date} at {timeslot}",
			BodyHtml: "<p>Hi {client_name},</p><p>Your appointment now takes place on <b>{date} at {timeslot}</b>.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeInvoiceCreated,
			Subject:  "Invoice {invoice_number}",
			BodyHtml: "<p>Hi {client_name},</p><p>A new invoice <b>{invoice_number}</b> of {currency} {total_amount} is ready. You can pay it from your portal.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeInvoicePaid,
			Subject:  "Payment received for {invoice_number}",
			BodyHtml: "<p>Hi {client_name},</p><p>Thank you, we received your payment for invoice <b>{invoice_number}</b>.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeInvoiceReissued,
			Subject:  "Corrected invoice {invoice_number}",
			BodyHtml: "<p>Hi {client_name},</p><p>Your previous invoice was credited and replaced by <b>{invoice_number}</b>. The up-to-date amount is {currency} {total_amount}.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeInvoiceReminder,
			Subject:  "Reminder: invoice {invoice_number} is still open",
			BodyHtml: "<p>Hi {client_name},</p><p>This is a friendly reminder that invoice <b>{invoice_number}</b> of {currency} {total_amount} is due on {due_date}.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeProgramEnrolled,
			Subject:  "Welcome to the Complete Program",
			BodyHtml: "<p>Hi {client_name},</p><p>Your Complete Program has started. You will be billed monthly for three cycles; the first invoice is on its way.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeProgramCompleted,
			Subject:  "You completed the Complete Program",
			BodyHtml: "<p>Hi {client_name},</p><p>Congratulations, you finished all three cycles of the Complete Program. Follow-up sessions are now billed per appointment.</p>",
			IsActive: true,
		},
		{
			Code:     events.TypeProgramDowngraded,
			Subject:  "Your plan changed to pay-as-you-go",
			BodyHtml: "<p>Hi {client_name},</p><p>As requested, your plan is now pay-as-you-go. Future sessions are invoiced individually.</p>",
			IsActive: true,
		},
	}

	for _, t := range templates {
		var existing model.MailTemplate
		if err := db.Where("code = ?", t.Code).First(&existing).Error; err == nil {
			log.Printf("Template '%s' already exists, skipping...", t.Code)
			continue
		}

		if err := db.Create(&t).Error; err != nil {
			log.Printf("Error creating template '%s': %v", t.Code, err)
		} else {
			log.Printf("Created template: %s", t.Code)
		}
	}

	log.Println("Mail template seeding completed!")

	seedAdminUser(db)
}
