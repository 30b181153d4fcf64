package unitofwork

import (
	"context"

	"nutri-coach-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	AppointmentRepository() contract.AppointmentRepository
	InvoiceRepository() contract.InvoiceRepository
	MailRepository() contract.MailRepository
	IntakeRepository() contract.IntakeRepository
}
