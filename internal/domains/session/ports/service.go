package ports

import (
	"context"
	"errors"

	"github.com/Apurer/foodio-storefront/internal/domains/session/domain"
)

// ErrOperationInFlight is returned when the same operation is already outstanding.
var ErrOperationInFlight = errors.New("operation already in flight")

// Operation names a guarded session use case.
type Operation string

const (
	OpLogin       Operation = "login"
	OpRegister    Operation = "register"
	OpVerifyOTP   Operation = "verify_otp"
	OpLogout      Operation = "logout"
	OpRestore     Operation = "restore_session"
	OpSaveAddress Operation = "save_address"
)

// Operations lists every guarded operation.
var Operations = []Operation{OpLogin, OpRegister, OpVerifyOTP, OpLogout, OpRestore, OpSaveAddress}

// Service exposes session use cases to adapters.
type Service interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, name, email, password string) (*domain.Session, error)
	VerifyOTP(ctx context.Context, email, code string) (*domain.Session, error)
	Logout(ctx context.Context) *domain.Session
	RestoreSession(ctx context.Context) (*domain.Session, error)
	SaveAddress(ctx context.Context, address domain.Address) (*domain.Session, error)
	Snapshot() *domain.Session
	InFlight(op Operation) bool
}
