package service

import "errors"

// Card ledger errors
var (
	ErrCardPhoneRequired = errors.New("card phone required")
	ErrCardNameRequired  = errors.New("card name required")
	ErrCardExists        = errors.New("card already exists for phone")
	ErrCardNotFound      = errors.New("card not found")
	ErrCardAlreadyFull   = errors.New("card already full")
	ErrCardIncomplete    = errors.New("card not complete")
	ErrStampRateLimited  = errors.New("stamp rate limited")
	ErrCardCreateFailed  = errors.New("card create failed")
	ErrCardUpdateFailed  = errors.New("card update failed")
	ErrCardFetchFailed   = errors.New("card fetch failed")
	ErrCardDeleteFailed  = errors.New("card delete failed")
	ErrPhoneInvalid      = errors.New("phone invalid")
)

// Appointment errors
var (
	ErrAppointmentInvalid       = errors.New("appointment input invalid")
	ErrAppointmentNotFound      = errors.New("appointment not found")
	ErrAppointmentStatusInvalid = errors.New("appointment status invalid")
	ErrAppointmentTerminal      = errors.New("appointment already terminal")
	ErrSlotConflict             = errors.New("slot conflict")
	ErrServiceNotFound          = errors.New("service not found")
	ErrServiceInvalid           = errors.New("service input invalid")
	ErrAppointmentCreateFailed  = errors.New("appointment create failed")
	ErrAppointmentUpdateFailed  = errors.New("appointment update failed")
	ErrAppointmentFetchFailed   = errors.New("appointment fetch failed")
)

// Inbound / notification errors
var (
	ErrNoMatchingAppointment = errors.New("no matching appointment for sender")
	ErrInboundIgnored        = errors.New("inbound message ignored")
	ErrNotificationInvalid   = errors.New("notification input invalid")
	ErrBroadcastFailed       = errors.New("broadcast failed")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooWeak    = errors.New("password too weak")
)

// Wallet registration errors
var (
	ErrWalletAuthInvalid = errors.New("wallet auth token invalid")
	ErrWalletPlatform    = errors.New("wallet platform invalid")
)
