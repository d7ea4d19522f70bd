package service

import (
	"errors"
	"fmt"
)

// Code enumerates the failure variants of the authentication flows.
type Code string

const (
	CodeUserNotFound    Code = "user_not_found"
	CodeInvalidPassword Code = "invalid_password"
	CodeNoFaceDetected  Code = "no_face_detected"
	CodeNoTemplate      Code = "no_template"
	CodeAlreadyEnrolled Code = "already_enrolled"
	CodeIncompleteInput Code = "incomplete_input"
	CodeInternalError   Code = "internal_error"
)

// 面向终端用户的提示语，沿用旧系统文案
const (
	msgIncompleteLogin  = "Data tidak lengkap"
	msgIncompleteEnroll = "Data tidak lengkap atau jumlah gambar tidak mencukupi"
	msgUserNotFound     = "Pengguna tidak ditemukan"
	msgInvalidPassword  = "Password salah"
	msgNoTemplate       = "Data wajah tidak tersedia, silakan daftar"
	msgNoFaceDetected   = "Wajah tidak terdeteksi"
	msgNoFaceInSample   = "Wajah tidak terdeteksi dalam salah satu gambar"
	msgInvalidImage     = "Gambar tidak valid"
	msgAlreadyEnrolled  = "Wajah sudah terdaftar, tidak bisa registrasi ulang"
	msgInternal         = "Terjadi kesalahan pada server"
	msgBusy             = "Server sedang sibuk, silakan coba lagi"
	msgLoginSuccess     = "Login berhasil"
	msgNotRecognised    = "Wajah tidak dikenali, silakan daftar"
)

// EnrolledMessage is returned to the client after a successful enrollment.
const EnrolledMessage = "Wajah berhasil diregistrasi"

// Error is the tagged failure returned by every service operation.
type Error struct {
	Code    Code
	Message string
	// Sample is the 1-based enrollment image that caused the failure, zero otherwise.
	Sample    int
	Retryable bool
	// Busy marks an InternalError caused by extraction backpressure.
	Busy bool
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := string(e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Sample > 0 {
		msg = fmt.Sprintf("%s (sample %d)", msg, e.Sample)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func internalError(err error) *Error {
	return &Error{Code: CodeInternalError, Message: msgInternal, Retryable: true, Err: err}
}

func busyError(err error) *Error {
	return &Error{Code: CodeInternalError, Message: msgBusy, Retryable: true, Busy: true, Err: err}
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// CodeOf returns the Code carried by err, or CodeInternalError for foreign errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	if svcErr, ok := AsError(err); ok {
		return svcErr.Code
	}
	return CodeInternalError
}
