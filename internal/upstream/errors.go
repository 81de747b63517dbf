package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindClient
	KindValidation
	KindRateLimit
	KindServer
)

// Error is the single failure type crossing the client boundary. Kind drives
// both the retry decision and the user-facing message.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("upstream: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("upstream: %s", e.Message)
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error()}
}

func statusError(status int, message string, fields map[string]string) *Error {
	e := &Error{Status: status, Message: message, Fields: fields}
	switch {
	case status == http.StatusUnprocessableEntity:
		e.Kind = KindValidation
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimit
	case status >= 500:
		e.Kind = KindServer
	case status >= 400:
		e.Kind = KindClient
	}
	return e
}

func Classify(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindUnknown
}

// Retryable reports whether a request may be reissued: network failures,
// server errors and rate limiting only.
func Retryable(err error) bool {
	switch Classify(err) {
	case KindNetwork, KindServer, KindRateLimit:
		return true
	}
	return false
}

func StatusOf(err error) int {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Status
	}
	return 0
}

func FieldsOf(err error) map[string]string {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Fields
	}
	return nil
}

// UserMessage maps a failure to the string shown in a toast.
func UserMessage(err error) string {
	switch Classify(err) {
	case KindNetwork:
		return "Không thể kết nối đến máy chủ, vui lòng thử lại"
	case KindValidation:
		return "Dữ liệu không hợp lệ, vui lòng kiểm tra lại"
	case KindRateLimit:
		return "Bạn thao tác quá nhanh, vui lòng thử lại sau"
	case KindServer:
		return "Máy chủ đang gặp sự cố, vui lòng thử lại sau"
	case KindClient:
		return "Yêu cầu không hợp lệ"
	}
	return "Đã xảy ra lỗi, vui lòng thử lại"
}
