package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidID возвращается хранилищем, если идентификатор не в его формате.
var ErrInvalidID = errors.New("invalid id")

// ErrorKind классифицирует ошибки бизнес-логики для отображения в HTTP-статусы.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindNotFound
	KindStorage
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error - ошибка бизнес-логики с видом и сообщением для клиента.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError - отсутствующие или некорректные входные данные.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFoundError - запрошенный пользователь не существует.
func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// StorageError - неожиданный сбой хранилища. Сообщением служит текст исходной ошибки.
func StorageError(err error) *Error {
	return &Error{Kind: KindStorage, Message: err.Error(), Err: err}
}

// KindOf возвращает вид ошибки или KindUnknown для посторонних ошибок.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindUnknown
}

// MessageOf возвращает сообщение для клиента.
func MessageOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
