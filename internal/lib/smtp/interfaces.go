// Package smtp реализует отправку почты через SMTP с обязательным STARTTLS.
// Пакет используется воркером рассылки приглашений на отзыв.
package smtp

import "io"

// Client описывает подмножество методов *smtp.Client, необходимое для
// отправки одного письма. Выделен в интерфейс ради подмены в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Mailer устанавливает соединение с почтовым сервером и сообщает адрес
// отправителя, от имени которого уходят письма.
type Mailer interface {
	Connect() (Client, error)
	SenderAddress() string
}
