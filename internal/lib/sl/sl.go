// Package sl содержит мелкие помощники для структурированного логирования
// через slog, чтобы поля лога формировались единообразно по всему сервису.
package sl

import "log/slog"

// Err оборачивает ошибку в slog.Attr с ключом "error":
//
//	log.Error("failed to send invite", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
