package port

import "context"

// EventListenerPort - долгоживущий компонент приложения (планировщик, HTTP сервер),
// который запускается вместе с приложением и останавливается при завершении
type EventListenerPort interface {
	// Start блокируется до отмены контекста или фатальной ошибки
	Start(ctx context.Context) error

	// Close корректно останавливает компонент, дожидаясь завершения активных задач
	Close() error
}
