package models

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	// DateLayout is the wire and storage format of a booking date.
	DateLayout = "2006-01-02"

	// DefaultTokenTTL время жизни JWT по умолчанию
	DefaultTokenTTL = 24 * 60 * 60 // сутки в секундах

	// DefaultLoginAttempts количество неудачных входов в окне
	DefaultLoginAttempts = 5

	// DefaultLoginWindow окно ограничения входа
	DefaultLoginWindow = 15 * 60 // 15 минут в секундах

	// DefaultBusyTimeout ожидание блокировки SQLite в миллисекундах
	DefaultBusyTimeout = 5000
)
