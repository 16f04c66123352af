package moderation

import "errors"

// Error taxonomy of the ledger. Command handlers map each of these to
// its own user-facing message; anything else is reported generically.
var (
	// ErrCaseNotFound: el caso no existe en el índice (nunca se asignó,
	// es anterior al índice, o su escritura de índice falló).
	ErrCaseNotFound = errors.New("caso no encontrado en el índice")
	// ErrNoticeUnavailable: el mensaje de log o su canal ya no existen.
	ErrNoticeUnavailable = errors.New("el mensaje del caso no está disponible")
	// ErrInvalidDuration: texto de duración vacío, malformado o cero.
	ErrInvalidDuration = errors.New("duración inválida")
	// ErrDurationTooLong: excede el máximo de timeout de Discord (28d).
	ErrDurationTooLong = errors.New("duración demasiado larga")
	// ErrRestrictionDenied: Discord rechazó el cambio de timeout por
	// permisos o jerarquía de roles.
	ErrRestrictionDenied = errors.New("sin permisos para cambiar el timeout")
	// ErrStoreUnavailable: la base de datos no respondió.
	ErrStoreUnavailable = errors.New("almacenamiento no disponible")
)
