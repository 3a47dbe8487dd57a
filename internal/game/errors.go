package game

import (
	"errors"
	"fmt"
)

// ErrorKind groups errors by the recovery policy that applies to them.
type ErrorKind uint8

const (
	KindNetwork ErrorKind = iota + 1
	KindGameLogic
	KindConfiguration
	KindSystem
)

// RecoveryStrategy is what the orchestration layer does about an error.
// It is picked per error kind, not per call site.
type RecoveryStrategy uint8

const (
	RecoveryRetry RecoveryStrategy = iota + 1
	RecoveryReconnect
	RecoveryNavigateBack
	RecoveryRestartGame
	RecoveryShowError
	RecoveryIgnore
)

// Error carries the taxonomy kind, a stable code, a user-facing Spanish
// message and an optional wrapped cause. Two Errors match under errors.Is
// when their codes match, regardless of detail or cause.
type Error struct {
	Kind     ErrorKind
	Code     string
	Message  string
	Strategy RecoveryStrategy
	Detail   string
	Cause    error
}

func (e *Error) Error() string {
	s := e.Code
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// UserMessage is the end-user-facing string; never raw exception text.
func (e *Error) UserMessage() string {
	return e.Message
}

func (e *Error) clone() *Error {
	c := *e
	return &c
}

func (e *Error) WithCause(cause error) *Error {
	c := e.clone()
	c.Cause = cause
	return c
}

func (e *Error) WithDetailf(format string, args ...interface{}) *Error {
	c := e.clone()
	c.Detail = fmt.Sprintf(format, args...)
	return c
}

// Recoverable reports whether the orchestration may continue the session
// after this error instead of surfacing a terminal failure.
func (e *Error) Recoverable() bool {
	switch e.Strategy {
	case RecoveryRetry, RecoveryReconnect, RecoveryIgnore:
		return true
	}
	return false
}

var (
	// Network
	ErrBluetoothNotAvailable = &Error{Kind: KindNetwork, Code: "BLUETOOTH_NOT_AVAILABLE", Strategy: RecoveryShowError,
		Message: "Bluetooth no está disponible. Actívalo e inténtalo de nuevo."}
	ErrPermissionDenied = &Error{Kind: KindNetwork, Code: "BLUETOOTH_PERMISSION_DENIED", Strategy: RecoveryShowError,
		Message: "Necesitas conceder permisos de Bluetooth para jugar."}
	ErrConnectionLost = &Error{Kind: KindNetwork, Code: "CONNECTION_LOST", Strategy: RecoveryReconnect,
		Message: "Se perdió la conexión. Intentando reconectar..."}
	ErrConnectionTimeout = &Error{Kind: KindNetwork, Code: "CONNECTION_TIMEOUT", Strategy: RecoveryRetry,
		Message: "La conexión tardó demasiado. Inténtalo de nuevo."}
	ErrHostDisconnected = &Error{Kind: KindNetwork, Code: "HOST_DISCONNECTED", Strategy: RecoveryNavigateBack,
		Message: "El anfitrión se desconectó. El juego ha terminado."}
	ErrMessageSendFailed = &Error{Kind: KindNetwork, Code: "MESSAGE_SEND_FAILED", Strategy: RecoveryRetry,
		Message: "Error al comunicarse con otros jugadores."}

	// Game logic
	ErrInvalidPlayerCount = &Error{Kind: KindGameLogic, Code: "INVALID_PLAYER_COUNT", Strategy: RecoveryShowError,
		Message: "No hay suficientes jugadores para comenzar."}
	ErrGameNotFound = &Error{Kind: KindGameLogic, Code: "GAME_NOT_FOUND", Strategy: RecoveryNavigateBack,
		Message: "No se encontró el juego. Puede haber terminado."}
	ErrPlayerNotFound = &Error{Kind: KindGameLogic, Code: "PLAYER_NOT_FOUND", Strategy: RecoveryShowError,
		Message: "Jugador no encontrado."}
	ErrInvalidGameState = &Error{Kind: KindGameLogic, Code: "INVALID_GAME_STATE", Strategy: RecoveryShowError,
		Message: "No se puede realizar esta acción ahora."}
	ErrGameAlreadyStarted = &Error{Kind: KindGameLogic, Code: "GAME_ALREADY_STARTED", Strategy: RecoveryNavigateBack,
		Message: "El juego ya comenzó."}
	ErrGameIsFull = &Error{Kind: KindGameLogic, Code: "GAME_IS_FULL", Strategy: RecoveryNavigateBack,
		Message: "El juego está lleno."}
	ErrNoWordsAvailable = &Error{Kind: KindGameLogic, Code: "NO_WORDS_AVAILABLE", Strategy: RecoveryShowError,
		Message: "No hay palabras disponibles para esta categoría."}
	ErrVoteAlreadyCast = &Error{Kind: KindGameLogic, Code: "VOTE_ALREADY_CAST", Strategy: RecoveryShowError,
		Message: "Ya has votado en esta ronda."}
	ErrDrawingTimeExpired = &Error{Kind: KindGameLogic, Code: "DRAWING_TIME_EXPIRED", Strategy: RecoveryIgnore,
		Message: "Se acabó el tiempo para dibujar."}

	// Configuration
	ErrInvalidConfig = &Error{Kind: KindConfiguration, Code: "INVALID_GAME_CONFIG", Strategy: RecoveryShowError,
		Message: "Configuración del juego inválida."}
	ErrNoCategoriesSelected = &Error{Kind: KindConfiguration, Code: "NO_CATEGORIES_SELECTED", Strategy: RecoveryShowError,
		Message: "Debes seleccionar al menos una categoría de palabras."}
	ErrInvalidTimeSettings = &Error{Kind: KindConfiguration, Code: "INVALID_TIME_SETTINGS", Strategy: RecoveryShowError,
		Message: "Configuración de tiempo inválida."}

	// System
	ErrUnexpected = &Error{Kind: KindSystem, Code: "UNEXPECTED", Strategy: RecoveryShowError,
		Message: "Ocurrió un error inesperado. Inténtalo de nuevo."}
	ErrSerialization = &Error{Kind: KindSystem, Code: "SERIALIZATION", Strategy: RecoveryRetry,
		Message: "Error al procesar datos del juego."}
	ErrStateCorruption = &Error{Kind: KindSystem, Code: "STATE_CORRUPTION", Strategy: RecoveryRestartGame,
		Message: "Estado del juego corrupto. Reinicia el juego."}
	ErrResourceNotFound = &Error{Kind: KindSystem, Code: "RESOURCE_NOT_FOUND", Strategy: RecoveryShowError,
		Message: "Recurso no encontrado."}
)

// InvalidTransition builds the InvalidGameState error for a rejected
// state-machine transition, naming the current state and the attempt.
func InvalidTransition(from, to StateKind) *Error {
	return ErrInvalidGameState.WithDetailf("transition %s -> %s", from, to)
}

// RecoveryFor extracts the strategy for any error; unknown errors are
// surfaced rather than retried.
func RecoveryFor(err error) RecoveryStrategy {
	var e *Error
	if errors.As(err, &e) {
		return e.Strategy
	}
	return RecoveryShowError
}
