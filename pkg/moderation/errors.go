package moderation

import (
	"errors"
	"fmt"
)

// Kind classifies a moderation failure
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindExternal
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindExternal:
		return "external"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error is returned by every Engine operation that fails
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrInvalidPoints         = errors.New("points must be between 1 and 999")
	ErrUsePardon             = errors.New("negative points, use pardon")
	ErrNothingToPardon       = errors.New("user has no points")
	ErrWarnNotFound          = errors.New("warn not found")
	ErrThresholdNotFound     = errors.New("threshold not found")
	ErrAutocompleteNotFound  = errors.New("autocomplete suggestion not found")
	ErrDuplicateThreshold    = errors.New("threshold points already configured")
	ErrPermanentBanExists    = errors.New("conflicts with the permanent ban threshold")
	ErrInvalidPunishment     = errors.New("invalid punishment")
	ErrThresholdLimit        = errors.New("threshold limit reached")
	ErrAutocompleteLimit     = errors.New("autocomplete limit reached")
	ErrDuplicateAutocomplete = errors.New("autocomplete reason already configured")
	ErrInvalidReason         = errors.New("invalid reason")
	ErrNotMember             = errors.New("user is not a member")
	ErrMuteTooLong           = errors.New("timeout longer than 28 days")
	ErrNotBanned             = errors.New("user is not banned")

	// ErrUnknownTarget is returned by Platform when a guild or user does not exist
	ErrUnknownTarget = errors.New("unknown guild or user")
)

var userMessages = map[error]string{
	ErrInvalidPoints:         "Número de puntos inválido. Debe estar entre 1 y 999.",
	ErrUsePardon:             "Para reducir los puntos de un usuario usa `/mod pardon`.",
	ErrNothingToPardon:       "El usuario ya tiene 0 puntos.",
	ErrWarnNotFound:          "No existe un warn con ese ID.",
	ErrThresholdNotFound:     "No existe un umbral con ese ID.",
	ErrAutocompleteNotFound:  "No existe una sugerencia con ese ID.",
	ErrDuplicateThreshold:    "Ya existe un umbral con esa cantidad de puntos.",
	ErrPermanentBanExists:    "Ya hay un ban permanente configurado en esos puntos o por debajo.",
	ErrInvalidPunishment:     "Tipo de castigo inválido.",
	ErrThresholdLimit:        "Solo se permiten 10 umbrales por servidor.",
	ErrAutocompleteLimit:     "Solo se permiten 25 sugerencias por servidor.",
	ErrDuplicateAutocomplete: "Ya existe una sugerencia con esa razón.",
	ErrInvalidReason:         "La razón debe tener entre 1 y 88 caracteres.",
	ErrNotMember:             "El usuario no está en el servidor.",
	ErrMuteTooLong:           "El timeout máximo es de 28 días.",
	ErrNotBanned:             "El usuario no está baneado.",
	ErrUnknownTarget:         "No se encontró el usuario o el servidor.",
}

const (
	genericMessage  = "❌ Ocurrió un error al ejecutar la acción. Inténtalo de nuevo más tarde."
	externalMessage = "❌ No pude aplicar la acción. Revisa mis permisos y la jerarquía de roles."
)

// KindOf returns the Kind of err, or 0 when err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// UserMessage renders err for the member who invoked the command. Only
// validation and not-found errors carry detail.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindValidation, KindNotFound:
		for sentinel, msg := range userMessages {
			if errors.Is(err, sentinel) {
				return msg
			}
		}
		return genericMessage
	case KindExternal:
		return externalMessage
	default:
		return genericMessage
	}
}

func validation(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

func notFound(op string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

func external(op string, err error) error {
	return &Error{Kind: KindExternal, Op: op, Err: err}
}

func transient(op string, err error) error {
	return &Error{Kind: KindTransient, Op: op, Err: err}
}
