package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/langtogether/langtogether-api/internal/api/shared"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/generation"
	"github.com/langtogether/langtogether-api/internal/service"
	"github.com/langtogether/langtogether-api/internal/service/auth"
	"github.com/langtogether/langtogether-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing their types to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Authentication
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrNotGroupMember):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, service.ErrAlreadyMember):
		return http.StatusConflict

	case errors.Is(err, service.ErrEmptyDeck),
		errors.Is(err, service.ErrNoCardsImported),
		errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrSelfInvitation),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrGenerationDisabled),
		errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable

	case errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	case errors.Is(err, service.ErrNoCardsDue):
		return http.StatusNoContent

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Unknown
// errors get a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var domainValidation *domain.ValidationError
	var rule *domain.RuleError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"
	case errors.Is(err, service.ErrNotGroupMember):
		return "You are not a member of this group"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, store.ErrProgressDeckNotFound):
		return "Progress deck not found"
	case errors.Is(err, store.ErrProgressCardNotFound):
		return "Progress card not found"
	case errors.Is(err, store.ErrGroupNotFound):
		return "Group not found"
	case errors.Is(err, store.ErrInvitationNotFound):
		return "Invitation not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrUserNameExists):
		return "User name already exists"
	case errors.Is(err, service.ErrAlreadyMember):
		return "User is already a member of this group"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, service.ErrEmptyDeck):
		return "Deck has no cards"
	case errors.Is(err, service.ErrNoCardsImported):
		return "No cards found in the uploaded sheet"
	case errors.Is(err, service.ErrSelfInvitation):
		return "You cannot invite yourself"

	case errors.Is(err, service.ErrGenerationDisabled):
		return "Card generation is not available"
	case errors.Is(err, generation.ErrContentBlocked):
		return "The text was rejected by the content filter"
	case errors.Is(err, generation.ErrTransientFailure):
		return "Card generation is temporarily unavailable"
	case errors.Is(err, generation.ErrInvalidResponse):
		return "Card generation returned an invalid result"

	case errors.As(err, &domainValidation):
		if domainValidation.Field == "" {
			return "Invalid " + domainValidation.Message
		}
		return fmt.Sprintf("Invalid %s: %s", domainValidation.Field, domainValidation.Message)
	case errors.As(err, &rule):
		return "Invalid request: " + rule.Error()
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the details. fallback replaces the generic message for 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns validator output into a short message
// naming the first invalid field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	first := validationErrs[0]
	field := toSnakeCase(first.Field())
	msg := getValidationTagMessage(first.Tag())
	if len(validationErrs) > 1 {
		return fmt.Sprintf("Invalid %s: %s (and %d more)", field, msg, len(validationErrs)-1)
	}
	return fmt.Sprintf("Invalid %s: %s", field, msg)
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return "too short or too small"
	case "max", "lte":
		return "too long or too large"
	case "uuid", "uuid4":
		return "invalid id"
	case "oneof":
		return "invalid value"
	case "dive":
		return "invalid item"
	default:
		return "validation failed"
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
