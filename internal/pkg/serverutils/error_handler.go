package serverutils

import (
	"errors"
	"time"

	"ai-twin-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

var kindStatus = map[apperror.Kind]int{
	apperror.KindBadRequest:          fiber.StatusBadRequest,
	apperror.KindInvalidQuery:        fiber.StatusBadRequest,
	apperror.KindUnprofessional:      fiber.StatusBadRequest,
	apperror.KindInsufficientContext: fiber.StatusOK,
	apperror.KindUnauthorized:        fiber.StatusUnauthorized,
	apperror.KindUpstreamRateLimit:   fiber.StatusTooManyRequests,
	apperror.KindUpstreamFailure:     fiber.StatusBadGateway,
	apperror.KindConfiguration:       fiber.StatusServiceUnavailable,
	apperror.KindAnalyticsFailure:    fiber.StatusInternalServerError,
	apperror.KindInternal:            fiber.StatusInternalServerError,
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	if status, found := kindStatus[kind]; found {
		return status
	}
	return fiber.StatusInternalServerError
}

// ErrorHandlerMiddleware renders any error returned further down the chain
// as a ChatErrorBody.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}

func WriteError(ctx *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		kind := apperror.KindInternal
		switch {
		case fiberErr.Code == fiber.StatusUnauthorized:
			kind = apperror.KindUnauthorized
		case fiberErr.Code < fiber.StatusInternalServerError:
			kind = apperror.KindBadRequest
		}
		return ctx.Status(fiberErr.Code).JSON(NewTimedChatError(kind, fiberErr.Message, time.Now()))
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(NewTimedChatError(apperror.KindInternal, "An unexpected error occurred", time.Now()))
	}

	status := StatusFor(appErr.Kind)
	if status < fiber.StatusInternalServerError && appErr.Kind != apperror.KindUpstreamRateLimit {
		return ctx.Status(status).JSON(NewChatError(appErr.Kind, appErr.Message))
	}
	return ctx.Status(status).JSON(NewTimedChatError(appErr.Kind, appErr.Message, time.Now()))
}
