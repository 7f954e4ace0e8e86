package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/tara-ride/dispatch/internal/pkg/errors"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse sends a success response with data
func SuccessResponse(c echo.Context, statusCode int, message string, data interface{}) error {
	return c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseHandler sends an error response
func ErrorResponseHandler(c echo.Context, statusCode int, errorMessage string) error {
	return c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   errorMessage,
		Code:    statusCode,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, errorMessage string) error {
	return ErrorResponseHandler(c, http.StatusBadRequest, errorMessage)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, errorMessage string) error {
	if errorMessage == "" {
		errorMessage = "Unauthorized"
	}
	return ErrorResponseHandler(c, http.StatusUnauthorized, errorMessage)
}

// NotFoundResponse sends a 404 Not Found response
func NotFoundResponse(c echo.Context, errorMessage string) error {
	if errorMessage == "" {
		errorMessage = "Resource not found"
	}
	return ErrorResponseHandler(c, http.StatusNotFound, errorMessage)
}

// StatusForError maps domain errors to HTTP status codes
func StatusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidLocations),
		errors.Is(err, apperrors.ErrInvalidVehicleClass),
		errors.Is(err, apperrors.ErrInvalidCoordinates),
		errors.Is(err, apperrors.ErrInvalidDriverID),
		errors.Is(err, apperrors.ErrInvalidPassengerID),
		errors.Is(err, apperrors.ErrInvalidTip),
		errors.Is(err, apperrors.ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrRideNotFound),
		errors.Is(err, apperrors.ErrDriverNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrRideAlreadyActive),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrRequestCancelled),
		errors.Is(err, apperrors.ErrAlreadyRated):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrNoDriversAvailable),
		errors.Is(err, apperrors.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// DomainErrorResponse sends an error response with the status matching err
func DomainErrorResponse(c echo.Context, err error) error {
	return ErrorResponseHandler(c, StatusForError(err), err.Error())
}
