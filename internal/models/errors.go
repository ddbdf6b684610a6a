package models

// AppError is a structured application error with HTTP status code.
// The Code strings are part of the API surface; clients match on them.
type AppError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *AppError) Error() string { return e.Message }

// Error constructors.
var (
	ErrValidation = func(msg string) *AppError {
		return &AppError{Code: "ValidationError", Message: msg, Status: 400}
	}
	ErrConfigIO = func(msg string) *AppError {
		return &AppError{Code: "ConfigIOError", Message: msg, Status: 500}
	}
	ErrPlaylistFull = func(msg string) *AppError {
		return &AppError{Code: "PlaylistFull", Message: msg, Status: 400}
	}
	ErrUnsupportedType = func(msg string) *AppError {
		return &AppError{Code: "UnsupportedType", Message: msg, Status: 400}
	}
	ErrIndexOutOfRange = func(msg string) *AppError {
		return &AppError{Code: "IndexOutOfRange", Message: msg, Status: 400}
	}
	ErrEmptyPlaylist = func(msg string) *AppError {
		return &AppError{Code: "EmptyPlaylist", Message: msg, Status: 400}
	}
	ErrExternalTool = func(msg string) *AppError {
		return &AppError{Code: "ExternalToolError", Message: msg, Status: 500}
	}
	ErrDisplayNotFound = func(msg string) *AppError {
		return &AppError{Code: "DisplayNotFound", Message: msg, Status: 500}
	}
	ErrNotFound = func(msg string) *AppError {
		return &AppError{Code: "NotFound", Message: msg, Status: 404}
	}
	ErrInternal = func(msg string) *AppError {
		return &AppError{Code: "Internal", Message: msg, Status: 500}
	}
)
