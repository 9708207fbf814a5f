package response

import "github.com/NaveedSindha/health-wellness-tracker/internal"

type APIResponse struct {
	Data  interface{}        `json:"data,omitempty"`
	Meta  map[string]any     `json:"meta,omitempty"`
	Error *internal.AppError `json:"error,omitempty"`
}

func Success(data interface{}, meta map[string]any) APIResponse {
	return APIResponse{Data: data, Meta: meta, Error: nil}
}

func Failure(err *internal.AppError) APIResponse {
	return APIResponse{Error: err}
}

func NotFound(msg string) APIResponse {
	return Failure(internal.ErrNotFound.WithMessage(msg))
}

func InternalError(msg string) APIResponse {
	return Failure(internal.ErrInternal.WithMessage(msg))
}
