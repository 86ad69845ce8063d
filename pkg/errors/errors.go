package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrCodeAdapterUnknown   ErrCode = "ADAPTER_UNKNOWN"
	ErrCodeAdapterDuplicate ErrCode = "ADAPTER_DUPLICATE"
	ErrCodeManifestInvalid  ErrCode = "MANIFEST_INVALID"
	ErrCodeManifestUnknown  ErrCode = "MANIFEST_UNKNOWN"
	ErrCodeConfigInvalid    ErrCode = "CONFIG_INVALID"
	ErrCodeInvalidParameter ErrCode = "INVALID_PARAMETER"
	ErrCodeEndpointFailed   ErrCode = "ENDPOINT_FAILED"
	ErrCodeBudgetExhausted  ErrCode = "BUDGET_EXHAUSTED"
	ErrCodeInvokeFailed     ErrCode = "INVOKE_FAILED"
	ErrCodeUnsupported      ErrCode = "UNSUPPORTED"
	ErrCodeInternal         ErrCode = "INTERNAL"
)

type ErrCode string

type ErrorInfo struct {
	HttpStatus int     `json:"-"`
	Code       ErrCode `json:"code"`
	Message    string  `json:"message"`
	Detail     string  `json:"detail"`
}

func (e ErrorInfo) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func IsErrCode(err error, code ErrCode) bool {
	if err == nil {
		return false
	}
	info := ErrorInfo{}
	if errors.As(err, &info) {
		return info.Code == code
	}
	return false
}

func NewAdapterUnknownError(name string) ErrorInfo {
	return ErrorInfo{HttpStatus: http.StatusNotFound, Code: ErrCodeAdapterUnknown, Message: fmt.Sprintf("adapter: %s not found", name)}
}

func NewAdapterDuplicateError(name string) ErrorInfo {
	return ErrorInfo{HttpStatus: http.StatusConflict, Code: ErrCodeAdapterDuplicate, Message: fmt.Sprintf("adapter: %s listed more than once", name)}
}

func NewManifestInvalidError(err error) ErrorInfo {
	return ErrorInfo{HttpStatus: http.StatusBadRequest, Code: ErrCodeManifestInvalid, Message: err.Error()}
}

func NewManifestUnknownError(location string) ErrorInfo {
	return ErrorInfo{HttpStatus: http.StatusNotFound, Code: ErrCodeManifestUnknown, Message: fmt.Sprintf("manifest: %s not found", location)}
}

func NewConfigInvalidError(msg string) ErrorInfo {
	return ErrorInfo{HttpStatus: http.StatusBadRequest, Code: ErrCodeConfigInvalid, Message: msg}
}

func NewParameterInvalidError(msg string) ErrorInfo {
	return ErrorInfo{HttpStatus: http.StatusBadRequest, Code: ErrCodeInvalidParameter, Message: msg}
}

func NewEndpointFailedError(name string, reason string) ErrorInfo {
	return ErrorInfo{HttpStatus: http.StatusBadGateway, Code: ErrCodeEndpointFailed, Message: fmt.Sprintf("endpoint: %s failed: %s", name, reason)}
}

func NewBudgetExhaustedError(msg string) ErrorInfo {
	return ErrorInfo{HttpStatus: http.StatusConflict, Code: ErrCodeBudgetExhausted, Message: msg}
}

func NewInvokeFailedError(adapter string, err error) ErrorInfo {
	return ErrorInfo{HttpStatus: http.StatusBadGateway, Code: ErrCodeInvokeFailed, Message: fmt.Sprintf("invoke adapter %s: %s", adapter, err.Error())}
}

func NewUnsupportedError(msg string) ErrorInfo {
	return ErrorInfo{HttpStatus: http.StatusNotImplemented, Code: ErrCodeUnsupported, Message: msg}
}

func NewInternalError(err error) ErrorInfo {
	return ErrorInfo{HttpStatus: http.StatusInternalServerError, Code: ErrCodeInternal, Message: err.Error()}
}
