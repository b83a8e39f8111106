package model

import (
	"fmt"
	"net/http"
	"regexp"

	log "github.com/sirupsen/logrus"
)

// Error codes, grouped by failure class. Validation, conflict and not-found are
// detected locally before any external call; collaborator and partial-failure
// codes carry the upstream message for diagnosis.
const (
	ErrorParams       = 200001 // missing or empty required field
	ErrorConflict     = 200002 // duplicate title on create
	ErrorNotFound     = 200003 // title absent on read/update/delete
	ErrorCollaborator = 200004 // document store, vector index or model endpoint failed
	ErrorPartial      = 200005 // one of two stores succeeded, the other failed
)

var ErrorMessages = map[int]string{
	ErrorParams:       "invalid request parameters",
	ErrorConflict:     "title already exists",
	ErrorNotFound:     "title not found",
	ErrorCollaborator: "upstream service unavailable",
	ErrorPartial:      "operation partially failed",
}

var errorStatus = map[int]int{
	ErrorParams:       http.StatusBadRequest,
	ErrorConflict:     http.StatusConflict,
	ErrorNotFound:     http.StatusNotFound,
	ErrorCollaborator: http.StatusBadGateway,
	ErrorPartial:      http.StatusInternalServerError,
}

type Error struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	InnerError error  `json:"-"`
}

func (err *Error) Error() string {
	if err.InnerError != nil {
		return fmt.Sprintf("%s: %v", err.Message, err.InnerError)
	}
	return err.Message
}

// HTTPStatus maps the error code to the response status controllers return.
func (err *Error) HTTPStatus() int {
	if status, ok := errorStatus[err.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

var flattenRe = regexp.MustCompile(`[\n\t]+`)

func NewError(code int, innerError error) *Error {
	if innerError != nil {
		flat := flattenRe.ReplaceAllString(fmt.Sprintf("%+v", innerError), " ")
		log.Errorf("NewError code:%d, message:%s, innerError:%s", code, ErrorMessages[code], flat)
	}
	return &Error{
		Code:       code,
		Message:    ErrorMessages[code],
		InnerError: innerError,
	}
}

func NewErrorWithMessage(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}
