package handlers

import (
	"net/http"

	apperrors "github.com/fightpath/fightpath/internal/errors"
)

// ErrorResponder writes err to w as an error envelope.
type ErrorResponder func(http.ResponseWriter, *http.Request, error)

var respondWithError ErrorResponder = apperrors.RespondWithError

// SetHTTPErrorResponder replaces the responder handlers use; nil restores
// the default envelope writer.
func SetHTTPErrorResponder(responder ErrorResponder) {
	if responder == nil {
		responder = apperrors.RespondWithError
	}
	respondWithError = responder
}
