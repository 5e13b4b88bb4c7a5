package server

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/fightpath/fightpath/internal/errors"
	"github.com/fightpath/fightpath/internal/observability"
	servermw "github.com/fightpath/fightpath/internal/server/middleware"
)

// HandleError writes err as an error envelope. Requests abandoned by the
// client get no body.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if r != nil && r.Context().Err() != nil && errors.Is(err, context.Canceled) {
		if observability.ServerLogger != nil {
			observability.ServerLogger.Debug("Client went away",
				zap.String("path", r.URL.Path),
				zap.String("requestID", servermw.GetRequestID(r.Context())))
		}
		return
	}
	apperrors.RespondWithError(w, r, err)
}
