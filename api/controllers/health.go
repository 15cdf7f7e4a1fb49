package controllers

import (
	"net/http"

	"github.com/sourcedesk/sourcedesk-backend/api/responses"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db"
	pkgerrors "github.com/sourcedesk/sourcedesk-backend/pkg/errors"
	"github.com/sourcedesk/sourcedesk-backend/pkg/logger"
	"github.com/sourcedesk/sourcedesk-backend/pkg/types"
)

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, types.StatusResponse{Status: "ok"})
	}
}

func HealthReady(logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		responses.WriteSuccess(w, types.StatusResponse{Status: "ready"})
	}
}
