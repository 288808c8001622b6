package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/config"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/core"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/engine"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// writeError maps domain errors to the API contract: NotFound to 404,
// every other rule violation to 422, anything unexpected to 500.
func writeError(w http.ResponseWriter, err error) {
	if de, ok := engine.AsDomainError(err); ok {
		status := http.StatusUnprocessableEntity
		if de.Code == engine.CodeNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, models.ErrorResponse{Error: de.Message})
		return
	}
	slog.Error("Request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "internal error"})
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, bool) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// resolveTenant prefers the authenticated tenant, then the explicit
// request value, then the tenant_id query parameter.
func resolveTenant(r *http.Request, requestTenant string) string {
	if t, ok := r.Context().Value(core.CtxKeyTenant).(string); ok && t != "" {
		return t
	}
	if requestTenant != "" {
		return requestTenant
	}
	return r.URL.Query().Get("tenant_id")
}

// pageParams reads per_page and page query parameters with configured
// defaults and cap.
func pageParams(r *http.Request) (limit int, offset int) {
	limit = config.GetSystemSettingInteger(config.DEFAULT_PAGE_SIZE)
	maxLimit := config.GetSystemSettingInteger(config.MAX_PAGE_SIZE)
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	return limit, (page - 1) * limit
}
