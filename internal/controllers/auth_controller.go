package controllers

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/config"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/core"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/engine"
)

type AuthController struct {
	UserRepo engine.UserRepo
}

func NewBaseController(userRepo engine.UserRepo) *AuthController {
	return &AuthController{UserRepo: userRepo}
}

// RequireAuth resolves the X-API-Key header to an enabled API user and
// injects the actor and tenant into the request context. Auth can be
// switched off for local development via AUTOERP_AUTH_DISABLED.
func (ac *AuthController) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if config.GetSystemSettingString(config.AUTH_DISABLED) == "true" {
			next(w, r)
			return
		}
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		users, err := ac.UserRepo.FindEnabled()
		if err == nil && users != nil {
			for _, u := range *users {
				if bcrypt.CompareHashAndPassword([]byte(u.ApiKeyHash), []byte(apiKey)) == nil {
					ctx := context.WithValue(r.Context(), core.CtxKeyActor, u.Name)
					ctx = context.WithValue(ctx, core.CtxKeyTenant, u.TenantID)
					next(w, r.WithContext(ctx))
					return
				}
			}
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
}
