package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/engine"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/models"
)

// UsersController issues tenant-scoped API keys. The plain key is
// returned once and only its bcrypt hash is stored.
type UsersController struct {
	AuthController
}

func NewUsersController(userRepo engine.UserRepo) *UsersController {
	return &UsersController{AuthController: AuthController{UserRepo: userRepo}}
}

type createUserRequest struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
}

func (c *UsersController) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.TenantID == "" || req.Name == "" {
		http.Error(w, "tenant_id and name are required", http.StatusBadRequest)
		return
	}

	apiKey := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}
	user := &domain.User{
		TenantID:   req.TenantID,
		Name:       req.Name,
		ApiKeyHash: string(hash),
		Enabled:    sql.NullBool{Bool: true, Valid: true},
	}
	id, err := c.UserRepo.Save(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.CreateUserResponse{ID: id, ApiKey: apiKey})
}
