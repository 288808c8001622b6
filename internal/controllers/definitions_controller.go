package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/engine"
)

// DefinitionsController holds dependencies for the workflow definition
// HTTP endpoints.
type DefinitionsController struct {
	AuthController
	Definitions *engine.DefinitionService
}

func NewDefinitionsController(definitions *engine.DefinitionService, userRepo engine.UserRepo) *DefinitionsController {
	return &DefinitionsController{
		Definitions:    definitions,
		AuthController: AuthController{UserRepo: userRepo},
	}
}

func (c *DefinitionsController) handleListDefinitions(w http.ResponseWriter, r *http.Request) {
	tenantID := resolveTenant(r, "")
	if tenantID == "" {
		http.Error(w, "tenant_id is required", http.StatusBadRequest)
		return
	}
	limit, offset := pageParams(r)
	defs, err := c.Definitions.List(tenantID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, defs)
}

func (c *DefinitionsController) handleCreateDefinition(w http.ResponseWriter, r *http.Request) {
	var cmd engine.CreateDefinitionCommand
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	cmd.TenantID = resolveTenant(r, cmd.TenantID)

	detail, err := c.Definitions.Create(r.Context(), &cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (c *DefinitionsController) handleGetDefinition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	detail, err := c.Definitions.Get(id, resolveTenant(r, ""))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (c *DefinitionsController) handleUpdateDefinition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	var cmd engine.UpdateDefinitionCommand
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	cmd.ID = id
	cmd.TenantID = resolveTenant(r, cmd.TenantID)

	def, err := c.Definitions.Update(r.Context(), &cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (c *DefinitionsController) handleDeleteDefinition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	cmd := engine.DeleteDefinitionCommand{ID: id, TenantID: resolveTenant(r, "")}
	if err := c.Definitions.Delete(r.Context(), &cmd); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (c *DefinitionsController) handleListStates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	states, err := c.Definitions.States(id, resolveTenant(r, ""))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (c *DefinitionsController) handleListTransitions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	transitions, err := c.Definitions.Transitions(id, resolveTenant(r, ""))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transitions)
}
