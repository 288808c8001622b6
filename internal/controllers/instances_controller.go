package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/engine"
)

// InstancesController holds dependencies for the workflow instance HTTP
// endpoints.
type InstancesController struct {
	AuthController
	Instances *engine.InstanceService
}

func NewInstancesController(instances *engine.InstanceService, userRepo engine.UserRepo) *InstancesController {
	return &InstancesController{
		Instances:      instances,
		AuthController: AuthController{UserRepo: userRepo},
	}
}

func (c *InstancesController) handleStartInstance(w http.ResponseWriter, r *http.Request) {
	var cmd engine.StartInstanceCommand
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	cmd.TenantID = resolveTenant(r, cmd.TenantID)

	inst, err := c.Instances.Start(r.Context(), &cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inst)
}

func (c *InstancesController) handleListInstances(w http.ResponseWriter, r *http.Request) {
	tenantID := resolveTenant(r, "")
	if tenantID == "" {
		http.Error(w, "tenant_id is required", http.StatusBadRequest)
		return
	}
	limit, offset := pageParams(r)
	instances, err := c.Instances.List(tenantID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, instances)
}

func (c *InstancesController) handleGetInstance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	inst, err := c.Instances.Get(id, resolveTenant(r, ""))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (c *InstancesController) handleAdvanceInstance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	var cmd engine.AdvanceInstanceCommand
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	cmd.InstanceID = id
	cmd.TenantID = resolveTenant(r, cmd.TenantID)

	inst, err := c.Instances.Advance(r.Context(), &cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (c *InstancesController) handleCancelInstance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	var cmd engine.CancelInstanceCommand
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	cmd.InstanceID = id
	cmd.TenantID = resolveTenant(r, cmd.TenantID)

	inst, err := c.Instances.Cancel(r.Context(), &cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (c *InstancesController) handleDeleteInstance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	cmd := engine.DeleteInstanceCommand{InstanceID: id, TenantID: resolveTenant(r, "")}
	if err := c.Instances.Delete(r.Context(), &cmd); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (c *InstancesController) handleGetInstanceLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	logs, err := c.Instances.Logs(id, resolveTenant(r, ""))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
