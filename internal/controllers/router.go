package controllers

import "net/http"

// RegisterRoutes wires the HTTP routes for this controller.
func (c *DefinitionsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /workflows", c.RequireAuth(c.handleListDefinitions))
	mux.HandleFunc("POST /workflows", c.RequireAuth(c.handleCreateDefinition))
	mux.HandleFunc("GET /workflows/{id}", c.RequireAuth(c.handleGetDefinition))
	mux.HandleFunc("PUT /workflows/{id}", c.RequireAuth(c.handleUpdateDefinition))
	mux.HandleFunc("DELETE /workflows/{id}", c.RequireAuth(c.handleDeleteDefinition))
	mux.HandleFunc("GET /workflows/{id}/states", c.RequireAuth(c.handleListStates))
	mux.HandleFunc("GET /workflows/{id}/transitions", c.RequireAuth(c.handleListTransitions))
}

func (c *InstancesController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /workflow-instances", c.RequireAuth(c.handleStartInstance))
	mux.HandleFunc("GET /workflow-instances", c.RequireAuth(c.handleListInstances))
	mux.HandleFunc("GET /workflow-instances/{id}", c.RequireAuth(c.handleGetInstance))
	mux.HandleFunc("POST /workflow-instances/{id}/advance", c.RequireAuth(c.handleAdvanceInstance))
	mux.HandleFunc("POST /workflow-instances/{id}/cancel", c.RequireAuth(c.handleCancelInstance))
	mux.HandleFunc("DELETE /workflow-instances/{id}", c.RequireAuth(c.handleDeleteInstance))
	mux.HandleFunc("GET /workflow-instances/{id}/logs", c.RequireAuth(c.handleGetInstanceLogs))
}

func (c *UsersController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /users", c.RequireAuth(c.handleCreateUser))
}
