package engine

// Command payloads for every mutating operation. These double as the HTTP
// request bodies; Validate covers structural requirements only, the
// services enforce the semantic rules.

// StateInput describes one state of a new definition's graph.
type StateInput struct {
	Name      string `json:"name"`
	IsInitial bool   `json:"is_initial"`
	IsFinal   bool   `json:"is_final"`
	SortOrder int    `json:"sort_order"`
}

// TransitionInput describes one transition of a new definition's graph.
// Endpoints reference states of the same payload by name.
type TransitionInput struct {
	Name            string `json:"name"`
	FromState       string `json:"from_state"`
	ToState         string `json:"to_state"`
	RequiresComment bool   `json:"requires_comment"`
}

type CreateDefinitionCommand struct {
	TenantID    string            `json:"tenant_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	EntityType  string            `json:"entity_type"`
	States      []StateInput      `json:"states"`
	Transitions []TransitionInput `json:"transitions"`
}

func (c *CreateDefinitionCommand) CommandName() string { return "workflow.definition.create" }
func (c *CreateDefinitionCommand) Tenant() string { return c.TenantID }
func (c *CreateDefinitionCommand) Validate() error {
	if c.TenantID == "" {
		return newError(CodeInvalidCommand, "tenant_id is required")
	}
	if c.Name == "" {
		return newError(CodeInvalidCommand, "name is required")
	}
	if c.EntityType == "" {
		return newError(CodeInvalidCommand, "entity_type is required")
	}
	if len(c.States) == 0 {
		return newError(CodeInvalidCommand, "states are required")
	}
	return nil
}

type UpdateDefinitionCommand struct {
	ID          int64   `json:"-"`
	TenantID    string  `json:"tenant_id"`
	NewName     *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (c *UpdateDefinitionCommand) CommandName() string { return "workflow.definition.update" }
func (c *UpdateDefinitionCommand) Tenant() string { return c.TenantID }
func (c *UpdateDefinitionCommand) Validate() error {
	if c.ID == 0 {
		return newError(CodeInvalidCommand, "id is required")
	}
	if c.TenantID == "" {
		return newError(CodeInvalidCommand, "tenant_id is required")
	}
	if c.NewName != nil && *c.NewName == "" {
		return newError(CodeInvalidCommand, "name must not be empty")
	}
	return nil
}

type DeleteDefinitionCommand struct {
	ID       int64  `json:"id"`
	TenantID string `json:"tenant_id"`
}

func (c *DeleteDefinitionCommand) CommandName() string { return "workflow.definition.delete" }
func (c *DeleteDefinitionCommand) Tenant() string { return c.TenantID }
func (c *DeleteDefinitionCommand) Validate() error {
	if c.ID == 0 {
		return newError(CodeInvalidCommand, "id is required")
	}
	if c.TenantID == "" {
		return newError(CodeInvalidCommand, "tenant_id is required")
	}
	return nil
}

type StartInstanceCommand struct {
	TenantID             string `json:"tenant_id"`
	WorkflowDefinitionID int64  `json:"workflow_definition_id"`
	EntityType           string `json:"entity_type"`
	EntityID             string `json:"entity_id"`
	StartedByUserID      string `json:"started_by_user_id,omitempty"`
}

func (c *StartInstanceCommand) CommandName() string { return "workflow.instance.start" }
func (c *StartInstanceCommand) Tenant() string { return c.TenantID }
func (c *StartInstanceCommand) Actor() string  { return c.StartedByUserID }
func (c *StartInstanceCommand) Validate() error {
	if c.TenantID == "" {
		return newError(CodeInvalidCommand, "tenant_id is required")
	}
	if c.WorkflowDefinitionID == 0 {
		return newError(CodeInvalidCommand, "workflow_definition_id is required")
	}
	if c.EntityType == "" {
		return newError(CodeInvalidCommand, "entity_type is required")
	}
	if c.EntityID == "" {
		return newError(CodeInvalidCommand, "entity_id is required")
	}
	return nil
}

type AdvanceInstanceCommand struct {
	TenantID     string `json:"tenant_id"`
	InstanceID   int64  `json:"-"`
	TransitionID int64  `json:"transition_id"`
	ActorUserID  string `json:"actor_user_id"`
	Comment      string `json:"comment,omitempty"`
}

func (c *AdvanceInstanceCommand) CommandName() string { return "workflow.instance.advance" }
func (c *AdvanceInstanceCommand) Tenant() string { return c.TenantID }
func (c *AdvanceInstanceCommand) Actor() string  { return c.ActorUserID }
func (c *AdvanceInstanceCommand) Validate() error {
	if c.TenantID == "" {
		return newError(CodeInvalidCommand, "tenant_id is required")
	}
	if c.InstanceID == 0 {
		return newError(CodeInvalidCommand, "instance id is required")
	}
	if c.TransitionID == 0 {
		return newError(CodeInvalidCommand, "transition_id is required")
	}
	if c.ActorUserID == "" {
		return newError(CodeInvalidCommand, "actor_user_id is required")
	}
	return nil
}

type CancelInstanceCommand struct {
	TenantID    string `json:"tenant_id"`
	InstanceID  int64  `json:"-"`
	ActorUserID string `json:"actor_user_id"`
	Comment     string `json:"comment,omitempty"`
}

func (c *CancelInstanceCommand) CommandName() string { return "workflow.instance.cancel" }
func (c *CancelInstanceCommand) Tenant() string { return c.TenantID }
func (c *CancelInstanceCommand) Actor() string  { return c.ActorUserID }
func (c *CancelInstanceCommand) Validate() error {
	if c.TenantID == "" {
		return newError(CodeInvalidCommand, "tenant_id is required")
	}
	if c.InstanceID == 0 {
		return newError(CodeInvalidCommand, "instance id is required")
	}
	if c.ActorUserID == "" {
		return newError(CodeInvalidCommand, "actor_user_id is required")
	}
	return nil
}

type DeleteInstanceCommand struct {
	TenantID   string `json:"tenant_id"`
	InstanceID int64  `json:"instance_id"`
}

func (c *DeleteInstanceCommand) CommandName() string { return "workflow.instance.delete" }
func (c *DeleteInstanceCommand) Tenant() string { return c.TenantID }
func (c *DeleteInstanceCommand) Validate() error {
	if c.TenantID == "" {
		return newError(CodeInvalidCommand, "tenant_id is required")
	}
	if c.InstanceID == 0 {
		return newError(CodeInvalidCommand, "instance id is required")
	}
	return nil
}
