package engine

import (
	"github.com/kasunvimarshana/AutoERP-sub011/internal/commands"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/core"
)

// NewServices wires the definition and instance services around a shared
// graph cache and command pipeline.
func NewServices(definitionRepo DefinitionRepo, instanceRepo InstanceRepo, pipeline *commands.Pipeline, clock core.Clock) (*DefinitionService, *InstanceService) {
	cache := newGraphCache()
	definitions := NewDefinitionService(definitionRepo, instanceRepo, pipeline, cache, clock)
	instances := NewInstanceService(instanceRepo, definitionRepo, pipeline, cache, clock)
	return definitions, instances
}
