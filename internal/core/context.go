package core

type ctxKey string

const (
	CtxKeyActor  ctxKey = ctxKey("actor")
	CtxKeyTenant ctxKey = ctxKey("tenant")
)
