package handler

const (
	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// IDParam is the route parameter holding an entity id.
	IDParam = "id"

	// ErrNilRouterOrCfg is used if the router or cfg pointer is nil.
	ErrNilRouterOrCfg = "router or cfg is nil"
)
