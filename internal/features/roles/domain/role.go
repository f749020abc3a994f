package domain

// RoleTag is a capability label attached to an identity, read-only from the
// application's perspective.
type RoleTag string

const (
	RoleTagAdmin    RoleTag = "admin"
	RoleTagDelivery RoleTag = "delivery"
)

// Capabilities is the resolved capability set for an identity. An identity
// may hold both, one or neither capability.
type Capabilities struct {
	IsManager  bool `json:"is_manager"`
	IsDelivery bool `json:"is_delivery"`
}

// FromTags maps role tags onto capabilities. Unknown tags are ignored.
func FromTags(tags []RoleTag) Capabilities {
	var caps Capabilities
	for _, tag := range tags {
		switch tag {
		case RoleTagAdmin:
			caps.IsManager = true
		case RoleTagDelivery:
			caps.IsDelivery = true
		}
	}
	return caps
}

// Has reports whether the capability set includes the required tag.
// An empty required tag always passes.
func (c Capabilities) Has(required RoleTag) bool {
	switch required {
	case RoleTagAdmin:
		return c.IsManager
	case RoleTagDelivery:
		return c.IsDelivery
	case "":
		return true
	default:
		return false
	}
}
