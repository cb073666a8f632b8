package domain

import "fmt"

// Permission is an "action:resource" capability tag, e.g. "create:Todo".
type Permission string

// Action is the verb part of a permission.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionReadAll Action = "readAll"
)

// Resource is the noun part of a permission.
type Resource string

const (
	ResourceAccount      Resource = "Account"
	ResourceOrganization Resource = "Organization"
	ResourceTodo         Resource = "Todo"
)

// Make builds the permission tag for action on resource.
func Make(action Action, resource Resource) Permission {
	return Permission(fmt.Sprintf("%s:%s", action, resource))
}

// String returns the tag as a plain string.
func (p Permission) String() string {
	return string(p)
}
