// Package account holds the people in the system: administrators who own
// tournaments and drive statistic refreshes, and users who assemble fantasy
// rosters under a funds budget.
package account

// Role distinguishes account kinds in the store and the command surface.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleUser          Role = "user"
)

// Account is the polymorphic contract the account store persists. Every
// account has a unique name.
type Account interface {
	Name() string
	Role() Role
}
