package domain

import "time"

// RoleRecord is a row in the roles reference table. The Name column holds
// one of the Role constants.
type RoleRecord struct {
	ID        int64
	Name      Role
	CreatedAt time.Time
}
