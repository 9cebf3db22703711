// Package repository implements all database access for the JPO platform
// with parameterized queries over database/sql.
package repository

import (
	"jpo/internal/database"
)

type Repositories struct {
	Campuses      *CampusRepository
	Roles         *RoleRepository
	Users         *UserRepository
	OpenDays      *OpenDayRepository
	Registrations *RegistrationRepository
	Comments      *CommentRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Campuses:      NewCampusRepository(db),
		Roles:         NewRoleRepository(db),
		Users:         NewUserRepository(db),
		OpenDays:      NewOpenDayRepository(db),
		Registrations: NewRegistrationRepository(db),
		Comments:      NewCommentRepository(db),
	}
}
