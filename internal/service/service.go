// Package service holds the business layer. The registration service is the
// single gate for admission decisions; the others are thin orchestration over
// the repositories plus cache and search side effects.
package service

import (
	"jpo/internal/cache"
	"jpo/internal/repository"
	"jpo/internal/search"
)

type Services struct {
	Campuses      *CampusService
	Roles         *RoleService
	Users         *UserService
	OpenDays      *OpenDayService
	Registrations *RegistrationService
	Comments      *CommentService
}

// NewServices wires every service. The publisher, valkey and es clients may
// be nil; the services degrade to database-only behavior.
func NewServices(
	repos *repository.Repositories,
	publisher EventPublisher,
	valkey *cache.ValkeyClient,
	es *search.ElasticsearchClient,
) *Services {
	return &Services{
		Campuses:      NewCampusService(repos.Campuses, repos.OpenDays),
		Roles:         NewRoleService(repos.Roles, repos.Users),
		Users:         NewUserService(repos.Users, repos.Registrations, repos.Comments),
		OpenDays:      NewOpenDayService(repos.OpenDays, repos.Campuses, repos.Comments, es, valkey),
		Registrations: NewRegistrationService(repos.Registrations, publisher, valkey),
		Comments:      NewCommentService(repos.Comments, repos.Users, repos.OpenDays, publisher),
	}
}
