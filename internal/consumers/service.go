// Package consumers processes domain events published by the API. The
// consumers keep the Valkey capacity snapshot fresh and drop the cached
// open-day list whenever registration counts move.
package consumers

import (
	"jpo/internal/cache"
	"jpo/internal/messaging"
	"jpo/internal/models"
	"jpo/internal/repository"

	"github.com/nats-io/stan.go"
)

// queueGroup spreads events across consumer instances; each event is handled
// once per group.
const queueGroup = "jpo-consumers"

type Service struct {
	nats   *messaging.NATSClient
	valkey *cache.ValkeyClient
	repos  *repository.Repositories
	subs   []stan.Subscription
}

func New(nats *messaging.NATSClient, valkey *cache.ValkeyClient, repos *repository.Repositories) *Service {
	return &Service{
		nats:   nats,
		valkey: valkey,
		repos:  repos,
	}
}

// Start subscribes to every domain subject.
func (s *Service) Start() error {
	subjects := map[string]stan.MsgHandler{
		models.EventRegistrationCreated:     s.handleRegistrationEvent,
		models.EventRegistrationCancelled:   s.handleRegistrationEvent,
		models.EventRegistrationReactivated: s.handleRegistrationEvent,
		models.EventCommentCreated:          s.handleCommentCreated,
	}

	for subject, handler := range subjects {
		sub, err := s.nats.SubscribeQueue(subject, queueGroup, handler)
		if err != nil {
			s.Stop()
			return err
		}
		s.subs = append(s.subs, sub)
	}

	return nil
}

// Stop closes the subscriptions; durable names keep the position for the
// next start.
func (s *Service) Stop() {
	for _, sub := range s.subs {
		sub.Close()
	}
	s.subs = nil
}
