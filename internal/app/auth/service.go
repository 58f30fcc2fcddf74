/*
Package auth defines the authentication/profile collaborator.

The platform has no real backend: login and signup always succeed and
fabricate a profile, and skill persistence is an acknowledgement with a fixed
delay. The Service interface keeps that simulation pluggable; a real backend
can be substituted without touching handler logic.
*/
package auth

import (
	"context"
	"time"

	"github.com/SADD1990/kkhebrah/internal/app/profile"
)

// Service is the boundary to the (simulated) account backend. Credentials are
// opaque strings; implementations decide what, if anything, to do with them.
type Service interface {
	// Login resolves the member profile for the given credentials.
	Login(ctx context.Context, email, password string) (profile.User, error)

	// Signup creates a member profile for the given details.
	Signup(ctx context.Context, name, email, password string) (profile.User, error)

	// SaveSkill acknowledges persistence of a newly added skill.
	SaveSkill(ctx context.Context, skill profile.Skill) error
}

// SimulatedService implements Service with no backend at all: every call
// succeeds after a fixed delay. Credentials are accepted unchecked; this is
// a stand-in, not authentication.
type SimulatedService struct {
	delay time.Duration
}

// NewSimulatedService constructs the stand-in backend with the given resolve
// delay.
func NewSimulatedService(delay time.Duration) *SimulatedService {
	return &SimulatedService{delay: delay}
}

// Login returns the fabricated sample member after the simulated delay.
func (s *SimulatedService) Login(ctx context.Context, email, password string) (profile.User, error) {
	if err := s.wait(ctx); err != nil {
		return profile.User{}, err
	}

	return profile.SampleMember(), nil
}

// Signup fabricates an empty profile from the chosen name after the
// simulated delay.
func (s *SimulatedService) Signup(ctx context.Context, name, email, password string) (profile.User, error) {
	if err := s.wait(ctx); err != nil {
		return profile.User{}, err
	}

	return profile.NewMember(name), nil
}

// SaveSkill acknowledges the skill after the simulated delay. Nothing is
// stored here; the session store is the only holder of profile state.
func (s *SimulatedService) SaveSkill(ctx context.Context, skill profile.Skill) error {
	return s.wait(ctx)
}

// wait blocks for the configured delay or until the context is canceled.
func (s *SimulatedService) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
