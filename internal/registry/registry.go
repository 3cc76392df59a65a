package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/plugbts/propflow/pkg/contracts"
)

// LeagueRegistry manages registered league profiles
type LeagueRegistry struct {
	profiles map[string]contracts.LeagueProfile
	order    []string
	mu       sync.RWMutex
}

// NewLeagueRegistry creates a new league registry
func NewLeagueRegistry() *LeagueRegistry {
	return &LeagueRegistry{
		profiles: make(map[string]contracts.LeagueProfile),
	}
}

// Register adds a league profile to the registry
func (r *LeagueRegistry) Register(profile contracts.LeagueProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToUpper(profile.GetLeagueKey())
	if _, exists := r.profiles[key]; exists {
		return fmt.Errorf("profile for league %s is already registered", key)
	}

	r.profiles[key] = profile
	r.order = append(r.order, key)
	return nil
}

// Get retrieves a profile by league key (case-insensitive)
func (r *LeagueRegistry) Get(leagueKey string) (contracts.LeagueProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.profiles[strings.ToUpper(leagueKey)]
	return profile, exists
}

// GetAll returns registered profiles in registration order
func (r *LeagueRegistry) GetAll() []contracts.LeagueProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]contracts.LeagueProfile, 0, len(r.order))
	for _, key := range r.order {
		profiles = append(profiles, r.profiles[key])
	}
	return profiles
}

// Count returns the number of registered profiles
func (r *LeagueRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.profiles)
}
