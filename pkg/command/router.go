package command

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/autocube/cubo/pkg/avatar"
)

// RoleMap maps a chat role to the avatar id its animation commands drive.
// The special role "*" is the fallback for roles without an explicit
// entry, so the assistant and any future roles can share one avatar.
type RoleMap map[string]string

// DefaultRoleMap drives the user's avatar from user messages and the
// companion's avatar from everything else.
func DefaultRoleMap(userAvatar, companionAvatar string) RoleMap {
	return RoleMap{
		"user": userAvatar,
		"*":    companionAvatar,
	}
}

// Resolve returns the avatar id for role.
func (m RoleMap) Resolve(role string) (string, bool) {
	if id, ok := m[role]; ok {
		return id, true
	}
	id, ok := m["*"]
	return id, ok
}

// Router parses chat text and dispatches the resulting animation commands
// through an avatar registry.
type Router struct {
	parser   *Parser
	registry *avatar.Registry
	roles    RoleMap
	logger   *slog.Logger
}

// NewRouter creates a router. The role map must address avatars that the
// registry will hold by the time commands flow; Validate checks a fully
// built registry against the map.
func NewRouter(registry *avatar.Registry, roles RoleMap, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		parser:   NewParser(registry.Vocabulary()),
		registry: registry,
		roles:    roles,
		logger:   logger,
	}
}

// Validate checks that every avatar id the role map addresses is
// registered. A miss is a startup-time configuration error, unlike the
// expected runtime parse misses.
func (r *Router) Validate() error {
	for role, id := range r.roles {
		if _, err := r.registry.Get(id); err != nil {
			return fmt.Errorf("command: role %q maps to unregistered avatar: %w", role, err)
		}
	}
	return nil
}

// Route extracts an animation command from text and plays it on the
// avatar mapped to role.
//
// Text without a valid token is a quiet no-op. Dropped play commands
// (unknown animation, avatar still loading, missing action) are logged
// and swallowed: the chat pipeline continues. An unresolvable avatar id
// is returned as an error — that is a registry misconfiguration, not a
// runtime outcome.
func (r *Router) Route(role, text string) error {
	name := r.parser.Parse(text)
	if name == "" {
		return nil
	}

	id, ok := r.roles.Resolve(role)
	if !ok {
		return fmt.Errorf("command: no avatar mapped for role %q", role)
	}
	entity, err := r.registry.Get(id)
	if err != nil {
		return fmt.Errorf("command: route %q for role %q: %w", name, role, err)
	}

	if err := entity.Play(name); err != nil {
		switch {
		case errors.Is(err, avatar.ErrNotReady):
			r.logger.Warn("command: avatar not ready, dropping", "avatar", id, "animation", name)
		default:
			r.logger.Warn("command: play dropped", "avatar", id, "animation", name, "error", err)
		}
		return nil
	}

	r.logger.Info("command: playing animation", "avatar", id, "role", role, "animation", name)
	return nil
}
