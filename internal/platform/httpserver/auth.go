package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin      = "admin"
	RoleAnonymiser = "anonymiser"
	RoleReviewer   = "reviewer"
)

// Identity is the authenticated caller extracted from the bearer token.
type Identity struct {
	UserID string
	Roles  []string
}

func (i Identity) HasRole(role string) bool {
	for _, candidate := range i.Roles {
		if candidate == role {
			return true
		}
	}
	return false
}

func (i Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}

var errUnauthenticated = errors.New("missing or invalid bearer token")

// authenticate validates the Authorization header and returns the caller's
// identity. Tokens are HS256 with "sub" and "roles" claims.
func (s *Server) authenticate(r *http.Request) (Identity, error) {
	bearer := r.Header.Get("Authorization")
	if !strings.HasPrefix(bearer, "Bearer ") {
		return Identity{}, errUnauthenticated
	}
	token, err := jwt.Parse(bearer[7:], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnauthenticated
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, errUnauthenticated
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errUnauthenticated
	}

	identity := Identity{}
	if sub, ok := claims["sub"].(string); ok {
		identity.UserID = strings.TrimSpace(sub)
	}
	if identity.UserID == "" {
		return Identity{}, errUnauthenticated
	}
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, entry := range raw {
			if role, ok := entry.(string); ok {
				identity.Roles = append(identity.Roles, role)
			}
		}
	}
	return identity, nil
}

// requireRole authenticates and gates on one role. Admins pass every gate.
func (s *Server) requireRole(w http.ResponseWriter, r *http.Request, role string) (Identity, bool) {
	identity, err := s.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "a valid bearer token is required")
		return Identity{}, false
	}
	if role != "" && !identity.HasRole(role) && !identity.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden", "caller lacks the "+role+" role")
		return Identity{}, false
	}
	return identity, true
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	return s.requireRole(w, r, "")
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	identity, err := s.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "a valid bearer token is required")
		return Identity{}, false
	}
	if !identity.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden", "caller lacks the admin role")
		return Identity{}, false
	}
	return identity, true
}
