package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the closed set of platform roles.
type Role int

const (
	RoleCliente Role = iota + 1
	RoleDeportista
	RoleEncargado
	RoleControl
	RoleAdmin
)

// ParseRole normalises a backend role string. Unknown roles are an error.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CLIENTE":
		return RoleCliente, nil
	case "DEPORTISTA":
		return RoleDeportista, nil
	case "ENCARGADO":
		return RoleEncargado, nil
	case "CONTROL":
		return RoleControl, nil
	case "ADMIN", "ADMINISTRADOR":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleCliente:
		return "CLIENTE"
	case RoleDeportista:
		return "DEPORTISTA"
	case RoleEncargado:
		return "ENCARGADO"
	case RoleControl:
		return "CONTROL"
	case RoleAdmin:
		return "ADMIN"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Roles is the set of roles held by one user.
type Roles []Role

func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// ParseRoles keeps the known roles and reports the unknown ones.
func ParseRoles(raw []string) (Roles, []string) {
	var roles Roles
	var unknown []string
	for _, s := range raw {
		r, err := ParseRole(s)
		if err != nil {
			unknown = append(unknown, s)
			continue
		}
		if !roles.Has(r) {
			roles = append(roles, r)
		}
	}
	return roles, unknown
}
