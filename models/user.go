package models

import "time"

// BackendUser is the user object returned by the backend login.
type BackendUser struct {
	IDPersona int      `json:"id_persona"`
	Nombre    string   `json:"nombre"`
	Correo    string   `json:"correo"`
	Rol       string   `json:"rol,omitempty"` // older deployments send a single role
	Roles     []string `json:"roles,omitempty"`
	IDCliente int      `json:"id_cliente,omitempty"`
}

// RoleNames merges Rol and Roles.
func (u BackendUser) RoleNames() []string {
	names := make([]string, 0, len(u.Roles)+1)
	if u.Rol != "" {
		names = append(names, u.Rol)
	}
	return append(names, u.Roles...)
}

// LoginResponse is datos of POST /auth/login.
type LoginResponse struct {
	Token   string      `json:"token"`
	Usuario BackendUser `json:"usuario"`
}

// AuthSession is the server side replacement for the browser's stored login.
type AuthSession struct {
	ID           string    `json:"id"`
	UserID       int       `json:"userId"`
	ClienteID    int       `json:"clienteId,omitempty"`
	Nombre       string    `json:"nombre"`
	Correo       string    `json:"correo"`
	Roles        Roles     `json:"roles"`
	BackendToken string    `json:"backendToken"`
	CreatedAt    time.Time `json:"createdAt"`
	LastSeenAt   time.Time `json:"lastSeenAt"`
}

// PublicSession is what /auth/me exposes; it never carries the backend token.
type PublicSession struct {
	UserID    int    `json:"userId"`
	ClienteID int    `json:"clienteId,omitempty"`
	Nombre    string `json:"nombre"`
	Correo    string `json:"correo"`
	Roles     Roles  `json:"roles"`
}

func (s AuthSession) Public() PublicSession {
	return PublicSession{
		UserID:    s.UserID,
		ClienteID: s.ClienteID,
		Nombre:    s.Nombre,
		Correo:    s.Correo,
		Roles:     s.Roles,
	}
}

// IsClient reports whether the session can act as a reserving client.
func (s *AuthSession) IsClient() bool {
	return s != nil && s.Roles.Has(RoleCliente) && s.ClienteID > 0
}
