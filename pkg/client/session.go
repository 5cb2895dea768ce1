package client

import "github.com/shashiranjanraj/inkwell/pkg/auth"

// Session is what a successful login leaves behind on the client side.
type Session struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

func (s Session) Authenticated() bool { return s.Token != "" }
func (s Session) IsAdmin() bool       { return s.Authenticated() && s.Role == auth.RoleAdmin }
func (s Session) IsUser() bool        { return s.Authenticated() && s.Role == auth.RoleUser }
