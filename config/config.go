// Package config holds the external configuration shape the
// orchestrator consumes: global defaults and one entry per server,
// falling back to those defaults field by field.
//
// Grounded on the teacher's config.NetCTX (config/network.go), which
// resolves a per-network setting by checking the network's own map and
// falling back to a parent map when unset. This package carries the same
// fallback shape but, since loading from a file format is out of scope,
// trades NetCTX's dynamic map[string]interface{} storage for typed
// struct fields with *T pointers standing in for "unset, fall back to
// parent".
package config

import "github.com/aarondl/wick/client"

// Defaults are the global fallback values applied to any Server field
// left unset.
type Defaults struct {
	Nicks      []string
	Username   string
	Realname   string
	TLS        bool
	Scrollback int
	Notify     string // "off" | "mentions" | "messages"
}

// Server is one configured IRC network, with every field optional except
// Name/Host/Port - an unset field resolves to the matching Defaults
// field at Resolve time.
type Server struct {
	Name string
	Host string
	Port int

	TLS          *bool
	Pass         string
	Nicks        []string
	Username     string
	Realname     string
	AutoJoin     []string
	NickservPass string
	SASLUser     string
	SASLPass     string
	Notify       string
}

// Config is the whole external configuration: defaults plus the
// configured server list.
type Config struct {
	Defaults Defaults
	Servers  []Server
}

// Resolve merges s with d, producing the client.ServerInfo a
// client.Task is constructed from.
func (d Defaults) Resolve(s Server) *client.ServerInfo {
	info := &client.ServerInfo{
		Name:          s.Name,
		Host:          s.Host,
		Port:          s.Port,
		Pass:          s.Pass,
		AutoJoin:      s.AutoJoin,
		NickservIdent: s.NickservPass,
		SASLUser:      s.SASLUser,
		SASLPass:      s.SASLPass,
	}

	if s.TLS != nil {
		info.TLS = *s.TLS
	} else {
		info.TLS = d.TLS
	}

	if len(s.Nicks) > 0 {
		info.Nicks = s.Nicks
	} else {
		info.Nicks = d.Nicks
	}

	if s.Username != "" {
		info.Username = s.Username
	} else {
		info.Username = d.Username
	}

	if s.Realname != "" {
		info.Realname = s.Realname
	} else {
		info.Realname = d.Realname
	}

	return info
}

// NotifyLevel returns s's notify setting, falling back to d's.
func (d Defaults) NotifyLevel(s Server) string {
	if s.Notify != "" {
		return s.Notify
	}
	if d.Notify != "" {
		return d.Notify
	}
	return "off"
}

// ScrollbackFor returns d's scrollback capacity, or a sane built-in
// default if unset.
func (d Defaults) ScrollbackFor() int {
	if d.Scrollback > 0 {
		return d.Scrollback
	}
	return 2000
}
