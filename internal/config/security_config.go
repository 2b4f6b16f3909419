// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Librarian session required
	SecurityAdmin                       // Admin librarian session required
)

// RouteSecurityConfig maps named HTTP routes to their required security level
var RouteSecurityConfig = map[string]SecurityLevel{
	// Public
	"auth.login": SecurityPublic,
	"healthz":    SecurityPublic,
	"metrics":    SecurityPublic,

	// Session
	"auth.logout": SecurityAccess,
	"dashboard":   SecurityAccess,

	// Books
	"books.list":   SecurityAccess,
	"books.create": SecurityAccess,
	"books.get":    SecurityAccess,
	"books.update": SecurityAccess,
	"books.delete": SecurityAccess,

	// Members
	"members.list":   SecurityAccess,
	"members.create": SecurityAccess,
	"members.get":    SecurityAccess,
	"members.update": SecurityAccess,
	"members.delete": SecurityAccess,

	// Fines
	"fines.list":   SecurityAccess,
	"fines.create": SecurityAccess,
	"fines.get":    SecurityAccess,
	"fines.pay":    SecurityAccess,

	// History
	"history.list":   SecurityAccess,
	"history.borrow": SecurityAccess,
	"history.return": SecurityAccess,

	// Reports
	"reports.snapshot": SecurityAccess,
	"export.history":   SecurityAccess,
	"export.fines":     SecurityAccess,
	"export.reports":   SecurityAccess,

	// Settings
	"settings.get":    SecurityAccess,
	"settings.update": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RouteSecurityConfig[route]; exists {
		return level
	}
	// Default to session-required for unknown routes
	return SecurityAccess
}
