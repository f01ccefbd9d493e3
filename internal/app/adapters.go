package app

import (
	iauth "github.com/ideaforge/ideaforge/internal/auth"
	"github.com/ideaforge/ideaforge/internal/database"
)

// JWTServiceConfig adapts the auth settings for the token service.
func (a AuthConfig) JWTServiceConfig() iauth.JWTConfig {
	ttl := a.JWT.TTL
	if ttl <= 0 {
		ttl = iauth.DefaultAccessTokenTTL
	}

	return iauth.JWTConfig{
		Secret:         a.JWT.Secret,
		Issuer:         a.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// DatabaseConfig adapts the settings for the database layer.
func (d DatabaseConfig) DatabaseConfig() database.Config {
	return database.Config{
		Driver:   d.Driver,
		Path:     d.Path,
		DSN:      d.DSN,
		Host:     d.Host,
		Port:     d.Port,
		Name:     d.Name,
		User:     d.User,
		Password: d.Password,
		Options:  d.Options,
	}
}

// SeedConfig adapts the bootstrap settings for database seeding.
func (b BootstrapConfig) SeedConfig() database.SeedConfig {
	return database.SeedConfig{
		AdminEmail:    b.AdminEmail,
		AdminName:     b.AdminName,
		AdminPassword: b.AdminPassword,
	}
}
