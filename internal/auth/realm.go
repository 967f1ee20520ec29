package auth

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RealmConfig is the identity realm/client configuration file the process
// loads at startup, replacing the external provider's client config.
type RealmConfig struct {
	Realm       string `yaml:"realm"`
	Client      string `yaml:"client"`
	Secret      string `yaml:"secret"`
	TokenTTLHrs int    `yaml:"token_ttl_hours"`
}

func LoadRealm(path string) (RealmConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RealmConfig{}, fmt.Errorf("read realm file: %w", err)
	}

	var cfg RealmConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return RealmConfig{}, fmt.Errorf("parse realm file: %w", err)
	}
	if cfg.Realm == "" || cfg.Secret == "" {
		return RealmConfig{}, fmt.Errorf("realm file must set realm and secret")
	}
	if cfg.TokenTTLHrs <= 0 {
		cfg.TokenTTLHrs = 24
	}
	return cfg, nil
}

// Manager builds the JWT manager configured by this realm.
func (c RealmConfig) Manager() *JWTManager {
	return NewJWTManager(c.Secret, time.Duration(c.TokenTTLHrs)*time.Hour, c.Realm)
}
