// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultPrefix is the property prefix used when Config.Prefix is empty.
const DefaultPrefix = "datasource"

// Property names, relative to the prefix.
const (
	KeyEnabled         = "enabled"
	KeyMode            = "initialization-mode"
	KeyPlatform        = "platform"
	KeySchema          = "schema"
	KeySchemaUsername  = "schema-username"
	KeySchemaPassword  = "schema-password"
	KeyData            = "data"
	KeyDataUsername    = "data-username"
	KeyDataPassword    = "data-password"
	KeyUsername        = "username"
	KeyPassword        = "password"
	KeyContinueOnError = "continue-on-error"
	KeySeparator       = "separator"
	KeyEncoding        = "sql-script-encoding"
)

// initializationKeys are the keys whose presence activates the
// shared-credentials initializer. The plain username and password are the
// datastore's own connection credentials and do not activate anything.
var initializationKeys = []string{
	KeyMode,
	KeyPlatform,
	KeySchema,
	KeySchema + "[0]",
	KeySchemaUsername,
	KeySchemaPassword,
	KeyData,
	KeyData + "[0]",
	KeyDataUsername,
	KeyDataPassword,
	KeyContinueOnError,
	KeySeparator,
	KeyEncoding,
}

// InitializationKeys returns the fully qualified keys that activate
// initialization for prefix.
func InitializationKeys(prefix string) []string {
	keys := make([]string, len(initializationKeys))
	for i, k := range initializationKeys {
		keys[i] = qualify(prefix, k)
	}
	return keys
}

func qualify(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Properties are the initialization properties bound from an Environment.
// Schema and Data are nil when not configured.
type Properties struct {
	Enabled         bool
	Mode            string `validate:"omitempty,oneof=always embedded never"`
	Platform        string `validate:"required"`
	Schema          []string
	SchemaUsername  string
	SchemaPassword  string
	Data            []string
	DataUsername    string
	DataPassword    string
	Username        string
	Password        string
	ContinueOnError bool
	Separator       string `validate:"required"`
	Encoding        string
}

var validate = validator.New()

// BindProperties reads the properties under prefix and applies defaults:
// enabled, platform "all", separator ";".
func BindProperties(env *Environment, prefix string) (Properties, error) {
	key := func(k string) string { return qualify(prefix, k) }

	p := Properties{
		Enabled:        true,
		Mode:           strings.ToLower(strings.TrimSpace(env.String(key(KeyMode)))),
		Platform:       env.String(key(KeyPlatform)),
		SchemaUsername: env.String(key(KeySchemaUsername)),
		SchemaPassword: env.String(key(KeySchemaPassword)),
		DataUsername:   env.String(key(KeyDataUsername)),
		DataPassword:   env.String(key(KeyDataPassword)),
		Username:       env.String(key(KeyUsername)),
		Password:       env.String(key(KeyPassword)),
		Separator:      env.String(key(KeySeparator)),
		Encoding:       env.String(key(KeyEncoding)),
	}
	if p.Platform == "" {
		p.Platform = "all"
	}
	if p.Separator == "" {
		p.Separator = DefaultSeparator
	}
	if schema, ok := env.Strings(key(KeySchema)); ok {
		p.Schema = schema
	}
	if data, ok := env.Strings(key(KeyData)); ok {
		p.Data = data
	}

	var err error
	if env.Contains(key(KeyEnabled)) {
		if p.Enabled, err = env.Bool(key(KeyEnabled)); err != nil {
			return Properties{}, err
		}
	}
	if p.ContinueOnError, err = env.Bool(key(KeyContinueOnError)); err != nil {
		return Properties{}, err
	}

	if err := validate.Struct(p); err != nil {
		return Properties{}, fmt.Errorf("invalid %s properties: %w", prefix, err)
	}
	return p, nil
}
