// Package config defines the settings shared by axiom-fetch and axiom-sync
// and loads, validates and saves them in YAML format.
//
// Every field has a built-in default, so the settings file is optional.
package config
