// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type AccountConfig struct {
	Address       string
	Password      string
	Server        string
	Port          int
	Protocol      string
	Active        bool
	CheckInterval int // minutes
	MaxPerCheck   int
}

type Config struct {
	Database string

	TickSeconds        int
	PassTimeoutSeconds int

	Strategy       string // "default", "all" or "recent"
	RecentDaysBack int

	Accounts []AccountConfig

	Loglevel *string
}

func ReadConfig(filename string) (*Config, error) {
	config := &Config{
		Database:           "guardmail.db",
		TickSeconds:        30,
		PassTimeoutSeconds: 120,
		Strategy:           "default",
		RecentDaysBack:     7,
	}

	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	applyAccountDefaults(config)

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func applyAccountDefaults(c *Config) {
	for i := range c.Accounts {
		a := &c.Accounts[i]
		if a.Port == 0 {
			a.Port = 993
		}
		if len(a.Protocol) == 0 {
			a.Protocol = "IMAP"
		}
		if a.CheckInterval == 0 {
			a.CheckInterval = 15
		}
		if a.MaxPerCheck == 0 {
			a.MaxPerCheck = 50
		}
	}
}

func (c *Config) validate() error {
	if err := validateNonEmptyStringField(c.Database, "Database name must not be empty, set to a filename for the sqlite database"); err != nil {
		return err
	}

	if c.TickSeconds <= 0 {
		return fmt.Errorf("TickSeconds must be positive, got %d", c.TickSeconds)
	}
	if c.PassTimeoutSeconds <= 0 {
		return fmt.Errorf("PassTimeoutSeconds must be positive, got %d", c.PassTimeoutSeconds)
	}

	switch strings.ToLower(c.Strategy) {
	case "default", "all", "recent":
	default:
		return fmt.Errorf("Strategy must be one of default, all or recent, got %q", c.Strategy)
	}

	if c.RecentDaysBack <= 0 {
		return fmt.Errorf("RecentDaysBack must be positive, got %d", c.RecentDaysBack)
	}

	if len(c.Accounts) == 0 {
		return errors.New("at least one [[Accounts]] entry must be configured")
	}

	for _, a := range c.Accounts {
		if err := a.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (a *AccountConfig) validate() error {
	if err := validateNonEmptyStringField(a.Address, "Account Address must not be empty, set to the mailbox address"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(a.Password, fmt.Sprintf("Password must not be empty for account %s", a.Address)); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(a.Server, fmt.Sprintf("Server must not be empty for account %s, set to the mail server hostname", a.Address)); err != nil {
		return err
	}

	if a.Port <= 0 || a.Port > 65535 {
		return fmt.Errorf("Port must be a valid port number for account %s, got %d", a.Address, a.Port)
	}

	if !strings.EqualFold(a.Protocol, "IMAP") {
		return fmt.Errorf("Protocol %q is not supported for account %s, only IMAP is", a.Protocol, a.Address)
	}

	if a.CheckInterval <= 0 {
		return fmt.Errorf("CheckInterval must be positive for account %s, got %d", a.Address, a.CheckInterval)
	}

	if a.MaxPerCheck <= 0 {
		return fmt.Errorf("MaxPerCheck must be positive for account %s, got %d", a.Address, a.MaxPerCheck)
	}

	return nil
}

func validateNonEmptyStringField(field string, err string) error {
	if len(strings.TrimSpace(field)) == 0 {
		return errors.New(err)
	}

	return nil
}
