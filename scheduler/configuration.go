// SPDX-License-Identifier: GPL-3.0-or-later
package scheduler

import (
	"fmt"
	"time"

	"github.com/clguard/guardmail/domain"
)

type ConfigFunc func(c *configuration) error

func WithStrategy(strategy domain.FetchStrategy) ConfigFunc {
	return func(c *configuration) error {
		if strategy.Kind == domain.StrategyRecent && strategy.DaysBack <= 0 {
			return fmt.Errorf("recent strategy needs a positive days-back, got %d", strategy.DaysBack)
		}

		c.Strategy = strategy
		return nil
	}
}

func WithPassTimeout(timeout time.Duration) ConfigFunc {
	return func(c *configuration) error {
		if timeout <= 0 {
			return fmt.Errorf("pass timeout must be positive, got %v", timeout)
		}

		c.PassTimeout = timeout
		return nil
	}
}

type configuration struct {
	Strategy    domain.FetchStrategy
	PassTimeout time.Duration
}
