// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/clguard/guardmail/config"
	"github.com/clguard/guardmail/domain"
	"github.com/clguard/guardmail/log"
	"github.com/clguard/guardmail/mailconnection"
	"github.com/clguard/guardmail/persistence"
	"github.com/clguard/guardmail/scheduler"

	"github.com/sirupsen/logrus"
)

func main() {
	log.InitLogging("debug")
	logger := log.Logger(log.LOG_MAIN)

	conf, err := config.ReadConfig("config.toml")
	if err != nil {
		logger.WithField("error", err).Fatal("Could not load config")
	}

	if conf.Loglevel != nil {
		log.SetLogLevel(*conf.Loglevel)
	}

	p, err := persistence.NewPersistence(conf.Database)
	if err != nil {
		logger.WithField("error", err).Fatal("Could not connect to database")
	}
	defer p.Close()

	err = p.UpsertAccounts(configuredAccounts(conf))
	if err != nil {
		logger.WithField("error", err).Fatal("Could not sync accounts")
	}

	connect := func(account *domain.Account) (domain.MailConnector, error) {
		return mailconnection.NewMailConnection(account.Host(), account.Address, account.Password)
	}

	configs := []scheduler.ConfigFunc{
		scheduler.WithStrategy(configuredStrategy(conf)),
		scheduler.WithPassTimeout(time.Duration(conf.PassTimeoutSeconds) * time.Second),
	}

	s, err := scheduler.NewScheduler(p, connect, configs...)
	if err != nil {
		logger.WithField("error", err).Fatal("Could not start scheduler")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		<-signals
		logger.Info("Shutting down")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"accounts": len(conf.Accounts),
		"tick":     conf.TickSeconds,
		"strategy": configuredStrategy(conf).String(),
	}).Info("Watching mailboxes")

	ticker := time.NewTicker(time.Duration(conf.TickSeconds) * time.Second)
	defer ticker.Stop()

	for {
		runTick(ctx, s, logger)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runTick(ctx context.Context, s *scheduler.Scheduler, logger *logrus.Logger) {
	for _, report := range s.Tick(ctx, time.Now()) {
		fields := logrus.Fields{
			"account": report.Address, "processed": report.Processed,
			"spam": report.Spam, "ham": report.Ham, "duplicates": report.Duplicates,
			"duration": report.Duration,
		}
		if report.Success() {
			logger.WithFields(fields).Info("Pass finished")
		} else {
			fields["error"] = report.Err
			logger.WithFields(fields).Warn("Pass failed")
		}
	}
}

func configuredAccounts(conf *config.Config) []domain.Account {
	accounts := []domain.Account{}
	for _, a := range conf.Accounts {
		accounts = append(
			accounts,
			domain.Account{
				Address:       a.Address,
				Password:      a.Password,
				Server:        a.Server,
				Port:          a.Port,
				Protocol:      a.Protocol,
				Active:        a.Active,
				CheckInterval: a.CheckInterval,
				MaxPerCheck:   a.MaxPerCheck,
			},
		)
	}
	return accounts
}

func configuredStrategy(conf *config.Config) domain.FetchStrategy {
	switch strings.ToLower(conf.Strategy) {
	case "all":
		return domain.AllStrategy()
	case "recent":
		return domain.RecentStrategy(conf.RecentDaysBack)
	}
	return domain.DefaultStrategy()
}
