// Command createsuperuser provisions an active staff and superuser account
// in the configured store.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/akamensky/argparse"

	"github.com/taskflow/auth-service/internal/core/ports"
	"github.com/taskflow/auth-service/internal/core/service"
	"github.com/taskflow/auth-service/internal/infrastructure/config"
	"github.com/taskflow/auth-service/internal/infrastructure/db"
	"github.com/taskflow/auth-service/pkg/logger"
)

const passwordEnv = "SUPERUSER_PASSWORD"

func main() {
	parser := argparse.NewParser("createsuperuser", "Create a staff + superuser account")
	email := parser.String("e", "email", &argparse.Options{Help: "Email address (login identity)", Required: true})
	password := parser.String("p", "password", &argparse.Options{Help: "Password. Falls back to $" + passwordEnv})
	firstName := parser.String("f", "first-name", &argparse.Options{Help: "First name"})
	lastName := parser.String("l", "last-name", &argparse.Options{Help: "Last name"})
	timeout := parser.Int("t", "timeout", &argparse.Options{Help: "Timeout in seconds", Default: 30})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(2)
	}

	pass := *password
	if pass == "" {
		pass = os.Getenv(passwordEnv)
	}
	if pass == "" {
		fmt.Fprintf(os.Stderr, "a password is required: use --password or set %s\n", passwordEnv)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeout)*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.StoreDriver == config.DriverMemory {
		fmt.Fprintln(os.Stderr, "createsuperuser needs a persistent STORE_DRIVER (mongo or postgres)")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "createsuperuser"})

	backend, err := db.Open(ctx, cfg, logger.Component("db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer backend.Close(context.Background())

	store, err := service.NewAccountStore(backend.Accounts, service.AccountStoreConfig{
		RequiredFields: cfg.Auth.RequiredFields,
		NameMaxLength:  cfg.Auth.NameMaxLength,
		HashCost:       cfg.Auth.BcryptCost,
	}, logger.Component("account_store"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid account store configuration")
	}

	if err := run(ctx, store, ports.ProvisionInput{
		Email:      *email,
		Password:   pass,
		FirstName:  *firstName,
		LastName:   *lastName,
		Privileged: true,
	}); err != nil {
		log.Error().Err(err).Msg("superuser not created")
		backend.Close(context.Background())
		os.Exit(1)
	}
}

func run(ctx context.Context, store ports.AccountStore, in ports.ProvisionInput) error {
	account, err := service.Provision(ctx, store, in)
	if err != nil {
		return err
	}
	fmt.Printf("Superuser created: %s (%s)\n", account.Email, account.ID)
	return nil
}
