// Command lexicore-emulator serves a local stand-in for the Lexicore
// translation and text-to-speech APIs. Point LEXICORE_TRANSLATION_URL and
// LEXICORE_TTS_URL at it to develop against deterministic responses.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lexicore/lexicore-go/internal/cli"
	"github.com/lexicore/lexicore-go/internal/config"
	"github.com/lexicore/lexicore-go/internal/emulator"
	"github.com/lexicore/lexicore-go/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "lexicore-emulator:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("lexicore-emulator", flag.ContinueOnError)
	envLoader := cli.AddEnvFlag(fs, ".env")
	hashPassword := fs.String("hash-password", "", "Print the bcrypt hash for the given password and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *hashPassword != "" {
		hash, err := emulator.HashPassword(*hashPassword)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	}

	if _, err := envLoader.Load(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel, "emulator")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := emulator.New(logger, emulator.Options{
		Host:         cfg.EmulatorHost,
		Port:         cfg.EmulatorPort,
		Username:     cfg.EmulatorUsername,
		PasswordHash: cfg.EmulatorPasswordHash,
	})
	return server.Start(ctx)
}
