package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BruksfildServices01/clinic-recall/internal/apiclient"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CLINIC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "clinic-console",
		Short:         "Terminal dashboard for the clinic API",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("api", "http://localhost:8080", "API base URL")
	flags.String("token", "", "bearer token (skips login)")
	flags.String("email", "", "staff e-mail used to log in")
	flags.String("password", "", "staff password used to log in")
	flags.Bool("debug", false, "verbose logs on stderr")
	_ = v.BindPFlags(flags)

	root.AddCommand(dentistCmd(v))
	root.AddCommand(recallsCmd(v))

	return root
}

func newLogger(v *viper.Viper) zerolog.Logger {
	level := zerolog.WarnLevel
	if v.GetBool("debug") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// connect returns a client holding a token, logging in when none was given.
func connect(ctx context.Context, v *viper.Viper) (*apiclient.Client, error) {
	c, err := apiclient.New(v.GetString("api"), v.GetString("token"))
	if err != nil {
		return nil, err
	}
	if c.Token() != "" {
		return c, nil
	}

	email, password := v.GetString("email"), v.GetString("password")
	if email == "" || password == "" {
		return nil, fmt.Errorf("set --token or both --email and --password (CLINIC_TOKEN, CLINIC_EMAIL, CLINIC_PASSWORD)")
	}
	if err := c.Login(ctx, email, password); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return c, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
