package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BruksfildServices01/clinic-recall/internal/audio"
	"github.com/BruksfildServices01/clinic-recall/internal/dashboard"
)

type command struct {
	name string
	arg  string
}

func parseCommand(line string) command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}
	}
	c := command{name: strings.ToLower(fields[0])}
	if len(fields) > 1 {
		c.arg = fields[1]
	}
	return c
}

// readCommands feeds stdin lines to handle until quit, EOF or ctx is done.
func readCommands(ctx context.Context, in io.Reader, handle func(command) bool) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			c := parseCommand(line)
			if c.name == "" {
				continue
			}
			if c.name == "quit" || c.name == "exit" {
				return
			}
			if !handle(c) {
				return
			}
		}
	}
}

// ======================================================
// DENTIST
// ======================================================

func dentistCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "dentist",
		Short: "Arrival notifications for the signed-in dentist",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			log := newLogger(v)
			client, err := connect(ctx, v)
			if err != nil {
				return err
			}

			screen := newScreen(cmd.OutOrStdout())
			gate := audio.NewGate(audio.NewBell(os.Stdout), audio.TerminalProbe(os.Stdout))
			session := dashboard.NewSession(client, gate, screen, log)

			d := &dashboard.Dashboard{Notifications: session}
			d.Start(ctx)
			defer d.Close()

			screen.help(dentistHelp)
			readCommands(ctx, cmd.InOrStdin(), func(c command) bool {
				return runDentistCommand(ctx, session, screen, log, c)
			})
			return nil
		},
	}
}

const dentistHelp = "comandos: sound | ack | dismiss <id> | panel | quit"

func runDentistCommand(
	ctx context.Context,
	s *dashboard.Session,
	screen *screen,
	log zerolog.Logger,
	c command,
) bool {
	switch c.name {
	case "sound":
		_ = s.EnableSound()
	case "ack":
		if err := s.Acknowledge(ctx); errors.Is(err, dashboard.ErrNothingToAcknowledge) {
			screen.Toast("Nenhuma notificação aberta.")
		}
	case "dismiss":
		id, err := uuid.Parse(c.arg)
		if err != nil {
			screen.Toast("Identificador inválido.")
			return true
		}
		if err := s.Dismiss(ctx, id); errors.Is(err, dashboard.ErrUnknownNotification) {
			screen.Toast("Notificação não encontrada.")
		}
	case "panel":
		s.TogglePanel()
	default:
		screen.help(dentistHelp)
	}
	log.Debug().Str("command", c.name).Msg("handled")
	return true
}

// ======================================================
// RECALLS
// ======================================================

func recallsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "recalls",
		Short: "Patients due for a follow-up visit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			log := newLogger(v)
			client, err := connect(ctx, v)
			if err != nil {
				return err
			}

			screen := newScreen(cmd.OutOrStdout())
			panel := dashboard.NewRecallPanel(client, screen, log)

			d := &dashboard.Dashboard{Recalls: panel}
			d.Start(ctx)
			defer d.Close()

			screen.help(recallsHelp)
			readCommands(ctx, cmd.InOrStdin(), func(c command) bool {
				switch c.name {
				case "dismiss":
					if c.arg == "" {
						screen.Toast("Informe o paciente.")
						break
					}
					if err := panel.Dismiss(ctx, c.arg); err != nil {
						log.Debug().Err(err).Msg("dismiss")
					}
				case "reload":
					_ = panel.Load(ctx)
				default:
					screen.help(recallsHelp)
				}
				return true
			})
			return nil
		},
	}
}

const recallsHelp = "comandos: dismiss <paciente> | reload | quit"
