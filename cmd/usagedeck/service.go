package main

import (
	"context"
	"fmt"
	"log"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

// program adapts the server run loop to the service manager lifecycle.
type program struct {
	cancel context.CancelFunc
	done   chan error
}

func (p *program) Start(_ service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan error, 1)
	go func() {
		p.done <- runServe(ctx)
	}()
	return nil
}

func (p *program) Stop(_ service.Service) error {
	p.cancel()
	return <-p.done
}

func newService() (service.Service, error) {
	svcConfig := &service.Config{
		Name:        "usagedeck",
		DisplayName: "UsageDeck Dashboard",
		Description: "Aggregates LLM API usage and serves the cost dashboard",
		Arguments:   []string{"service", "run"},
	}
	return service.New(&program{}, svcConfig)
}

func newServiceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the background dashboard service",
	}

	run := func(action string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			if err := service.Control(svc, action); err != nil {
				return fmt.Errorf("%s service: %w", action, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Service %s complete.\n", action)
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "install", Short: "Install the service", RunE: run("install")},
		&cobra.Command{Use: "uninstall", Short: "Remove the service", RunE: run("uninstall")},
		&cobra.Command{Use: "start", Short: "Start the service", RunE: run("start")},
		&cobra.Command{Use: "stop", Short: "Stop the service", RunE: run("stop")},
		&cobra.Command{
			Use:   "status",
			Short: "Show service status",
			RunE: func(cmd *cobra.Command, _ []string) error {
				svc, err := newService()
				if err != nil {
					return err
				}
				status, err := svc.Status()
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Service status: not installed or error (%v)\n", err)
					return nil
				}
				switch status {
				case service.StatusRunning:
					fmt.Fprintln(cmd.OutOrStdout(), "Service status: running")
				case service.StatusStopped:
					fmt.Fprintln(cmd.OutOrStdout(), "Service status: stopped")
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Service status: unknown")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:    "run",
			Short:  "Run under the service manager",
			Hidden: true,
			RunE: func(_ *cobra.Command, _ []string) error {
				svc, err := newService()
				if err != nil {
					return err
				}
				if err := svc.Run(); err != nil {
					log.Printf("main event=service_run_error err=%v", err)
					return err
				}
				return nil
			},
		},
	)

	return cmd
}
