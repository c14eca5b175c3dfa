// Package installer provides Installers that populate core actor systems.
package installer

import (
	"fmt"

	"github.com/najoast/actorhost/bootstrap"
	"github.com/najoast/actorhost/core"
)

// ServiceSpec describes one named service to install
type ServiceSpec struct {
	Name        string
	Handler     core.MessageHandler
	MailboxSize int
}

type services []ServiceSpec

// Services returns an Installer creating one service per spec, in order.
// It stops at the first failure; services already created are left running.
func Services(specs ...ServiceSpec) bootstrap.Installer[core.ActorSystem] {
	return services(specs)
}

func (s services) Install(system core.ActorSystem) error {
	for _, spec := range s {
		opts := core.ActorOptions{Name: spec.Name, MailboxSize: spec.MailboxSize}
		if _, err := system.NewService(spec.Name, spec.Handler, opts); err != nil {
			return fmt.Errorf("install service %s: %w", spec.Name, err)
		}
	}
	return nil
}

type chain []bootstrap.Installer[core.ActorSystem]

// Chain returns an Installer running installers in order, stopping at the
// first failure
func Chain(installers ...bootstrap.Installer[core.ActorSystem]) bootstrap.Installer[core.ActorSystem] {
	return chain(installers)
}

func (c chain) Install(system core.ActorSystem) error {
	for i, inst := range c {
		if inst == nil {
			continue
		}
		if err := inst.Install(system); err != nil {
			return fmt.Errorf("installer %d: %w", i, err)
		}
	}
	return nil
}
