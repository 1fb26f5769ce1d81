// Package commands contains the CLI commands for the application
package commands

import (
	"context"

	"github.com/rs/zerolog"
)

type Flags struct {
	LogLevel string
}

type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger
}

func (c *Controller) Generate(ctx context.Context, opts GenerateOptions) error {
	return NewGenerateCommand(c.Logger).Execute(ctx, opts)
}

func (c *Controller) Watch(ctx context.Context, opts GenerateOptions) error {
	return NewWatchCommand(c.Logger).Execute(ctx, opts)
}

func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand()
	return cmd.Run(ctx)
}
