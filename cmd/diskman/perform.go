package main

import (
	"fmt"

	"github.com/desertwitch/diskman/internal/actions"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/sections"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// request picks the target of a button and collects its input from the
// device graph and the command line.
type request func(pool *model.Pool) (model.Presentable, sections.Input, error)

// target is a [request] for the presentable named by arg, without input.
func target(arg string, kinds ...model.PresentableKind) request {
	return func(pool *model.Pool) (model.Presentable, sections.Input, error) {
		p, err := resolveKind(pool, arg, kinds...)

		return p, sections.Input{}, err
	}
}

// perform presses a button as the terminal user, and waits for all the
// operations that follow from it.
func perform(cmd *cobra.Command, button func(p model.Presentable) sections.ButtonID, req request) error {
	ctx := cmd.Context()

	app, err := NewApp(settings)
	if err != nil {
		return err
	}
	defer app.Close()

	modals, err := terminalModals(app.loop)
	if err != nil {
		return err
	}
	app.SetModals(ctx, modals)

	if err := app.Perform(ctx, func(pool *model.Pool, handler *actions.Handler) error {
		p, in, err := req(pool)
		if err != nil {
			return err
		}

		return activate(pool, p.ID(), button(p), in, handler)
	}); err != nil {
		return err
	}

	if n := modals.Failures(); n > 0 {
		return fmt.Errorf("(main) %w: %d", ErrOperationsFailed, n)
	}

	return nil
}

// always returns a button chooser that always presses the same button.
func always(id sections.ButtonID) func(model.Presentable) sections.ButtonID {
	return func(model.Presentable) sections.ButtonID {
		return id
	}
}

// parseSize parses the size given on the command line, empty is zero.
func parseSize(arg string) (uint64, error) {
	if arg == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(arg)
	if err != nil {
		return 0, fmt.Errorf("(main) %w: %q: %w", ErrInvalidSize, arg, err)
	}

	return size, nil
}
