package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/greenr/internal/calculator"
	"github.com/rshade/greenr/internal/config"
	"github.com/rshade/greenr/internal/greenops"
	"github.com/rshade/greenr/internal/logging"
	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/session/store"
)

var errAmbiguousID = errors.New("snapshot id is ambiguous")

type appContextKey struct{}

// app is the per-invocation state shared by every subcommand.
type app struct {
	home  string
	cfg   *config.Config
	clock session.Clock
	repo  *session.Repository
}

// loadApp resolves the greenr home and the effective configuration.
// Precedence is flag, then environment, then config file, then defaults.
func loadApp(cmd *cobra.Command, o rootOptions) (*app, error) {
	home, _ := cmd.Flags().GetString("home")
	if home == "" {
		var err error
		if home, err = config.GetConfigDir(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(home)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if cmd.Flags().Changed("storage") {
		cfg.Storage.Backend, _ = cmd.Flags().GetString("storage")
	}
	if cmd.Flags().Changed("api-url") {
		cfg.API.BaseURL, _ = cmd.Flags().GetString("api-url")
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	repoOpts := []session.Option{session.WithClock(o.clock)}
	if o.ids != nil {
		repoOpts = append(repoOpts, session.WithIDGenerator(o.ids))
	}

	return &app{
		home:  home,
		cfg:   cfg,
		clock: o.clock,
		repo:  session.NewRepository(repoOpts...),
	}, nil
}

// appFrom returns the app stored by the root command. Commands executed
// without the root pre-run get the global configuration and the wall clock.
func appFrom(cmd *cobra.Command) *app {
	if a, ok := cmd.Context().Value(appContextKey{}).(*app); ok {
		return a
	}
	home, err := config.GetConfigDir()
	if err != nil {
		home = "."
	}
	return &app{
		home:  home,
		cfg:   config.GetGlobalConfig(),
		clock: session.RealClock{},
		repo:  session.NewRepository(),
	}
}

func (a *app) now() time.Time { return a.clock.Now() }

// precision returns the configured decimals for kilogram values. The root
// command installs a.cfg as the global configuration before any subcommand runs.
func (a *app) precision() int { return config.GetOutputPrecision() }

// client returns a calculator client for the configured API.
func (a *app) client() *calculator.Client {
	return calculator.New(a.cfg.API.BaseURL,
		calculator.WithTimeout(a.cfg.API.Timeout),
		calculator.WithLogger(logger),
	)
}

// withService opens the configured slot, runs fn and closes the slot.
func (a *app) withService(ctx context.Context, fn func(*session.Service) error) error {
	slot, err := store.Open(a.cfg.StoreOptions(a.home))
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer func() {
		if closeErr := slot.Close(); closeErr != nil {
			logging.FromContext(ctx).Warn().
				Str("component", "cli").
				Err(closeErr).
				Msg("closing session store")
		}
	}()
	return fn(session.NewService(slot))
}

// load returns the persisted state.
func (a *app) load(ctx context.Context) (session.State, error) {
	var state session.State
	err := a.withService(ctx, func(svc *session.Service) error {
		state = svc.Load(ctx)
		return nil
	})
	return state, err
}

// update applies fn to the persisted state and saves the result.
func (a *app) update(
	ctx context.Context,
	fn func(session.State) (session.State, error),
) (session.State, error) {
	var state session.State
	err := a.withService(ctx, func(svc *session.Service) error {
		var updateErr error
		state, updateErr = svc.Update(ctx, fn)
		return updateErr
	})
	return state, err
}

// outputFormat returns the --output flag when set, else the configured default.
func (a *app) outputFormat(cmd *cobra.Command) (string, error) {
	format := config.GetDefaultOutputFormat()
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		format = f.Value.String()
	}
	return config.ParseOutputFormat(format)
}

// resolveSnapshotID accepts a full id or a unique case-insensitive prefix.
func resolveSnapshotID(state session.State, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty id", greenops.ErrMissingSnapshot)
	}
	if _, ok := state.Get(ref); ok {
		return ref, nil
	}

	prefix := strings.ToUpper(ref)
	var matches []string
	for _, snap := range state.Snapshots {
		if strings.HasPrefix(strings.ToUpper(snap.ID), prefix) {
			matches = append(matches, snap.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", greenops.ErrMissingSnapshot, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d snapshots", errAmbiguousID, ref, len(matches))
	}
}

// lookupSnapshot resolves ref and returns the snapshot.
func lookupSnapshot(state session.State, ref string) (session.Snapshot, error) {
	id, err := resolveSnapshotID(state, ref)
	if err != nil {
		return session.Snapshot{}, err
	}
	snap, _ := state.Get(id)
	return snap, nil
}

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
