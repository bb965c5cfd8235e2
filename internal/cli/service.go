package cli

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/taskledger/internal/clock"
	"github.com/mrz1836/taskledger/internal/config"
	"github.com/mrz1836/taskledger/internal/constants"
	"github.com/mrz1836/taskledger/internal/dispatch"
	"github.com/mrz1836/taskledger/internal/engine"
	"github.com/mrz1836/taskledger/internal/errors"
	"github.com/mrz1836/taskledger/internal/ledger"
	"github.com/mrz1836/taskledger/internal/store"
)

// Service wires the configured ledger backend to the workflow engine and its
// dispatcher. One Service backs one command invocation; Close releases the
// ledger connection.
type Service struct {
	cfg        *config.Config
	ledger     ledger.Ledger
	dispatcher *dispatch.Dispatcher
	logger     zerolog.Logger
}

// NewService builds a Service from cfg. The ledger backend is selected by
// ledger.backend; the redis backend fails fast if the server is unreachable.
func NewService(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Service, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	led, err := newLedger(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	clk := clock.RealClock{}
	st := store.New(led, logger)
	eng := engine.New(st, clk, logger)

	return &Service{
		cfg:        cfg,
		ledger:     led,
		dispatcher: dispatch.New(eng, clk, logger),
		logger:     logger.With().Str("component", "service").Logger(),
	}, nil
}

// newLedger constructs the ledger backend named by the config.
func newLedger(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (ledger.Ledger, error) {
	switch cfg.Ledger.Backend {
	case constants.LedgerBackendMemory:
		return ledger.NewMemoryLedger(nil), nil
	case constants.LedgerBackendRedis:
		return ledger.NewRedisLedger(ctx, ledger.RedisOptions{
			Addr:      cfg.Ledger.Redis.Addr,
			Password:  cfg.Ledger.Redis.Password,
			DB:        cfg.Ledger.Redis.DB,
			Namespace: cfg.Ledger.Redis.Namespace,
		}, nil, logger)
	default:
		return nil, errors.Wrapf(errors.ErrConfigInvalidLedger,
			"unknown ledger backend %q", cfg.Ledger.Backend)
	}
}

// Invoke dispatches one invocation under the given role label.
func (s *Service) Invoke(ctx context.Context, roleLabel, function string, args []string) dispatch.Envelope {
	return s.dispatcher.ResolveAndInvoke(ctx, roleLabel, function, args)
}

// Close releases the ledger connection.
func (s *Service) Close() error {
	return s.ledger.Close()
}
