package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rowagames/ROWA-Token/config"
	"github.com/rowagames/ROWA-Token/server"
	"github.com/rowagames/ROWA-Token/state"
	"github.com/rowagames/ROWA-Token/token"
	"github.com/rowagames/ROWA-Token/vesting"
)

// zapEmitter publishes registry and ledger events to the structured log.
type zapEmitter struct {
	log *zap.Logger
}

func (e zapEmitter) Emit(name string, payload []byte) error {
	e.log.Info("event", zap.String("name", name), zap.ByteString("payload", payload))
	return nil
}

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.ParseEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var st state.Store
	if cfg.StatePath != "" {
		sqliteStore, err := state.Open(cfg.StatePath)
		if err != nil {
			logger.Fatal("open state store", zap.Error(err))
		}
		defer func() { _ = sqliteStore.Close() }()
		st = sqliteStore
	} else {
		logger.Warn("no state path configured, state will not survive restarts")
		st = state.NewMemoryStore()
	}

	emitter := zapEmitter{log: logger}

	ledger, err := token.New(st, cfg.OwnerAddress, cfg.TokenAddress, emitter, logger)
	if err != nil {
		logger.Fatal("init token ledger", zap.Error(err))
	}

	registry, err := vesting.NewRegistry(vesting.Options{
		State:       st,
		Token:       ledger,
		Access:      vesting.StaticOwner(cfg.OwnerAddress),
		Emitter:     emitter,
		Log:         logger,
		PoolAccount: cfg.PoolAddress,
		Funds: vesting.FundAddresses{
			VGP:       cfg.VGPFundAddress,
			LP:        cfg.LPFundAddress,
			Liquidity: cfg.LiquidityFundAddress,
			Reserve:   cfg.ReserveFundAddress,
		},
	})
	if err != nil {
		logger.Fatal("init vesting registry", zap.Error(err))
	}

	srv := server.New(registry, ledger, nil, logger)

	logger.Info("listening", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Handler()); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
