package rankingservice

import (
	"log/slog"
	"time"

	httpadapter "reviewdesk/contexts/programme/ranking-service/adapters/http"
	"reviewdesk/contexts/programme/ranking-service/adapters/memory"
	"reviewdesk/contexts/programme/ranking-service/adapters/scoring"
	"reviewdesk/contexts/programme/ranking-service/application/commands"
	"reviewdesk/contexts/programme/ranking-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Proposals  ports.Repository
	Thresholds ports.ThresholdStore
	Scorer     ports.Scorer
	Notifier   ports.Notifier
	Clock      ports.Clock

	// TokenTTL overrides the preview token lifetime when > 0.
	TokenTTL time.Duration

	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	scorer := deps.Scorer
	if scorer == nil {
		scorer = scoring.MajorityJudgement{}
	}
	closeRoundUseCase := commands.CloseRoundUseCase{
		Proposals:  deps.Proposals,
		Thresholds: deps.Thresholds,
		Clock:      deps.Clock,
		TokenTTL:   deps.TokenTTL,
		Logger:     deps.Logger,
	}
	acceptanceUseCase := commands.AcceptanceUseCase{
		Proposals:  deps.Proposals,
		Thresholds: deps.Thresholds,
		Scorer:     scorer,
		Notifier:   deps.Notifier,
		Clock:      deps.Clock,
		TokenTTL:   deps.TokenTTL,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			CloseRound: closeRoundUseCase,
			Acceptance: acceptanceUseCase,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []memory.Proposal, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Proposals:  store,
		Thresholds: store,
		Notifier:   store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
