package reviewservice

import (
	"log/slog"
	"time"

	httpadapter "reviewdesk/contexts/programme/review-service/adapters/http"
	"reviewdesk/contexts/programme/review-service/adapters/memory"
	"reviewdesk/contexts/programme/review-service/application"
	"reviewdesk/contexts/programme/review-service/application/commands"
	"reviewdesk/contexts/programme/review-service/application/queries"
	"reviewdesk/contexts/programme/review-service/domain/entities"
	"reviewdesk/contexts/programme/review-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Votes     ports.VoteRepository
	Proposals ports.ProposalReader
	Sessions  ports.SessionStore
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Shuffler  ports.Shuffler

	// BatchSize and RebuildInterval override the queue defaults when > 0.
	BatchSize       int
	RebuildInterval time.Duration

	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	locks := application.NewReviewerLocks()
	queueUseCase := queries.ReviewQueueUseCase{
		Votes:           deps.Votes,
		Proposals:       deps.Proposals,
		Sessions:        deps.Sessions,
		Clock:           deps.Clock,
		Shuffler:        deps.Shuffler,
		Locks:           locks,
		BatchSize:       deps.BatchSize,
		RebuildInterval: deps.RebuildInterval,
		Logger:          deps.Logger,
	}
	castVoteUseCase := commands.CastVoteUseCase{
		Votes:     deps.Votes,
		Proposals: deps.Proposals,
		Sessions:  deps.Sessions,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Locks:     locks,
		Logger:    deps.Logger,
	}
	adminVoteUseCase := commands.AdminVoteUseCase{
		Votes:  deps.Votes,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	summaryUseCase := queries.VoteSummaryUseCase{
		Votes:     deps.Votes,
		Proposals: deps.Proposals,
	}
	return Module{
		Handler: httpadapter.Handler{
			Queue:      queueUseCase,
			CastVote:   castVoteUseCase,
			AdminVotes: adminVoteUseCase,
			Summary:    summaryUseCase,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Vote, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Votes:     store,
		Proposals: store,
		Sessions:  store,
		Clock:     store,
		IDGen:     store,
		Shuffler:  store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
