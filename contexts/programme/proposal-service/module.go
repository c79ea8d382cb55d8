package proposalservice

import (
	"log/slog"

	httpadapter "reviewdesk/contexts/programme/proposal-service/adapters/http"
	"reviewdesk/contexts/programme/proposal-service/adapters/memory"
	"reviewdesk/contexts/programme/proposal-service/application/commands"
	"reviewdesk/contexts/programme/proposal-service/application/queries"
	"reviewdesk/contexts/programme/proposal-service/domain/entities"
	"reviewdesk/contexts/programme/proposal-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Proposals ports.ProposalRepository
	Messages  ports.MessageRepository
	Notifier  ports.Notifier
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createUseCase := commands.CreateProposalUseCase{
		Proposals: deps.Proposals,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	updateUseCase := commands.UpdateProposalUseCase{
		Proposals: deps.Proposals,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	transitionUseCase := commands.TransitionUseCase{
		Proposals: deps.Proposals,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	anonymiseUseCase := commands.AnonymiseUseCase{
		Proposals: deps.Proposals,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	messageUseCase := commands.SendMessageUseCase{
		Proposals: deps.Proposals,
		Messages:  deps.Messages,
		Notifier:  deps.Notifier,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	proposalQueries := queries.ProposalQueries{
		Proposals: deps.Proposals,
		Messages:  deps.Messages,
	}
	return Module{
		Handler: httpadapter.Handler{
			Create:     createUseCase,
			Update:     updateUseCase,
			Transition: transitionUseCase,
			Anonymise:  anonymiseUseCase,
			Messages:   messageUseCase,
			Queries:    proposalQueries,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Proposal, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Proposals: store,
		Messages:  store,
		Notifier:  store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
