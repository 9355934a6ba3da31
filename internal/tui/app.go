package tui

import (
	"go.uber.org/zap"

	"github.com/GregorioSC/Journaling-Companion/internal/analytics"
	"github.com/GregorioSC/Journaling-Companion/internal/api"
	"github.com/GregorioSC/Journaling-Companion/internal/notify"
	"github.com/GregorioSC/Journaling-Companion/internal/session"
	"github.com/GregorioSC/Journaling-Companion/internal/store"
)

// App bundles the services every view depends on. Built once in main and
// injected; views never reach for globals.
type App struct {
	Client    *api.Client
	Session   *session.Manager
	Drafts    store.DraftStore
	Analytics *analytics.Aggregator
	Notifier  *notify.Service
	Log       *zap.Logger
}
