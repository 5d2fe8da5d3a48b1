package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/otwartedane/mcod/pkg/auth"
	"github.com/otwartedane/mcod/pkg/catalog"
	"github.com/otwartedane/mcod/pkg/config"
	"github.com/otwartedane/mcod/pkg/harvester"
	"github.com/otwartedane/mcod/pkg/linkcheck"
	"github.com/otwartedane/mcod/pkg/logging"
	"github.com/otwartedane/mcod/pkg/schedules"
	"github.com/otwartedane/mcod/pkg/server/middleware"
	"github.com/otwartedane/mcod/pkg/server/store"
	gormstore "github.com/otwartedane/mcod/pkg/server/store/gorm"
	"github.com/otwartedane/mcod/pkg/watchers"
)

// APIVersion is sent as X-API-VERSION on every response
const APIVersion = "1.0"

// Version is the application version reported by GET /
var Version = "0.1.0"

// Stores groups the storage backends of the server
type Stores struct {
	Health        store.HealthStore
	Datasets      store.DatasetsStore
	Resources     store.ResourcesStore
	Organizations store.OrganizationsStore
	Users         store.UsersStore
	Watchers      store.WatchersStore
	Schedules     store.SchedulesStore
	DataSources   store.DataSourcesStore
	Harvest       store.HarvestStore
}

// NewStores returns the GORM implementations of every store
func NewStores(db *gorm.DB) Stores {
	return Stores{
		Health:        gormstore.NewHealthStore(db),
		Datasets:      gormstore.NewDatasetsStore(db),
		Resources:     gormstore.NewResourcesStore(db),
		Organizations: gormstore.NewOrganizationsStore(db),
		Users:         gormstore.NewUsersStore(db),
		Watchers:      gormstore.NewWatchersStore(db),
		Schedules:     gormstore.NewSchedulesStore(db),
		DataSources:   gormstore.NewDataSourcesStore(db),
		Harvest:       gormstore.NewHarvestStore(db),
	}
}

type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.MCODConfig
	Logger *zap.Logger
	Tokens *auth.TokenIssuer

	HealthStore        store.HealthStore
	DatasetsStore      store.DatasetsStore
	ResourcesStore     store.ResourcesStore
	OrganizationsStore store.OrganizationsStore
	UsersStore         store.UsersStore
	WatchersStore      store.WatchersStore
	SchedulesStore     store.SchedulesStore
	DataSourcesStore   store.DataSourcesStore
	HarvestStore       store.HarvestStore

	Watchers    *watchers.Service
	Schedules   *schedules.Service
	Importer    *harvester.Importer
	Harvester   *harvester.Scheduler
	LinkChecker *linkcheck.Checker
	Catalog     *catalog.Catalog

	srv *http.Server
}

// NewServer creates a server backed by db
func NewServer(
	cfg *config.MCODConfig,
	db *gorm.DB,
	tokens *auth.TokenIssuer,
	logger *zap.Logger,
	host string,
	port string,
) *Server {
	s := New(cfg, NewStores(db), tokens, logger)
	s.DB = db
	s.srv = &http.Server{
		Handler: s.Handler(),
		Addr:    host + ":" + port,
		// Harvest and link-check requests run synchronously
		WriteTimeout:      5 * time.Minute,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// New wires the services of the server on top of stores
func New(cfg *config.MCODConfig, stores Stores, tokens *auth.TokenIssuer, logger *zap.Logger) *Server {
	logger = logging.OrNop(logger)

	watcherService := watchers.NewService(
		stores.Watchers,
		stores.Datasets,
		stores.Resources,
		stores.Organizations,
		store.QueryCounter{Datasets: stores.Datasets},
		logger.Named("watchers"),
	)

	harvestClient := &http.Client{Timeout: cfg.HarvesterTimeout()}
	importer := harvester.NewImporter(stores.Harvest, watcherService, harvestClient, logger.Named("harvester"))

	return &Server{
		Router: mux.NewRouter().UseEncodedPath(),
		Config: cfg,
		Logger: logger,
		Tokens: tokens,

		HealthStore:        stores.Health,
		DatasetsStore:      stores.Datasets,
		ResourcesStore:     stores.Resources,
		OrganizationsStore: stores.Organizations,
		UsersStore:         stores.Users,
		WatchersStore:      stores.Watchers,
		SchedulesStore:     stores.Schedules,
		DataSourcesStore:   stores.DataSources,
		HarvestStore:       stores.Harvest,

		Watchers:  watcherService,
		Schedules: schedules.NewService(stores.Schedules, logger.Named("schedules")),
		Importer:  importer,
		Harvester: harvester.NewScheduler(stores.DataSources, importer, logger.Named("scheduler")),
		LinkChecker: linkcheck.NewChecker(
			&http.Client{},
			cfg.LinkCheckerConcurrency,
			cfg.LinkCheckTimeout(),
			logger.Named("linkcheck"),
		),
		Catalog: &catalog.Catalog{
			BaseURL:     cfg.BaseURL,
			Title:       "Otwarte Dane",
			Description: "Katalog danych publicznych portalu dane.gov.pl",
			Datasets:    stores.Datasets,
		},
	}
}

// Handler wraps the router in the middleware chain: recovery, access
// log, optional proxy headers, CORS, request id and API version
func (s *Server) Handler() http.Handler {
	origins := s.Config.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	var h http.Handler = s.Router
	h = middleware.APIVersion(APIVersion)(h)
	h = middleware.RequestID(h)
	h = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "Accept-Language", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.APIVersionHeader, middleware.RequestIDHeader}),
	)(h)
	if s.Config.TrustProxyHeaders {
		h = handlers.ProxyHeaders(h)
	}
	h = handlers.CombinedLoggingHandler(os.Stdout, h)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.Logger)),
		handlers.PrintRecoveryStack(true),
	)(h)
}

// Authenticated returns the bearer-token middleware of the server
func (s *Server) Authenticated() *middleware.JWTAuthenticator {
	return middleware.NewJWTAuthenticator(s.Tokens, s.UsersStore)
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting requests and waits for active ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
