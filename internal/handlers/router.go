package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/orgdesk/internal/config"
	"github.com/stwalsh4118/orgdesk/internal/database"
	"github.com/stwalsh4118/orgdesk/internal/logger"
	"github.com/stwalsh4118/orgdesk/internal/middleware"
	"github.com/stwalsh4118/orgdesk/internal/repository"
	"github.com/stwalsh4118/orgdesk/internal/services"
	"github.com/stwalsh4118/orgdesk/internal/validation"
)

// Repositories groups the storage backend the router serves from.
type Repositories struct {
	Store     database.Pinger
	Geo       repository.GeoRepository
	Projects  repository.ProjectRepository
	Tickets   repository.TicketRepository
	Customers repository.CustomerRepository
}

// MemoryRepositories exposes an in-memory store through Repositories.
func MemoryRepositories(store *repository.MemStore) Repositories {
	return Repositories{
		Store:     store,
		Geo:       store.Geo(),
		Projects:  store.Projects(),
		Tickets:   store.Tickets(),
		Customers: store.Customers(),
	}
}

// PostgresRepositories exposes a PostgreSQL pool through Repositories.
func PostgresRepositories(db *database.Database) Repositories {
	return Repositories{
		Store:     db,
		Geo:       repository.NewGeoRepository(db),
		Projects:  repository.NewProjectRepository(db),
		Tickets:   repository.NewTicketRepository(db),
		Customers: repository.NewCustomerRepository(db),
	}
}

// NewRouter wires services and handlers onto a gin engine.
// Middleware order: RequestID -> Logger -> Recovery -> CORS, with Auth on /api/v1.
func NewRouter(cfg *config.Config, repos Repositories, log *logger.Logger) *gin.Engine {
	// registers JSON field names on gin's validator before the first bind
	validation.Engine()

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	healthHandler := NewHealthHandler(repos.Store, cfg.Server.Storage, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)

	geoHandler := NewGeoHandler(services.NewGeoService(repos.Geo, log.Named("geo")))
	projectHandler := NewProjectHandler(services.NewProjectService(repos.Projects, log.Named("projects")))
	ticketHandler := NewTicketHandler(services.NewTicketService(repos.Tickets, repos.Projects, log.Named("tickets")))
	customerHandler := NewCustomerHandler(services.NewCustomerService(repos.Customers, log.Named("customers")))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.Auth.Tokens))
	{
		v1.GET("/info", healthHandler.Info)

		geoHandler.Register(v1)

		tickets := v1.Group("/tickets")
		{
			tickets.GET("/search", ticketHandler.Search)
			tickets.POST("/add", ticketHandler.Create)
			tickets.DELETE("", ticketHandler.Delete)
		}

		projects := v1.Group("/projects")
		{
			projects.GET("/search", projectHandler.Search)
			projects.POST("/add", projectHandler.Create)
			projects.PATCH("/status", projectHandler.SetStatus)
		}

		v1.POST("/customers/add", customerHandler.Create)
	}

	return router
}
