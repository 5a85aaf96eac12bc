package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	credhandler "parkgate/internal/credential/handler"
	credservice "parkgate/internal/credential/service"
	credstore "parkgate/internal/credential/store"
	facilityhandler "parkgate/internal/facility/handler"
	facilityservice "parkgate/internal/facility/service"
	facilitystore "parkgate/internal/facility/store"
	gatehandler "parkgate/internal/gate/handler"
	gateservice "parkgate/internal/gate/service"
	gatestore "parkgate/internal/gate/store"
	"parkgate/internal/platform/config"
	"parkgate/internal/platform/httpserver"
	"parkgate/internal/platform/logger"
	"parkgate/internal/platform/metrics"
	platformredis "parkgate/internal/platform/redis"
	statscache "parkgate/internal/stats/cache"
	statshandler "parkgate/internal/stats/handler"
	statsservice "parkgate/internal/stats/service"
	tariffhandler "parkgate/internal/tariff/handler"
	tariffservice "parkgate/internal/tariff/service"
	tariffstore "parkgate/internal/tariff/store"
	"parkgate/internal/token"
	transithandler "parkgate/internal/transit/handler"
	transitModels "parkgate/internal/transit/models"
	transitservice "parkgate/internal/transit/service"
	transitstore "parkgate/internal/transit/store"
	httptransport "parkgate/internal/transport/http"
	vehiclehandler "parkgate/internal/vehicle/handler"
	vehicleservice "parkgate/internal/vehicle/service"
	vehiclestore "parkgate/internal/vehicle/store"
)

const (
	tokenIssuer   = "parkgate"
	tokenAudience = "parkgate-gates"
)

// transitStore unions the read surfaces the services pull from transit
// storage. Both the memory and the postgres store satisfy it.
type transitStore interface {
	transitservice.TransitStore
	CountOpenByFacility(ctx context.Context, facilityID int64) (int, error)
	FindClosed(ctx context.Context, q transitstore.ClosedQuery) ([]*transitModels.Transit, error)
}

// credentialStore unions the gate service and auth service surfaces.
type credentialStore interface {
	gateservice.CredentialStore
	credservice.CredentialStore
}

type stores struct {
	facilities  facilityservice.FacilityStore
	gates       gateservice.GateStore
	vehicles    vehicleservice.VehicleStore
	tariffs     tariffservice.RuleStore
	transits    transitStore
	credentials credentialStore
	provisionTx gateservice.ProvisioningTx
	transitTx   transitservice.TransitTx
	health      func(ctx context.Context) error
}

func buildMemoryStores() stores {
	facilities := facilitystore.NewInMemory()
	gates := gatestore.NewInMemory()
	credentials := credstore.NewInMemory()
	transits := transitstore.NewInMemory()
	return stores{
		facilities:  facilities,
		gates:       gates,
		vehicles:    vehiclestore.NewInMemory(),
		tariffs:     tariffstore.NewInMemory(),
		transits:    transits,
		credentials: credentials,
		provisionTx: gatestore.NewMemoryTx(gates, credentials),
		transitTx:   transitstore.NewMemoryTx(transits, facilities),
		health:      func(context.Context) error { return nil },
	}
}

func buildPostgresStores(db *sql.DB) stores {
	return stores{
		facilities:  facilitystore.NewPostgres(db),
		gates:       gatestore.NewPostgres(db),
		vehicles:    vehiclestore.NewPostgres(db),
		tariffs:     tariffstore.NewPostgres(db),
		transits:    transitstore.NewPostgres(db),
		credentials: credstore.NewPostgres(db),
		provisionTx: newProvisionPostgresTx(db),
		transitTx:   newTransitPostgresTx(db),
		health:      db.PingContext,
	}
}

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	var st stores
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			cancel()
			log.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		cancel()
		st = buildPostgresStores(db)
		log.Info("storage ready", "backend", "postgres")
	} else {
		st = buildMemoryStores()
		log.Info("storage ready", "backend", "memory")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	tokens := token.NewService(cfg.JWTSigningKey, tokenIssuer, tokenAudience)
	calendar := tariffservice.NewCalendar(cfg.Tariff.DayStartHour, cfg.Tariff.DayEndHour, cfg.Tariff.Holidays)

	gateSvc := gateservice.New(st.gates, st.facilities, st.credentials, st.provisionTx, log,
		gateservice.WithMetrics(m))
	facilitySvc := facilityservice.New(st.facilities, gateSvc, st.transits, log)
	vehicleSvc := vehicleservice.New(st.vehicles, log)
	tariffSvc := tariffservice.New(st.tariffs, calendar, log)
	transitSvc := transitservice.New(st.transits, st.gates, st.vehicles, tariffSvc, st.transitTx, log,
		transitservice.WithMetrics(m))
	authSvc := credservice.New(st.credentials, tokens, log)

	statsOpts := []statsservice.Option{}
	if redisClient != nil {
		statsOpts = append(statsOpts, statsservice.WithCache(statscache.NewRedis(redisClient), config.StatsCacheTTL))
	}
	statsSvc := statsservice.New(st.transits, st.facilities, st.vehicles, log, statsOpts...)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:     log,
		Metrics:    m,
		Validator:  token.NewMiddlewareAdapter(tokens),
		AdminToken: cfg.AdminToken,
		Auth:       credhandler.New(authSvc, log),
		Facility:   facilityhandler.New(facilitySvc, log),
		Gate:       gatehandler.New(gateSvc, log),
		Vehicle:    vehiclehandler.New(vehicleSvc, log),
		Tariff:     tariffhandler.New(tariffSvc, log),
		Stats:      statshandler.New(statsSvc, log),
		Transit:    transithandler.New(transitSvc, log),
		Health: func(w http.ResponseWriter, r *http.Request) {
			if err := st.health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			if redisClient != nil {
				if err := redisClient.Health(r.Context()); err != nil {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
			}
			w.WriteHeader(http.StatusOK)
		},
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting parkgate", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
