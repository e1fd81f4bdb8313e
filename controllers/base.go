package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" //postgres
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/radhian/pix-reconciliation/config"
	"github.com/radhian/pix-reconciliation/handler"
	"github.com/radhian/pix-reconciliation/infra/db/dao"
	"github.com/radhian/pix-reconciliation/infra/locker"
	"github.com/radhian/pix-reconciliation/infra/metrics"
	"github.com/radhian/pix-reconciliation/infra/postgrest"
	"github.com/radhian/pix-reconciliation/infra/santander"
	"github.com/radhian/pix-reconciliation/middlewares"
	"github.com/radhian/pix-reconciliation/usecase/billing"
	reconciliationUsecase "github.com/radhian/pix-reconciliation/usecase/reconciliation"
)

const redisLockPrefix = "pix-reconciliation:"

type App struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Locker  locker.RunLocker
	Metrics *metrics.Recorder

	ReconciliationUsecase reconciliationUsecase.ReconciliationUsecase
	ReconciliationHandler *handler.ReconciliationHandler
	CustomerHandler       *handler.CustomerHandler

	Router  *mux.Router
	Handler http.Handler
}

// store is what a persistence driver provides to the usecases.
type store interface {
	reconciliationUsecase.LedgerGateway
	reconciliationUsecase.CustomerDirectory
	billing.PaymentReader
	billing.CustomerStore
}

// Initialize wires stores, usecases and routes. A DB set on the App before
// the call is used as is instead of opening a Postgres connection.
func (a *App) Initialize(cfg *config.Config) error {
	a.Config = cfg
	log.SetLevel(cfg.App.GommonLevel())

	st, runLogs, err := a.initializeStore()
	if err != nil {
		return err
	}
	if err := a.initializeLocker(); err != nil {
		return err
	}
	if a.Metrics == nil {
		a.Metrics = metrics.NewRecorder()
	}

	a.ReconciliationUsecase = reconciliationUsecase.NewReconciliationUsecase(reconciliationUsecase.Dependencies{
		Statement: santander.NewClient(cfg.Statement),
		Customers: st,
		Ledger:    st,
		RunLogs:   runLogs,
		Locker:    a.Locker,
		Metrics:   a.Metrics,
	})
	a.ReconciliationHandler = handler.NewReconciliationHandler(a.ReconciliationUsecase, cfg.Sync.LookbackDays)
	a.CustomerHandler = handler.NewCustomerHandler(billing.NewBillingUsecase(st, st))

	a.Router = mux.NewRouter().StrictSlash(true)
	a.initializeRoutes()
	a.Handler = middlewares.CORS(cfg.App.CORSAllowedOrigins)(a.Router)
	return nil
}

func (a *App) initializeStore() (store, reconciliationUsecase.RunLogStore, error) {
	if a.Config.App.StoreDriver == config.StoreDriverPostgREST {
		log.Infof("[App] Using PostgREST store at %s", a.Config.PostgREST.URL)
		return postgrest.NewStore(a.Config.PostgREST), nil, nil
	}

	if a.DB == nil {
		db, err := gorm.Open("postgres", a.Config.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("cannot connect to database %s: %w", a.Config.Database.Name, err)
		}
		log.Infof("[App] Connected to database %s on %s:%s", a.Config.Database.Name, a.Config.Database.Host, a.Config.Database.Port)
		a.DB = db
	}
	if err := dao.AutoMigrate(a.DB); err != nil {
		return nil, nil, fmt.Errorf("database migration failed: %w", err)
	}

	d := dao.NewDaoMethod(a.DB)
	return d, d, nil
}

func (a *App) initializeLocker() error {
	if a.Locker != nil {
		return nil
	}
	if a.Config.Redis.Addr == "" {
		a.Locker = locker.New()
		return nil
	}

	a.Redis = redis.NewClient(&redis.Options{
		Addr:     a.Config.Redis.Addr,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cannot connect to redis %s: %w", a.Config.Redis.Addr, err)
	}
	log.Infof("[App] Using redis run lock at %s", a.Config.Redis.Addr)
	a.Locker = locker.NewRedisLocker(a.Redis, redisLockPrefix, a.Config.Sync.LockTTL)
	return nil
}

func (a *App) initializeRoutes() {
	a.Router.Use(middlewares.SetContentTypeMiddleware)
	a.Router.Use(middlewares.APIKey(a.Config.App.APIKey))

	a.Router.HandleFunc("/", Home).Methods("GET")
	a.Router.Handle("/metrics", a.Metrics.Handler()).Methods("GET")
	RegisterReconciliationRoutes(a.Router, a.ReconciliationHandler)
	RegisterCustomerRoutes(a.Router, a.CustomerHandler)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
}

func (a *App) RunServer() {
	port := a.Config.App.Port

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Infof("[App] Server starting on port %v", port)
	log.Fatal(srv.ListenAndServe())
}
