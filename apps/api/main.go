package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	echoapi "github.com/princebhanderi/ed-tech-platform/apps/api/echo"
	"github.com/princebhanderi/ed-tech-platform/assets"
	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/admin"
	"github.com/princebhanderi/ed-tech-platform/core/catalog"
	emailsvc "github.com/princebhanderi/ed-tech-platform/services/email"
	logsvc "github.com/princebhanderi/ed-tech-platform/services/logger"
	inmemdb "github.com/princebhanderi/ed-tech-platform/storage/database/inmem"
	"github.com/princebhanderi/ed-tech-platform/storage/database/mongodb"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	deps, closeDB, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = closeDB(); err != nil {
			dbLogger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	policy, err := admin.ParseCategoryPolicy(conf.Cascade.CategoryPolicy)
	if err != nil {
		logger.Fatal(fmt.Sprintf("cascade.categoryPolicy: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	if err := core.ParseEmailTemplates(assets.FS, conf); err != nil {
		logger.Fatal(fmt.Sprintf("core.ParseEmailTemplates: %v", err), err)
	}

	deps.Mail = mailSvc
	deps.Logger = logger
	deps.Validate = validate
	deps.Translator = translator
	deps.CategoryPolicy = policy
	adminSvc := admin.NewService(deps)
	reader := catalog.NewReader(deps.Categories, deps.Courses, deps.Users, deps.Reviews)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("categoryPolicy").Set(policy.String())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			AdminSvc:   adminSvc,
			Catalog:    reader,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpDB opens the configured engine and returns its repositories.
func setUpDB(conf *core.Config) (admin.Deps, func() error, error) {
	switch conf.Database.Engine {
	case "inmem":
		repos := inmemdb.Open().Repositories()
		return admin.Deps{
			Users:      repos.Users,
			Profiles:   repos.Profiles,
			Courses:    repos.Courses,
			Categories: repos.Categories,
			Reviews:    repos.Reviews,
		}, func() error { return nil }, nil

	case "mongo":
		ctx := context.Background()
		client, db, err := mongodb.Open(ctx, conf)
		if err != nil {
			return admin.Deps{}, nil, err
		}
		if err = mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return admin.Deps{}, nil, err
		}
		repos := mongodb.NewRepositories(db)
		return admin.Deps{
			Users:      repos.Users,
			Profiles:   repos.Profiles,
			Courses:    repos.Courses,
			Categories: repos.Categories,
			Reviews:    repos.Reviews,
		}, func() error { return client.Disconnect(context.Background()) }, nil
	}
	return admin.Deps{}, nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
}
