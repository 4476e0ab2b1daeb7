package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/user"
	"github.com/princebhanderi/ed-tech-platform/storage/database/mongodb"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	if conf.Database.Engine != "mongo" {
		logger.Fatalf("database.engine %q: the admin CLI needs a persistent database", conf.Database.Engine)
	}

	// set up DB
	ctx := context.Background()
	client, db, err := mongodb.Open(ctx, conf)
	errAndDie(err)

	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	repos := mongodb.NewRepositories(db)
	cli := commandLine{
		conf:   conf,
		usrSvc: user.NewService(repos.Users, repos.Profiles, validate),
		out:    os.Stdout,
		createIndexes: func(ctx context.Context) error {
			return mongodb.EnsureIndexes(ctx, db)
		},
	}
	err = cli.run(os.Args)
	disconnect(client)
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func disconnect(client *mongo.Client) {
	if err := client.Disconnect(context.Background()); err != nil {
		logger.Printf("disconnecting: %v", err)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
