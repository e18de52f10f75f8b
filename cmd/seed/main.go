package main

import (
	"context"
	"flag"

	"github.com/VitaminP8/yatube/internal/config"
	"github.com/VitaminP8/yatube/internal/group"
	"github.com/VitaminP8/yatube/internal/storage/postgres"
	log "github.com/sirupsen/logrus"
)

// seed создает группы в PostgreSQL:
//
//	go run ./cmd/seed -group cats:Коты -group "dogs:Собаки:Всё о собаках"
func main() {
	var seeds group.SeedFlag
	flag.Var(&seeds, "group", "Группа slug:title[:description] (можно повторять)")
	flag.Parse()

	if len(seeds) == 0 {
		log.Fatal("nothing to seed: pass at least one -group")
	}

	config.LoadEnv()
	cfg := config.Load()

	db, err := postgres.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := postgres.CloseDB(db); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	created, err := group.Apply(context.Background(), postgres.NewGroupPostgresStorage(db), seeds)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.WithField("created", created).Info("seed finished")
}
