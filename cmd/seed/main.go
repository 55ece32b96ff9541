package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/academic-backend/internal/config"
	"github.com/stemsi/academic-backend/internal/logger"
	"github.com/stemsi/academic-backend/internal/repository"
	"github.com/stemsi/academic-backend/internal/service"
	"github.com/stemsi/academic-backend/pkg/model"
)

func main() {
	var tagged bool
	flag.BoolVar(&tagged, "testrun", false, "Tag seeded rows with a new test run so they can be purged")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	repos, closeDB, err := repository.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to connect to database")
	}
	defer closeDB()

	m := service.NewManagers(repos, log)

	var run *model.TestRun
	if tagged {
		run, err = m.TestRuns.Create(ctx, "seed "+time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create test run")
		}
		fmt.Printf("Seeding under test run %s\n", run.UUID)
	}

	fmt.Println("=== Seeding academic data ===")

	term, err := create(ctx, m.Terms, run, "Fall 2013")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create term")
	}

	for _, name := range []string{"Section A", "Section B"} {
		if _, err := create(ctx, m.Sections, run, name, func(s *model.Section) { s.TermID = &term.ID }); err != nil {
			log.Fatal().Err(err).Msg("Failed to create section")
		}
	}
	seedNames(ctx, m.Instructors, run, "instructors", []string{"Grace Hopper", "Alan Turing", "Barbara Liskov"})
	seedNames(ctx, m.Courses, run, "courses", []string{"Algorithms", "Operating Systems", "Databases", "Networks"})
	seedNames(ctx, m.Classrooms, run, "classrooms", []string{"Room 101", "Room 102", "Lab 1"})

	names := []string{
		"Ada Lovelace", "Edsger Dijkstra", "Donald Knuth", "Frances Allen", "John McCarthy",
		"Margaret Hamilton", "Ken Thompson", "Radia Perlman", "Dennis Ritchie", "Shafi Goldwasser",
	}
	successCount := 0
	for _, name := range names {
		email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.edu"
		if _, err := create(ctx, m.Students, run, name, func(s *model.Student) { s.EmailAddress = email }); err != nil {
			fmt.Printf("Error creating student %s: %v\n", name, err)
			continue
		}
		successCount++
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, len(names))
}

func create[E model.Entity[E]](ctx context.Context, m *service.Manager[E], run *model.TestRun, name string, fill ...func(E)) (E, error) {
	if run != nil {
		return m.CreateForTesting(ctx, name, run, fill...)
	}
	return m.Create(ctx, name, fill...)
}

func seedNames[E model.Entity[E]](ctx context.Context, m *service.Manager[E], run *model.TestRun, label string, names []string) {
	created := 0
	for _, name := range names {
		if _, err := create(ctx, m, run, name); err != nil {
			fmt.Printf("Error creating %s: %v\n", name, err)
			continue
		}
		created++
	}
	fmt.Printf("Created %d/%d %s\n", created, len(names), label)
}
