// Manually re-grade submissions stuck in the pending state.
//
// Grading runs synchronously on submit; a crash or a sandbox outage can leave
// submissions pending. This script picks them up and grades them. Pass
// -submission to re-grade one specific submission regardless of its status;
// manual scores are kept either way.
//
// Usage: go run scripts/regrade.go [-config configs] [-limit 100] [-submission ID]

package main

import (
	"context"
	"flag"
	"log"

	"examind_backend/internal/config"
	"examind_backend/internal/grading"
	"examind_backend/internal/judge"
	"examind_backend/internal/repository"
	"examind_backend/internal/service"
	"examind_backend/pkg/database"
	"examind_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	limit := flag.Int("limit", 100, "maximum number of pending submissions to grade")
	submissionID := flag.Uint("submission", 0, "re-grade this submission even if already graded")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	submissionRepo := repository.NewSubmissionRepository(db)
	engine := grading.NewEngine(judge.NewClient(cfg.Judge0), grading.DefaultRegistry())
	gradingService := service.NewGradingService(
		submissionRepo,
		repository.NewQuizRepository(db),
		repository.NewQuestionRepository(db),
		engine,
		rdb,
	)

	ctx := context.Background()

	if *submissionID != 0 {
		if _, err := gradingService.AutoGradeSubmission(ctx, *submissionID, true); err != nil {
			log.Fatalf("Submission %d failed: %v", *submissionID, err)
		}
		log.Printf("Submission %d re-graded.", *submissionID)
		return
	}

	submissions, err := submissionRepo.ListPending(*limit)
	if err != nil {
		log.Fatalf("Failed to list pending submissions: %v", err)
	}

	log.Printf("Re-grading %d pending submissions...", len(submissions))
	var failed int
	for _, sub := range submissions {
		if _, err := gradingService.AutoGradeSubmission(ctx, sub.ID, false); err != nil {
			failed++
			log.Printf("Submission %d failed: %v", sub.ID, err)
		}
	}
	log.Printf("Done: %d graded, %d failed.", len(submissions)-failed, failed)
}
