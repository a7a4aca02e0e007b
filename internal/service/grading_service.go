package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"examind_backend/internal/grading"
	"examind_backend/internal/model"
	"examind_backend/internal/repository"
	"examind_backend/internal/util"
	"examind_backend/pkg/logger"
	"examind_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const quizStatsTTL = 5 * time.Minute

// GradingService orchestrates the per-question engine over whole
// submissions: it creates submissions, auto-grades them, exposes the
// manual-grading queue and keeps the quiz aggregates.
type GradingService struct {
	SubmissionRepo *repository.SubmissionRepository
	QuizRepo       *repository.QuizRepository
	QuestionRepo   *repository.QuestionRepository
	Engine         *grading.Engine
	Redis          *redis.Client
}

func NewGradingService(
	submissionRepo *repository.SubmissionRepository,
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	engine *grading.Engine,
	rdb *redis.Client,
) *GradingService {
	return &GradingService{
		SubmissionRepo: submissionRepo,
		QuizRepo:       quizRepo,
		QuestionRepo:   questionRepo,
		Engine:         engine,
		Redis:          rdb,
	}
}

type SubmittedAnswer struct {
	QuestionID uint            `json:"questionId" binding:"required"`
	Answer     json.RawMessage `json:"answer"`
}

type SubmitQuizRequest struct {
	QuizID  uint              `json:"quizId" binding:"required"`
	Answers []SubmittedAnswer `json:"answers" binding:"required"`
}

// SubmitQuiz stores the raw answers and grades them in the same call. The
// raw payloads are kept verbatim so a later re-grade sees exactly what the
// student sent.
func (s *GradingService) SubmitQuiz(ctx context.Context, userID uint, req *SubmitQuizRequest) (*model.Submission, error) {
	quiz, err := s.QuizRepo.FindByID(req.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}

	submission := &model.Submission{
		QuizID: req.QuizID,
		UserID: userID,
		Status: model.SubmissionPending,
	}
	for _, a := range req.Answers {
		submission.Answers = append(submission.Answers, model.SubmissionAnswer{
			QuestionID: a.QuestionID,
			RawAnswer:  a.Answer,
		})
	}
	if err := s.SubmissionRepo.Create(submission); err != nil {
		return nil, err
	}

	return s.AutoGradeSubmission(ctx, submission.ID, false)
}

// AutoGradeSubmission grades every answer of a submission and persists the
// per-answer results together with the aggregate. Grading an already graded
// submission is a no-op unless force is set; forcing re-runs the engine
// but never overwrites scores a human grader has already assigned.
func (s *GradingService) AutoGradeSubmission(ctx context.Context, submissionID uint, force bool) (*model.Submission, error) {
	if s.Redis != nil {
		lockKey := fmt.Sprintf("submission:grading:%d", submissionID)
		acquired, err := s.Redis.SetNX(ctx, lockKey, 1, time.Minute).Result()
		if err == nil && !acquired {
			return nil, util.ErrGradingInProgress
		}
		defer s.Redis.Del(ctx, lockKey)
	}

	submission, err := s.SubmissionRepo.FindByIDWithAnswers(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.Status != model.SubmissionPending && !force {
		return submission, nil
	}

	quiz, err := s.QuizRepo.FindByID(submission.QuizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.QuestionRepo.FindByQuizID(submission.QuizID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*model.Question, len(questions))
	maxPossible := 0.0
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
		maxPossible += questions[i].Points
	}

	totalEarned := 0.0
	needsManual := false
	for i := range submission.Answers {
		ans := &submission.Answers[i]
		if ans.ManualScore != nil {
			// A human already graded this one; the override wins.
			totalEarned += *ans.ManualScore
			continue
		}

		question, ok := byID[ans.QuestionID]
		if !ok {
			ans.IsCorrect = false
			ans.PointsEarned = 0
			ans.Feedback = "Question no longer exists"
			continue
		}

		result := s.gradeAnswer(ctx, question, ans)
		ans.IsCorrect = result.IsCorrect
		ans.PointsEarned = result.PointsEarned
		ans.MaxPoints = result.MaxPoints
		ans.Feedback = result.Feedback
		ans.NeedsManual = result.RequiresManual

		totalEarned += result.PointsEarned
		if result.RequiresManual {
			needsManual = true
		}
	}

	submission.TotalEarned = totalEarned
	submission.MaxPossible = maxPossible
	if maxPossible > 0 {
		submission.Percentage = math.Round(totalEarned/maxPossible*100*100) / 100
	} else {
		submission.Percentage = 0
	}
	submission.Passed = submission.Percentage >= quiz.PassingScore
	submission.NeedsManual = needsManual
	if needsManual {
		submission.Status = model.SubmissionManual
	} else {
		submission.Status = model.SubmissionGraded
	}

	if err := s.SubmissionRepo.SaveGradingOutcome(submission, submission.Answers); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, submission.QuizID)

	logger.Log.Info("submission graded",
		zap.Uint("submissionID", submission.ID),
		zap.Float64("earned", totalEarned),
		zap.Float64("maxPossible", maxPossible),
		zap.Bool("needsManual", needsManual))

	return submission, nil
}

// gradeAnswer adapts one stored question/answer pair to the engine's types.
// Engine-level failures degrade to a zero-point result routed to the manual
// queue so one bad question cannot sink the whole submission.
func (s *GradingService) gradeAnswer(ctx context.Context, question *model.Question, ans *model.SubmissionAnswer) *grading.GradingResult {
	record := &grading.QuestionRecord{
		Type:        grading.QuestionType(question.QuestionType),
		Points:      question.Points,
		Explanation: question.Explanation,
	}
	if len(question.QuestionData) > 0 {
		var qd map[string]interface{}
		if err := json.Unmarshal(question.QuestionData, &qd); err == nil {
			record.QuestionData = qd
		}
	}
	if len(question.CorrectAnswer) > 0 {
		var ca interface{}
		if err := json.Unmarshal(question.CorrectAnswer, &ca); err == nil {
			record.CorrectAnswer = ca
		}
	}

	start := time.Now()
	result, err := s.Engine.GradeQuestion(ctx, record, ans.RawAnswer)
	monitoring.GradingDuration.WithLabelValues(question.QuestionType).Observe(time.Since(start).Seconds())

	if err != nil {
		logger.Log.Error("grading failed",
			zap.Uint("questionID", question.ID),
			zap.String("questionType", question.QuestionType),
			zap.Error(err))
		return &grading.GradingResult{
			MaxPoints:      question.Points,
			Feedback:       fmt.Sprintf("Cannot auto-grade question type %q. Manual grading required", question.QuestionType),
			RequiresManual: true,
		}
	}

	strategy := ""
	if result.DetailedFeedback != nil {
		strategy = string(result.DetailedFeedback.StrategyUsed)
	}
	monitoring.QuestionsGraded.WithLabelValues(question.QuestionType, strategy).Inc()
	return result
}

// RegradeByPublicID re-runs automatic grading; manual scores are preserved.
func (s *GradingService) RegradeByPublicID(ctx context.Context, publicID string) (*model.Submission, error) {
	submission, err := s.SubmissionRepo.FindByPublicID(publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return s.AutoGradeSubmission(ctx, submission.ID, true)
}

func (s *GradingService) GetSubmission(publicID string, requesterID uint, isStaff bool) (*model.Submission, error) {
	submission, err := s.SubmissionRepo.FindByPublicID(publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.UserID != requesterID && !isStaff {
		return nil, util.ErrPermissionDenied
	}
	return submission, nil
}

func (s *GradingService) ListManualQueue(page, limit int) ([]model.Submission, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.SubmissionRepo.ListNeedingManual(page, limit)
}

type ManualGradeRequest struct {
	Score   float64 `json:"score"`
	Comment string  `json:"comment"`
}

// GradeAnswerManually lets a staff member score an answer the engine routed
// to the manual queue, then recomputes the submission aggregate.
func (s *GradingService) GradeAnswerManually(ctx context.Context, graderID, answerID uint, req *ManualGradeRequest) (*model.Submission, error) {
	ans, err := s.SubmissionRepo.FindAnswerByID(answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAnswerNotFound
		}
		return nil, err
	}
	if !ans.NeedsManual {
		return nil, util.ErrNotManualGradable
	}

	question, err := s.QuestionRepo.FindByID(ans.QuestionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}
	if req.Score < 0 || req.Score > question.Points {
		return nil, util.ErrScoreOutOfRange
	}

	score := req.Score
	ans.ManualScore = &score
	ans.PointsEarned = score
	ans.MaxPoints = question.Points
	ans.IsCorrect = score >= question.Points
	ans.NeedsManual = false
	ans.ManualComment = req.Comment
	ans.GraderID = &graderID
	if err := s.SubmissionRepo.UpdateAnswer(ans); err != nil {
		return nil, err
	}

	return s.recomputeSubmission(ctx, ans.SubmissionID)
}

// recomputeSubmission refreshes the aggregate after a manual override.
func (s *GradingService) recomputeSubmission(ctx context.Context, submissionID uint) (*model.Submission, error) {
	submission, err := s.SubmissionRepo.FindByIDWithAnswers(submissionID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.QuizRepo.FindByID(submission.QuizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.QuestionRepo.FindByQuizID(submission.QuizID)
	if err != nil {
		return nil, err
	}

	maxPossible := 0.0
	for i := range questions {
		maxPossible += questions[i].Points
	}

	totalEarned := 0.0
	needsManual := false
	for i := range submission.Answers {
		totalEarned += submission.Answers[i].PointsEarned
		if submission.Answers[i].NeedsManual {
			needsManual = true
		}
	}

	submission.TotalEarned = totalEarned
	submission.MaxPossible = maxPossible
	if maxPossible > 0 {
		submission.Percentage = math.Round(totalEarned/maxPossible*100*100) / 100
	} else {
		submission.Percentage = 0
	}
	submission.Passed = submission.Percentage >= quiz.PassingScore
	submission.NeedsManual = needsManual
	if needsManual {
		submission.Status = model.SubmissionManual
	} else {
		submission.Status = model.SubmissionGraded
	}

	if err := s.SubmissionRepo.SaveGradingOutcome(submission, nil); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, submission.QuizID)
	return submission, nil
}

// QuizStats serves aggregates from a short-lived Redis cache; the cache is
// dropped whenever a submission of that quiz is (re)graded.
func (s *GradingService) QuizStats(ctx context.Context, quizID uint) (*repository.QuizStats, error) {
	key := fmt.Sprintf("quiz:stats:%d", quizID)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var stats repository.QuizStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.SubmissionRepo.StatsByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			s.Redis.Set(ctx, key, payload, quizStatsTTL)
		}
	}
	return stats, nil
}

func (s *GradingService) invalidateStats(ctx context.Context, quizID uint) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(ctx, fmt.Sprintf("quiz:stats:%d", quizID))
}
