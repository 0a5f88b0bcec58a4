package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	domain "career-crafter/internal/domain/assessment"
	"career-crafter/internal/domain/user"
	"career-crafter/internal/pkg/llm"

	"github.com/sirupsen/logrus"
)

const QuizSize = 10

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrParse        = errors.New("unparseable quiz payload")
)

type UserLookup interface {
	GetByExternalID(ctx context.Context, externalID string) (user.User, error)
}

type Service struct {
	assessments domain.Repository
	users       UserLookup
	gen         llm.TextGenerator
	retrier     llm.Retrier
	logger      logrus.FieldLogger
}

func NewService(assessments domain.Repository, users UserLookup, gen llm.TextGenerator, retrier llm.Retrier, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if retrier.Logger == nil {
		retrier.Logger = logger
	}
	return &Service{assessments: assessments, users: users, gen: gen, retrier: retrier, logger: logger}
}

// GenerateQuiz asks the model for QuizSize multiple choice questions on the caller's industry.
func (s *Service) GenerateQuiz(ctx context.Context, externalID string) ([]domain.Question, error) {
	usr, err := s.onboardedUser(ctx, externalID)
	if err != nil {
		return nil, err
	}

	prompt := quizPrompt(usr.IndustryKey(), usr.Skills)
	var questions []domain.Question
	err = s.retrier.Do(ctx, "interview.quiz", func(ctx context.Context) error {
		text, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		qs, err := ParseQuiz(text)
		if err != nil {
			return llm.MarkPermanent(err)
		}
		questions = qs
		return nil
	})
	if err != nil {
		return nil, llm.Surface(err)
	}
	if len(questions) > QuizSize {
		questions = questions[:QuizSize]
	}
	return questions, nil
}

type SaveInput struct {
	Questions []domain.Question
	Answers   []string
	Score     float64
}

// SaveResult grades the answers and stores the assessment. When some answers are wrong the
// model is asked for an improvement tip; failing to get one does not fail the save.
func (s *Service) SaveResult(ctx context.Context, externalID string, in SaveInput) (domain.Assessment, error) {
	if len(in.Questions) == 0 {
		return domain.Assessment{}, fmt.Errorf("%w: questions are required", ErrInvalidInput)
	}
	if len(in.Answers) > len(in.Questions) {
		return domain.Assessment{}, fmt.Errorf("%w: more answers than questions", ErrInvalidInput)
	}
	if math.IsNaN(in.Score) || in.Score < 0 || in.Score > 100 {
		return domain.Assessment{}, fmt.Errorf("%w: score must be between 0 and 100", ErrInvalidInput)
	}

	usr, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return domain.Assessment{}, err
	}

	results := Grade(in.Questions, in.Answers)
	tip := ""
	if wrong := wrongAnswers(results); len(wrong) > 0 {
		tip = s.improvementTip(ctx, usr, wrong)
	}

	saved, err := s.assessments.Create(ctx, domain.Assessment{
		UserID:         usr.ID,
		QuizScore:      in.Score,
		Questions:      results,
		Category:       domain.CategoryTechnical,
		ImprovementTip: tip,
	})
	if err != nil {
		return domain.Assessment{}, err
	}
	s.logger.WithFields(logrus.Fields{"user_id": usr.ID, "score": in.Score}).Info("[Interview] assessment saved")
	return saved, nil
}

func (s *Service) ListAssessments(ctx context.Context, externalID string) ([]domain.Assessment, error) {
	usr, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return s.assessments.ListByUser(ctx, usr.ID)
}

func (s *Service) onboardedUser(ctx context.Context, externalID string) (user.User, error) {
	usr, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, user.ErrProfileIncomplete
		}
		return user.User{}, err
	}
	if !usr.IsOnboarded() {
		return user.User{}, user.ErrProfileIncomplete
	}
	return usr, nil
}

func (s *Service) improvementTip(ctx context.Context, usr user.User, wrong []domain.Result) string {
	prompt := tipPrompt(usr.IndustryKey(), wrong)
	var tip string
	err := s.retrier.Do(ctx, "interview.tip", func(ctx context.Context) error {
		text, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		tip = llm.StripCodeFences(text)
		return nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("user_id", usr.ID).Warn("[Interview] improvement tip unavailable")
		return ""
	}
	return tip
}

// Grade pairs each question with the answer at the same index. Missing answers count as wrong.
func Grade(questions []domain.Question, answers []string) []domain.Result {
	out := make([]domain.Result, len(questions))
	for i, q := range questions {
		ans := ""
		if i < len(answers) {
			ans = answers[i]
		}
		out[i] = domain.Result{
			Question:    q.Question,
			Answer:      q.CorrectAnswer,
			UserAnswer:  ans,
			IsCorrect:   ans != "" && ans == q.CorrectAnswer,
			Explanation: q.Explanation,
		}
	}
	return out
}

func wrongAnswers(results []domain.Result) []domain.Result {
	var out []domain.Result
	for _, r := range results {
		if !r.IsCorrect {
			out = append(out, r)
		}
	}
	return out
}

// ParseQuiz accepts either {"questions": [...]} or a bare array, dropping questions that have
// fewer than two options or no correct answer.
func ParseQuiz(text string) ([]domain.Question, error) {
	var raw []domain.Question
	body := llm.StripCodeFences(text)
	if strings.HasPrefix(body, "[") {
		if err := json.Unmarshal([]byte(llm.ExtractJSONArray(body)), &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	} else {
		var wrapped struct {
			Questions []domain.Question `json:"questions"`
		}
		if err := json.Unmarshal([]byte(llm.ExtractJSONObject(body)), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		raw = wrapped.Questions
	}

	out := make([]domain.Question, 0, len(raw))
	for _, q := range raw {
		q.Question = strings.TrimSpace(q.Question)
		q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
		q.Explanation = strings.TrimSpace(q.Explanation)
		opts := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			if o = strings.TrimSpace(o); o != "" {
				opts = append(opts, o)
			}
		}
		q.Options = opts
		if q.Question == "" || q.CorrectAnswer == "" || len(q.Options) < 2 {
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no usable questions", ErrParse)
	}
	return out, nil
}

func quizPrompt(industry string, skills []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d interview questions for %s professionals", QuizSize, industry)
	if len(skills) > 0 {
		fmt.Fprintf(&b, " with expertise in %s", strings.Join(skills, ", "))
	}
	b.WriteString(`.

Each question should be multiple choice with 4 options.
Return the response in JSON format only, without any additional notes or text:
{
  "questions": [
    {
      "question": "string",
      "options": ["string", "string", "string", "string"],
      "correctAnswer": "string",
      "explanation": "string"
    }
  ]
}`)
	return b.String()
}

func tipPrompt(industry string, wrong []domain.Result) string {
	parts := make([]string, len(wrong))
	for i, w := range wrong {
		parts[i] = fmt.Sprintf("Question: %q\nCorrect Answer: %q\nUser Answer: %q", w.Question, w.Answer, w.UserAnswer)
	}
	return fmt.Sprintf(`The user got the following %s interview questions wrong:

%s

Based on these mistakes, provide a concise, specific improvement tip.
Focus on the knowledge gaps and the skills the user needs to improve.
Keep the response under 2 sentences and make it encouraging.
Do not mention the mistakes explicitly, focus on learning and practice.`, industry, strings.Join(parts, "\n\n"))
}
