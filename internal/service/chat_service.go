package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/openacademia/catalog-api/internal/authz"
	"github.com/openacademia/catalog-api/internal/models"
	appErrors "github.com/openacademia/catalog-api/pkg/errors"
)

type chatCareerSource interface {
	List(ctx context.Context, filter models.CareerFilter, scope authz.Scope) ([]models.Career, int, error)
}

type chatSubjectSource interface {
	List(ctx context.Context, filter models.SubjectFilter, scope authz.Scope) ([]models.Subject, int, error)
}

// Chat intents recognised by the keyword matcher.
const (
	IntentCareers  = "careers"
	IntentSubjects = "subjects"
	IntentUnknown  = "unknown"
)

var careerKeywords = []string{"career", "careers", "program", "programs", "degree"}
var subjectKeywords = []string{"subject", "subjects", "course", "courses", "class", "classes"}

// ChatService answers free-form catalog questions with deterministic
// keyword matching against what the caller's scope can see. There is no
// language model behind it; unmatched questions get a help message.
type ChatService struct {
	careers   chatCareerSource
	subjects  chatSubjectSource
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChatService constructs a ChatService.
func NewChatService(careers chatCareerSource, subjects chatSubjectSource, validate *validator.Validate, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ChatService{careers: careers, subjects: subjects, validator: validate, logger: logger}
}

// Answer resolves the query intent and returns matching catalog entries.
func (s *ChatService) Answer(ctx context.Context, p authz.Principal, scope authz.Scope, query models.ChatQuery) (*models.ChatAnswer, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid chat payload")
	}

	normalized := strings.ToLower(strings.TrimSpace(query.Message))
	search := stripKeywords(normalized)

	switch {
	case containsAny(normalized, careerKeywords):
		return s.answerCareers(ctx, scope, search)
	case containsAny(normalized, subjectKeywords):
		return s.answerSubjects(ctx, scope, search)
	default:
		// Try a name search across both before giving up.
		if answer, err := s.answerSubjects(ctx, scope, search); err == nil && len(answer.Matches) > 0 {
			return answer, nil
		}
		if answer, err := s.answerCareers(ctx, scope, search); err == nil && len(answer.Matches) > 0 {
			return answer, nil
		}
		return &models.ChatAnswer{
			Intent:  IntentUnknown,
			Message: "I can look up careers and subjects. Try asking about a career or subject by name.",
		}, nil
	}
}

func (s *ChatService) answerCareers(ctx context.Context, scope authz.Scope, search string) (*models.ChatAnswer, error) {
	careers, total, err := s.careers.List(ctx, models.CareerFilter{Search: search, Page: 1, PageSize: 10}, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search careers")
	}

	matches := make([]string, 0, len(careers))
	for _, career := range careers {
		matches = append(matches, career.Name)
	}
	return &models.ChatAnswer{
		Intent:  IntentCareers,
		Message: fmt.Sprintf("Found %d careers.", total),
		Matches: matches,
	}, nil
}

func (s *ChatService) answerSubjects(ctx context.Context, scope authz.Scope, search string) (*models.ChatAnswer, error) {
	subjects, total, err := s.subjects.List(ctx, models.SubjectFilter{Search: search, Page: 1, PageSize: 10}, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search subjects")
	}

	matches := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		label := subject.Name
		if subject.CareerName != nil {
			label = fmt.Sprintf("%s (%s)", subject.Name, *subject.CareerName)
		}
		matches = append(matches, label)
	}
	return &models.ChatAnswer{
		Intent:  IntentSubjects,
		Message: fmt.Sprintf("Found %d subjects.", total),
		Matches: matches,
	}, nil
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

// stripKeywords removes intent words and filler so the remainder can feed
// the name search.
func stripKeywords(text string) string {
	filler := append(append([]string{"what", "which", "show", "list", "me", "the", "a", "an", "are", "is", "there", "about", "tell", "in", "of", "for"}, careerKeywords...), subjectKeywords...)
	fields := strings.Fields(text)
	kept := make([]string, 0, len(fields))
	for _, field := range fields {
		word := strings.Trim(field, "?.,!")
		skip := false
		for _, f := range filler {
			if word == f {
				skip = true
				break
			}
		}
		if !skip && word != "" {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}
