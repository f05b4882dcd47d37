package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// TextGenerator completes a free-text prompt.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const bookingHint = "You can book an appointment anytime. Just type 'Book appointment'."

var healthKeywords = []string{"fever", "cough", "pain", "headache", "sore", "throat", "cold", "flu", "sick", "ill"}

// IsHealthQuery reports whether message mentions a symptom keyword. Matching is
// by substring, so "illness" and "painful" count too.
func IsHealthQuery(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range healthKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// RuleBasedAdvice is the local answer used whenever generation is unavailable.
func RuleBasedAdvice(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "fever"):
		return "Take rest and stay hydrated. Monitor your temperature. If symptoms worsen, consult a healthcare provider. " + bookingHint
	case strings.Contains(lower, "cough"), strings.Contains(lower, "cold"):
		return "Rest, drink warm fluids, and avoid cold exposure. " + bookingHint
	case strings.Contains(lower, "pain"), strings.Contains(lower, "headache"):
		return "Rest and consider over-the-counter pain relief if needed. " + bookingHint
	default:
		return "Please rest and monitor your symptoms. " + bookingHint
	}
}

// Advice sources, used as a metrics label
const (
	AdviceSourceGenerated = "generated"
	AdviceSourceFallback  = "fallback"
)

type HealthAdviceService struct {
	generator TextGenerator
	log       *logrus.Logger
	timeout   time.Duration
}

func NewHealthAdviceService(generator TextGenerator, log *logrus.Logger, timeout time.Duration) *HealthAdviceService {
	return &HealthAdviceService{
		generator: generator,
		log:       log,
		timeout:   timeout,
	}
}

// Advise never fails: a missing generator, an error, a timeout or an empty
// completion all yield RuleBasedAdvice.
func (s *HealthAdviceService) Advise(ctx context.Context, message string) (string, string) {
	if s == nil || s.generator == nil {
		return RuleBasedAdvice(message), AdviceSourceFallback
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.Complete(ctx, message)
	if err != nil {
		s.log.Warnf("Failed to generate health advice: %+v", err)
		return RuleBasedAdvice(message), AdviceSourceFallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return RuleBasedAdvice(message), AdviceSourceFallback
	}
	return text, AdviceSourceGenerated
}
