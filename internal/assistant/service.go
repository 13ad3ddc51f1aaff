package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/geo"
	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/store"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrChildNotFound = errors.New("child not found")
)

const (
	DefaultFetchLimit = 50
	maxQuestionRunes  = 2000
)

// Answerer produces a free-form answer from aggregated context. It never
// fails; a fallback text stands in for errors.
type Answerer interface {
	Ask(ctx context.Context, contextText, question string) string
}

type Answer struct {
	Text   string
	Intent Intent
}

// ZoneReport is the safe-zone status of a child's latest location.
type ZoneReport struct {
	ChildID    string
	Status     geo.Status
	ZoneName   string
	Latitude   *float64
	Longitude  *float64
	CapturedAt *time.Time
}

type Service struct {
	store      store.Store
	answerer   Answerer
	media      MediaAnalyzer
	audit      *AuditLogger
	fetchLimit int
}

func NewService(st store.Store, answerer Answerer, analyzer MediaAnalyzer, audit *AuditLogger, fetchLimit int) *Service {
	if fetchLimit <= 0 {
		fetchLimit = DefaultFetchLimit
	}
	return &Service{
		store:      st,
		answerer:   answerer,
		media:      analyzer,
		audit:      audit,
		fetchLimit: fetchLimit,
	}
}

// Ask answers a parent's question. Only input validation and store failures
// are returned as errors; model and media failures degrade to fixed text.
func (s *Service) Ask(ctx context.Context, userID, question string) (Answer, error) {
	userID = strings.TrimSpace(userID)
	question = strings.TrimSpace(question)
	if userID == "" {
		return Answer{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if question == "" {
		return Answer{}, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(question) > maxQuestionRunes {
		return Answer{}, fmt.Errorf("%w: question exceeds %d characters", ErrInvalidInput, maxQuestionRunes)
	}

	children, err := s.store.ChildrenForParent(ctx, userID)
	if err != nil {
		return Answer{}, fmt.Errorf("failed to load children: %w", err)
	}

	if len(children) == 0 {
		log.Info().Str("user_id", userID).Msg("No children linked to parent")
		return Answer{Text: NoChildDataAnswer, Intent: IntentNone}, nil
	}

	activity, err := s.loadActivity(ctx, children)
	if err != nil {
		return Answer{}, err
	}
	answer := s.respond(ctx, question, activity)

	log.Info().
		Str("user_id", userID).
		Str("intent", string(answer.Intent)).
		Int("children", len(children)).
		Msg("Answered assistant question")

	s.audit.Record(ctx, userID, question, answer.Text)
	return answer, nil
}

func (s *Service) respond(ctx context.Context, question string, activity Activity) Answer {
	intent := Classify(question)
	switch intent {
	case IntentLocation:
		return Answer{Text: answerLocation(activity.Children, activity.Locations), Intent: intent}
	case IntentCallLog:
		return Answer{Text: answerCallLog(activity.Children, activity.Calls), Intent: intent}
	case IntentMediaAnalysis:
		return Answer{Text: answerMedia(ctx, s.media, activity.Children, activity.Messages), Intent: intent}
	}
	return Answer{Text: s.answerer.Ask(ctx, BuildContext(activity), question), Intent: IntentNone}
}

// loadActivity runs the four activity reads concurrently. The first failure
// cancels the others and fails the request.
func (s *Service) loadActivity(ctx context.Context, children []store.Child) (Activity, error) {
	childIDs := make([]string, 0, len(children))
	for _, child := range children {
		childIDs = append(childIDs, child.ID)
	}

	activity := Activity{Children: children}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		calls, err := s.store.RecentCallLogs(groupCtx, childIDs, s.fetchLimit)
		if err != nil {
			return fmt.Errorf("failed to load call logs: %w", err)
		}
		activity.Calls = calls
		return nil
	})
	group.Go(func() error {
		messages, err := s.store.RecentMessages(groupCtx, childIDs, s.fetchLimit)
		if err != nil {
			return fmt.Errorf("failed to load messages: %w", err)
		}
		activity.Messages = messages
		return nil
	})
	group.Go(func() error {
		locations, err := s.store.Locations(groupCtx, childIDs, s.fetchLimit)
		if err != nil {
			return fmt.Errorf("failed to load locations: %w", err)
		}
		activity.Locations = locations
		return nil
	})
	group.Go(func() error {
		zones, err := s.store.SafeZones(groupCtx, childIDs)
		if err != nil {
			return fmt.Errorf("failed to load safe zones: %w", err)
		}
		activity.Zones = zones
		return nil
	})
	if err := group.Wait(); err != nil {
		return Activity{}, err
	}
	return activity, nil
}

// ZoneStatus evaluates a child's latest location against its safe zones.
// ErrChildNotFound is returned when the child is not linked to parentID.
func (s *Service) ZoneStatus(ctx context.Context, parentID, childID string) (ZoneReport, error) {
	parentID = strings.TrimSpace(parentID)
	childID = strings.TrimSpace(childID)
	if parentID == "" || childID == "" {
		return ZoneReport{}, fmt.Errorf("%w: parent and child id are required", ErrInvalidInput)
	}

	children, err := s.store.ChildrenForParent(ctx, parentID)
	if err != nil {
		return ZoneReport{}, fmt.Errorf("failed to load children: %w", err)
	}
	owned := false
	for _, child := range children {
		if child.ID == childID {
			owned = true
			break
		}
	}
	if !owned {
		return ZoneReport{}, ErrChildNotFound
	}

	ids := []string{childID}
	var (
		locations []store.LocationSample
		zones     []store.SafeZone
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		locations, err = s.store.Locations(groupCtx, ids, 1)
		if err != nil {
			return fmt.Errorf("failed to load locations: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		zones, err = s.store.SafeZones(groupCtx, ids)
		if err != nil {
			return fmt.Errorf("failed to load safe zones: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return ZoneReport{}, err
	}

	status, sample := evaluateChild(childID, latestLocations([]store.Child{{ID: childID}}, locations), zones)
	report := ZoneReport{ChildID: childID, Status: status.Status, ZoneName: status.ZoneName}
	if sample != nil {
		report.Latitude = &sample.Latitude
		report.Longitude = &sample.Longitude
		report.CapturedAt = &sample.CapturedAt
	}
	return report, nil
}
