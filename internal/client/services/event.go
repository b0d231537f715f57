package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sittersafe/carelog/internal/client/cache"
	"github.com/sittersafe/carelog/internal/client/models"
	"github.com/sittersafe/carelog/internal/client/remote"
	"github.com/sittersafe/carelog/internal/common"
	"github.com/sittersafe/carelog/internal/logging"
)

// DefaultDeleteWindow is the half-width of the time window used by the
// heuristic fallback deletion of events that never recorded remote ids.
const DefaultDeleteWindow = 2 * time.Minute

// EventDraft is the editing-surface input for one care event, possibly
// covering several children at once.
type EventDraft struct {
	Type     models.ActivityType
	ChildIDs []string
	Mood     string
	Details  models.EventDetails
}

// EventService aggregates per-child remote event rows into client-visible
// multi-child entries and fans client events back out into rows. The local
// events-of-today snapshot is the rendered state.
type EventService struct {
	ownerID      string
	store        cache.Store
	remote       remote.Client
	log          logging.Logger
	now          func() time.Time
	deleteWindow time.Duration
}

// EventOption configures an EventService.
type EventOption func(*EventService)

// WithEventClock replaces the wall clock, for tests.
func WithEventClock(now func() time.Time) EventOption {
	return func(s *EventService) { s.now = now }
}

// WithDeleteWindow overrides the heuristic deletion window half-width.
func WithDeleteWindow(w time.Duration) EventOption {
	return func(s *EventService) {
		if w > 0 {
			s.deleteWindow = w
		}
	}
}

func NewEventService(ownerID string, store cache.Store, rc remote.Client, log logging.Logger, opts ...EventOption) *EventService {
	s := &EventService{
		ownerID:      ownerID,
		store:        store,
		remote:       rc,
		log:          log,
		now:          time.Now,
		deleteWindow: DefaultDeleteWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns today's events from the local snapshot, newest first.
func (s *EventService) List(ctx context.Context) ([]models.CareEvent, error) {
	return s.loadLocal(ctx)
}

// Log validates and saves a new care event. The event is visible locally
// before any remote round-trip begins; the per-child fan-out insert runs
// afterwards and tolerates partial or total failure.
func (s *EventService) Log(ctx context.Context, draft EventDraft) (models.CareEvent, error) {
	if err := validateDraft(draft); err != nil {
		return models.CareEvent{}, err
	}

	now := s.now()
	ev := models.CareEvent{
		ID:       models.NewID(),
		Time:     now.Format("15:04"),
		Type:     draft.Type,
		Icon:     iconFor(draft.Type),
		Color:    colorFor(draft.Type),
		ChildIDs: slices.Clone(draft.ChildIDs),
		Mood:     draft.Mood,
		Details:  draft.Details,
	}
	ev.Activity = s.activityText(ctx, draft)
	ev.Details.ActivityText = ev.Activity
	ev.Details.SharedChildIDs = slices.Clone(draft.ChildIDs)
	ev.Details.LocalEventID = ev.ID

	events, err := s.loadLocal(ctx)
	if err != nil {
		return models.CareEvent{}, err
	}
	events = append([]models.CareEvent{ev}, events...)
	if err := s.persist(ctx, events); err != nil {
		return models.CareEvent{}, err
	}

	rows := make([]models.RemoteEventRow, 0, len(ev.ChildIDs))
	for _, childID := range ev.ChildIDs {
		rows = append(rows, models.RemoteEventRow{
			OwnerID:   s.ownerID,
			ChildID:   childID,
			EventType: ev.Type,
			EventTime: now,
			Mood:      ev.Mood,
			Details:   ev.Details,
			Icon:      ev.Icon,
			Color:     ev.Color,
		})
	}
	ids, err := s.remote.InsertEvents(ctx, rows)
	if err != nil {
		s.log.Warn(ctx, "remote event insert failed, event stays local-only", "event_id", ev.ID, "error", err)
		return ev, nil
	}

	ev.RemoteIDs = ids
	for i := range events {
		if events[i].ID == ev.ID {
			events[i].RemoteIDs = ids
			break
		}
	}
	if err := s.persist(ctx, events); err != nil {
		s.log.Warn(ctx, "failed to persist remote ids", "event_id", ev.ID, "error", err)
	}
	return ev, nil
}

// Edit updates an existing event in place. The original display time and the
// backing remote ids are preserved; remote rows are not rewritten.
func (s *EventService) Edit(ctx context.Context, eventID string, draft EventDraft) (models.CareEvent, error) {
	if err := validateDraft(draft); err != nil {
		return models.CareEvent{}, err
	}

	events, err := s.loadLocal(ctx)
	if err != nil {
		return models.CareEvent{}, err
	}
	for i := range events {
		if events[i].ID != eventID {
			continue
		}
		updated := events[i]
		updated.Type = draft.Type
		updated.Icon = iconFor(draft.Type)
		updated.Color = colorFor(draft.Type)
		updated.ChildIDs = slices.Clone(draft.ChildIDs)
		updated.Mood = draft.Mood
		updated.Details = draft.Details
		updated.Activity = s.activityText(ctx, draft)
		updated.Details.ActivityText = updated.Activity
		updated.Details.SharedChildIDs = slices.Clone(draft.ChildIDs)
		updated.Details.LocalEventID = updated.ID

		events[i] = updated
		if err := s.persist(ctx, events); err != nil {
			return models.CareEvent{}, err
		}
		return updated, nil
	}
	return models.CareEvent{}, fmt.Errorf("event %s: %w", eventID, common.ErrNotFound)
}

// Delete removes the event locally first, then cleans up the remote rows.
// With recorded remote ids the cleanup is exact; without them it falls back
// to the time-window heuristic, which can over- or under-delete when two
// same-type events for the same child land inside the window.
func (s *EventService) Delete(ctx context.Context, eventID string) error {
	events, err := s.loadLocal(ctx)
	if err != nil {
		return err
	}
	var target *models.CareEvent
	kept := make([]models.CareEvent, 0, len(events))
	for i := range events {
		if events[i].ID == eventID {
			ev := events[i]
			target = &ev
			continue
		}
		kept = append(kept, events[i])
	}
	if target == nil {
		return fmt.Errorf("event %s: %w", eventID, common.ErrNotFound)
	}
	if err := s.persist(ctx, kept); err != nil {
		return err
	}

	switch {
	case len(target.RemoteIDs) > 0:
		for _, id := range target.RemoteIDs {
			if err := s.remote.DeleteEventRow(ctx, id); err != nil {
				s.log.Warn(ctx, "remote event row delete failed", "remote_id", id, "error", err)
			}
		}
	case len(target.ChildIDs) > 0:
		s.deleteByHeuristic(ctx, target)
	}
	return nil
}

// deleteByHeuristic deletes remote rows matching (child, type, display time
// ± window) for an event that never synced its remote ids.
func (s *EventService) deleteByHeuristic(ctx context.Context, ev *models.CareEvent) {
	minutes, err := parseClock(ev.Time)
	if err != nil {
		s.log.Warn(ctx, "cannot derive deletion window from display time", "event_id", ev.ID, "time", ev.Time)
		return
	}
	now := s.now()
	at := time.Date(now.Year(), now.Month(), now.Day(), minutes/60, minutes%60, 0, 0, now.Location())
	from, to := at.Add(-s.deleteWindow), at.Add(s.deleteWindow)

	for _, childID := range ev.ChildIDs {
		if err := s.remote.DeleteEventsMatching(ctx, s.ownerID, childID, ev.Type, from, to); err != nil {
			s.log.Warn(ctx, "heuristic remote event delete failed", "child_id", childID, "error", err)
		}
	}
}

// LoadToday fetches today's remote rows and groups them into client events.
// Rows sharing (display time, type) merge into one multi-child entry. On
// success the result replaces the local snapshot wholesale; on a soft remote
// failure the cached snapshot stands.
//
// The grouping key is a heuristic: two unrelated same-type events in the
// same display minute are indistinguishable from one multi-child event.
func (s *EventService) LoadToday(ctx context.Context) ([]models.CareEvent, error) {
	local, err := s.loadLocal(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	rows, err := s.remote.ListEventsSince(ctx, s.ownerID, midnight)
	if err != nil {
		s.log.Warn(ctx, "remote event fetch failed, keeping local cache", "error", err)
		return local, nil
	}

	type groupKey struct {
		time string
		typ  models.ActivityType
	}
	events := make([]models.CareEvent, 0, len(rows))
	index := make(map[groupKey]int, len(rows))

	for _, row := range rows {
		key := groupKey{row.EventTime.In(now.Location()).Format("15:04"), row.EventType}
		if i, ok := index[key]; ok {
			ev := &events[i]
			if !slices.Contains(ev.ChildIDs, row.ChildID) {
				ev.ChildIDs = append(ev.ChildIDs, row.ChildID)
				ev.RemoteIDs = append(ev.RemoteIDs, row.ID)
			}
			continue
		}

		id := row.Details.LocalEventID
		if id == "" {
			id = models.NewID()
		}
		activity := row.Details.ActivityText
		if activity == "" {
			activity = string(row.EventType)
		}
		icon, color := row.Icon, row.Color
		if icon == "" {
			icon = "circle"
		}
		if color == "" {
			color = "blue"
		}
		index[key] = len(events)
		events = append(events, models.CareEvent{
			ID:        id,
			Time:      key.time,
			Type:      row.EventType,
			Activity:  activity,
			Icon:      icon,
			Color:     color,
			Details:   row.Details,
			ChildIDs:  []string{row.ChildID},
			Mood:      row.Mood,
			RemoteIDs: []string{row.ID},
		})
	}

	if err := s.persist(ctx, events); err != nil {
		return local, err
	}
	return events, nil
}

// CascadeChildDeletion removes childID from every event. Events left with no
// children are dropped; the rest get their display text regenerated from the
// remaining names. The child's remote rows are deleted wholesale.
func (s *EventService) CascadeChildDeletion(ctx context.Context, childID string) error {
	events, err := s.loadLocal(ctx)
	if err != nil {
		return err
	}

	kept := events[:0]
	for _, ev := range events {
		if !slices.Contains(ev.ChildIDs, childID) {
			kept = append(kept, ev)
			continue
		}
		remaining := make([]string, 0, len(ev.ChildIDs)-1)
		for _, id := range ev.ChildIDs {
			if id != childID {
				remaining = append(remaining, id)
			}
		}
		if len(remaining) == 0 {
			continue
		}
		ev.ChildIDs = remaining
		ev.Activity = s.relabel(ctx, ev.Activity, remaining)
		ev.Details.ActivityText = ev.Activity
		kept = append(kept, ev)
	}
	if err := s.persist(ctx, kept); err != nil {
		return err
	}

	if err := s.remote.DeleteEventsForChild(ctx, s.ownerID, childID); err != nil {
		s.log.Warn(ctx, "remote event cascade failed", "child_id", childID, "error", err)
	}
	return nil
}

// relabel rewrites the child-name prefix of a display text after the child
// set changed. Texts without a name prefix are left alone.
func (s *EventService) relabel(ctx context.Context, activity string, childIDs []string) string {
	parts := strings.SplitN(activity, ":", 2)
	if len(parts) != 2 {
		return activity
	}
	names := s.childNames(ctx, childIDs)
	if len(names) == 0 {
		return activity
	}
	return strings.Join(names, ", ") + ":" + parts[1]
}

// Statistics counts today's events per activity type.
func (s *EventService) Statistics(ctx context.Context) (map[models.ActivityType]int, error) {
	events, err := s.loadLocal(ctx)
	if err != nil {
		return nil, err
	}
	stats := map[models.ActivityType]int{
		models.ActivityFeeding: 0,
		models.ActivitySleep:   0,
		models.ActivityDiaper:  0,
		models.ActivityPlay:    0,
	}
	for _, ev := range events {
		stats[ev.Type]++
	}
	return stats, nil
}

// ExportProtocol renders today's events as a plain-text shift protocol,
// oldest first, for handover to the next caregiver.
func (s *EventService) ExportProtocol(ctx context.Context) (string, error) {
	events, err := s.loadLocal(ctx)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Care protocol %s\n\n", s.now().Format("2006-01-02"))
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		fmt.Fprintf(&b, "%s  %s", ev.Time, ev.Activity)
		if ev.Mood != "" {
			fmt.Fprintf(&b, "  %s", ev.Mood)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// activityText renders the display text for a draft: child names, activity
// title and the type-specific detail suffix.
func (s *EventService) activityText(ctx context.Context, draft EventDraft) string {
	text := titleFor(draft.Type)
	if names := s.childNames(ctx, draft.ChildIDs); len(names) > 0 {
		text = strings.Join(names, ", ") + ": " + text
	}
	switch draft.Type {
	case models.ActivityFeeding:
		if draft.Details.Food != "" {
			text += " - " + draft.Details.Food
		}
	case models.ActivitySleep:
		if draft.Details.From != "" {
			to := draft.Details.To
			if to == "" {
				to = "?"
			}
			text += " - " + draft.Details.From + " to " + to
		}
	case models.ActivityDiaper:
		if draft.Details.DiaperKind != "" {
			text += " - " + draft.Details.DiaperKind
		}
	case models.ActivityPlay:
		if draft.Details.PlayActivity != "" {
			text += " - " + draft.Details.PlayActivity
		}
	}
	return text
}

// childNames resolves profile ids to display names via the profiles
// snapshot, preserving the id order and skipping unknown ids.
func (s *EventService) childNames(ctx context.Context, childIDs []string) []string {
	var profiles []models.ProfileRecord
	if _, err := cache.GetJSON(ctx, s.store, common.KeyProfiles, &profiles); err != nil {
		s.log.Warn(ctx, "failed to load profiles for labels", "error", err)
		return nil
	}
	byID := make(map[string]string, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = profiles[i].DisplayName()
	}
	names := make([]string, 0, len(childIDs))
	for _, id := range childIDs {
		if name, ok := byID[id]; ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}

func titleFor(t models.ActivityType) string {
	switch t {
	case models.ActivityFeeding:
		return "Feeding"
	case models.ActivitySleep:
		return "Sleep"
	case models.ActivityDiaper:
		return "Diaper"
	case models.ActivityPlay:
		return "Play"
	default:
		return string(t)
	}
}

func iconFor(t models.ActivityType) string {
	switch t {
	case models.ActivityFeeding:
		return "mouth_fill"
	case models.ActivitySleep:
		return "moon_zzz_fill"
	case models.ActivityDiaper:
		return "drop_fill"
	case models.ActivityPlay:
		return "gamecontroller_fill"
	default:
		return "circle"
	}
}

func colorFor(t models.ActivityType) string {
	switch t {
	case models.ActivityFeeding:
		return "blue"
	case models.ActivitySleep:
		return "orange"
	case models.ActivityDiaper:
		return "green"
	case models.ActivityPlay:
		return "purple"
	default:
		return "blue"
	}
}

func (s *EventService) loadLocal(ctx context.Context) ([]models.CareEvent, error) {
	var events []models.CareEvent
	if _, err := cache.GetJSON(ctx, s.store, common.KeyEventsToday, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventService) persist(ctx context.Context, events []models.CareEvent) error {
	return cache.SetJSON(ctx, s.store, common.KeyEventsToday, events)
}
