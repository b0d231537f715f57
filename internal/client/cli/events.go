package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sittersafe/carelog/internal/client/models"
	"github.com/sittersafe/carelog/internal/client/services"
	carelogsync "github.com/sittersafe/carelog/internal/client/sync"
)

// LogEvent interactively collects and saves one care event.
func (a *App) LogEvent(ctx context.Context) error {
	kind, err := getSimpleText(a.reader, "Activity (feeding, sleep, diaper, play)", os.Stdout)
	if err != nil {
		return err
	}

	draft := services.EventDraft{Type: models.ActivityType(strings.ToLower(kind))}

	ids, err := getSimpleText(a.reader, "Child ids (comma separated)", os.Stdout)
	if err != nil {
		return err
	}
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			draft.ChildIDs = append(draft.ChildIDs, id)
		}
	}

	switch draft.Type {
	case models.ActivityFeeding:
		if draft.Details.Food, err = getSimpleText(a.reader, "Food", os.Stdout); err != nil {
			return err
		}
		if draft.Details.Amount, err = getSimpleText(a.reader, "Amount (optional)", os.Stdout); err != nil {
			return err
		}
	case models.ActivitySleep:
		if draft.Details.From, err = getSimpleText(a.reader, "From (HH:MM)", os.Stdout); err != nil {
			return err
		}
		if draft.Details.To, err = getSimpleText(a.reader, "To (HH:MM)", os.Stdout); err != nil {
			return err
		}
	case models.ActivityDiaper:
		if draft.Details.DiaperKind, err = getSimpleText(a.reader, "Kind (wet, dirty)", os.Stdout); err != nil {
			return err
		}
	case models.ActivityPlay:
		if draft.Details.PlayActivity, err = getSimpleText(a.reader, "Activity", os.Stdout); err != nil {
			return err
		}
	default:
		printlnFn("Unknown activity:", kind)
		return nil
	}

	if draft.Mood, err = getSimpleText(a.reader, "Mood (optional)", os.Stdout); err != nil {
		return err
	}
	if draft.Details.Notes, err = GetMultiline(a.reader, "Notes (optional)", os.Stdout); err != nil {
		return err
	}

	ev, err := a.events.Log(ctx, draft)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	printlnFn("Logged", ev.Time, ev.Activity)
	return nil
}

// ListEvents prints today's events, newest first.
func (a *App) ListEvents(ctx context.Context) error {
	events, err := a.events.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if len(events) == 0 {
		printlnFn("No events today")
		return nil
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s  %s  %s", ev.ID, ev.Time, ev.Activity)
		if ev.Mood != "" {
			line += "  " + ev.Mood
		}
		printlnFn(line)
	}
	return nil
}

// DeleteEvent removes one event and cleans up its remote rows.
func (a *App) DeleteEvent(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Event id to delete", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.events.Delete(ctx, id); err != nil {
		log.Println(err.Error())
		return err
	}
	printlnFn("Deleted", id)
	return nil
}

// Stats prints today's per-activity counts.
func (a *App) Stats(ctx context.Context) error {
	stats, err := a.events.Statistics(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	for _, typ := range []models.ActivityType{
		models.ActivityFeeding, models.ActivitySleep, models.ActivityDiaper, models.ActivityPlay,
	} {
		printlnFn(fmt.Sprintf("%-8s %d", typ, stats[typ]))
	}
	return nil
}

// Protocol prints the plain-text shift protocol for handover.
func (a *App) Protocol(ctx context.Context) error {
	text, err := a.events.ExportProtocol(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if text == "" {
		printlnFn("No events today")
		return nil
	}
	printlnFn(text)
	return nil
}

// Sync runs a full reconciliation pass synchronously.
func (a *App) Sync(ctx context.Context) error {
	a.orch.RunPass(ctx, carelogsync.TriggerBecameActive)
	printlnFn("Sync complete")
	return nil
}
