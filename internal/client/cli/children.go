package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sittersafe/carelog/internal/client/models"
)

// ListChildren prints the local profile set.
func (a *App) ListChildren(ctx context.Context) error {
	recs, err := a.profiles.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if len(recs) == 0 {
		printlnFn("No children yet, use 'addchild'")
		return nil
	}
	for _, rec := range recs {
		printlnFn(fmt.Sprintf("%s  %s", rec.ID, rec.DisplayName()))
	}
	return nil
}

// AddChild interactively collects a new profile. Only the name is required;
// the rest can be filled in later with the editing surfaces.
func (a *App) AddChild(ctx context.Context) error {
	var rec models.ProfileRecord

	name, err := getSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		return err
	}
	rec.Basis.Name = name

	if rec.Basis.Nickname, err = getSimpleText(a.reader, "Nickname (optional)", os.Stdout); err != nil {
		return err
	}
	if rec.Basis.Birthdate, err = getSimpleText(a.reader, "Birthdate (optional)", os.Stdout); err != nil {
		return err
	}
	if rec.Safety.Allergies, err = getSimpleText(a.reader, "Allergies (optional)", os.Stdout); err != nil {
		return err
	}
	if rec.Routine.BedtimeRitual, err = getSimpleText(a.reader, "Bedtime ritual (optional)", os.Stdout); err != nil {
		return err
	}

	saved, err := a.profiles.Add(ctx, rec)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	printlnFn("Added", saved.DisplayName(), "with id", saved.ID)
	return nil
}

// ShowChild prints one full profile.
func (a *App) ShowChild(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Child id", os.Stdout)
	if err != nil {
		return err
	}
	rec, err := a.profiles.Get(ctx, id)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	printlnFn("Name:          ", rec.Basis.Name)
	printlnFn("Nickname:      ", rec.Basis.Nickname)
	printlnFn("Birthdate:     ", rec.Basis.Birthdate)
	printlnFn("Allergies:     ", rec.Safety.Allergies)
	printlnFn("Medication:    ", rec.Safety.Medication)
	printlnFn("Doctor:        ", rec.Safety.Doctor)
	printlnFn("Meal plan:     ", rec.Routine.MealPlan)
	printlnFn("Bedtime ritual:", rec.Routine.BedtimeRitual)
	printlnFn("Screen time:   ", rec.Rules.ScreenTime)
	printlnFn("Fears:         ", rec.Psychology.Fears)
	printlnFn("Calming:       ", rec.Psychology.CalmingStrategy)
	return nil
}

// DeleteChild removes a profile and cascades into the event log.
func (a *App) DeleteChild(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Child id to delete", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.profiles.Delete(ctx, id); err != nil {
		log.Println(err.Error())
		return err
	}
	printlnFn("Deleted", id)
	return nil
}
