// Package services contains the reconciliation core: the profile merge
// reconciler and the event aggregator. Both follow the same discipline:
// user actions hit the local cache synchronously, remote traffic happens
// afterwards and never blocks or fails the caller.
package services

import (
	"context"
	"fmt"

	"github.com/sittersafe/carelog/internal/client/cache"
	"github.com/sittersafe/carelog/internal/client/models"
	"github.com/sittersafe/carelog/internal/client/remote"
	"github.com/sittersafe/carelog/internal/client/tombstones"
	"github.com/sittersafe/carelog/internal/common"
	"github.com/sittersafe/carelog/internal/logging"
)

// PhotoArchiver mirrors a profile's inline photo into object storage. The
// archive is an optional extra copy; failures are logged and ignored.
type PhotoArchiver interface {
	Archive(ctx context.Context, profileID, photo string) error
	Remove(ctx context.Context, profileID string) error
}

// ProfileService owns the local profile set and reconciles it against the
// remote store. It is scoped to one authenticated owner and lives as long as
// the session does.
type ProfileService struct {
	ownerID string
	store   cache.Store
	remote  remote.Client
	graves  *tombstones.Tracker
	events  *EventService
	photos  PhotoArchiver // may be nil
	log     logging.Logger
}

func NewProfileService(ownerID string, store cache.Store, rc remote.Client,
	graves *tombstones.Tracker, events *EventService, photos PhotoArchiver, log logging.Logger) *ProfileService {
	return &ProfileService{
		ownerID: ownerID,
		store:   store,
		remote:  rc,
		graves:  graves,
		events:  events,
		photos:  photos,
		log:     log,
	}
}

// List returns the current local profile set.
func (s *ProfileService) List(ctx context.Context) ([]models.ProfileRecord, error) {
	return s.loadLocal(ctx)
}

// Get returns the profile with the given id from the local set.
func (s *ProfileService) Get(ctx context.Context, id string) (*models.ProfileRecord, error) {
	local, err := s.loadLocal(ctx)
	if err != nil {
		return nil, err
	}
	for i := range local {
		if local[i].ID == id {
			return &local[i], nil
		}
	}
	return nil, fmt.Errorf("profile %s: %w", id, common.ErrNotFound)
}

// Add persists a new profile locally, then pushes it to the remote store in
// the background manner: a remote failure is logged, the record stays
// local-only and is retried on the next reconciliation pass.
func (s *ProfileService) Add(ctx context.Context, rec models.ProfileRecord) (models.ProfileRecord, error) {
	if rec.Basis.Name == "" {
		return models.ProfileRecord{}, fmt.Errorf("profile name is required: %w", common.ErrValidation)
	}
	if rec.ID == "" {
		rec.ID = models.NewID()
	}

	local, err := s.loadLocal(ctx)
	if err != nil {
		return models.ProfileRecord{}, err
	}
	local = append(local, rec)
	if err := s.persist(ctx, local); err != nil {
		return models.ProfileRecord{}, err
	}

	s.push(ctx, rec)
	s.archivePhoto(ctx, rec)
	return rec, nil
}

// Update replaces an existing profile by id, locally first.
func (s *ProfileService) Update(ctx context.Context, rec models.ProfileRecord) error {
	local, err := s.loadLocal(ctx)
	if err != nil {
		return err
	}
	found := false
	for i := range local {
		if local[i].ID == rec.ID {
			local[i] = rec
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("profile %s: %w", rec.ID, common.ErrNotFound)
	}
	if err := s.persist(ctx, local); err != nil {
		return err
	}

	s.push(ctx, rec)
	s.archivePhoto(ctx, rec)
	return nil
}

// Delete removes the profile locally, records a tombstone so the next
// reconciliation cannot resurrect it, propagates the deletion to the remote
// store pessimistically and cascades into the event log.
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	local, err := s.loadLocal(ctx)
	if err != nil {
		return err
	}
	kept := local[:0]
	found := false
	for _, rec := range local {
		if rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	if !found {
		return fmt.Errorf("profile %s: %w", id, common.ErrNotFound)
	}
	if err := s.persist(ctx, kept); err != nil {
		return err
	}

	if err := s.graves.Record(ctx, id); err != nil {
		s.log.Warn(ctx, "failed to record deletion tombstone", "profile_id", id, "error", err)
	}

	if err := s.events.CascadeChildDeletion(ctx, id); err != nil {
		s.log.Warn(ctx, "failed to cascade profile deletion into events", "profile_id", id, "error", err)
	}

	if err := s.remote.DeleteProfile(ctx, s.ownerID, id); err != nil {
		s.log.Warn(ctx, "remote profile delete failed, tombstone will suppress resurrection", "profile_id", id, "error", err)
	}

	if s.photos != nil {
		if err := s.photos.Remove(ctx, id); err != nil {
			s.log.Warn(ctx, "failed to remove archived photo", "profile_id", id, "error", err)
		}
	}
	return nil
}

// Reconcile runs one full fetch-and-merge cycle between the local profile
// set and the remote store.
//
// Remote is authoritative for every field, with two local-only overrides
// that must survive a naive remote-wins merge:
//   - a photo taken offline that has not been uploaded yet
//   - a deletion performed within the tombstone recency window
//
// Local records absent from the remote set are pushed (once per pass) and
// kept. The merged set replaces the local snapshot wholesale, in a single
// atomic write.
func (s *ProfileService) Reconcile(ctx context.Context) ([]models.ProfileRecord, error) {
	local, err := s.loadLocal(ctx)
	if err != nil {
		return nil, err
	}

	remoteRows, err := s.remote.ListProfiles(ctx, s.ownerID)
	if err != nil {
		s.log.Warn(ctx, "remote profile fetch failed, keeping local cache", "error", err)
		return local, nil
	}

	localByID := make(map[string]models.ProfileRecord, len(local))
	for _, rec := range local {
		localByID[rec.ID] = rec
	}

	merged := make([]models.ProfileRecord, 0, len(remoteRows)+len(local))
	remoteIDs := make(map[string]struct{}, len(remoteRows))

	for _, row := range remoteRows {
		rec := row.Data
		if s.graves.IsRecentlyDeleted(ctx, rec.ID) {
			// Deleted here; the remote copy lags behind the pessimistic
			// delete, or that delete failed outright.
			continue
		}
		if row.AvatarPhoto != "" {
			rec.Basis.Photo = row.AvatarPhoto
		}
		if l, ok := localByID[rec.ID]; ok && rec.Basis.Photo == "" && l.Basis.Photo != "" {
			rec.Basis.Photo = l.Basis.Photo
		}
		merged = append(merged, rec)
		remoteIDs[rec.ID] = struct{}{}
	}

	for _, rec := range local {
		if _, ok := remoteIDs[rec.ID]; ok {
			continue
		}
		if s.graves.IsRecentlyDeleted(ctx, rec.ID) {
			// Intentionally deleted; remote has not caught up or the
			// deletion itself is still in flight.
			continue
		}
		s.push(ctx, rec)
		merged = append(merged, rec)
	}

	if err := s.graves.PurgeExpired(ctx); err != nil {
		s.log.Warn(ctx, "failed to purge expired tombstones", "error", err)
	}

	if err := s.persist(ctx, merged); err != nil {
		return local, err
	}
	return merged, nil
}

// push uploads one record to the remote store. Failures are soft.
func (s *ProfileService) push(ctx context.Context, rec models.ProfileRecord) {
	row := models.RemoteProfileRow{
		ID:          rec.ID,
		OwnerID:     s.ownerID,
		Data:        rec,
		AvatarPhoto: rec.Basis.Photo,
	}
	if err := s.remote.UpsertProfile(ctx, row); err != nil {
		s.log.Warn(ctx, "remote profile push failed, record stays local-only", "profile_id", rec.ID, "error", err)
	}
}

func (s *ProfileService) archivePhoto(ctx context.Context, rec models.ProfileRecord) {
	if s.photos == nil || rec.Basis.Photo == "" {
		return
	}
	if err := s.photos.Archive(ctx, rec.ID, rec.Basis.Photo); err != nil {
		s.log.Warn(ctx, "failed to archive photo", "profile_id", rec.ID, "error", err)
	}
}

func (s *ProfileService) loadLocal(ctx context.Context) ([]models.ProfileRecord, error) {
	var local []models.ProfileRecord
	if _, err := cache.GetJSON(ctx, s.store, common.KeyProfiles, &local); err != nil {
		return nil, err
	}
	return local, nil
}

func (s *ProfileService) persist(ctx context.Context, recs []models.ProfileRecord) error {
	return cache.SetJSON(ctx, s.store, common.KeyProfiles, recs)
}
