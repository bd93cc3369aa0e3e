package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"circleops_backend/internals/features/ccbsync/model"
	leaderModel "circleops_backend/internals/features/circles/leaders/model"
)

// GormStore is the Postgres-backed Store.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) ActiveLeaders(ctx context.Context, f LeaderFilter) ([]leaderModel.CircleLeaderModel, error) {
	q := s.DB.WithContext(ctx).
		Where("circle_leader_status = ?", "active").
		Where("circle_leader_group_id <> ''")

	if f.LeaderID != nil {
		q = q.Where("circle_leader_id = ?", *f.LeaderID)
	}
	if f.OnlyUndiscovered {
		q = q.Where("circle_leader_event_ids IS NULL")
	}

	var leaders []leaderModel.CircleLeaderModel
	if err := q.Order("circle_leader_name asc").Find(&leaders).Error; err != nil {
		return nil, err
	}
	return leaders, nil
}

func (s *GormStore) SaveLeaderEventIDs(ctx context.Context, leaderID uuid.UUID, eventIDs []string) error {
	if eventIDs == nil {
		eventIDs = []string{} // store '{}', not NULL
	}
	return s.DB.WithContext(ctx).
		Model(&leaderModel.CircleLeaderModel{}).
		Where("circle_leader_id = ?", leaderID).
		Update("circle_leader_event_ids", pq.StringArray(eventIDs)).Error
}

func (s *GormStore) UpsertOccurrence(ctx context.Context, rec *model.CircleOccurrenceModel) (uuid.UUID, error) {
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "circle_occurrence_leader_id"},
			{Name: "circle_occurrence_meeting_date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"circle_occurrence_event_id",
			"circle_occurrence_status",
			"circle_occurrence_headcount",
			"circle_occurrence_regular_count",
			"circle_occurrence_visitor_count",
			"circle_occurrence_source",
			"circle_occurrence_raw_payload",
			"circle_occurrence_synced_at",
		}),
	}).Create(rec).Error
	if err != nil {
		return uuid.Nil, err
	}

	// On the conflict path gorm does not fill the existing row's id back in.
	var existing model.CircleOccurrenceModel
	err = s.DB.WithContext(ctx).
		Select("circle_occurrence_id").
		Where("circle_occurrence_leader_id = ? AND circle_occurrence_meeting_date = ?",
			rec.CircleOccurrenceLeaderID, rec.CircleOccurrenceMeetingDate).
		First(&existing).Error
	if err != nil {
		return uuid.Nil, err
	}
	return existing.CircleOccurrenceID, nil
}

func (s *GormStore) ReplaceAttendees(ctx context.Context, occurrenceID uuid.UUID, attendees []model.CircleAttendeeModel) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("circle_attendee_occurrence_id = ?", occurrenceID).
			Delete(&model.CircleAttendeeModel{}).Error; err != nil {
			return err
		}
		if len(attendees) == 0 {
			return nil
		}
		for i := range attendees {
			attendees[i].CircleAttendeeOccurrenceID = occurrenceID
		}
		return tx.CreateInBatches(attendees, 100).Error
	})
}

func (s *GormStore) UpsertRosterEntries(ctx context.Context, entries []model.CircleRosterEntryModel) error {
	if len(entries) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "circle_roster_entry_leader_id"},
			{Name: "circle_roster_entry_individual_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"circle_roster_entry_name",
			"circle_roster_entry_email",
			"circle_roster_entry_phone",
			"circle_roster_entry_fetched_at",
		}),
	}).CreateInBatches(entries, 100).Error
}

func (s *GormStore) OccurrencesForLeader(ctx context.Context, leaderID uuid.UUID, from, to time.Time) ([]model.CircleOccurrenceModel, error) {
	var recs []model.CircleOccurrenceModel
	err := s.DB.WithContext(ctx).
		Where("circle_occurrence_leader_id = ?", leaderID).
		Where("circle_occurrence_meeting_date BETWEEN ? AND ?", from, to).
		Order("circle_occurrence_meeting_date asc").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
