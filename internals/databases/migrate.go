package database

import (
	"log"

	ccbModel "circleops_backend/internals/features/ccbsync/model"
	campusModel "circleops_backend/internals/features/circles/campuses/model"
	leaderModel "circleops_backend/internals/features/circles/leaders/model"
	noteModel "circleops_backend/internals/features/circles/notes/model"
	scorecardModel "circleops_backend/internals/features/circles/scorecards/model"
	userModel "circleops_backend/internals/features/users/model"
)

// AutoMigrate keeps the schema in step with the models. Safe to run on every
// boot; gorm only issues additive DDL.
func AutoMigrate() {
	err := DB.AutoMigrate(
		&userModel.UserModel{},
		&campusModel.CampusModel{},
		&leaderModel.CircleLeaderModel{},
		&scorecardModel.ScorecardModel{},
		&noteModel.FollowUpNoteModel{},
		&ccbModel.CircleOccurrenceModel{},
		&ccbModel.CircleAttendeeModel{},
		&ccbModel.CircleRosterEntryModel{},
	)
	if err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}
	log.Println("✅ Schema migrated.")
}
