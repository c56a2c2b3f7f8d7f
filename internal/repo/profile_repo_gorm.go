package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fitdesk/internal/domain"
	"fitdesk/internal/feature/account"
	"fitdesk/pkg/utils"
)

type ProfileRepo struct{ db *gorm.DB }

func NewProfileRepo(db *gorm.DB) *ProfileRepo { return &ProfileRepo{db: db} }

var onUserConflict = []clause.Column{{Name: "user_id"}}

func (r *ProfileRepo) CreateClientProfile(ctx context.Context, userID string) error {
	m := account.ClientModel{ID: utils.NewID(), UserID: userID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: onUserConflict, DoNothing: true}).
		Create(&m).Error
}

func (r *ProfileRepo) CreateTrainerProfile(ctx context.Context, userID string) error {
	m := account.TrainerModel{ID: utils.NewID(), UserID: userID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: onUserConflict, DoNothing: true}).
		Create(&m).Error
}

func (r *ProfileRepo) FindClientProfile(ctx context.Context, userID string) (*domain.ClientProfile, error) {
	var m account.ClientModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := m.ToProfile()
	return &p, nil
}

func (r *ProfileRepo) ListClientProfiles(ctx context.Context) ([]domain.ClientProfile, error) {
	var ms []account.ClientModel
	if err := r.db.WithContext(ctx).Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ClientProfile, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToProfile())
	}
	return out, nil
}

// UpsertAssignment creates the client row when missing, otherwise only
// replaces assigned_trainer_id.
func (r *ProfileRepo) UpsertAssignment(ctx context.Context, clientUserID, trainerUserID string) (*domain.ClientProfile, error) {
	tid := trainerUserID
	m := account.ClientModel{ID: utils.NewID(), UserID: clientUserID, AssignedTrainerID: &tid}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   onUserConflict,
			DoUpdates: clause.AssignmentColumns([]string{"assigned_trainer_id", "updated_at"}),
		}).
		Create(&m).Error
	if err != nil {
		return nil, err
	}
	// the generated id is discarded on conflict, read the row back
	p, err := r.FindClientProfile(ctx, clientUserID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.New("client profile vanished after upsert")
	}
	return p, nil
}

// ClearAssignment affecting zero rows is not an error.
func (r *ProfileRepo) ClearAssignment(ctx context.Context, clientUserID string) error {
	return r.db.WithContext(ctx).Model(&account.ClientModel{}).
		Where("user_id = ?", clientUserID).
		Update("assigned_trainer_id", nil).Error
}

func (r *ProfileRepo) ClearTrainerAssignments(ctx context.Context, trainerUserID string) error {
	return r.db.WithContext(ctx).Model(&account.ClientModel{}).
		Where("assigned_trainer_id = ?", trainerUserID).
		Update("assigned_trainer_id", nil).Error
}

func (r *ProfileRepo) DeleteProfiles(ctx context.Context, userID string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Delete(&account.ClientModel{}).Error; err != nil {
		return err
	}
	return db.Where("user_id = ?", userID).Delete(&account.TrainerModel{}).Error
}
