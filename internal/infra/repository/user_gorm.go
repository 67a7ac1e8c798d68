package repository

import (
	"context"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
	repo "github.com/mayankmishra0403/printhub/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) repo.UserRepository {
	return &userGormRepository{db: db}
}

func (r *userGormRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return model.User{}, mapError(err)
	}
	return u, nil
}

func (r *userGormRepository) FindBySubject(ctx context.Context, subject string) (model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("subject = ?", subject).First(&u).Error; err != nil {
		return model.User{}, mapError(err)
	}
	return u, nil
}

func (r *userGormRepository) Upsert(ctx context.Context, user model.User) (model.User, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "full_name", "updated_at"}),
		}).
		Create(&user).Error
	if err != nil {
		return model.User{}, mapError(err)
	}
	// the row may predate this call, so its id and role come from the table
	return r.FindBySubject(ctx, user.Subject)
}
