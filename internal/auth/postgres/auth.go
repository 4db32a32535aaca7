package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/endemicwatch/endemic-monitoring/internal/auth"
	userDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/user"
)

// AuthRepository implements auth.RepositoryAPI using GORM
type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.RepositoryAPI {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) CreateUser(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *AuthRepository) GetUserByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) GetUserByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) CreateSession(s *userDatamodel.Session) error {
	return r.db.Create(s).Error
}

func (r *AuthRepository) GetSession(id string) (*userDatamodel.Session, error) {
	var s userDatamodel.Session
	err := r.db.Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// RevokeSession marks the session revoked. Unknown ids are a no-op so
// logout stays idempotent.
func (r *AuthRepository) RevokeSession(id string) error {
	now := time.Now()
	return r.db.Model(&userDatamodel.Session{}).
		Where("id = ? AND revoked = ?", id, false).
		Updates(map[string]interface{}{
			"revoked":    true,
			"revoked_at": now,
		}).Error
}
