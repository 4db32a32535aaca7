package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null;default:public"`
	Phone        *string   `gorm:"column:phone"`
	Institution  *string   `gorm:"column:institution"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Session is one issued access token. Tokens carry the session id as their
// jti claim; revocation flips the flag here so a logged-out token can never
// authenticate again even before its expiry.
type Session struct {
	ID        string     `gorm:"primaryKey;column:id"`
	UserID    int64      `gorm:"column:user_id;not null;index"`
	IssuedAt  time.Time  `gorm:"column:issued_at;not null"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null"`
	Revoked   bool       `gorm:"column:revoked;default:false"`
	RevokedAt *time.Time `gorm:"column:revoked_at"`
}

func (Session) TableName() string {
	return "sessions"
}
