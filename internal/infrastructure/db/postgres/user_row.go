package postgres

import (
	"database/sql"

	"github.com/storely/auth-service/internal/domain"
)

type userRow struct {
	ID                string
	Username          string
	Email             string
	PasswordHash      string
	AccessFailedCount int
	LockoutEnd        sql.NullTime
	RefreshToken      sql.NullString
	Active            bool
	Name              sql.NullString
	Surname           sql.NullString
	ProfilePic        sql.NullString
}

func (ur userRow) toDomain() domain.User {
	u := domain.User{
		ID:                ur.ID,
		Username:          ur.Username,
		Email:             ur.Email,
		PasswordHash:      ur.PasswordHash,
		AccessFailedCount: ur.AccessFailedCount,
		Active:            ur.Active,
		Name:              ur.Name.String,
		Surname:           ur.Surname.String,
		ProfilePic:        ur.ProfilePic.String,
		RefreshToken:      ur.RefreshToken.String,
	}
	if ur.LockoutEnd.Valid {
		t := ur.LockoutEnd.Time
		u.LockoutEnd = &t
	}
	return u
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTimePtr(u domain.User) sql.NullTime {
	if u.LockoutEnd == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *u.LockoutEnd, Valid: true}
}
