package dto

import "github.com/storely/auth-service/internal/domain"

type UserView struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Active     bool     `json:"active"`
	Name       string   `json:"name,omitempty"`
	Surname    string   `json:"surname,omitempty"`
	ProfilePic string   `json:"profile_pic,omitempty"`
	Roles      []string `json:"roles"`
}

type TokensView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type LoginData struct {
	User   UserView   `json:"user"`
	Tokens TokensView `json:"tokens"`
}

type RefreshData struct {
	Tokens TokensView `json:"tokens"`
}

func NewUserView(u domain.User) UserView {
	roles := u.RoleNames()
	if roles == nil {
		roles = []string{}
	}
	return UserView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Active:     u.Active,
		Name:       u.Name,
		Surname:    u.Surname,
		ProfilePic: u.ProfilePic,
		Roles:      roles,
	}
}

func NewUserViews(users []domain.User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserView(u))
	}
	return out
}
