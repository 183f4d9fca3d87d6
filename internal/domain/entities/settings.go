package entities

// Profile is the editable part of a user account.
type Profile struct {
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Role     string  `json:"role"`
	Avatar   *string `json:"avatar"`
}

// Settings is the settings page payload.
type Settings struct {
	Profile       Profile              `json:"profile"`
	Notifications NotificationSettings `json:"notifications"`
}

type UpdateProfileInput struct {
	FullName *string `json:"fullName" binding:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=32"`
	Avatar   *string `json:"avatar" binding:"omitempty,max=2048"`
}

type UpdateNotificationsInput struct {
	OrderAlerts      *bool `json:"orderAlerts"`
	LowStockWarnings *bool `json:"lowStockWarnings"`
	WeeklyReports    *bool `json:"weeklyReports"`
}

// UpdateSettingsInput is a partial update of profile and notification toggles.
type UpdateSettingsInput struct {
	Profile       *UpdateProfileInput       `json:"profile"`
	Notifications *UpdateNotificationsInput `json:"notifications"`
}

// SettingsFromUser projects a user onto the settings payload.
func SettingsFromUser(u *User) *Settings {
	s := &Settings{
		Profile: Profile{
			FullName: u.Name,
			Email:    u.Email,
			Phone:    u.Phone.String,
			Role:     string(u.Role),
		},
		Notifications: u.Notifications,
	}
	if u.Avatar.Valid {
		avatar := u.Avatar.String
		s.Profile.Avatar = &avatar
	}
	return s
}
