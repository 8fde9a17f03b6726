package models

// UserType distinguishes clients from pharmacy staff.
type UserType string

const (
	UserTypeClient     UserType = "client"
	UserTypePharmacist UserType = "pharmacist"
	UserTypeAdmin      UserType = "admin"
)

// User is the backend's user document.
type User struct {
	ID          string   `json:"_id,omitempty"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	UserType    UserType `json:"userType"`
	ContactNo   string   `json:"contactNo,omitempty"`
	Address     string   `json:"address,omitempty"`
	DateOfBirth *Date    `json:"dateOfBirth,omitempty"`
}

// IsClient reports whether the user is a client. Everybody else is staff.
func (u User) IsClient() bool {
	return u.UserType == UserTypeClient
}

// HomePath is where a user lands after logging in.
func (u User) HomePath() string {
	if u.IsClient() {
		return "/"
	}
	return "/admin"
}

// Credentials is the login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up body. UserType is always client from this console.
type Registration struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Address     string   `json:"address"`
	ContactNo   string   `json:"contactNo"`
	DateOfBirth *Date    `json:"dateOfBirth,omitempty"`
	UserType    UserType `json:"userType"`
}

// ProfileUpdate carries the editable profile fields. Email and userType are
// not sent.
type ProfileUpdate struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	ContactNo   string `json:"contactNo"`
	DateOfBirth *Date  `json:"dateOfBirth,omitempty"`
}

// Pharmacists filters users down to pharmacists.
func Pharmacists(users []User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.UserType == UserTypePharmacist {
			out = append(out, u)
		}
	}
	return out
}
