package entities

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	UserID   int    `json:"user_id"`
	FullName string `json:"full_name"`
	UserType string `json:"user_type"`
	Token    string `json:"token"`
}

type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	PinCode  string `json:"pin_code"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}

type ProfileUpdateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
