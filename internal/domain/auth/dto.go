package auth

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	District string `json:"district"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserPublic struct {
	ID       int64  `json:"id"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	District string `json:"district,omitempty"`
}

func toPublic(u *User) UserPublic {
	return UserPublic{
		ID:       u.ID,
		Role:     string(u.Role),
		Name:     u.Name,
		Email:    u.Email,
		District: u.District,
	}
}
