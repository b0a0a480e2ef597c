package contract

const LeaderboardSize = 10

type RegisterRequest struct {
	Name       string `json:"name" validate:"required,notblank,max=80"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,max=72"`
	Department string `json:"department" validate:"max=100"`
	Year       int    `json:"year" validate:"min=0,max=10"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name       *string `json:"name" validate:"omitempty,notblank,max=80"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Year       *int    `json:"year" validate:"omitempty,min=0,max=10"`
}

type RegisterResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

// UserResponse is the caller's own profile. The password hash never leaves
// the service.
type UserResponse struct {
	ID         int64  `json:"id,string"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Year       int    `json:"year"`
	Credits    int    `json:"credits"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type LeaderboardEntry struct {
	ID      int64  `json:"id,string"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Credits int    `json:"credits"`
}
