package domain

// SignupRequest - запрос на регистрацию
type SignupRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendOTPRequest - запрос на отправку OTP кода
type SendOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest - запрос на проверку OTP кода
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// AuthResponse - единый формат результата всех auth операций.
// Workflow-слой никогда не возвращает голые ошибки наружу: любой сбой
// превращается в {success:false, message}.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *UserSummary `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
	OTP     string       `json:"otp,omitempty"` // эхо кода, только вне production
}

// Fail создает ответ-отказ с заданным сообщением
func Fail(message string) *AuthResponse {
	return &AuthResponse{Success: false, Message: message}
}
