package models

type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type OTPVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}
