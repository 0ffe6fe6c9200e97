package handlers

import (
	"github.com/gin-gonic/gin"

	user "hostel-system/internal/services/user/handler"
)

type UserHTTPHandler struct {
	user *user.UserHandler
}

func NewUserHTTPHandler(handler *user.UserHandler) *UserHTTPHandler {
	return &UserHTTPHandler{user: handler}
}

func (s *UserHTTPHandler) RegisterAdmin(c *gin.Context) {
	var req user.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	admin, err := s.user.RegisterAdmin(c.Request.Context(), req)
	if err != nil {
		respondFault(c, err)
		return
	}
	created(c, admin)
}

func (s *UserHTTPHandler) LoginAdmin(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.user.LoginAdmin(c.Request.Context(), req)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, result)
}

func (s *UserHTTPHandler) SendOTP(c *gin.Context) {
	var req user.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := s.user.SendOTP(c.Request.Context(), req); err != nil {
		respondFault(c, err)
		return
	}
	success(c, gin.H{"message": "OTP sent"})
}

func (s *UserHTTPHandler) ValidateOTP(c *gin.Context) {
	var req user.ValidateOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := s.user.ValidateOTP(c.Request.Context(), req); err != nil {
		respondFault(c, err)
		return
	}
	success(c, gin.H{"message": "OTP validated"})
}

func (s *UserHTTPHandler) ResetPassword(c *gin.Context) {
	var req user.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := s.user.ResetPassword(c.Request.Context(), req); err != nil {
		respondFault(c, err)
		return
	}
	success(c, gin.H{"message": "password reset successful"})
}

func (s *UserHTTPHandler) RegisterChief(c *gin.Context) {
	var req user.RegisterChiefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	chief, err := s.user.RegisterChief(c.Request.Context(), req)
	if err != nil {
		respondFault(c, err)
		return
	}
	created(c, chief)
}

func (s *UserHTTPHandler) LoginChief(c *gin.Context) {
	var req user.ChiefLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.user.LoginChief(c.Request.Context(), req)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, result)
}

func (s *UserHTTPHandler) CreateStudent(c *gin.Context) {
	var req user.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	student, err := s.user.CreateStudent(c.Request.Context(), req)
	if err != nil {
		respondFault(c, err)
		return
	}
	created(c, student)
}

func (s *UserHTTPHandler) ListStudents(c *gin.Context) {
	students, err := s.user.ListStudents(c.Request.Context())
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, students)
}

func (s *UserHTTPHandler) GetStudent(c *gin.Context) {
	sspID := c.Param("sspId")
	if sspID == "" {
		badRequest(c, "Student SSP ID is required")
		return
	}

	student, err := s.user.GetStudent(c.Request.Context(), sspID)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, student)
}
