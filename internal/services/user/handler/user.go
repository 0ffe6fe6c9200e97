package handler

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
	"hostel-system/internal/notify"
	"hostel-system/internal/utils"
)

const (
	OTP_TTL       = 5 * time.Minute
	loginAttempts = 5
)

type Store interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	AdminByEmail(ctx context.Context, email string) (models.Admin, error)
	AdminByEmailAndPhone(ctx context.Context, email, phone string) (models.Admin, error)
	UpdateAdminPassword(ctx context.Context, email, passwordHash string) error
	CreateChief(ctx context.Context, chief *models.KitchenChief) error
	ChiefByLoginID(ctx context.Context, loginID string) (models.KitchenChief, error)
	CreateStudent(ctx context.Context, student *models.Student) error
	ListStudents(ctx context.Context) ([]models.Student, error)
	StudentBySSPID(ctx context.Context, sspID string) (models.Student, error)
}

// OTPStore holds password-reset codes with a TTL so they survive
// process restarts and are shared across server instances.
type OTPStore interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type UserHandler struct {
	store  Store
	otps   OTPStore
	sender notify.Sender
}

func NewUserHandler(store Store, otps OTPStore, sender notify.Sender) *UserHandler {
	return &UserHandler{
		store:  store,
		otps:   otps,
		sender: sender,
	}
}

type RegisterAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (s *UserHandler) RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (models.Admin, error) {
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		return models.Admin{}, faults.Validation("name, email, phone and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Admin{}, faults.Dependency("hash password", err)
	}

	admin := models.Admin{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hash),
	}
	if err := s.store.CreateAdmin(ctx, &admin); err != nil {
		return models.Admin{}, err
	}
	admin.Password = ""
	return admin, nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Name      string    `json:"name"`
}

func (s *UserHandler) LoginAdmin(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return LoginResult{}, faults.Validation("email and password are required")
	}

	admin, err := s.store.AdminByEmail(ctx, req.Email)
	if err != nil {
		return LoginResult{}, faults.NotFound("admin", req.Email)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
		return LoginResult{}, faults.Validation("incorrect password")
	}

	token, exp, err := utils.GenerateToken(int64(admin.ID), admin.Email, "admin", 24*time.Hour)
	if err != nil {
		return LoginResult{}, faults.Dependency("generate token", err)
	}
	return LoginResult{Token: token, ExpiresAt: exp, Name: admin.Name}, nil
}

type SendOTPRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SendOTP generates a 6-digit code, stores it with a TTL and sends it
// to the admin's phone. The code is never returned in the response.
func (s *UserHandler) SendOTP(ctx context.Context, req SendOTPRequest) error {
	admin, err := s.store.AdminByEmailAndPhone(ctx, req.Email, req.Phone)
	if err != nil {
		return faults.NotFound("admin", req.Email)
	}

	code, err := randomDigits(6)
	if err != nil {
		return faults.Dependency("generate otp", err)
	}
	if err := s.otps.Put(ctx, admin.Email, code, OTP_TTL); err != nil {
		return faults.Dependency("store otp", err)
	}

	if s.sender != nil {
		body := fmt.Sprintf("Your hostel admin password reset code is %s. It expires in 5 minutes.", code)
		if err := s.sender.Send(ctx, admin.Phone, body); err != nil {
			return faults.Dependency("send otp", err)
		}
	}
	return nil
}

type ValidateOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (s *UserHandler) ValidateOTP(ctx context.Context, req ValidateOTPRequest) error {
	stored, err := s.otps.Get(ctx, req.Email)
	if err != nil || stored != req.OTP {
		return faults.Validation("invalid or expired OTP")
	}
	return nil
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (s *UserHandler) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if req.NewPassword == "" {
		return faults.Validation("a new password is required")
	}
	if err := s.ValidateOTP(ctx, ValidateOTPRequest{Email: req.Email, OTP: req.OTP}); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return faults.Dependency("hash password", err)
	}
	if err := s.store.UpdateAdminPassword(ctx, req.Email, string(hash)); err != nil {
		return err
	}
	return s.otps.Delete(ctx, req.Email)
}

type RegisterChiefRequest struct {
	Name       string `json:"name"`
	Mobile     string `json:"mobile"`
	Password   string `json:"password"`
	HostelName string `json:"hostelName"`
	HostelCode string `json:"hostelCode"`
}

// RegisterChief assigns a fresh 10-digit login ID, retrying on the
// unlikely collision with an existing chief.
func (s *UserHandler) RegisterChief(ctx context.Context, req RegisterChiefRequest) (models.KitchenChief, error) {
	if req.Name == "" || req.Mobile == "" || req.Password == "" {
		return models.KitchenChief{}, faults.Validation("name, mobile and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.KitchenChief{}, faults.Dependency("hash password", err)
	}

	var lastErr error
	for i := 0; i < loginAttempts; i++ {
		loginID, err := randomDigits(10)
		if err != nil {
			return models.KitchenChief{}, faults.Dependency("generate login id", err)
		}
		chief := models.KitchenChief{
			LoginID:    loginID,
			Name:       req.Name,
			Mobile:     req.Mobile,
			Password:   string(hash),
			HostelName: req.HostelName,
			HostelCode: req.HostelCode,
		}
		lastErr = s.store.CreateChief(ctx, &chief)
		if lastErr == nil {
			chief.Password = ""
			return chief, nil
		}
	}
	return models.KitchenChief{}, lastErr
}

type ChiefLoginRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
}

func (s *UserHandler) LoginChief(ctx context.Context, req ChiefLoginRequest) (LoginResult, error) {
	if req.LoginID == "" || req.Password == "" {
		return LoginResult{}, faults.Validation("login id and password are required")
	}

	chief, err := s.store.ChiefByLoginID(ctx, req.LoginID)
	if err != nil {
		return LoginResult{}, faults.NotFound("kitchen chief", req.LoginID)
	}
	if bcrypt.CompareHashAndPassword([]byte(chief.Password), []byte(req.Password)) != nil {
		return LoginResult{}, faults.Validation("incorrect password")
	}

	token, exp, err := utils.GenerateToken(int64(chief.ID), chief.LoginID, "chief", 24*time.Hour)
	if err != nil {
		return LoginResult{}, faults.Dependency("generate token", err)
	}
	return LoginResult{Token: token, ExpiresAt: exp, Name: chief.Name}, nil
}

type CreateStudentRequest struct {
	SSPID string `json:"sspId"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Room  string `json:"room"`
}

func (s *UserHandler) CreateStudent(ctx context.Context, req CreateStudentRequest) (models.Student, error) {
	if req.SSPID == "" || req.Name == "" {
		return models.Student{}, faults.Validation("ssp id and name are required")
	}

	student := models.Student{
		SSPID: req.SSPID,
		Name:  req.Name,
		Phone: req.Phone,
		Room:  req.Room,
	}
	if err := s.store.CreateStudent(ctx, &student); err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (s *UserHandler) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.store.ListStudents(ctx)
}

func (s *UserHandler) GetStudent(ctx context.Context, sspID string) (models.Student, error) {
	return s.store.StudentBySSPID(ctx, sspID)
}

// randomDigits draws n crypto-random decimal digits.
func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}
