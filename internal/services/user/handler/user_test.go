package handler

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel-system/internal/database/memory"
	"hostel-system/internal/faults"
)

type captureSender struct {
	mu   sync.Mutex
	last string
}

func (s *captureSender) Send(_ context.Context, _, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = body
	return nil
}

func newTestUserHandler() (*UserHandler, *captureSender) {
	sender := &captureSender{}
	return NewUserHandler(memory.NewStore(), memory.NewOTPStore(), sender), sender
}

func registerAdmin(t *testing.T, h *UserHandler) RegisterAdminRequest {
	t.Helper()
	req := RegisterAdminRequest{
		Name:     "Warden",
		Email:    "warden@hostel.test",
		Phone:    "+919800000001",
		Password: "s3cret-pass",
	}
	_, err := h.RegisterAdmin(context.Background(), req)
	require.NoError(t, err)
	return req
}

func TestRegisterAndLoginAdmin(t *testing.T) {
	h, _ := newTestUserHandler()
	ctx := context.Background()

	admin, err := h.RegisterAdmin(ctx, RegisterAdminRequest{
		Name: "Warden", Email: "warden@hostel.test", Phone: "+919800000001", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Empty(t, admin.Password, "hash never leaves the handler")

	_, err = h.RegisterAdmin(ctx, RegisterAdminRequest{
		Name: "Other", Email: "warden@hostel.test", Phone: "+919800000002", Password: "x",
	})
	var conflict *faults.ConflictError
	assert.ErrorAs(t, err, &conflict)

	result, err := h.LoginAdmin(ctx, LoginRequest{Email: "warden@hostel.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Warden", result.Name)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	_, err = h.LoginAdmin(ctx, LoginRequest{Email: "warden@hostel.test", Password: "wrong"})
	var verr *faults.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = h.LoginAdmin(ctx, LoginRequest{Email: "nobody@hostel.test", Password: "x"})
	var nf *faults.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

var otpPattern = regexp.MustCompile(`\d{6}`)

func TestPasswordResetFlow(t *testing.T) {
	h, sender := newTestUserHandler()
	ctx := context.Background()
	admin := registerAdmin(t, h)

	err := h.SendOTP(ctx, SendOTPRequest{Email: admin.Email, Phone: admin.Phone})
	require.NoError(t, err)

	code := otpPattern.FindString(sender.last)
	require.Len(t, code, 6, "the code travels only by SMS")

	require.NoError(t, h.ValidateOTP(ctx, ValidateOTPRequest{Email: admin.Email, OTP: code}))

	err = h.ResetPassword(ctx, ResetPasswordRequest{Email: admin.Email, OTP: code, NewPassword: "brand-new-pass"})
	require.NoError(t, err)

	_, err = h.LoginAdmin(ctx, LoginRequest{Email: admin.Email, Password: "brand-new-pass"})
	require.NoError(t, err)
	_, err = h.LoginAdmin(ctx, LoginRequest{Email: admin.Email, Password: admin.Password})
	require.Error(t, err, "the old password no longer works")

	// The code is single-use.
	err = h.ResetPassword(ctx, ResetPasswordRequest{Email: admin.Email, OTP: code, NewPassword: "another-pass"})
	var verr *faults.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOTPRejections(t *testing.T) {
	h, sender := newTestUserHandler()
	ctx := context.Background()
	admin := registerAdmin(t, h)

	err := h.SendOTP(ctx, SendOTPRequest{Email: admin.Email, Phone: "+910000000000"})
	var nf *faults.NotFoundError
	assert.ErrorAs(t, err, &nf, "email and phone must match the same admin")

	require.NoError(t, h.SendOTP(ctx, SendOTPRequest{Email: admin.Email, Phone: admin.Phone}))
	code := otpPattern.FindString(sender.last)

	var verr *faults.ValidationError
	err = h.ValidateOTP(ctx, ValidateOTPRequest{Email: admin.Email, OTP: "000000"})
	if code == "000000" {
		t.Skip("generated code collided with the guess")
	}
	assert.ErrorAs(t, err, &verr)

	err = h.ResetPassword(ctx, ResetPasswordRequest{Email: admin.Email, OTP: code, NewPassword: ""})
	assert.ErrorAs(t, err, &verr)
}

func TestOTPExpiry(t *testing.T) {
	otps := memory.NewOTPStore()
	ctx := context.Background()

	require.NoError(t, otps.Put(ctx, "warden@hostel.test", "123456", -time.Second))
	_, err := otps.Get(ctx, "warden@hostel.test")
	var nf *faults.NotFoundError
	assert.ErrorAs(t, err, &nf)

	require.NoError(t, otps.Put(ctx, "warden@hostel.test", "123456", time.Minute))
	code, err := otps.Get(ctx, "warden@hostel.test")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)
}

var digitsOnly = regexp.MustCompile(`^\d{10}$`)

func TestRegisterAndLoginChief(t *testing.T) {
	h, _ := newTestUserHandler()
	ctx := context.Background()

	chief, err := h.RegisterChief(ctx, RegisterChiefRequest{
		Name:       "Asha",
		Mobile:     "+919800000002",
		Password:   "chief-pass",
		HostelName: "Ganga Hostel",
		HostelCode: "GH-01",
	})
	require.NoError(t, err)
	assert.Regexp(t, digitsOnly, chief.LoginID)
	assert.Empty(t, chief.Password)

	result, err := h.LoginChief(ctx, ChiefLoginRequest{LoginID: chief.LoginID, Password: "chief-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Asha", result.Name)

	var verr *faults.ValidationError
	_, err = h.LoginChief(ctx, ChiefLoginRequest{LoginID: chief.LoginID, Password: "wrong"})
	assert.ErrorAs(t, err, &verr)

	var nf *faults.NotFoundError
	_, err = h.LoginChief(ctx, ChiefLoginRequest{LoginID: "0000000000", Password: "x"})
	if chief.LoginID != "0000000000" {
		assert.ErrorAs(t, err, &nf)
	}
}

func TestStudentRoster(t *testing.T) {
	h, _ := newTestUserHandler()
	ctx := context.Background()

	student, err := h.CreateStudent(ctx, CreateStudentRequest{
		SSPID: "SSP-001", Name: "Ravi", Phone: "+919800000003", Room: "A-101",
	})
	require.NoError(t, err)
	assert.NotZero(t, student.ID)

	_, err = h.CreateStudent(ctx, CreateStudentRequest{SSPID: "SSP-001", Name: "Dup"})
	var conflict *faults.ConflictError
	assert.ErrorAs(t, err, &conflict)

	_, err = h.CreateStudent(ctx, CreateStudentRequest{Name: "No ID"})
	var verr *faults.ValidationError
	assert.ErrorAs(t, err, &verr)

	students, err := h.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	found, err := h.GetStudent(ctx, "SSP-001")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", found.Name)

	_, err = h.GetStudent(ctx, "SSP-404")
	var notFound *faults.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
