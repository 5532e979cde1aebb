package handlers

import (
	"DentistAPI/middlewares"
	"DentistAPI/models"
	"DentistAPI/repositories"
	"DentistAPI/services"
	"DentistAPI/utils"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeCredentials serves both the credential and the patient repository.
type fakeCredentials struct {
	byIdentity map[string]*models.Credential
}

func identityKey(phoneNumber int64, name string) string {
	return fmt.Sprintf("%d/%s", phoneNumber, name)
}

func (f *fakeCredentials) add(c *models.Credential) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.byIdentity[identityKey(c.PhoneNumber, c.Name)] = c
}

func (f *fakeCredentials) byID(id uuid.UUID) *models.Credential {
	for _, c := range f.byIdentity {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f *fakeCredentials) FindByIdentity(_ context.Context, phoneNumber int64, name string) (*models.Credential, error) {
	return f.byIdentity[identityKey(phoneNumber, name)], nil
}

func (f *fakeCredentials) Create(_ context.Context, c *models.Credential) error {
	if _, ok := f.byIdentity[identityKey(c.PhoneNumber, c.Name)]; ok {
		return repositories.ErrDuplicate
	}
	f.add(c)
	return nil
}

func (f *fakeCredentials) SetInitialPassword(_ context.Context, id uuid.UUID, hash string) (bool, error) {
	c := f.byID(id)
	if c == nil {
		return false, repositories.ErrNotFound
	}
	if c.Password != "" {
		return false, nil
	}
	c.Password = hash
	return true, nil
}

func (f *fakeCredentials) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	c := f.byID(id)
	if c == nil {
		return repositories.ErrNotFound
	}
	c.Password = hash
	return nil
}

func (f *fakeCredentials) UpdatePhoneNumber(_ context.Context, id uuid.UUID, phoneNumber int64) error {
	c := f.byID(id)
	if c == nil {
		return repositories.ErrNotFound
	}
	delete(f.byIdentity, identityKey(c.PhoneNumber, c.Name))
	c.PhoneNumber = phoneNumber
	f.add(c)
	return nil
}

func (f *fakeCredentials) CreateWithDetails(ctx context.Context, c *models.Credential, d *models.PatientDetails) error {
	c.Details = d
	return f.Create(ctx, c)
}

func (f *fakeCredentials) ListByPhoneNumber(_ context.Context, phoneNumber int64) ([]models.Credential, error) {
	var out []models.Credential
	for _, c := range f.byIdentity {
		if c.PhoneNumber == phoneNumber && c.Role == models.RolePatient {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCredentials) List(context.Context, repositories.PatientFilter) ([]models.Credential, error) {
	return nil, nil
}

func (f *fakeCredentials) UpdateMedicalDetails(_ context.Context, id uuid.UUID, details repositories.MedicalDetails) error {
	c := f.byID(id)
	if c == nil || c.Details == nil {
		return repositories.ErrNotFound
	}
	c.Details.Allergies = details.Allergies
	c.Details.Illnesses = details.Illnesses
	return nil
}

type noComplaints struct{}

func (noComplaints) Create(context.Context, *models.Complaint) error { return nil }
func (noComplaints) FindByID(context.Context, uuid.UUID) (*models.Complaint, error) {
	return nil, nil
}
func (noComplaints) ListRegisteredBetween(context.Context, time.Time, time.Time) ([]models.Complaint, error) {
	return nil, nil
}
func (noComplaints) ListByCredential(context.Context, uuid.UUID) ([]models.Complaint, error) {
	return nil, nil
}

type noFollowUps struct{}

func (noFollowUps) Create(context.Context, *models.FollowUp) error { return nil }
func (noFollowUps) FindByID(context.Context, uuid.UUID) (*models.FollowUp, error) {
	return nil, nil
}
func (noFollowUps) ExistsNumber(context.Context, uuid.UUID, int) (bool, error) { return false, nil }
func (noFollowUps) Update(context.Context, uuid.UUID, repositories.FollowUpUpdate) error {
	return repositories.ErrNotFound
}
func (noFollowUps) ListByComplaint(context.Context, uuid.UUID) ([]models.FollowUp, error) {
	return nil, nil
}
func (noFollowUps) ListByDate(context.Context, time.Time) ([]models.FollowUp, error) {
	return nil, nil
}

type testServer struct {
	router      *gin.Engine
	tokens      *utils.TokenService
	credentials *fakeCredentials
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	tokens, err := utils.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	clock := utils.NewFixedClock(time.Date(2024, time.March, 14, 10, 30, 0, 0, time.UTC))
	credentials := &fakeCredentials{byIdentity: map[string]*models.Credential{}}

	auth := NewAuthHandler(services.NewAuthService(credentials, tokens, utils.NewPasswordHasher(4), log))
	patient := NewPatientHandler(services.NewPatientService(credentials, noComplaints{}, nil, noFollowUps{}, nil, clock, log))
	complaint := NewComplaintHandler(services.NewComplaintService(credentials, noComplaints{}, clock, log))
	diagnosis := NewDiagnosisHandler(services.NewDiagnosisService(noComplaints{}, nil, nil, log))
	followUp := NewFollowUpHandler(services.NewFollowUpService(noComplaints{}, noFollowUps{}, clock, log))

	staff := middlewares.RequireRoles(tokens, models.RoleAdmin, models.RoleDentist)
	dentist := middlewares.RequireRoles(tokens, models.RoleDentist)

	router := gin.New()
	router.POST("/signup", auth.Signup)
	router.POST("/login", auth.Login)
	router.POST("/password", staff, auth.ResetPassword)
	router.GET("/patient/medical_details", middlewares.RequireRoles(tokens), patient.OwnMedicalDetails)
	router.GET("/patient/medical_details/:phonenumber/:name", dentist, patient.MedicalDetails)
	router.GET("/patients/:phonenumber", staff, patient.ListByPhoneNumber)
	router.POST("/patient/complaints", staff, complaint.RegisterComplaint)
	router.GET("/patient/diagnosis/:complaint_id", dentist, diagnosis.ListDiagnoses)
	router.GET("/patient/followup", staff, followUp.TodaysFollowUps)

	return &testServer{router: router, tokens: tokens, credentials: credentials}
}

func (s *testServer) token(t *testing.T, role models.Role, phoneNumber int64, name string) string {
	t.Helper()
	token, err := s.tokens.Issue(role, phoneNumber, name)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, out
}

func TestSignupThenLogin(t *testing.T) {
	srv := newTestServer(t)
	srv.credentials.add(&models.Credential{
		PhoneNumber: 9876543211,
		Name:        "Asha Rao",
		Role:        models.RolePatient,
		Details:     &models.PatientDetails{Allergies: "Penicillin"},
	})

	creds := map[string]interface{}{"phonenumber": "9876543211", "name": "asha rao", "password": "Secret123"}

	w, body := srv.do(t, http.MethodPost, "/signup", "", creds)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %v", w.Code, body)
	}
	if body["message"] != "Signup successful!" || body["token"] == "" {
		t.Errorf("unexpected signup body %v", body)
	}

	w, body = srv.do(t, http.MethodPost, "/signup", "", creds)
	if w.Code != http.StatusConflict || body["error"] != "Password already set for this phonenumber" {
		t.Errorf("second signup = %d %v", w.Code, body)
	}

	wrong := map[string]interface{}{"phonenumber": 9876543211, "name": "Asha Rao", "password": "Wrong1234"}
	w, body = srv.do(t, http.MethodPost, "/login", "", wrong)
	if w.Code != http.StatusConflict || body["error"] != "Incorrect password" {
		t.Errorf("wrong password login = %d %v", w.Code, body)
	}

	w, body = srv.do(t, http.MethodPost, "/login", "", creds)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %v", w.Code, body)
	}
	token, _ := body["token"].(string)
	claims, err := srv.tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Role != models.RolePatient || claims.Name != "Asha Rao" || claims.PhoneNumber != 9876543211 {
		t.Errorf("unexpected claims %+v", claims)
	}

	w, body = srv.do(t, http.MethodGet, "/patient/medical_details", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("medical details status = %d, body %v", w.Code, body)
	}
	details, _ := body["medical_details"].(map[string]interface{})
	allergies, _ := details["allergies"].([]interface{})
	if len(allergies) != 1 || allergies[0] != "Penicillin" {
		t.Errorf("allergies = %v", details["allergies"])
	}
}

func TestLoginBeforeSignup(t *testing.T) {
	srv := newTestServer(t)
	srv.credentials.add(&models.Credential{PhoneNumber: 9876543211, Name: "Asha Rao", Role: models.RolePatient})

	w, body := srv.do(t, http.MethodPost, "/login", "", map[string]interface{}{
		"phonenumber": 9876543211, "name": "Asha Rao", "password": "Secret123",
	})
	if w.Code != http.StatusConflict || body["error"] != "You haven't set up your password. Signup first!" {
		t.Errorf("login = %d %v", w.Code, body)
	}
}

func TestResetPasswordPrivilege(t *testing.T) {
	srv := newTestServer(t)
	srv.credentials.add(&models.Credential{PhoneNumber: 9876543210, Name: "Ravi Kumar", Role: models.RoleDentist, Password: "hash"})
	admin := srv.token(t, models.RoleAdmin, 9876543200, "Front Desk")

	w, body := srv.do(t, http.MethodPost, "/password", admin, map[string]interface{}{"name": "Ravi Kumar", "phonenumber": 9876543210})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("admin resetting dentist = %d %v", w.Code, body)
	}

	dentist := srv.token(t, models.RoleDentist, 9876543210, "Ravi Kumar")
	w, body = srv.do(t, http.MethodPost, "/password", dentist, map[string]interface{}{"name": "Ravi Kumar", "phonenumber": 9876543210})
	if w.Code != http.StatusOK || body["message"] != "Password has been reset" {
		t.Errorf("dentist reset = %d %v", w.Code, body)
	}
}

func TestRequestErrors(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.token(t, models.RoleAdmin, 9876543200, "Front Desk")
	dentist := srv.token(t, models.RoleDentist, 9876543210, "Ravi Kumar")
	patient := srv.token(t, models.RolePatient, 9876543211, "Asha Rao")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       interface{}
		wantStatus int
		wantError  string
	}{
		{
			name: "malformed json", method: http.MethodPost, path: "/login",
			body: `{"phonenumber":`, wantStatus: http.StatusBadRequest, wantError: "Invalid request body",
		},
		{
			name: "phone number with letters", method: http.MethodPost, path: "/login",
			body: `{"phonenumber":"98765abc10","name":"Asha Rao","password":"Secret123"}`, wantStatus: http.StatusBadRequest, wantError: "Invalid request body",
		},
		{
			name: "unregistered patient complaint", method: http.MethodPost, path: "/patient/complaints", token: admin,
			body: map[string]interface{}{
				"phonenumber": 9876543219,
				"complaint":   map[string]interface{}{"name": "Nobody Here", "chief_complaint": "Toothache"},
			},
			wantStatus: http.StatusNotFound, wantError: "User is not registered. Register them please",
		},
		{
			name: "patient on staff route", method: http.MethodPost, path: "/patient/complaints", token: patient,
			body: map[string]interface{}{}, wantStatus: http.StatusUnauthorized, wantError: utils.ErrForbidden.Error(),
		},
		{
			name: "malformed complaint id", method: http.MethodGet, path: "/patient/diagnosis/not-a-uuid", token: dentist,
			wantStatus: http.StatusBadRequest, wantError: "Invalid complaint_id",
		},
		{
			name: "unknown medical details", method: http.MethodGet, path: "/patient/medical_details/9876543219/nobody_here", token: dentist,
			wantStatus: http.StatusNotFound, wantError: "User does not exist",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := srv.do(t, tt.method, tt.path, tt.token, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %v)", w.Code, tt.wantStatus, body)
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %v, want %q", body["error"], tt.wantError)
			}
		})
	}
}

func TestMedicalDetailsBySnakeName(t *testing.T) {
	srv := newTestServer(t)
	srv.credentials.add(&models.Credential{
		PhoneNumber: 9876543211,
		Name:        "Asha Devi Rao",
		Role:        models.RolePatient,
		Details:     &models.PatientDetails{Illnesses: "Diabetes,Asthma", Smoking: true},
	})
	dentist := srv.token(t, models.RoleDentist, 9876543210, "Ravi Kumar")

	w, body := srv.do(t, http.MethodGet, "/patient/medical_details/9876543211/asha_devi_rao", dentist, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %v", w.Code, body)
	}
	details, _ := body["medical_details"].(map[string]interface{})
	if details["name"] != "Asha Devi Rao" || details["smoking"] != true {
		t.Errorf("unexpected details %v", details)
	}
	if illnesses, _ := details["illnesses"].([]interface{}); len(illnesses) != 2 {
		t.Errorf("illnesses = %v", details["illnesses"])
	}
}

func TestNoFollowUpsToday(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.token(t, models.RoleAdmin, 9876543200, "Front Desk")

	w, body := srv.do(t, http.MethodGet, "/patient/followup", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %v", w.Code, body)
	}
	if body["message"] != "No followups today" {
		t.Errorf("message = %v", body["message"])
	}
	if followUps, ok := body["followups"].([]interface{}); !ok || len(followUps) != 0 {
		t.Errorf("followups = %#v, want empty list", body["followups"])
	}
}

func TestListPatientsSharingPhoneNumber(t *testing.T) {
	srv := newTestServer(t)
	srv.credentials.add(&models.Credential{PhoneNumber: 9876543211, Name: "Asha Rao", Role: models.RolePatient, Details: &models.PatientDetails{}})
	srv.credentials.add(&models.Credential{PhoneNumber: 9876543211, Name: "Vikram Rao", Role: models.RolePatient, Details: &models.PatientDetails{}})
	admin := srv.token(t, models.RoleAdmin, 9876543200, "Front Desk")

	w, body := srv.do(t, http.MethodGet, "/patients/9876543211", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %v", w.Code, body)
	}
	if _, ok := body["patient"]; ok {
		t.Error("response still uses the singular patient key")
	}
	patients, ok := body["patients"].([]interface{})
	if !ok || len(patients) != 2 {
		t.Fatalf("patients = %#v, want two entries", body["patients"])
	}
}

// racingCredentials reports that another signup set the password first.
type racingCredentials struct {
	*fakeCredentials
}

func (r racingCredentials) SetInitialPassword(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

func TestConcurrentSignupConflict(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	tokens, err := utils.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	credentials := &fakeCredentials{byIdentity: map[string]*models.Credential{}}
	credentials.add(&models.Credential{PhoneNumber: 9876543211, Name: "Asha Rao", Role: models.RolePatient})

	auth := NewAuthHandler(services.NewAuthService(racingCredentials{credentials}, tokens, utils.NewPasswordHasher(4), log))
	srv := &testServer{router: gin.New(), tokens: tokens, credentials: credentials}
	srv.router.POST("/signup", auth.Signup)

	w, body := srv.do(t, http.MethodPost, "/signup", "", map[string]interface{}{
		"phonenumber": 9876543211, "name": "Asha Rao", "password": "Secret123",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %v)", w.Code, body)
	}
	if body["error"] != "Password already set for this phonenumber" {
		t.Errorf("error = %v", body["error"])
	}
	if _, ok := body["token"]; ok {
		t.Errorf("conflicting signup returned a token")
	}
}
