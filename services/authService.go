package services

import (
	"DentistAPI/metrics"
	"DentistAPI/models"
	"DentistAPI/repositories"
	"DentistAPI/utils"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// AuthService implements the credential lifecycle: signup, login and the
// staff-only password reset and phone number change.
type AuthService struct {
	credentials repositories.CredentialRepository
	tokens      *utils.TokenService
	hasher      *utils.PasswordHasher
	log         *logrus.Logger
}

func NewAuthService(credentials repositories.CredentialRepository, tokens *utils.TokenService, hasher *utils.PasswordHasher, log *logrus.Logger) *AuthService {
	return &AuthService{credentials: credentials, tokens: tokens, hasher: hasher, log: log}
}

func (s *AuthService) Signup(ctx context.Context, req models.CredentialRequest) (string, error) {
	token, err := s.signup(ctx, req)
	recordOutcome("signup", err)
	return token, err
}

func (s *AuthService) signup(ctx context.Context, req models.CredentialRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}
	phoneNumber, name, password := req.PhoneNumber.Int64(), utils.CapitalizeName(req.Name), req.Password
	if err := utils.ValidatePhoneNumber(phoneNumber); err != nil {
		return "", validationError(CodeInvalidPhoneFormat, err)
	}

	credential, err := s.credentials.FindByIdentity(ctx, phoneNumber, name)
	if err != nil {
		return "", storeError(err, "User")
	}
	if credential == nil {
		return "", newError(KindNotFound, CodeNotRegisteredByAdmin, "Phonenumber is not registered by admin")
	}
	if credential.HasPassword() {
		return "", conflict(CodeAlreadySignedUp, "Password already set for this phonenumber")
	}

	if err := utils.ValidatePassword(password); err != nil {
		return "", validationError(CodeWeakPassword, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", internalError(err)
	}
	set, err := s.credentials.SetInitialPassword(ctx, credential.ID, hash)
	if err != nil {
		return "", storeError(err, "User")
	}
	if !set {
		return "", conflict(CodeAlreadySignedUp, "Password already set for this phonenumber")
	}

	s.log.WithField("credential_id", credential.ID).Info("Patient signed up")
	return s.issue(credential)
}

func (s *AuthService) Login(ctx context.Context, req models.CredentialRequest) (string, error) {
	token, err := s.login(ctx, req)
	recordOutcome("login", err)
	return token, err
}

func (s *AuthService) login(ctx context.Context, req models.CredentialRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}
	phoneNumber, name, password := req.PhoneNumber.Int64(), utils.CapitalizeName(req.Name), req.Password
	if err := utils.ValidatePhoneNumber(phoneNumber); err != nil {
		return "", validationError(CodeInvalidPhoneFormat, err)
	}

	credential, err := s.credentials.FindByIdentity(ctx, phoneNumber, name)
	if err != nil {
		return "", storeError(err, "User")
	}
	if credential == nil {
		return "", newError(KindNotFound, CodeNotRegistered, "Phonenumber is not registered")
	}
	if !credential.HasPassword() {
		return "", conflict(CodeSignupPending, "You haven't set up your password. Signup first!")
	}

	ok, err := s.hasher.Matches(credential.Password, password)
	if err != nil {
		return "", internalError(err)
	}
	if !ok {
		s.log.WithField("credential_id", credential.ID).Warn("Login with wrong password")
		return "", conflict(CodeWrongCredentials, "Incorrect password")
	}

	return s.issue(credential)
}

func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest, callerRole models.Role) error {
	err := s.resetPassword(ctx, req, callerRole)
	recordOutcome("reset_password", err)
	return err
}

func (s *AuthService) resetPassword(ctx context.Context, req models.ResetPasswordRequest, callerRole models.Role) error {
	if err := validate(req); err != nil {
		return err
	}
	phoneNumber, name := req.PhoneNumber.Int64(), utils.CapitalizeName(req.Name)
	if err := utils.ValidatePhoneNumber(phoneNumber); err != nil {
		return validationError(CodeInvalidPhoneFormat, err)
	}

	target, err := s.findTarget(ctx, phoneNumber, name)
	if err != nil {
		return err
	}
	if !mayManage(callerRole, target.Role) {
		return newError(KindPrivilege, CodeInsufficientPrivilege, "Admin cannot change admin/dentist's password. Contact dentist")
	}

	if err := s.credentials.UpdatePassword(ctx, target.ID, ""); err != nil {
		return storeError(err, "User")
	}
	s.log.WithFields(logrus.Fields{"credential_id": target.ID, "caller_role": callerRole}).Info("Password reset")
	return nil
}

func (s *AuthService) ChangePhoneNumber(ctx context.Context, req models.ChangePhoneNumberRequest, callerRole models.Role) error {
	err := s.changePhoneNumber(ctx, req, callerRole)
	recordOutcome("change_phonenumber", err)
	return err
}

func (s *AuthService) changePhoneNumber(ctx context.Context, req models.ChangePhoneNumberRequest, callerRole models.Role) error {
	if err := validate(req); err != nil {
		return err
	}
	name := utils.CapitalizeName(req.Name)
	oldPhoneNumber, newPhoneNumber := req.OldPhoneNumber.Int64(), req.NewPhoneNumber.Int64()
	if err := utils.ValidatePhoneNumber(oldPhoneNumber); err != nil {
		return validationError(CodeInvalidPhoneFormat, err)
	}
	if err := utils.ValidatePhoneNumber(newPhoneNumber); err != nil {
		return validationError(CodeInvalidPhoneFormat, err)
	}
	if oldPhoneNumber == newPhoneNumber {
		return conflict(CodeNoOpChange, "Old and new phonenumber are same")
	}

	target, err := s.findTarget(ctx, oldPhoneNumber, name)
	if err != nil {
		return err
	}
	if !mayManage(callerRole, target.Role) {
		return newError(KindPrivilege, CodeInsufficientPrivilege, "Admin cannot change admin/dentist's phonenumber. Contact dentist")
	}

	if err := s.credentials.UpdatePhoneNumber(ctx, target.ID, newPhoneNumber); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return conflict(CodeDuplicatePhoneNumber, "Account exists for this name and new phonenumber")
		}
		return storeError(err, "User")
	}
	s.log.WithFields(logrus.Fields{"credential_id": target.ID, "caller_role": callerRole}).Info("Phonenumber changed")
	return nil
}

func (s *AuthService) CreateStaff(ctx context.Context, phoneNumber int64, name string, role models.Role, password string) (*models.Credential, error) {
	if !role.IsStaff() {
		return nil, invalidInput("Role must be admin or dentist")
	}
	if err := utils.ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, validationError(CodeInvalidPhoneFormat, err)
	}
	name = utils.CapitalizeName(name)
	if name == "" {
		return nil, invalidInput("Name is required")
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, validationError(CodeWeakPassword, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, internalError(err)
	}
	credential := &models.Credential{PhoneNumber: phoneNumber, Name: name, Role: role, Password: hash}
	if err := s.credentials.Create(ctx, credential); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflict(CodeDuplicateEntry, "Account exists for this name and phonenumber")
		}
		return nil, storeError(err, "User")
	}
	return credential, nil
}

func (s *AuthService) findTarget(ctx context.Context, phoneNumber int64, name string) (*models.Credential, error) {
	target, err := s.credentials.FindByIdentity(ctx, phoneNumber, name)
	if err != nil {
		return nil, storeError(err, "User")
	}
	if target == nil {
		return nil, notFound("User does not exist")
	}
	return target, nil
}

func (s *AuthService) issue(credential *models.Credential) (string, error) {
	token, err := s.tokens.Issue(credential.Role, credential.PhoneNumber, credential.Name)
	if err != nil {
		return "", internalError(err)
	}
	return token, nil
}

// mayManage applies the staff hierarchy: admins manage patients only, dentists manage everyone.
func mayManage(caller, target models.Role) bool {
	switch caller {
	case models.RoleDentist:
		return true
	case models.RoleAdmin:
		return !target.IsStaff()
	}
	return false
}

func recordOutcome(event string, err error) {
	if err == nil {
		metrics.RecordAuthEvent(event, "success")
		return
	}
	var serr *ServiceError
	if errors.As(err, &serr) {
		metrics.RecordAuthEvent(event, serr.Code)
		return
	}
	metrics.RecordAuthEvent(event, CodeInternal)
}
