package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cafe-backoffice/internal/application/dto"
	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/repository"
	"github.com/jhoicas/cafe-backoffice/pkg/jwt"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación y gestión de cuentas.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log.With().Str("component", "auth").Logger()}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Str("email", user.Email).Msg("login con contraseña incorrecta")
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID: user.ID,
		Name:   user.DisplayName(),
		Role:   user.Role,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// VerifyPassword confirma la contraseña del usuario autenticado antes de una operación destructiva.
func (uc *AuthUseCase) VerifyPassword(ctx context.Context, userID, password string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.ErrUnauthorized
	}
	return nil
}

// CreateAccount crea una cuenta. Email único, contraseñas iguales y de al menos 8 caracteres;
// todos los errores se devuelven juntos.
func (uc *AuthUseCase) CreateAccount(ctx context.Context, in dto.CreateAccountRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	var errs domain.ValidationErrors
	if email == "" || !strings.Contains(email, "@") {
		errs = append(errs, domain.Violation{Kind: domain.ErrInvalidInput, Subject: "email", Message: "Ingrese un email válido"})
	} else if taken, err := uc.emailTaken(ctx, email, ""); err != nil {
		return nil, err
	} else if taken {
		errs = append(errs, domain.Violation{Kind: domain.ErrEmailAlreadyExists, Subject: "email", Message: "Ya existe una cuenta con ese email"})
	}
	errs = append(errs, validatePassword(in.Password, in.PasswordConfirm)...)
	role := in.Role
	if role == "" {
		role = entity.RoleEmployee
	}
	if !entity.ValidRole(role) {
		errs = append(errs, domain.Violation{Kind: domain.ErrInvalidInput, Subject: "role", Message: "Rol inválido (employee, admin)"})
	}
	if strings.TrimSpace(in.FirstName) == "" {
		errs = append(errs, domain.Violation{Kind: domain.ErrInvalidInput, Subject: "first_name", Message: "El nombre es obligatorio"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("cuenta creada")
	return toUserResponse(user), nil
}

// UpdateAccount actualiza nombre, email y rol. La contraseña solo cambia si llegan ambos campos.
func (uc *AuthUseCase) UpdateAccount(ctx context.Context, id string, in dto.UpdateAccountRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	var errs domain.ValidationErrors
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		taken, err := uc.emailTaken(ctx, email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs = append(errs, domain.Violation{Kind: domain.ErrEmailAlreadyExists, Subject: "email", Message: "Ya existe una cuenta con ese email"})
		}
		user.Email = email
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			errs = append(errs, domain.Violation{Kind: domain.ErrInvalidInput, Subject: "role", Message: "Rol inválido (employee, admin)"})
		}
		user.Role = *in.Role
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Password != "" && in.PasswordConfirm != "" {
		pErrs := validatePassword(in.Password, in.PasswordConfirm)
		errs = append(errs, pErrs...)
		if len(pErrs) == 0 {
			hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			user.PasswordHash = string(hash)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// GetAccount obtiene una cuenta por ID.
func (uc *AuthUseCase) GetAccount(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// ListAccounts lista cuentas con filtros por nombre, email y rol.
func (uc *AuthUseCase) ListAccounts(ctx context.Context, in dto.AccountFilterRequest) (*dto.UserListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.userRepo.List(ctx, repository.UserFilter{
		FirstName: strings.TrimSpace(in.FirstName),
		Email:     strings.TrimSpace(in.Email),
		Role:      strings.TrimSpace(in.Role),
	}, in.Limit(), in.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

// DeleteAccount elimina una cuenta. Un usuario no puede eliminarse a sí mismo.
func (uc *AuthUseCase) DeleteAccount(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.ErrForbidden
	}
	if err := uc.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", id).Str("by", actorID).Msg("cuenta eliminada")
	return nil
}

// EnsureAdmin crea el administrador inicial si el email aún no existe. Sin email no hace nada.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, email, password, firstName, lastName string) error {
	if email == "" {
		return nil
	}
	existing, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = uc.CreateAccount(ctx, dto.CreateAccountRequest{
		FirstName:       firstName,
		LastName:        lastName,
		Email:           email,
		Password:        password,
		PasswordConfirm: password,
		Role:            entity.RoleAdmin,
	})
	if err != nil && !errors.Is(err, domain.ErrEmailAlreadyExists) {
		return err
	}
	return nil
}

func (uc *AuthUseCase) emailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	u, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u != nil && u.ID != exceptID, nil
}

func validatePassword(password, confirm string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if password != confirm {
		errs = append(errs, domain.Violation{Kind: domain.ErrInvalidInput, Subject: "password", Message: "Las contraseñas deben ser iguales"})
	}
	if len(password) < MinPasswordLength {
		errs = append(errs, domain.Violation{Kind: domain.ErrInvalidInput, Subject: "password", Message: "La contraseña debe tener al menos 8 caracteres"})
	}
	return errs
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
