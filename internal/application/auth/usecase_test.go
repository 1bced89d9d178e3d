package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costeopro/costeo-api/internal/application/auth"
	"github.com/costeopro/costeo-api/internal/application/dto"
	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/costeopro/costeo-api/internal/domain/entity"
	pkgjwt "github.com/costeopro/costeo-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake de repositorio de usuarios
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User // por ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

var testJWT = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "costeo-api-test"}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_ArrancaEnPlanGratuito(t *testing.T) {
	uc := auth.NewAuthUseCase(newFakeUserRepo(), testJWT)

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "  Maria@Ejemplo.COM ",
		Password: "secreto123",
		Name:     "María",
	})
	require.NoError(t, err)

	assert.Equal(t, "maria@ejemplo.com", resp.Email, "el email se normaliza a minúsculas")
	assert.Equal(t, entity.PlanGratuito, resp.Plan, "las cuentas nuevas arrancan gratuitas")
	assert.Equal(t, "active", resp.Status)
}

func TestRegisterUser_Validaciones(t *testing.T) {
	uc := auth.NewAuthUseCase(newFakeUserRepo(), testJWT)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "a@b.com", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "password de menos de 6 caracteres")
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc := auth.NewAuthUseCase(newFakeUserRepo(), testJWT)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "maria@ejemplo.com", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "MARIA@ejemplo.com", Password: "otraclave"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists, "el duplicado se detecta insensible a mayúsculas")
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_TokenValido(t *testing.T) {
	uc := auth.NewAuthUseCase(newFakeUserRepo(), testJWT)

	registered, err := uc.RegisterUser(dto.RegisterRequest{Email: "maria@ejemplo.com", Password: "secreto123"})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "maria@ejemplo.com", Password: "secreto123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, registered.ID, resp.User.ID)

	// El token debe parsearse con el mismo secret y traer el user_id.
	userID, err := pkgjwt.Parse(testJWT.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := auth.NewAuthUseCase(newFakeUserRepo(), testJWT)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "maria@ejemplo.com", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "maria@ejemplo.com", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@ejemplo.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_CuentaSuspendida(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWT)

	registered, err := uc.RegisterUser(dto.RegisterRequest{Email: "maria@ejemplo.com", Password: "secreto123"})
	require.NoError(t, err)

	repo.users[registered.ID].Status = "suspended"

	_, err = uc.Login(dto.LoginRequest{Email: "maria@ejemplo.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Plan
// ──────────────────────────────────────────────────────────────────────────────

func TestHasPaidPlan(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWT)
	ctx := context.Background()

	registered, err := uc.RegisterUser(dto.RegisterRequest{Email: "maria@ejemplo.com", Password: "secreto123"})
	require.NoError(t, err)

	paid, err := uc.HasPaidPlan(ctx, registered.ID)
	require.NoError(t, err)
	assert.False(t, paid, "el plan gratuito no habilita movimientos")

	// Un upgrade en BD aplica de inmediato, sin reemitir token.
	repo.users[registered.ID].Plan = entity.PlanPremium
	paid, err = uc.HasPaidPlan(ctx, registered.ID)
	require.NoError(t, err)
	assert.True(t, paid)

	paid, err = uc.HasPaidPlan(ctx, "id-inexistente")
	require.NoError(t, err)
	assert.False(t, paid, "cuenta inexistente se trata como sin plan")
}
