package service

import (
	"errors"

	"github.com/rlepezi/av10dejulio-sub005/config"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/internal/identity"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"github.com/rlepezi/av10dejulio-sub005/pkg/util"
	"gorm.io/gorm"
)

// SesionIniciada es la respuesta de un login exitoso.
type SesionIniciada struct {
	Tokens    *util.TokenPair `json:"tokens"`
	UID       string          `json:"uid"`
	Email     string          `json:"email"`
	Rol       model.Rol       `json:"rol"`
	EmpresaID *uint           `json:"empresa_id,omitempty"`
	AgenteID  *uint           `json:"agente_id,omitempty"`
}

// AuthService autentica contra el proveedor de identidad y resuelve el rol
// desde la tabla de credenciales.
type AuthService interface {
	Login(email, clave string) (*SesionIniciada, error)
	RefreshToken(refreshToken string) (*util.TokenPair, error)
	CambiarClave(uid, claveActual, claveNueva, claveConfirmacion string) error
}

type authService struct {
	proveedor      identity.Provider
	credencialRepo repository.CredencialRepository
	agenteRepo     repository.AgenteRepository
	jwtCfg         *config.JWTConfig
}

func NewAuthService(
	proveedor identity.Provider,
	credencialRepo repository.CredencialRepository,
	agenteRepo repository.AgenteRepository,
	jwtCfg *config.JWTConfig,
) AuthService {
	return &authService{
		proveedor:      proveedor,
		credencialRepo: credencialRepo,
		agenteRepo:     agenteRepo,
		jwtCfg:         jwtCfg,
	}
}

func (s *authService) Login(email, clave string) (*SesionIniciada, error) {
	logger.Info("Intento de inicio de sesión", map[string]interface{}{
		"email": email,
	})

	cuenta, err := s.proveedor.Authenticate(email, clave)
	if err != nil {
		if errors.Is(err, identity.ErrCredencialesInvalidas) {
			return nil, err
		}
		return nil, &DependenciaExternaError{Servicio: "identidad", Err: err}
	}

	credencial, err := s.credencialRepo.FindByUID(cuenta.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Cuenta huérfana: existe en identidad pero sin rol local.
			logger.Warn("Inicio de sesión de cuenta sin credencial", map[string]interface{}{
				"uid":   cuenta.UID,
				"email": email,
			})
			return nil, ErrCredencialNoExiste
		}
		return nil, err
	}

	var agenteID *uint
	if credencial.Rol == model.RolAgente {
		agente, err := s.agenteRepo.FindByUID(cuenta.UID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if agente != nil {
			if !agente.Activo {
				return nil, ErrAgenteInactivo
			}
			agenteID = &agente.ID
		}
	}

	tokens, err := util.GenerateTokenPair(
		cuenta.UID,
		credencial.Email,
		string(credencial.Rol),
		credencial.EmpresaID,
		agenteID,
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("No se pudieron generar los tokens", err, map[string]interface{}{
			"uid": cuenta.UID,
		})
		return nil, err
	}

	logger.Info("Sesión iniciada", map[string]interface{}{
		"uid": cuenta.UID,
		"rol": credencial.Rol,
	})

	return &SesionIniciada{
		Tokens:    tokens,
		UID:       cuenta.UID,
		Email:     credencial.Email,
		Rol:       credencial.Rol,
		EmpresaID: credencial.EmpresaID,
		AgenteID:  agenteID,
	}, nil
}

func (s *authService) RefreshToken(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtCfg.Secret)
	if err != nil {
		return nil, err
	}

	// El rol se relee de la credencial: una revocación posterior al token
	// debe surtir efecto en el próximo refresh.
	credencial, err := s.credencialRepo.FindByUID(claims.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredencialNoExiste
		}
		return nil, err
	}

	return util.GenerateTokenPair(
		credencial.UID,
		credencial.Email,
		string(credencial.Rol),
		credencial.EmpresaID,
		claims.AgenteID,
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
}

func (s *authService) CambiarClave(uid, claveActual, claveNueva, claveConfirmacion string) error {
	if len(claveNueva) < 6 {
		return ErrClaveCorta
	}
	if claveNueva != claveConfirmacion {
		return ErrClaveNoCoincide
	}

	cuenta, err := s.proveedor.FindByUID(uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCredencialNoExiste
		}
		return err
	}

	if _, err := s.proveedor.Authenticate(cuenta.Email, claveActual); err != nil {
		return err
	}

	if err := s.proveedor.UpdatePassword(uid, claveNueva); err != nil {
		return err
	}

	logger.Info("Clave actualizada", map[string]interface{}{
		"uid": uid,
	})
	return nil
}
