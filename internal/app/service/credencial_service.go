package service

import (
	"context"
	"errors"
	"time"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/model"
	"github.com/rlepezi/av10dejulio-sub005/internal/app/repository"
	"github.com/rlepezi/av10dejulio-sub005/internal/identity"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"gorm.io/gorm"
)

// CredencialEmitida es el resultado de una emisión de credenciales.
type CredencialEmitida struct {
	UID             string    `json:"uid"`
	Email           string    `json:"email"`
	EmpresaID       uint      `json:"empresa_id"`
	FechaAsignacion time.Time `json:"fecha_asignacion"`
}

// ReporteReconciliacion resume una pasada de reconciliación de cuentas.
type ReporteReconciliacion struct {
	CuentasRevisadas  int      `json:"cuentas_revisadas"`
	Huerfanas         []string `json:"huerfanas"`
	EmpresasReparadas []uint   `json:"empresas_reparadas"`
}

// CredencialService emite las credenciales de acceso de las empresas.
//
// La emisión cruza dos sistemas: primero crea la cuenta en el proveedor de
// identidad y después escribe el vínculo local. Si un paso local falla, la
// cuenta ya creada queda huérfana y se reporta como advertencia de
// aplicación parcial; las cuentas huérfanas nunca se eliminan de forma
// automática.
type CredencialService interface {
	IssueCredentials(ctx context.Context, empresaID uint, email, clave, claveConfirmacion string) (*CredencialEmitida, error)
	// ReconcileOrphanAccounts recorre las cuentas del proveedor de
	// identidad, reporta las que no tienen credencial local y repara las
	// empresas cuyo vínculo quedó a medias.
	ReconcileOrphanAccounts(ctx context.Context) (*ReporteReconciliacion, error)
}

type credencialService struct {
	db             *gorm.DB
	proveedor      identity.Provider
	empresaRepo    repository.EmpresaRepository
	credencialRepo repository.CredencialRepository
}

func NewCredencialService(
	db *gorm.DB,
	proveedor identity.Provider,
	empresaRepo repository.EmpresaRepository,
	credencialRepo repository.CredencialRepository,
) CredencialService {
	return &credencialService{
		db:             db,
		proveedor:      proveedor,
		empresaRepo:    empresaRepo,
		credencialRepo: credencialRepo,
	}
}

func (s *credencialService) IssueCredentials(ctx context.Context, empresaID uint, email, clave, claveConfirmacion string) (*CredencialEmitida, error) {
	logger.Info("Emitiendo credenciales de empresa", map[string]interface{}{
		"empresa_id": empresaID,
		"email":      email,
	})

	// Toda la validación ocurre antes de tocar el proveedor de identidad:
	// una entrada inválida no debe dejar cuentas creadas.
	if len(clave) < 6 {
		return nil, ErrClaveCorta
	}
	if clave != claveConfirmacion {
		return nil, ErrClaveNoCoincide
	}

	empresa, err := s.empresaRepo.FindByID(empresaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpresaNoEncontrada
		}
		return nil, err
	}

	uid, err := s.proveedor.CreateAccount(email, clave)
	if err != nil {
		if errors.Is(err, identity.ErrEmailEnUso) {
			return nil, err
		}
		logger.Error("Falla del proveedor de identidad al crear la cuenta", err, map[string]interface{}{
			"empresa_id": empresaID,
			"email":      email,
		})
		return nil, &DependenciaExternaError{Servicio: "identidad", Err: err}
	}

	// Desde aquí la cuenta existe. Cualquier falla posterior se reporta
	// como aplicación parcial, nunca revierte la cuenta.
	ahora := time.Now()
	credencial := model.UsuarioCredencial{
		UID:             uid,
		Email:           email,
		Rol:             model.RolProveedor,
		EmpresaID:       &empresaID,
		FechaAsignacion: ahora,
	}

	if err := s.credencialRepo.ReplaceForEmpresa(nil, empresaID, &credencial); err != nil {
		logger.Error("La cuenta se creó pero el vínculo de credencial falló", err, map[string]interface{}{
			"empresa_id": empresaID,
			"uid":        uid,
		})
		return nil, &AplicacionParcialWarning{
			UID:            uid,
			Email:          email,
			PasoIncompleto: "vinculo_credencial",
			Err:            err,
		}
	}

	empresa.CredencialesGeneradas = true
	empresa.UIDAuth = uid
	empresa.UsuarioEmpresa = model.UsuarioEmpresa{
		Email:           email,
		UID:             uid,
		FechaAsignacion: &ahora,
	}

	ok, err := s.empresaRepo.UpdateConRevision(nil, empresa, empresa.Revision)
	if err != nil || !ok {
		if err == nil {
			err = ErrRevisionConflicto
		}
		logger.Error("La credencial se emitió pero la empresa no se actualizó", err, map[string]interface{}{
			"empresa_id": empresaID,
			"uid":        uid,
		})
		return nil, &AplicacionParcialWarning{
			UID:            uid,
			Email:          email,
			PasoIncompleto: "actualizacion_empresa",
			Err:            err,
		}
	}

	logger.Info("Credenciales emitidas", map[string]interface{}{
		"empresa_id": empresaID,
		"uid":        uid,
	})

	return &CredencialEmitida{
		UID:             uid,
		Email:           email,
		EmpresaID:       empresaID,
		FechaAsignacion: ahora,
	}, nil
}

func (s *credencialService) ReconcileOrphanAccounts(ctx context.Context) (*ReporteReconciliacion, error) {
	logger.Info("Iniciando reconciliación de cuentas", nil)

	cuentas, err := s.proveedor.ListAccounts()
	if err != nil {
		return nil, &DependenciaExternaError{Servicio: "identidad", Err: err}
	}

	reporte := &ReporteReconciliacion{CuentasRevisadas: len(cuentas)}

	for _, cuenta := range cuentas {
		existe, err := s.credencialRepo.ExistsUID(cuenta.UID)
		if err != nil {
			return nil, err
		}
		if !existe {
			// Cuenta sin credencial local: se reporta, no se elimina.
			reporte.Huerfanas = append(reporte.Huerfanas, cuenta.Email)
			logger.Warn("Cuenta huérfana detectada", map[string]interface{}{
				"uid":   cuenta.UID,
				"email": cuenta.Email,
			})
			continue
		}

		credencial, err := s.credencialRepo.FindByUID(cuenta.UID)
		if err != nil {
			return nil, err
		}
		if credencial.Rol != model.RolProveedor || credencial.EmpresaID == nil {
			continue
		}

		empresa, err := s.empresaRepo.FindByID(*credencial.EmpresaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		// Emisión que quedó a medias: la credencial existe pero la empresa
		// nunca registró el vínculo. Se completa el paso pendiente.
		if !empresa.CredencialesGeneradas || empresa.UIDAuth != cuenta.UID {
			empresa.CredencialesGeneradas = true
			empresa.UIDAuth = cuenta.UID
			empresa.UsuarioEmpresa = model.UsuarioEmpresa{
				Email:           credencial.Email,
				UID:             cuenta.UID,
				FechaAsignacion: &credencial.FechaAsignacion,
			}

			ok, err := s.empresaRepo.UpdateConRevision(nil, empresa, empresa.Revision)
			if err != nil {
				return nil, err
			}
			if ok {
				reporte.EmpresasReparadas = append(reporte.EmpresasReparadas, empresa.ID)
				logger.Info("Vínculo de credenciales reparado", map[string]interface{}{
					"empresa_id": empresa.ID,
					"uid":        cuenta.UID,
				})
			}
		}
	}

	logger.Info("Reconciliación completada", map[string]interface{}{
		"revisadas": reporte.CuentasRevisadas,
		"huerfanas": len(reporte.Huerfanas),
		"reparadas": len(reporte.EmpresasReparadas),
	})
	return reporte, nil
}
