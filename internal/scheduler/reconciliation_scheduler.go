package scheduler

import (
	"context"

	"github.com/rlepezi/av10dejulio-sub005/internal/app/service"
	"github.com/rlepezi/av10dejulio-sub005/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ReconciliationScheduler corre todas las noches la reconciliación de
// cuentas del proveedor de identidad: reporta huérfanas y completa las
// emisiones de credenciales que quedaron a medias.
type ReconciliationScheduler struct {
	cron              *cron.Cron
	credencialService service.CredencialService
}

func NewReconciliationScheduler(credencialService service.CredencialService) *ReconciliationScheduler {
	return &ReconciliationScheduler{
		cron:              cron.New(),
		credencialService: credencialService,
	}
}

// Start agenda la reconciliación diaria a las 03:00.
func (s *ReconciliationScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Iniciando reconciliación nocturna de cuentas", nil)

		reporte, err := s.credencialService.ReconcileOrphanAccounts(context.Background())
		if err != nil {
			logger.Error("La reconciliación nocturna falló", err)
			return
		}

		logger.Info("Reconciliación nocturna completada", map[string]interface{}{
			"revisadas": reporte.CuentasRevisadas,
			"huerfanas": len(reporte.Huerfanas),
			"reparadas": len(reporte.EmpresasReparadas),
		})
	})
	if err != nil {
		logger.Error("No se pudo agendar la reconciliación", err)
		return err
	}

	s.cron.Start()
	logger.Info("Reconciliación de cuentas agendada (diaria a las 03:00)", nil)
	return nil
}

// Stop detiene el scheduler.
func (s *ReconciliationScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Scheduler de reconciliación detenido", nil)
}
