package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
)

type businessError struct {
	status  int
	message string
}

var businessErrors = map[string]businessError{
	"invalid_date_or_time":        {http.StatusBadRequest, "Data ou hora inválida."},
	"missing_procedure":           {http.StatusBadRequest, "Procedimento obrigatório."},
	"missing_patient_id":          {http.StatusBadRequest, "Paciente obrigatório."},
	"missing_ids":                 {http.StatusBadRequest, "Informe ao menos uma notificação."},
	"too_many_ids":                {http.StatusBadRequest, "Notificações demais em uma única requisição."},
	"invalid_sort":                {http.StatusBadRequest, "Ordenação inválida."},
	"invalid_state":               {http.StatusConflict, "O agendamento não permite esta ação."},
	"appointment_not_found":       {http.StatusNotFound, "Agendamento não encontrado."},
	"patient_not_found":           {http.StatusNotFound, "Paciente não encontrado."},
	"appointment_not_today":       {http.StatusConflict, "O agendamento não é para hoje."},
	"appointment_without_dentist": {http.StatusConflict, "O agendamento não tem dentista definido."},
	"already_checked_in":          {http.StatusConflict, "Chegada já registrada."},
	"recall_fetch_failed":         {http.StatusServiceUnavailable, "Não foi possível carregar a lista de retornos."},
	"export_disabled":             {http.StatusNotImplemented, "Exportação não configurada."},
}

// writeError answers with the mapped status for business errors and a 500
// with fallbackCode otherwise. It reports whether the error was a business
// one.
func writeError(c *gin.Context, err error, fallbackCode, fallbackMessage string) bool {
	if code, ok := httperr.BusinessCode(err); ok {
		if be, known := businessErrors[code]; known {
			if be.status >= http.StatusInternalServerError {
				_ = c.Error(err)
			}
			httperr.Write(c, be.status, code, be.message)
			return true
		}
		httperr.BadRequest(c, code, "Requisição inválida.")
		return true
	}

	_ = c.Error(err)
	httperr.Internal(c, fallbackCode, fallbackMessage)
	return false
}
