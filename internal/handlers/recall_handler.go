package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-recall/internal/httpresp"
	ucRecall "github.com/BruksfildServices01/clinic-recall/internal/usecase/recall"
)

type RecallHandler struct {
	list    *ucRecall.ListCandidates
	dismiss *ucRecall.DismissCandidate
	export  *ucRecall.ExportCandidates
}

func NewRecallHandler(
	list *ucRecall.ListCandidates,
	dismiss *ucRecall.DismissCandidate,
	export *ucRecall.ExportCandidates,
) *RecallHandler {
	return &RecallHandler{
		list:    list,
		dismiss: dismiss,
		export:  export,
	}
}

// List recomputes the recall list on every request. A failed source read is
// a 503, never an empty list.
func (h *RecallHandler) List(c *gin.Context) {
	out, err := h.list.Execute(c.Request.Context(), c.DefaultQuery("sort", ucRecall.SortByName))
	if err != nil {
		writeError(c, err, "recall_fetch_failed", "Não foi possível carregar a lista de retornos.")
		return
	}

	httpresp.List(c, out)
}

func (h *RecallHandler) Dismiss(c *gin.Context) {
	d, err := h.dismiss.Execute(c.Request.Context(), userID(c), c.Param("patientId"))
	if err != nil {
		writeError(c, err, "failed_to_dismiss_recall", "Não foi possível dispensar o retorno.")
		return
	}

	httpresp.Created(c, d)
}

func (h *RecallHandler) Export(c *gin.Context) {
	key, err := h.export.Execute(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err, "failed_to_export_recalls", "Erro ao exportar retornos.")
		return
	}

	httpresp.Created(c, gin.H{"key": key})
}
