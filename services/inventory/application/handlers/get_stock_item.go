package handlers

import (
	"net/http"

	"github.com/ghuser/stockkeeper/pkg/httpx"
)

// GetStockItem returns the last committed stock level of one item.
//
//	@Summary		Get stock level
//	@Description	Reads a stock level through the Redis read model; may trail in-flight operations
//	@Tags			stock
//	@Produce		json
//	@Param			id	path		string	true	"Stock item ID"	format(uuid)
//	@Success		200	{object}	StockItemResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/stock-items/{id} [get]
func (h *Handler) GetStockItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.Inventory.GetStockItem(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, stockItemResponse(item))
}
