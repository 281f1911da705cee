package handlers

import (
	"net/http"

	"item-api/internal/metrics"
	"item-api/internal/services"
	"item-api/internal/transport/dto"
	"item-api/internal/validation"

	"github.com/gin-gonic/gin"
)

// ItemHandler holds the service and verifier for item operations
type ItemHandler struct {
	service  services.ItemService
	verifier *validation.Verifier
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(service services.ItemService, verifier *validation.Verifier) *ItemHandler {
	return &ItemHandler{service: service, verifier: verifier}
}

// GetItems godoc
// @Summary      List all items
// @Tags         items
// @Produce      json
// @Success      200  {array}   models.Item
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /items [get]
func (h *ItemHandler) GetItems(c *gin.Context) {
	items, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Error listing items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItemByID godoc
// @Summary      Get an item by ID
// @Tags         items
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  models.Item
// @Failure      400  {object}  dto.ErrorResponse "Invalid ID"
// @Failure      404  "Item not found"
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /items/{id} [get]
func (h *ItemHandler) GetItemByID(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	item, found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "Error fetching item")
		return
	}
	if !found {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItem godoc
// @Summary      Create a new item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        item body      models.ItemInput true  "Item to create"
// @Success      201  {object}  models.Item
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	payload, ok := h.bindAndVerify(c)
	if !ok {
		return
	}

	item, err := h.service.Create(c.Request.Context(), payload.ToInput())
	if err != nil {
		respondInternalError(c, err, "Error creating item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateItem godoc
// @Summary      Update an existing item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id   path      int              true  "Item ID"
// @Param        item body      models.ItemInput true  "New name and price"
// @Success      200  {object}  models.Item
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Failure      404  "Item not found"
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	payload, ok := h.bindAndVerify(c)
	if !ok {
		return
	}

	item, found, err := h.service.Update(c.Request.Context(), id, payload.ToInput())
	if err != nil {
		respondInternalError(c, err, "Error updating item")
		return
	}
	if !found {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem godoc
// @Summary      Delete an item by ID
// @Tags         items
// @Param        id   path      int  true  "Item ID"
// @Success      204  "Item deleted"
// @Failure      400  {object}  dto.ErrorResponse "Invalid ID"
// @Failure      404  "Item not found"
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}

	_, found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "Error fetching item for delete")
		return
	}
	if !found {
		c.Status(http.StatusNotFound)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondInternalError(c, err, "Error deleting item")
		return
	}
	c.Status(http.StatusNoContent)
}

// bindAndVerify decodes the body into an untyped payload and runs the
// verifier. It writes the 400/500 response itself and reports false when the
// handler must stop.
func (h *ItemHandler) bindAndVerify(c *gin.Context) (dto.ItemPayload, bool) {
	var payload dto.ItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		RequestLogger(c).WithError(err).Debug("Rejecting non-object request body")
		c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{
			Errors: []validation.VerificationError{{Field: "body", Message: "Request body must be a JSON object"}},
		})
		return nil, false
	}

	violations, err := h.verifier.Verify(payload)
	if err != nil {
		respondInternalError(c, err, "Verifier fault")
		return nil, false
	}
	if len(violations) > 0 {
		for _, v := range violations {
			metrics.ValidationFailures.WithLabelValues(v.Field).Inc()
		}
		c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{Errors: violations})
		return nil, false
	}
	return payload, true
}
