package handler

import (
	"errors"
	"net/http"

	"delivery-proof/internal/core/logger"
	"delivery-proof/internal/features/deliveries/domain"
	"delivery-proof/internal/features/deliveries/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DeliveryHandler handles HTTP requests for deliveries.
type DeliveryHandler struct {
	store ports.DeliveryStore
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(store ports.DeliveryStore) *DeliveryHandler {
	return &DeliveryHandler{
		store: store,
	}
}

// AddDeliveryRequest represents the request body for creating a delivery.
type AddDeliveryRequest struct {
	ClientName string `json:"client_name"`
	Address    string `json:"address"`
	Notes      string `json:"notes"`
}

// CompleteDeliveryRequest represents the request body for completing a delivery.
type CompleteDeliveryRequest struct {
	Photo string `json:"photo"`
}

// ListResponse is the manager dashboard listing with counts.
type ListResponse struct {
	Deliveries     []domain.Delivery `json:"deliveries"`
	PendingCount   int               `json:"pending_count"`
	CompletedCount int               `json:"completed_count"`
}

// AddDelivery handles POST /manager/deliveries.
// @Summary Create a delivery
// @Description Creates a new pending delivery order.
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param delivery body AddDeliveryRequest true "Delivery details"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /manager/deliveries [post]
func (h *DeliveryHandler) AddDelivery(c *fiber.Ctx) error {
	var req AddDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Form-level validation: the store itself validates nothing.
	if req.ClientName == "" || req.Address == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "client_name and address are required",
		})
	}

	ctx := c.Context()
	err := h.store.Add(ctx, ports.NewDelivery{
		ClientName: req.ClientName,
		Address:    req.Address,
		Notes:      req.Notes,
	})
	if err != nil {
		logger.Get().Error("Failed to add delivery", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Delivery created",
	})
}

// ListDeliveries handles GET /manager/deliveries.
// @Summary List deliveries
// @Description Lists deliveries with pending/completed counts. Filter with ?status=pending|completed|all.
// @Tags Deliveries
// @Produce json
// @Param status query string false "Status filter" Enums(all, pending, completed)
// @Success 200 {object} ListResponse
// @Failure 400 {object} map[string]string
// @Router /manager/deliveries [get]
func (h *DeliveryHandler) ListDeliveries(c *fiber.Ctx) error {
	status := c.Query("status", "all")
	if status != "all" && status != string(domain.DeliveryStatusPending) && status != string(domain.DeliveryStatusCompleted) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "status must be all, pending or completed",
		})
	}

	all := h.store.List()

	resp := ListResponse{Deliveries: []domain.Delivery{}}
	for _, d := range all {
		if d.IsPending() {
			resp.PendingCount++
		} else {
			resp.CompletedCount++
		}
		if status == "all" || status == string(d.Status) {
			resp.Deliveries = append(resp.Deliveries, d)
		}
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// GetDelivery handles GET /manager/deliveries/:id.
// @Summary Get a delivery
// @Description Retrieves a single delivery from the current snapshot.
// @Tags Deliveries
// @Produce json
// @Param id path string true "Delivery id"
// @Success 200 {object} domain.Delivery
// @Failure 404 {object} map[string]string
// @Router /manager/deliveries/{id} [get]
func (h *DeliveryHandler) GetDelivery(c *fiber.Ctx) error {
	id := c.Params("id")

	d, ok := h.store.GetByID(id)
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": "Delivery not found",
		})
	}

	return c.Status(http.StatusOK).JSON(d)
}

// ListWorklist handles GET /delivery/deliveries.
// @Summary List the courier worklist
// @Description Lists pending deliveries only, newest first.
// @Tags Deliveries
// @Produce json
// @Success 200 {array} domain.Delivery
// @Router /delivery/deliveries [get]
func (h *DeliveryHandler) ListWorklist(c *fiber.Ctx) error {
	pending := []domain.Delivery{}
	for _, d := range h.store.List() {
		if d.IsPending() {
			pending = append(pending, d)
		}
	}

	return c.Status(http.StatusOK).JSON(pending)
}

// CompleteDelivery handles POST /delivery/deliveries/:id/complete.
// @Summary Complete a delivery
// @Description Marks a pending delivery completed with a confirmation photo.
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param id path string true "Delivery id"
// @Param completion body CompleteDeliveryRequest true "Confirmation photo"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /delivery/deliveries/{id}/complete [post]
func (h *DeliveryHandler) CompleteDelivery(c *fiber.Ctx) error {
	id := c.Params("id")

	var req CompleteDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Photo == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "photo is required",
		})
	}

	ctx := c.Context()
	if err := h.store.Complete(ctx, id, req.Photo); err != nil {
		if errors.Is(err, domain.ErrDeliveryNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{
				"error": "Delivery not found or already completed",
			})
		}
		logger.Get().Error("Failed to complete delivery", zap.Error(err), zap.String("id", id))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Delivery completed",
	})
}
