package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

type callbackRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type callbackResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	QueueNumber int    `json:"queueNumber,omitempty"`
}

func (h *HandlerSet) callbackRequest(ctx *fiber.Ctx) error {
	var req callbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, msgMissingPhone)
	}

	ack, err := h.service.HandleRequest(ctx.Context(), req.PhoneNumber)
	if err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusOK).JSON(callbackResponse{
		Success:     true,
		Message:     ack.Message,
		QueueNumber: ack.QueueNumber,
	})
}

type callStatusRequest struct {
	CallID string `json:"callId"`
	Status string `json:"status"`
}

// callStatus receives the provider's delivery-status webhook. It always
// responds 200 with an empty body, malformed payloads included, so the
// provider never retries.
func (h *HandlerSet) callStatus(ctx *fiber.Ctx) error {
	var req callStatusRequest
	if err := ctx.BodyParser(&req); err == nil {
		h.service.HandleStatus(ctx.Context(), req.CallID, req.Status)
	}
	return ctx.Status(http.StatusOK).Send(nil)
}
