package handlers

import (
	"github.com/gin-gonic/gin"

	ration "hostel-system/internal/services/ration/handler"
)

type RationHTTPHandler struct {
	ration *ration.RationHandler
}

func NewRationHTTPHandler(handler *ration.RationHandler) *RationHTTPHandler {
	return &RationHTTPHandler{ration: handler}
}

func (s *RationHTTPHandler) SubmitRequest(c *gin.Context) {
	var req ration.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	request, err := s.ration.SubmitRequest(c.Request.Context(), req)
	if err != nil {
		respondFault(c, err)
		return
	}
	created(c, request)
}

func (s *RationHTTPHandler) ListPending(c *gin.Context) {
	requests, err := s.ration.ListPending(c.Request.Context())
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, requests)
}

func (s *RationHTTPHandler) ListHistory(c *gin.Context) {
	chiefID, err := parseUintParam(c, "chiefId")
	if err != nil {
		badRequest(c, "Invalid chief ID")
		return
	}

	requests, err := s.ration.ListHistory(c.Request.Context(), chiefID)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, requests)
}

func (s *RationHTTPHandler) ApproveRequest(c *gin.Context) {
	requestID, err := parseUintParam(c, "requestId")
	if err != nil {
		badRequest(c, "Invalid request ID")
		return
	}

	request, err := s.ration.ApproveRequest(c.Request.Context(), requestID)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, request)
}

func (s *RationHTTPHandler) RejectRequest(c *gin.Context) {
	requestID, err := parseUintParam(c, "requestId")
	if err != nil {
		badRequest(c, "Invalid request ID")
		return
	}

	request, err := s.ration.RejectRequest(c.Request.Context(), requestID)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, request)
}
