package handlers

import (
	"github.com/gin-gonic/gin"

	kit "hostel-system/internal/services/kit/handler"
)

type KitHTTPHandler struct {
	kit *kit.KitHandler
}

func NewKitHTTPHandler(handler *kit.KitHandler) *KitHTTPHandler {
	return &KitHTTPHandler{kit: handler}
}

func (s *KitHTTPHandler) CreateCycle(c *gin.Context) {
	var req kit.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.kit.CreateCycle(c.Request.Context(), req)
	if err != nil {
		respondFault(c, err)
		return
	}
	created(c, result)
}

func (s *KitHTTPHandler) ListCycles(c *gin.Context) {
	cycles, err := s.kit.ListCycles(c.Request.Context())
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, cycles)
}

func (s *KitHTTPHandler) GetCycleReport(c *gin.Context) {
	cycleID, err := parseUintParam(c, "cycleId")
	if err != nil {
		badRequest(c, "Invalid cycle ID")
		return
	}

	report, err := s.kit.GetCycleReport(c.Request.Context(), cycleID)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, report)
}

type redeemRequest struct {
	Token string `json:"token"`
}

func (s *KitHTTPHandler) RedeemToken(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	collection, err := s.kit.RedeemToken(c.Request.Context(), req.Token)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, collection)
}

func (s *KitHTTPHandler) CloseCycle(c *gin.Context) {
	cycleID, err := parseUintParam(c, "cycleId")
	if err != nil {
		badRequest(c, "Invalid cycle ID")
		return
	}

	updated, err := s.kit.CloseCycle(c.Request.Context(), cycleID)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, gin.H{"updated": updated})
}

func (s *KitHTTPHandler) ReopenCycle(c *gin.Context) {
	cycleID, err := parseUintParam(c, "cycleId")
	if err != nil {
		badRequest(c, "Invalid cycle ID")
		return
	}

	updated, err := s.kit.ReopenCycle(c.Request.Context(), cycleID)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, gin.H{"updated": updated})
}

func (s *KitHTTPHandler) RemindPending(c *gin.Context) {
	cycleID, err := parseUintParam(c, "cycleId")
	if err != nil {
		badRequest(c, "Invalid cycle ID")
		return
	}

	result, err := s.kit.RemindPending(c.Request.Context(), cycleID)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, result)
}

func (s *KitHTTPHandler) GetStudentStatus(c *gin.Context) {
	sspID := c.Param("sspId")
	if sspID == "" {
		badRequest(c, "Student SSP ID is required")
		return
	}

	collections, err := s.kit.GetStudentStatus(c.Request.Context(), sspID)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, collections)
}
