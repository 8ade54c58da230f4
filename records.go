package registry

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KeithOmondi/principle-registry/pkg/models"
	"github.com/KeithOmondi/principle-registry/pkg/reports"
	"github.com/KeithOmondi/principle-registry/pkg/store"
)

type recordRequest struct {
	CauseNo        string `json:"causeNo" binding:"required"`
	NameOfDeceased string `json:"nameOfDeceased" binding:"required"`
	CourtStationID *uint  `json:"courtStationId"`
}

func (s *Server) handleCreateRecord(c *gin.Context) {
	var req recordRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, badRequest)
		return
	}
	r := models.Record{
		CauseNo:        req.CauseNo,
		NameOfDeceased: req.NameOfDeceased,
		CourtStationID: req.CourtStationID,
		Form60:         models.ComplianceWaiting,
		StatusAtGP:     models.StatusPending,
	}
	if err := s.records.Create(c.Request.Context(), &r); err != nil {
		log.Errorf("creating record: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (s *Server) listFilter(c *gin.Context) store.ListFilter {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	courtID, _ := strconv.ParseUint(c.Query("court"), 10, 32)
	return store.ListFilter{
		StatusAtGP:     models.GPStatus(c.Query("status")),
		Form60:         models.ComplianceStatus(c.Query("form60")),
		CourtStationID: uint(courtID),
		Search:         c.Query("q"),
		Page:           page,
		PerPage:        perPage,
	}
}

func (s *Server) handleGetRecords(c *gin.Context) {
	records, total, err := s.records.List(c.Request.Context(), s.listFilter(c))
	if err != nil {
		log.Errorf("listing records: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "total": total})
}

func (s *Server) recordID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, badRequest)
		return 0, false
	}
	return uint(id), true
}

func (s *Server) handleGetRecord(c *gin.Context) {
	id, ok := s.recordID(c)
	if !ok {
		return
	}
	r, err := s.records.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		log.Errorf("getting record %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) handleUpdateRecord(c *gin.Context) {
	id, ok := s.recordID(c)
	if !ok {
		return
	}
	r, err := s.records.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req recordRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, badRequest)
		return
	}
	r.CauseNo = req.CauseNo
	r.NameOfDeceased = req.NameOfDeceased
	r.CourtStationID = req.CourtStationID
	r.CourtStation = nil
	if err := s.records.Update(c.Request.Context(), r); err != nil {
		log.Errorf("updating record %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) handleDeleteRecord(c *gin.Context) {
	id, ok := s.recordID(c)
	if !ok {
		return
	}
	if err := s.records.Delete(c.Request.Context(), id); err != nil {
		log.Errorf("deleting record %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleRecordCompliance records the Form 60 approve/reject decision.
func (s *Server) handleRecordCompliance(c *gin.Context) {
	id, ok := s.recordID(c)
	if !ok {
		return
	}
	var req struct {
		Status models.ComplianceStatus `json:"status" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, badRequest)
		return
	}
	if err := s.records.SetCompliance(c.Request.Context(), id, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleExportRecords(c *gin.Context) {
	f := s.listFilter(c)
	f.Page = 1
	f.PerPage = 10000
	records, _, err := s.records.List(c.Request.Context(), f)
	if err != nil {
		log.Errorf("exporting records: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition",
		"attachment; filename=records-"+time.Now().Format("2006-01-02")+".csv")
	c.Status(http.StatusOK)
	if err := reports.WriteRecordsCSV(c.Writer, records); err != nil {
		log.Errorf("writing csv: %v", err)
	}
}

func (s *Server) handleDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	total, pending, published, err := s.records.CountByStatus(ctx)
	if err != nil {
		log.Errorf("dashboard counts: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	gazettes, err := s.gazettes.Count(ctx)
	if err != nil {
		log.Errorf("dashboard gazette count: %v", err)
		c.JSON(http.StatusInternalServerError, internalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalRecords":     total,
		"pendingRecords":   pending,
		"publishedRecords": published,
		"gazettes":         gazettes,
	})
}
