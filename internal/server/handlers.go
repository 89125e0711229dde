package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hance08/tally/internal/apperr"
	"github.com/hance08/tally/internal/service"
)

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// multipartOverhead is the room left for form fields and part headers on top
// of the file itself.
const multipartOverhead = 64 << 10

func (s *Server) importHandler(c *gin.Context) {
	limit := s.cfg.MaxUploadBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		s.fileTooLarge(c)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.fileTooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Size > s.cfg.MaxUploadBytes {
		s.fileTooLarge(c)
		return
	}

	offset := 0
	if v := c.PostForm("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
			return
		}
	}

	f, err := file.Open()
	if err != nil {
		s.respondError(c, apperr.Wrap(err, apperr.KindInternal, "Import failed"))
		return
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		s.respondError(c, apperr.Wrap(err, apperr.KindInternal, "Import failed"))
		return
	}

	res, err := s.svc.Import.Import(c.Request.Context(), service.ImportRequest{
		Data:            data,
		SourceAccountID: c.PostForm("sourceAccountId"),
		SourceType:      c.PostForm("sourceType"),
		SourceName:      c.PostForm("sourceName"),
		Offset:          offset,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	body := gin.H{
		"success":           true,
		"count":             res.Count,
		"format":            res.Format,
		"trainingDataCount": res.TrainingDataCount,
		"transactions":      res.Transactions,
		"hasMore":           res.HasMore,
	}
	if res.HasMore {
		body["nextOffset"] = res.NextOffset
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) fileTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file too large (max %d bytes)", s.cfg.MaxUploadBytes)})
}

type postRequest struct {
	TransactionIDs []string `json:"transactionIds"`
}

func (s *Server) postHandler(c *gin.Context) {
	var req postRequest
	if !s.bindOptionalJSON(c, &req) {
		return
	}

	count, err := s.svc.Posting.Post(c.Request.Context(), req.TransactionIDs)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

func (s *Server) resetHandler(c *gin.Context) {
	if err := s.svc.Ledger.Reset(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Database reset successfully"})
}

func (s *Server) listHandler(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		var err error
		if limit, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
	}

	txns, err := s.svc.Review.List(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": txns})
}

func (s *Server) approveHandler(c *gin.Context) {
	var overrides service.Overrides
	if !s.bindOptionalJSON(c, &overrides) {
		return
	}

	txn, err := s.svc.Review.Approve(c.Request.Context(), c.Param("id"), overrides)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": txn})
}

func (s *Server) rejectHandler(c *gin.Context) {
	if err := s.svc.Review.Reject(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type approveConfidentRequest struct {
	Threshold *int `json:"threshold"`
}

func (s *Server) approveConfidentHandler(c *gin.Context) {
	var req approveConfidentRequest
	if !s.bindOptionalJSON(c, &req) {
		return
	}

	threshold := s.svc.Review.DefaultThreshold()
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	ids, err := s.svc.Review.ApproveConfident(c.Request.Context(), threshold)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(ids), "ids": ids})
}

// bindOptionalJSON decodes the body into dst; an empty body leaves dst
// untouched. It writes a 400 and returns false on malformed JSON.
func (s *Server) bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}
