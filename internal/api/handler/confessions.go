package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"whisperwall/backend/internal/confessions"
	"whisperwall/backend/internal/models"
	"whisperwall/backend/internal/storage"
)

type createConfessionRequest struct {
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

type createReplyRequest struct {
	Content string `json:"content" binding:"required"`
}

type voteRequest struct {
	TargetID   string `json:"targetId" binding:"required"`
	TargetType string `json:"targetType" binding:"required"`
	VoteType   string `json:"voteType" binding:"required"`
}

type reportRequest struct {
	TargetID   string `json:"targetId" binding:"required"`
	TargetType string `json:"targetType" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
	ReporterID string `json:"reporterId" binding:"required"`
}

// ListConfessions returns the visible feed.
func (h *Handler) ListConfessions(c *gin.Context) {
	feed, err := h.Confessions.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load confessions"})
		return
	}
	c.JSON(http.StatusOK, feed)
}

// TrendingConfessions returns the top confessions by vote score.
func (h *Handler) TrendingConfessions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	feed, err := h.Confessions.Trending(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load confessions"})
		return
	}
	c.JSON(http.StatusOK, feed)
}

// GetConfession returns one confession with its replies.
func (h *Handler) GetConfession(c *gin.Context) {
	confession, err := h.Confessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, confession)
}

// CreateConfession posts a new confession.
func (h *Handler) CreateConfession(c *gin.Context) {
	var req createConfessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	confession, err := h.Confessions.Create(req.Content, req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, confession)
}

// CreateReply attaches a reply to a confession.
func (h *Handler) CreateReply(c *gin.Context) {
	var req createReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	reply, err := h.Confessions.Reply(c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

// Vote applies an up or down vote to a confession or reply.
func (h *Handler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetId, targetType and voteType are required"})
		return
	}
	if req.VoteType != "upvote" && req.VoteType != "downvote" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voteType must be upvote or downvote"})
		return
	}

	if err := h.Confessions.Vote(req.TargetID, req.TargetType, req.VoteType == "upvote"); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateReport files a report against a confession or chat message.
func (h *Handler) CreateReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetId, targetType, reason and reporterId are required"})
		return
	}

	if err := h.Confessions.Report(req.TargetID, req.TargetType, req.Reason, req.ReporterID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "reported"})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyContent),
		errors.Is(err, models.ErrContentTooLong),
		errors.Is(err, confessions.ErrInappropriate),
		errors.Is(err, confessions.ErrUnknownTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
