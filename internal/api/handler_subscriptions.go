package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parking-garage-backend/internal/model"
)

type putSubscriptionRequest struct {
	Endpoint         string `json:"endpoint" binding:"required"`
	P256DH           string `json:"p256dh" binding:"required"`
	Auth             string `json:"auth" binding:"required"`
	SubscribedLevels []int  `json:"subscribed_levels"`
}

// PutSubscription handles the creation or replacement of a subscription.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	for _, lvl := range req.SubscribedLevels {
		if lvl < 0 || lvl >= h.garage.LevelCount() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "subscribed level out of range"})
			return
		}
	}

	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}

	err := h.journal.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&subscription).Error; err != nil {
			return err
		}

		// Replace the level set wholesale.
		if err := tx.Where("endpoint = ?", req.Endpoint).Delete(&model.SubscribedLevel{}).Error; err != nil {
			return err
		}
		if len(req.SubscribedLevels) == 0 {
			return nil
		}
		levels := make([]model.SubscribedLevel, len(req.SubscribedLevels))
		for i, lvl := range req.SubscribedLevels {
			levels[i] = model.SubscribedLevel{Endpoint: req.Endpoint, LevelIndex: lvl}
		}
		return tx.Create(&levels).Error
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.journal.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("endpoint = ?", req.Endpoint).Delete(&model.SubscribedLevel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PushSubscription{Endpoint: req.Endpoint}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// rawQueryParam pulls a query value without URL decoding, since push
// endpoints are stored exactly as the browser supplied them.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

// GetSubscription handles the retrieval of a subscription's level set.
func (h *Handler) GetSubscription(c *gin.Context) {
	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	var subscription model.PushSubscription
	if err := h.journal.DB().Preload("Levels").First(&subscription, "endpoint = ?", raw).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	levels := make([]int, len(subscription.Levels))
	for i, lvl := range subscription.Levels {
		levels[i] = lvl.LevelIndex
	}

	c.JSON(http.StatusOK, gin.H{"subscribed_levels": levels})
}
