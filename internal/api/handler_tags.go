package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"push-dispatch-backend/internal/dispatch"
)

// ListTags returns every tag with member counts.
func (h *Handler) ListTags(c *gin.Context) {
	bundleID, _ := clientFrom(c)
	tags, err := h.store.ListTags(c.Request.Context(), bundleID)
	if err != nil {
		h.respondStore(c, err, "", "")
		return
	}
	respond(c, http.StatusOK, tags, "")
}

type createTagRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

// CreateTag creates a tag with a bundle-unique name.
func (h *Handler) CreateTag(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, clientID := clientFrom(c)
	tag, err := h.store.CreateTag(c.Request.Context(), bundleID, clientID, req.Name)
	if err != nil {
		h.respondStore(c, err, "tag not found", "Tag name already exists")
		return
	}
	respond(c, http.StatusCreated, gin.H{
		"id":         tag.ID,
		"name":       tag.Name,
		"created_at": tag.CreatedAt,
	}, "Tag created successfully")
}

// GetTag returns one tag with its member count.
func (h *Handler) GetTag(c *gin.Context) {
	tagID, ok := h.tagIDParam(c)
	if !ok {
		return
	}

	bundleID, _ := clientFrom(c)
	tag, err := h.store.GetTag(c.Request.Context(), bundleID, tagID)
	if err != nil {
		h.respondStore(c, err, "tag not found", "")
		return
	}
	respond(c, http.StatusOK, tag, "")
}

// UpdateTag renames a tag.
func (h *Handler) UpdateTag(c *gin.Context) {
	tagID, ok := h.tagIDParam(c)
	if !ok {
		return
	}

	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	tag, err := h.store.RenameTag(c.Request.Context(), bundleID, tagID, req.Name)
	if err != nil {
		h.respondStore(c, err, "tag not found", "Tag name already exists")
		return
	}
	respond(c, http.StatusOK, tag, "Tag updated successfully")
}

// DeleteTag removes a tag and its memberships.
func (h *Handler) DeleteTag(c *gin.Context) {
	tagID, ok := h.tagIDParam(c)
	if !ok {
		return
	}

	bundleID, _ := clientFrom(c)
	if err := h.store.DeleteTag(c.Request.Context(), bundleID, tagID); err != nil {
		h.respondStore(c, err, "tag not found", "")
		return
	}
	respond(c, http.StatusOK, nil, "Tag deleted successfully")
}

type memberIDsRequest struct {
	UserIDs []int64 `json:"user_ids" binding:"required,min=1,max=1000"`
}

// AddTagUsers adds users to a tag; duplicates are skipped, not errors.
func (h *Handler) AddTagUsers(c *gin.Context) {
	tagID, ok := h.tagIDParam(c)
	if !ok {
		return
	}

	var req memberIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	added, skipped, err := h.store.AddTagMembers(c.Request.Context(), bundleID, tagID, req.UserIDs)
	if err != nil {
		h.respondStore(c, err, "tag not found", "")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"tag_id":  tagID,
		"added":   added,
		"skipped": skipped,
		"total":   len(req.UserIDs),
	}, "Users added to tag")
}

// RemoveTagUsers removes users from a tag.
func (h *Handler) RemoveTagUsers(c *gin.Context) {
	tagID, ok := h.tagIDParam(c)
	if !ok {
		return
	}

	var req memberIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBinding(c, err)
		return
	}

	bundleID, _ := clientFrom(c)
	removed, err := h.store.RemoveTagMembers(c.Request.Context(), bundleID, tagID, req.UserIDs)
	if err != nil {
		h.respondStore(c, err, "tag not found", "")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"tag_id":    tagID,
		"removed":   removed,
		"requested": len(req.UserIDs),
	}, "Users removed from tag")
}

// GetTagUsers lists a tag's members.
func (h *Handler) GetTagUsers(c *gin.Context) {
	tagID, ok := h.tagIDParam(c)
	if !ok {
		return
	}

	bundleID, _ := clientFrom(c)
	members, err := h.store.TagMembers(c.Request.Context(), bundleID, tagID)
	if err != nil {
		h.respondStore(c, err, "tag not found", "")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"tag_id":      tagID,
		"total_users": len(members),
		"users":       members,
	}, "")
}

func (h *Handler) tagIDParam(c *gin.Context) (int64, bool) {
	tagID, err := strconv.ParseInt(c.Param("tagId"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, string(dispatch.KindInvalidInput), "invalid tag id", nil)
		return 0, false
	}
	return tagID, true
}
