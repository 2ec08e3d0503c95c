package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikiasgoitom/Pawgram/internal/domain/contract"
	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
	"github.com/mikiasgoitom/Pawgram/internal/handler/http/dto"
	"github.com/mikiasgoitom/Pawgram/internal/metrics"
	"github.com/mikiasgoitom/Pawgram/internal/usecase"
	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
)

type FeedHandler struct {
	feedUsecase usecasecontract.IFeedUseCase
	feedCache   contract.IFeedCache
	mtr         *metrics.Metrics
}

// NewFeedHandler creates the feed handler. feedCache may be nil; the feed
// is then ranked on every request.
func NewFeedHandler(feedUsecase usecasecontract.IFeedUseCase, feedCache contract.IFeedCache) *FeedHandler {
	return &FeedHandler{
		feedUsecase: feedUsecase,
		feedCache:   feedCache,
		mtr:         metrics.Initialize(),
	}
}

// session resolves the authenticated viewer's feed session, writing the
// error response itself when it cannot.
func (h *FeedHandler) session(c *gin.Context) (usecasecontract.IFeedSession, string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		ErrorHandler(c, http.StatusUnauthorized, "User not authenticated")
		return nil, "", false
	}
	userIDStr, ok := userID.(string)
	if !ok {
		ErrorHandler(c, http.StatusBadRequest, "Invalid user ID format in token")
		return nil, "", false
	}
	s, err := h.feedUsecase.Session(c.Request.Context(), userIDStr)
	if err != nil {
		ErrorHandler(c, http.StatusInternalServerError, err.Error())
		return nil, "", false
	}
	return s, userIDStr, true
}

func (h *FeedHandler) GetFeedHandler(c *gin.Context) {
	s, viewerID, ok := h.session(c)
	if !ok {
		return
	}

	mode := s.SortMode()
	items, cached := h.cachedPage(c, viewerID, string(mode))
	if !cached {
		items = s.GetRankedFeed()
		h.storePage(c, viewerID, string(mode), items)
	}

	responses := make([]dto.FeedItemResponse, 0, len(items))
	for _, item := range items {
		resp := dto.ToFeedItemResponse(item, viewerID)
		resp.LikeFeedback = s.FeedbackActive(item.ID)
		if data, found := s.AuthorData(item.AuthorID); found {
			if data.Profile != nil {
				if data.Profile.DisplayName != "" {
					resp.AuthorName = data.Profile.DisplayName
				}
				resp.AuthorAvatarURL = data.Profile.AvatarURL
			}
			if data.Rating != nil {
				avg := data.Rating.Average
				resp.AuthorRating = &avg
			}
		}
		if mode == usecasecontract.SortModeBestFit {
			score, high := s.FitScore(item)
			resp.FitScore = &score
			resp.HighMatch = &high
		}
		responses = append(responses, resp)
	}

	SuccessHandler(c, http.StatusOK, dto.FeedResponse{
		SortMode: string(mode),
		Total:    len(responses),
		Items:    responses,
	})
}

// cachedPage serves the viewer's ranked page from the feed cache when one
// is attached and holds a fresh entry.
func (h *FeedHandler) cachedPage(c *gin.Context, viewerID, sortMode string) ([]*entity.ContentItem, bool) {
	if h.feedCache == nil {
		return nil, false
	}
	page, found, err := h.feedCache.GetFeedPage(c.Request.Context(), viewerID, sortMode)
	if err != nil || !found {
		h.mtr.FeedPageCacheHitsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	h.mtr.FeedPageCacheHitsTotal.WithLabelValues("hit").Inc()
	items := make([]*entity.ContentItem, len(page.Items))
	for i := range page.Items {
		items[i] = &page.Items[i]
	}
	return items, true
}

func (h *FeedHandler) storePage(c *gin.Context, viewerID, sortMode string, items []*entity.ContentItem) {
	if h.feedCache == nil {
		return
	}
	page := &contract.CachedFeedPage{
		Items: make([]entity.ContentItem, 0, len(items)),
		Total: len(items),
	}
	for _, item := range items {
		page.Items = append(page.Items, *item)
	}
	// Serving is never blocked on the cache.
	_ = h.feedCache.SetFeedPage(c.Request.Context(), viewerID, sortMode, page)
}

func (h *FeedHandler) RefreshFeedHandler(c *gin.Context) {
	s, _, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Refresh(c.Request.Context()); err != nil {
		ErrorHandler(c, http.StatusInternalServerError, err.Error())
		return
	}
	MessageHandler(c, http.StatusOK, "Feed refreshed successfully")
}

func (h *FeedHandler) SetSortModeHandler(c *gin.Context) {
	s, _, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.SetSortModeRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}
	if err := s.SetSortMode(usecasecontract.SortMode(req.SortMode)); err != nil {
		ErrorHandler(c, http.StatusBadRequest, err.Error())
		return
	}
	MessageHandler(c, http.StatusOK, "Sort mode updated successfully")
}

func (h *FeedHandler) ViewportHandler(c *gin.Context) {
	s, _, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.ViewportRequest
	if err := BindAndValidate(c, &req); err != nil {
		return
	}
	s.OnViewportChanged(req.ToItemGeometry())
	MessageHandler(c, http.StatusAccepted, "Viewport update accepted")
}

func (h *FeedHandler) RecordViewHandler(c *gin.Context) {
	s, _, ok := h.session(c)
	if !ok {
		return
	}
	itemID := c.Param("itemID")
	if err := s.RecordView(itemID); err != nil {
		h.interactionError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, "View recorded")
}

func (h *FeedHandler) ToggleLikeHandler(c *gin.Context) {
	s, _, ok := h.session(c)
	if !ok {
		return
	}
	itemID := c.Param("itemID")
	if err := s.ToggleLike(itemID); err != nil {
		h.interactionError(c, err)
		return
	}
	MessageHandler(c, http.StatusOK, "Like toggled")
}

func (h *FeedHandler) DoubleTapHandler(c *gin.Context) {
	s, _, ok := h.session(c)
	if !ok {
		return
	}
	itemID := c.Param("itemID")
	accepted := s.OnDoubleTap(itemID)
	SuccessHandler(c, http.StatusOK, dto.DoubleTapResponse{
		Accepted:     accepted,
		LikeFeedback: s.FeedbackActive(itemID),
	})
}

func (h *FeedHandler) DeleteItemHandler(c *gin.Context) {
	s, _, ok := h.session(c)
	if !ok {
		return
	}
	itemID := c.Param("itemID")
	if err := s.DeleteItem(c.Request.Context(), itemID); err != nil {
		if errors.Is(err, usecase.ErrItemNotInFeed) {
			ErrorHandler(c, http.StatusNotFound, "Item not found in feed")
			return
		}
		ErrorHandler(c, http.StatusInternalServerError, err.Error())
		return
	}
	MessageHandler(c, http.StatusOK, "Item deleted successfully")
}

func (h *FeedHandler) interactionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrItemNotInFeed):
		ErrorHandler(c, http.StatusNotFound, "Item not found in feed")
	case errors.Is(err, usecase.ErrSessionClosed):
		ErrorHandler(c, http.StatusConflict, "Feed session is closed")
	default:
		ErrorHandler(c, http.StatusInternalServerError, err.Error())
	}
}
