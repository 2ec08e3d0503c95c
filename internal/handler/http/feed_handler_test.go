package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
	handler "github.com/mikiasgoitom/Pawgram/internal/handler/http"
	dto "github.com/mikiasgoitom/Pawgram/internal/handler/http/dto"
	mocks "github.com/mikiasgoitom/Pawgram/internal/handler/http/mocks"
	appvalidator "github.com/mikiasgoitom/Pawgram/internal/infrastructure/validator"
	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	appvalidator.RegisterCustomValidators()
	os.Exit(m.Run())
}

func setupRouter(h *handler.FeedHandler, viewerID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	r.Use(func(c *gin.Context) {
		if viewerID != "" {
			c.Set("userID", viewerID)
		}
		c.Next()
	})
	r.GET("/feed", h.GetFeedHandler)
	r.POST("/feed/refresh", h.RefreshFeedHandler)
	r.PUT("/feed/sort", h.SetSortModeHandler)
	r.POST("/feed/viewport", h.ViewportHandler)
	r.POST("/items/:itemID/view", h.RecordViewHandler)
	r.POST("/items/:itemID/like", h.ToggleLikeHandler)
	r.POST("/items/:itemID/double-tap", h.DoubleTapHandler)
	r.DELETE("/items/:itemID", h.DeleteItemHandler)
	return r
}

func TestGetFeed(t *testing.T) {
	session := mocks.NewMockFeedSession()
	session.Items = []*entity.ContentItem{
		mocks.SampleItem("item-1", "author-1", entity.AuthorRoleProvider, time.Now()),
		mocks.SampleItem("item-2", "author-2", entity.AuthorRoleConsumer, time.Now().Add(-time.Hour)),
	}
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/feed", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.FeedResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "recency", resp.SortMode)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "item-1", resp.Items[0].ID)
	assert.Nil(t, resp.Items[0].FitScore)
}

func TestGetFeed_BestFitAnnotations(t *testing.T) {
	session := mocks.NewMockFeedSession()
	session.Mode = usecasecontract.SortModeBestFit
	session.Items = []*entity.ContentItem{
		mocks.SampleItem("item-1", "author-1", entity.AuthorRoleProvider, time.Now()),
	}
	avatar := "https://cdn.example.com/a1.png"
	session.Authors["author-1"] = entity.AuthorData{
		Profile: &entity.AuthorProfile{ID: "author-1", DisplayName: "Walker One", AvatarURL: &avatar},
		Rating:  &entity.RatingSummary{AuthorID: "author-1", Average: 4.5, Count: 12},
	}
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/feed", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.FeedResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	item := resp.Items[0]
	assert.Equal(t, "Walker One", item.AuthorName)
	assert.NotNil(t, item.AuthorRating)
	assert.Equal(t, 4.5, *item.AuthorRating)
	assert.NotNil(t, item.FitScore)
	assert.NotNil(t, item.HighMatch)
	assert.True(t, *item.HighMatch)
}

func TestGetFeed_Unauthenticated(t *testing.T) {
	session := mocks.NewMockFeedSession()
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/feed", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not authenticated")
}

func TestRefreshFeed(t *testing.T) {
	session := mocks.NewMockFeedSession()
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/feed/refresh", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Feed refreshed successfully")
	assert.Equal(t, 1, session.RefreshCallCount)
}

func TestRefreshFeed_Fail(t *testing.T) {
	session := mocks.NewMockFeedSession()
	session.ShouldFailRefresh = true
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/feed/refresh", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSetSortMode(t *testing.T) {
	session := mocks.NewMockFeedSession()
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	body, _ := json.Marshal(dto.SetSortModeRequest{SortMode: "bestfit"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/feed/sort", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecasecontract.SortModeBestFit, session.Mode)
}

func TestSetSortMode_Invalid(t *testing.T) {
	session := mocks.NewMockFeedSession()
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/feed/sort", bytes.NewBufferString(`{"sort_mode":"alphabetical"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, usecasecontract.SortModeRecency, session.Mode)
}

func TestViewport(t *testing.T) {
	session := mocks.NewMockFeedSession()
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	payload := dto.ViewportRequest{Items: []dto.ItemGeometryRequest{
		{ItemID: "item-1", Offset: 0, Extent: 400, FrameOffset: 0, FrameExtent: 800},
	}}
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/feed/viewport", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Len(t, session.ViewportReports, 1)
	assert.Equal(t, "item-1", session.ViewportReports[0][0].ItemID)
}

func TestRecordView(t *testing.T) {
	session := mocks.NewMockFeedSession()
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/items/item-9/view", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"item-9"}, session.RecordedViews)
}

func TestRecordView_ItemNotInFeed(t *testing.T) {
	session := mocks.NewMockFeedSession()
	session.ReturnNotInFeed = true
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/items/"+uuid.New().String()+"/view", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, session.RecordedViews)
}

func TestDoubleTap(t *testing.T) {
	session := mocks.NewMockFeedSession()
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/items/item-3/double-tap", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.DoubleTapResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Accepted)
	assert.True(t, resp.LikeFeedback)
}

func TestDoubleTap_Suppressed(t *testing.T) {
	session := mocks.NewMockFeedSession()
	session.RejectDoubleTap = true
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/items/item-3/double-tap", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.DoubleTapResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Accepted)
}

func TestDeleteItem(t *testing.T) {
	session := mocks.NewMockFeedSession()
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/items/item-4", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"item-4"}, session.DeletedItems)
}

func TestDeleteItem_NotFound(t *testing.T) {
	session := mocks.NewMockFeedSession()
	session.ReturnNotInFeed = true
	h := handler.NewFeedHandler(mocks.NewMockFeedUseCase(session), nil)
	r := setupRouter(h, "viewer-1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/items/"+uuid.New().String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, session.DeletedItems)
}
