package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
	"github.com/mikiasgoitom/Pawgram/internal/usecase"
	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
)

// MockFeedSession implements usecasecontract.IFeedSession for handler tests.
type MockFeedSession struct {
	Items    []*entity.ContentItem
	Mode     usecasecontract.SortMode
	Authors  map[string]entity.AuthorData
	Feedback map[string]bool

	ShouldFailRefresh    bool
	ShouldFailRecordView bool
	ShouldFailToggleLike bool
	ShouldFailDelete     bool
	ReturnNotInFeed      bool
	RejectDoubleTap      bool

	RecordedViews    []string
	ToggledLikes     []string
	DeletedItems     []string
	ViewportReports  [][]usecasecontract.ItemGeometry
	RefreshCallCount int
}

func NewMockFeedSession() *MockFeedSession {
	return &MockFeedSession{
		Mode:     usecasecontract.SortModeRecency,
		Authors:  make(map[string]entity.AuthorData),
		Feedback: make(map[string]bool),
	}
}

func (m *MockFeedSession) GetRankedFeed() []*entity.ContentItem {
	return m.Items
}

func (m *MockFeedSession) RecordView(itemID string) error {
	if m.ReturnNotInFeed {
		return usecase.ErrItemNotInFeed
	}
	if m.ShouldFailRecordView {
		return errors.New("mock record view failure")
	}
	m.RecordedViews = append(m.RecordedViews, itemID)
	return nil
}

func (m *MockFeedSession) ToggleLike(itemID string) error {
	if m.ReturnNotInFeed {
		return usecase.ErrItemNotInFeed
	}
	if m.ShouldFailToggleLike {
		return errors.New("mock toggle like failure")
	}
	m.ToggledLikes = append(m.ToggledLikes, itemID)
	return nil
}

func (m *MockFeedSession) OnViewportChanged(geometry []usecasecontract.ItemGeometry) {
	m.ViewportReports = append(m.ViewportReports, geometry)
}

func (m *MockFeedSession) OnDoubleTap(itemID string) bool {
	if m.RejectDoubleTap {
		return false
	}
	m.Feedback[itemID] = true
	return true
}

func (m *MockFeedSession) FeedbackActive(itemID string) bool {
	return m.Feedback[itemID]
}

func (m *MockFeedSession) SetSortMode(mode usecasecontract.SortMode) error {
	switch mode {
	case usecasecontract.SortModeRecency, usecasecontract.SortModeRating, usecasecontract.SortModeBestFit:
		m.Mode = mode
		return nil
	}
	return errors.New("unknown sort mode")
}

func (m *MockFeedSession) SortMode() usecasecontract.SortMode {
	return m.Mode
}

func (m *MockFeedSession) Refresh(ctx context.Context) error {
	if m.ShouldFailRefresh {
		return errors.New("mock refresh failure")
	}
	m.RefreshCallCount++
	return nil
}

func (m *MockFeedSession) DeleteItem(ctx context.Context, itemID string) error {
	if m.ReturnNotInFeed {
		return usecase.ErrItemNotInFeed
	}
	if m.ShouldFailDelete {
		return errors.New("mock delete failure")
	}
	m.DeletedItems = append(m.DeletedItems, itemID)
	return nil
}

func (m *MockFeedSession) FitScore(item *entity.ContentItem) (float64, bool) {
	return 155, true
}

func (m *MockFeedSession) AuthorData(authorID string) (entity.AuthorData, bool) {
	data, ok := m.Authors[authorID]
	return data, ok
}

func (m *MockFeedSession) Subscribe(fn func()) func() {
	return func() {}
}

func (m *MockFeedSession) Wait() {}

func (m *MockFeedSession) Close() {}

// MockFeedUseCase hands the same mock session to every caller.
type MockFeedUseCase struct {
	SessionMock          *MockFeedSession
	ShouldFailSession bool
}

func NewMockFeedUseCase(session *MockFeedSession) *MockFeedUseCase {
	return &MockFeedUseCase{SessionMock: session}
}

func (m *MockFeedUseCase) Session(ctx context.Context, viewerID string) (usecasecontract.IFeedSession, error) {
	if m.ShouldFailSession {
		return nil, errors.New("mock session failure")
	}
	return m.SessionMock, nil
}

func (m *MockFeedUseCase) CloseAll() {}

// SampleItem builds a feed item for tests.
func SampleItem(id, authorID string, role entity.AuthorRole, createdAt time.Time) *entity.ContentItem {
	return &entity.ContentItem{
		ID:         id,
		AuthorID:   authorID,
		AuthorName: "author-" + authorID,
		AuthorRole: role,
		MediaRef:   "media/" + id + ".jpg",
		Visibility: entity.VisibilityPublic,
		CreatedAt:  createdAt,
		ViewerIDs:  []string{},
		LikerIDs:   []string{},
	}
}
