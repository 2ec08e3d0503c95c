package dto

import (
	"time"

	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
)

// FeedItemResponse is the DTO for one feed item.
type FeedItemResponse struct {
	ID              string   `json:"id"`
	AuthorID        string   `json:"author_id"`
	AuthorName      string   `json:"author_name"`
	AuthorRole      string   `json:"author_role"`
	AuthorAvatarURL *string  `json:"author_avatar_url,omitempty"`
	AuthorRating    *float64 `json:"author_rating,omitempty"`
	MediaRef        string   `json:"media_ref"`
	Caption         *string  `json:"caption"`
	Visibility      string   `json:"visibility"`
	CreatedAt       string   `json:"created_at"`
	ViewCount       int      `json:"view_count"`
	LikeCount       int      `json:"like_count"`
	ViewedByMe      bool     `json:"viewed_by_me"`
	LikedByMe       bool     `json:"liked_by_me"`
	LikeFeedback    bool     `json:"like_feedback"`
	FitScore        *float64 `json:"fit_score,omitempty"`
	HighMatch       *bool    `json:"high_match,omitempty"`
}

// FeedResponse is the DTO for a ranked feed page.
type FeedResponse struct {
	SortMode string             `json:"sort_mode"`
	Total    int                `json:"total"`
	Items    []FeedItemResponse `json:"items"`
}

// DoubleTapResponse reports whether a double tap was accepted.
type DoubleTapResponse struct {
	Accepted     bool `json:"accepted"`
	LikeFeedback bool `json:"like_feedback"`
}

// ToFeedItemResponse converts a ContentItem to its DTO with the base fields;
// the handler fills the enrichment fields from cached author data.
func ToFeedItemResponse(item *entity.ContentItem, viewerID string) FeedItemResponse {
	return FeedItemResponse{
		ID:         item.ID,
		AuthorID:   item.AuthorID,
		AuthorName: item.AuthorName,
		AuthorRole: string(item.AuthorRole),
		MediaRef:   item.MediaRef,
		Caption:    item.Caption,
		Visibility: string(item.Visibility),
		CreatedAt:  item.CreatedAt.Format(time.RFC3339),
		ViewCount:  item.ViewCount,
		LikeCount:  item.LikeCount,
		ViewedByMe: item.HasViewer(viewerID),
		LikedByMe:  item.HasLiker(viewerID),
	}
}

// MessageResponse is a generic response for success/error messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is a response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
