package entity

import (
	"time"
)

// Visibility controls which feed scope an item belongs to.
type Visibility string

const (
	VisibilityPublic      Visibility = "public"
	VisibilityConnections Visibility = "connections"
)

// AuthorRole represents the role of an author in the system.
type AuthorRole string

const (
	AuthorRoleProvider AuthorRole = "provider"
	AuthorRoleConsumer AuthorRole = "consumer"
)

// ContentItem represents a single feed post.
//
// ViewerIDs and LikerIDs are idempotent membership sets; ViewCount and
// LikeCount equal their sizes once all in-flight interaction commits settle.
// AuthorName is the item-carried fallback used when the author profile
// cannot be fetched.
type ContentItem struct {
	ID         string     `bson:"_id,omitempty" json:"id"`
	AuthorID   string     `bson:"author_id" json:"author_id"`
	AuthorName string     `bson:"author_name" json:"author_name"`
	AuthorRole AuthorRole `bson:"author_role" json:"author_role"`
	MediaRef   string     `bson:"media_ref" json:"media_ref"`
	Caption    *string    `bson:"caption,omitempty" json:"caption,omitempty"`
	Visibility Visibility `bson:"visibility" json:"visibility"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	ViewerIDs  []string   `bson:"viewer_ids" json:"viewer_ids"`
	LikerIDs   []string   `bson:"liker_ids" json:"liker_ids"`
	ViewCount  int        `bson:"view_count" json:"view_count"`
	LikeCount  int        `bson:"like_count" json:"like_count"`
}

// HasViewer reports whether userID is already a member of ViewerIDs.
func (c *ContentItem) HasViewer(userID string) bool {
	return containsID(c.ViewerIDs, userID)
}

// HasLiker reports whether userID is already a member of LikerIDs.
func (c *ContentItem) HasLiker(userID string) bool {
	return containsID(c.LikerIDs, userID)
}

// AddViewer adds userID to ViewerIDs and bumps ViewCount. It reports false
// without mutating anything when the viewer is already present.
func (c *ContentItem) AddViewer(userID string) bool {
	if c.HasViewer(userID) {
		return false
	}
	c.ViewerIDs = append(c.ViewerIDs, userID)
	c.ViewCount++
	return true
}

// AddLiker adds userID to LikerIDs and bumps LikeCount. It reports false
// without mutating anything when the liker is already present.
func (c *ContentItem) AddLiker(userID string) bool {
	if c.HasLiker(userID) {
		return false
	}
	c.LikerIDs = append(c.LikerIDs, userID)
	c.LikeCount++
	return true
}

// RemoveLiker removes userID from LikerIDs and decrements LikeCount. It
// reports false without mutating anything when the liker is absent.
func (c *ContentItem) RemoveLiker(userID string) bool {
	if !c.HasLiker(userID) {
		return false
	}
	c.LikerIDs = removeID(c.LikerIDs, userID)
	c.LikeCount--
	return true
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// CopyIDs returns an independent copy of an id set, for snapshots.
func CopyIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
