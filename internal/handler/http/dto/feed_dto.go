package dto

import (
	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
)

// SetSortModeRequest selects the feed ordering.
type SetSortModeRequest struct {
	SortMode string `json:"sort_mode" binding:"required,sortmode"`
}

// ItemGeometryRequest is one rendered item's position report.
type ItemGeometryRequest struct {
	ItemID      string  `json:"item_id" binding:"required"`
	Offset      float64 `json:"offset"`
	Extent      float64 `json:"extent"`
	FrameOffset float64 `json:"frame_offset"`
	FrameExtent float64 `json:"frame_extent"`
}

// ViewportRequest carries the full set of currently rendered items.
type ViewportRequest struct {
	Items []ItemGeometryRequest `json:"items" binding:"required,dive"`
}

// ToItemGeometry converts the request entries to the usecase geometry type.
func (r ViewportRequest) ToItemGeometry() []usecasecontract.ItemGeometry {
	geometry := make([]usecasecontract.ItemGeometry, 0, len(r.Items))
	for _, item := range r.Items {
		geometry = append(geometry, usecasecontract.ItemGeometry{
			ItemID:      item.ItemID,
			Offset:      item.Offset,
			Extent:      item.Extent,
			FrameOffset: item.FrameOffset,
			FrameExtent: item.FrameExtent,
		})
	}
	return geometry
}
