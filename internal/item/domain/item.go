package domain

import (
	"io"
	"time"
)

// ItemStatus definition item sale status
type ItemStatus string

const (
	// ItemSelling item is open for chat and purchase
	ItemSelling ItemStatus = "selling"
	// ItemReserved seller promised the item to one buyer
	ItemReserved ItemStatus = "reserved"
	// ItemSold item is gone
	ItemSold ItemStatus = "sold"
)

// Item 定義商品模型
type Item struct {
	ID          int64 `gorm:"primaryKey"`
	SellerID    int64 `gorm:"index"`
	CategoryID  *int64
	Title       string
	Description string
	Price       int64
	Status      string
	ViewCount   uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category one level of the item taxonomy
type Category struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

// ItemLike one user liking one item, at most once
type ItemLike struct {
	ItemID    int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

// ItemImage points at the stored object, Position orders the gallery
type ItemImage struct {
	ID        int64 `gorm:"primaryKey"`
	ItemID    int64 `gorm:"index"`
	ObjectKey string
	Position  int
}

// UploadImageReq usecase upload image request
type UploadImageReq struct {
	FileName    string
	ContentType string
	Size        int64
	File        io.Reader
}

// ItemDetail usecase get item response, image urls are presigned
type ItemDetail struct {
	Item      Item     `json:"item"`
	ImageURLs []string `json:"imageUrls"`
	LikeCount int64    `json:"likeCount"`
}
