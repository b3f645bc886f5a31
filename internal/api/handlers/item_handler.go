package handlers

import (
	"encoding/json"
	"io"
	"strconv"

	itemapp "secondhand_market/internal/item/app"
	itemdomain "secondhand_market/internal/item/domain"
	"secondhand_market/pkg/database"
	"secondhand_market/pkg/logger"
	"secondhand_market/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ItemHandler 处理商品相关的 HTTP 请求
type ItemHandler struct {
	itemUC  itemapp.ItemUseCase
	storage *database.MinIOClient
}

// NewItemHandler 创建新的 ItemHandler
func NewItemHandler(itemUC itemapp.ItemUseCase, storage *database.MinIOClient) *ItemHandler {
	return &ItemHandler{
		itemUC:  itemUC,
		storage: storage,
	}
}

func itemIDParam(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// Create 上架商品
// @Summary Create listing
// @Description Multipart: "item" JSON part plus "images" files
// @Tags Items
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Body "created"
// @Router /items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Of(c, response.ErrNotAuthenticated, nil)
	}

	var item itemdomain.Item
	if err := json.Unmarshal([]byte(c.FormValue("item")), &item); err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}
	item.ID = 0
	item.SellerID = userID

	var uploads []itemdomain.UploadImageReq
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["images"] {
			f, err := fh.Open()
			if err != nil {
				logger.Log.Errorf("image open error:", err)
				continue
			}
			defer f.Close()
			uploads = append(uploads, itemdomain.UploadImageReq{
				FileName:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				File:        f,
			})
		}
	}

	created, err := h.itemUC.CreateItem(c.Context(), &item, uploads)
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.SuccessCreated, created)
}

// Get 取得商品
// @Summary Get listing
// @Description Bumps the view count and resolves image urls
// @Tags Items
// @Produce json
// @Success 200 {object} response.Body "item detail"
// @Failure 404 {object} response.Body "item not found"
// @Router /items/{id} [get]
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	itemID, err := itemIDParam(c)
	if err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	detail, err := h.itemUC.GetItem(c.Context(), itemID)
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, detail)
}

// Update 修改商品
// @Summary Update listing
// @Tags Items
// @Accept json
// @Produce json
// @Success 200 {object} response.Body "updated"
// @Failure 403 {object} response.Body "not the seller"
// @Router /items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Of(c, response.ErrNotAuthenticated, nil)
	}
	itemID, err := itemIDParam(c)
	if err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	var item itemdomain.Item
	if err := c.BodyParser(&item); err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}
	item.ID = itemID

	if err := h.itemUC.UpdateItem(c.Context(), userID, &item); err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, item)
}

// Delete 下架商品
// @Summary Delete listing
// @Tags Items
// @Produce json
// @Success 200 {object} response.Body "deleted"
// @Failure 403 {object} response.Body "not the seller"
// @Router /items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Of(c, response.ErrNotAuthenticated, nil)
	}
	itemID, err := itemIDParam(c)
	if err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	if err := h.itemUC.DeleteItem(c.Context(), userID, itemID); err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, nil)
}

// Search 搜寻商品
// @Summary Search listings
// @Tags Items
// @Param keyword query string false "fuzzy title/description match"
// @Param categoryId query int false "category filter"
// @Produce json
// @Success 200 {object} response.Body "items"
// @Router /items [get]
func (h *ItemHandler) Search(c *fiber.Ctx) error {
	keyword := c.Query("keyword")
	var categoryID *int64
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return response.Of(c, response.ErrInvalidParams, nil)
		}
		categoryID = &id
	}

	items, err := h.itemUC.SearchItems(c.Context(), keyword, categoryID)
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, items)
}

// Like 收藏商品
// @Summary Like listing
// @Tags Items
// @Produce json
// @Success 200 {object} response.Body "liked"
// @Router /items/{id}/like [post]
func (h *ItemHandler) Like(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Of(c, response.ErrNotAuthenticated, nil)
	}
	itemID, err := itemIDParam(c)
	if err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	if err := h.itemUC.LikeItem(c.Context(), itemID, userID); err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, nil)
}

// Unlike 取消收藏
// @Summary Unlike listing
// @Tags Items
// @Produce json
// @Success 200 {object} response.Body "unliked"
// @Router /items/{id}/like [delete]
func (h *ItemHandler) Unlike(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Of(c, response.ErrNotAuthenticated, nil)
	}
	itemID, err := itemIDParam(c)
	if err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	if err := h.itemUC.UnlikeItem(c.Context(), itemID, userID); err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, nil)
}

// LikedItems 收藏清单
// @Summary Listings the current user liked
// @Tags Items
// @Produce json
// @Success 200 {object} response.Body "items"
// @Router /user/likes [get]
func (h *ItemHandler) LikedItems(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Of(c, response.ErrNotAuthenticated, nil)
	}

	items, err := h.itemUC.GetLikedItems(c.Context(), userID)
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, items)
}

// LikeCount 收藏数量
// @Summary Like count of one listing
// @Tags Items
// @Produce json
// @Success 200 {object} response.Body "count"
// @Router /items/{id}/like/count [get]
func (h *ItemHandler) LikeCount(c *fiber.Ctx) error {
	itemID, err := itemIDParam(c)
	if err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	count, err := h.itemUC.GetLikeCount(c.Context(), itemID)
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, fiber.Map{"count": count})
}

// Categories 分类清单
// @Summary List categories
// @Tags Items
// @Produce json
// @Success 200 {object} response.Body "categories"
// @Router /categories [get]
func (h *ItemHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.itemUC.GetCategories(c.Context())
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, categories)
}

// CategoryCreate 新增分类
// @Summary Create category
// @Tags Items
// @Accept json
// @Produce json
// @Success 201 {object} response.Body "created"
// @Router /categories [post]
func (h *ItemHandler) CategoryCreate(c *fiber.Ctx) error {
	type request struct {
		Name string `json:"name"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	category, err := h.itemUC.CreateCategory(c.Context(), req.Name)
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.SuccessCreated, category)
}

// CategoryUpdate 修改分类
// @Summary Rename category
// @Tags Items
// @Accept json
// @Produce json
// @Success 200 {object} response.Body "updated"
// @Router /categories/{id} [put]
func (h *ItemHandler) CategoryUpdate(c *fiber.Ctx) error {
	categoryID, err := itemIDParam(c)
	if err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	type request struct {
		Name string `json:"name"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	category, err := h.itemUC.UpdateCategory(c.Context(), categoryID, req.Name)
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, category)
}

// CategoryDelete 删除分类
// @Summary Delete category
// @Tags Items
// @Produce json
// @Success 200 {object} response.Body "deleted"
// @Router /categories/{id} [delete]
func (h *ItemHandler) CategoryDelete(c *fiber.Ctx) error {
	categoryID, err := itemIDParam(c)
	if err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	if err := h.itemUC.DeleteCategory(c.Context(), categoryID); err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, nil)
}

// Image 串流图片
// @Summary Stream a stored image
// @Tags Items
// @Produce octet-stream
// @Success 200 {string} string "image bytes"
// @Failure 404 {object} response.Body "not found"
// @Router /images/{name} [get]
func (h *ItemHandler) Image(c *fiber.Ctx) error {
	name := c.Params("*")
	if name == "" {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	obj, err := h.storage.GetObject(c.Context(), name)
	if err != nil {
		return response.Of(c, response.ErrItemNotFound, nil)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return response.Of(c, response.ErrSystem, nil)
	}
	return c.Send(data)
}
