package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/middlewares"
	"github.com/Kariqs/digistore-api/models"
	"github.com/Kariqs/digistore-api/services"
	"github.com/Kariqs/digistore-api/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxUploadSize = 50 << 20

type productData struct {
	Title       string `json:"title" binding:"required"`
	Price       string `json:"price" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category"`
}

func (d *productData) normalize() error {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return fmt.Errorf("%w: title is required", services.ErrInvalidInput)
	}
	price, err := services.ParsePrice(d.Price)
	if err != nil {
		return err
	}
	d.Price = services.FormatAmount(services.NormalizePrice(price))
	return nil
}

// parseProductData reads the JSON "data" field of a multipart product form.
func parseProductData(ctx *gin.Context) (*productData, error) {
	raw := ctx.PostForm("data")
	if raw == "" {
		return nil, fmt.Errorf("%w: data is required", services.ErrInvalidInput)
	}
	var data productData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("%w: data must be JSON", services.ErrInvalidInput)
	}
	if err := data.normalize(); err != nil {
		return nil, err
	}
	return &data, nil
}

// uploadFormFile uploads the named multipart field. An absent field returns
// an empty URL and no error.
func uploadFormFile(ctx *gin.Context, field, folder string) (string, error) {
	header, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", services.ErrInvalidInput, field, err)
	}
	if header.Size == 0 {
		return "", nil
	}
	if initializers.Storage == nil {
		return "", errors.New("object storage is not configured")
	}

	f, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", header.Filename, err)
	}
	defer f.Close()

	url, err := initializers.Storage.Upload(ctx.Request.Context(), folder, header.Filename, header.Header.Get("Content-Type"), f)
	if err != nil {
		return "", err
	}
	initializers.Logger.Info("File uploaded", zap.String("field", field), zap.String("url", url))
	return url, nil
}

func CreateProduct(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxUploadSize)

	data, err := parseProductData(ctx)
	if err != nil {
		respondWithError(ctx, "Invalid product data", err)
		return
	}
	imageURL, err := uploadFormFile(ctx, "image", storage.FolderImages)
	if err != nil {
		respondWithError(ctx, "Failed to upload image", err)
		return
	}
	if imageURL == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "Product image is required")
		return
	}
	fileURL, err := uploadFormFile(ctx, "file", storage.FolderFiles)
	if err != nil {
		respondWithError(ctx, "Failed to upload file", err)
		return
	}

	product := models.Product{
		Title:       data.Title,
		Price:       data.Price,
		Description: data.Description,
		Category:    data.Category,
		ImageUrl:    imageURL,
		CreatedBy:   identity.Email,
	}
	if fileURL != "" {
		product.FileUrl = &fileURL
	}
	if err := initializers.DB.WithContext(ctx.Request.Context()).Create(&product).Error; err != nil {
		respondWithError(ctx, "Failed to create product", err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, product)
}

// GetProducts serves a single product (?id=), a seller's listing (?email=)
// or the paginated catalogue filtered by ?search= and ?category=.
func GetProducts(ctx *gin.Context) {
	db := initializers.DB.WithContext(ctx.Request.Context())

	if idStr := ctx.Query("id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product ID")
			return
		}
		var product models.Product
		if err := db.Preload("User").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
				return
			}
			respondWithError(ctx, "Unable to retrieve product", err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, product)
		return
	}

	query := db.Model(&models.Product{})
	if email := ctx.Query("email"); email != "" {
		query = query.Where("created_by = ?", email)
	}
	if search := strings.TrimSpace(ctx.Query("search")); search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if category := ctx.Query("category"); category != "" && category != "All" {
		query = query.Where("category = ?", category)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondWithError(ctx, "Unable to fetch products", err)
		return
	}

	page := pageFromQuery(ctx, 12)
	var products []models.Product
	err := query.Preload("User").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&products).Error
	if err != nil {
		respondWithError(ctx, "Unable to fetch products", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"products": products,
		"metadata": pageMetadata(page, total),
	})
}

func GetFeaturedProducts(ctx *gin.Context) {
	var products []models.Product
	err := initializers.DB.WithContext(ctx.Request.Context()).
		Preload("User").
		Where("is_featured = ?", true).
		Order("id DESC").
		Limit(6).
		Find(&products).Error
	if err != nil {
		respondWithError(ctx, "Unable to fetch featured products", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, products)
}

func loadProduct(ctx *gin.Context, id uint64) (*models.Product, bool) {
	var product models.Product
	if err := initializers.DB.WithContext(ctx.Request.Context()).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			respondWithError(ctx, "Failed to load product", err)
		}
		return nil, false
	}
	return &product, true
}

// UpdateProduct lets the seller edit their product. New image or file parts
// replace the stored URLs.
func UpdateProduct(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxUploadSize)

	id, err := strconv.ParseUint(ctx.PostForm("id"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Product ID is required")
		return
	}
	product, ok := loadProduct(ctx, id)
	if !ok {
		return
	}
	if product.CreatedBy != identity.Email {
		sendErrorResponse(ctx, http.StatusForbidden, "You can only edit your own products")
		return
	}

	data, err := parseProductData(ctx)
	if err != nil {
		respondWithError(ctx, "Invalid product data", err)
		return
	}
	updates := map[string]any{
		"title":       data.Title,
		"price":       data.Price,
		"description": data.Description,
		"category":    data.Category,
	}
	imageURL, err := uploadFormFile(ctx, "image", storage.FolderImages)
	if err != nil {
		respondWithError(ctx, "Failed to upload image", err)
		return
	}
	if imageURL != "" {
		updates["image_url"] = imageURL
	}
	fileURL, err := uploadFormFile(ctx, "file", storage.FolderFiles)
	if err != nil {
		respondWithError(ctx, "Failed to upload file", err)
		return
	}
	if fileURL != "" {
		updates["file_url"] = fileURL
	}

	if err := initializers.DB.WithContext(ctx.Request.Context()).Model(product).Updates(updates).Error; err != nil {
		respondWithError(ctx, "Failed to update product", err)
		return
	}
	product, ok = loadProduct(ctx, id)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, product)
}

func SetProductFeatured(ctx *gin.Context) {
	var body struct {
		ID         uint `json:"id" binding:"required"`
		IsFeatured bool `json:"isFeatured"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	product, ok := loadProduct(ctx, uint64(body.ID))
	if !ok {
		return
	}
	if err := initializers.DB.WithContext(ctx.Request.Context()).Model(product).Update("is_featured", body.IsFeatured).Error; err != nil {
		respondWithError(ctx, "Failed to update product", err)
		return
	}
	product.IsFeatured = body.IsFeatured
	sendJSONResponse(ctx, http.StatusOK, product)
}

// DeleteProduct soft-deletes so past orders keep their product details.
func DeleteProduct(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(ctx.Query("id"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Product ID is required")
		return
	}
	product, ok := loadProduct(ctx, id)
	if !ok {
		return
	}
	if product.CreatedBy != identity.Email {
		isAdmin, err := middlewares.IsAdmin(ctx, identity.Email)
		if err != nil {
			respondWithError(ctx, "Failed to check permissions", err)
			return
		}
		if !isAdmin {
			sendErrorResponse(ctx, http.StatusForbidden, "You can only delete your own products")
			return
		}
	}

	err = initializers.DB.WithContext(ctx.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(product).Error
	})
	if err != nil {
		respondWithError(ctx, "Failed to delete product", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
